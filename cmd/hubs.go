package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/dimplex-community/dimctl/client"
	"github.com/dimplex-community/dimctl/db"
	"github.com/dimplex-community/dimctl/pkg/pool"
	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

// hubsCmd manages the local device catalogue: the cached hubs, zones, and
// appliances of the account.
func hubsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hubs",
		Short: "Manage the device catalogue",
	}

	cmd.AddCommand(
		listHubsCmd(),
		refreshHubsCmd(),
		infoCmd(),
		searchCmd(),
	)

	return cmd
}

// listHubsCmd shows the hubs and their appliances from the local catalogue.
func listHubsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the hubs and appliances in the catalogue",
		Run:   listHubs,
	}
}

func listHubs(cmd *cobra.Command, args []string) {
	log.Info().Msg("Listing the device catalogue...")

	ctx := cmd.Context()
	repo := db.NewCatalogueRepository(db.Db)

	hubs, err := repo.Hubs(ctx)
	if err != nil {
		cmd.PrintErrln("Error: Unable to list hubs. Please check the logs for details.")
		log.Error().Err(err).Msg("Failed to fetch hubs from the device catalogue.")
		return
	}

	if len(hubs) == 0 {
		cmd.Println("No hubs found in the catalogue. Use `dimctl hubs refresh` to update the catalogue.")
		return
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"Hub ID", "Hub Name", "Zone", "Appliance ID", "Appliance Name"})

	table.SetColMinWidth(4, 30)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoWrapText(false)
	table.SetRowLine(false)

	for _, hub := range hubs {
		appliances, err := repo.AppliancesForHub(ctx, hub.HubID)
		if err != nil {
			log.Error().Err(err).Msgf("Failed to fetch appliances for hub %s", hub.HubID)
			continue
		}
		if len(appliances) == 0 {
			table.Append([]string{hub.HubID, hub.Name, "", "", ""})
			continue
		}
		zoneNames := zoneNamesForHub(ctx, repo, hub.HubID)
		for _, appliance := range appliances {
			table.Append([]string{
				hub.HubID,
				hub.Name,
				zoneNames[appliance.ZoneID],
				appliance.ApplianceID,
				strings.ReplaceAll(appliance.FriendlyName, "\n", " "),
			})
		}
	}

	table.Render()

	log.Info().Msgf("Successfully listed %d hubs in the catalogue.", len(hubs))
}

// zoneNamesForHub maps zone ids to zone names for one hub.
func zoneNamesForHub(ctx context.Context, repo db.CatalogueRepository, hubID string) map[string]string {
	names := make(map[string]string)
	zones, err := repo.ZonesForHub(ctx, hubID)
	if err != nil {
		log.Error().Err(err).Msgf("Failed to fetch zones for hub %s", hubID)
		return names
	}
	for _, zone := range zones {
		names[zone.ZoneID] = zone.ZoneName
	}
	return names
}

// refreshHubsCmd updates the catalogue with the latest data from the account.
func refreshHubsCmd() *cobra.Command {
	var numWorkers int

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Update the catalogue with the latest data from the account",
		Run: func(cmd *cobra.Command, args []string) {
			refreshCatalogue(cmd, numWorkers)
		},
	}

	cmd.Flags().IntVarP(&numWorkers, "workers", "t", 3, "Number of workers to use for fetching hub data")
	return cmd
}

func refreshCatalogue(cmd *cobra.Command, numWorkers int) {
	log.Info().Msg("Refreshing the device catalogue...")

	if numWorkers < 1 || numWorkers > 10 {
		cmd.PrintErrln("Error: Number of workers should be between 1 and 10.")
		return
	}

	ctx := cmd.Context()
	sess := newSession()
	if err := sess.ensureFresh(ctx); err != nil {
		cmd.PrintErrln("Error: Failed to authenticate. Please run `dimctl login` and try again.")
		return
	}

	hubs, err := sess.api.GetHubs(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch the hub list.")
		cmd.PrintErrln("Error: Failed to fetch the list of hubs. Please check the logs for details.")
		return
	}
	if len(hubs) == 0 {
		cmd.Println("No hubs found in your account.")
		return
	}
	log.Info().Msgf("Found %d hubs in your account.", len(hubs))

	if err := db.EmptyCatalogue(); err != nil {
		log.Error().Err(err).Msg("Failed to empty the device catalogue.")
		cmd.PrintErrln("Error: Failed to reset the catalogue. Please check the logs for details.")
		return
	}

	bar := progressbar.NewOptions(len(hubs),
		progressbar.OptionSetDescription("Refreshing catalogue..."),
		progressbar.OptionSetWidth(20),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionClearOnFinish(),
	)

	errs := pool.Run(ctx, hubs, numWorkers, func(ctx context.Context, hub client.Hub) error {
		defer func() { _ = bar.Add(1) }()
		return cacheHub(ctx, sess, hub)
	})

	_ = bar.Finish()

	for _, err := range errs {
		log.Error().Err(err).Msg("Failed to refresh part of the catalogue.")
	}
	if len(errs) > 0 {
		cmd.PrintErrf("Refreshing finished with %d errors. Please check the logs for details.\n", len(errs))
		return
	}
	cmd.Printf("Refreshing completed successfully. There are %d hubs in the catalogue.\n", len(hubs))
}

// cacheHub stores one hub and its zones and appliances in the catalogue.
func cacheHub(ctx context.Context, sess *session, hub client.Hub) error {
	zones, err := sess.api.GetHubZones(ctx, hub.HubID)
	if err != nil {
		return fmt.Errorf("failed to fetch zones for hub %s: %w", hub.HubID, err)
	}

	rawHub, _ := json.Marshal(hub)
	if err := db.UpsertHub(db.Hub{HubID: hub.HubID, Name: hub.DisplayName(), Data: string(rawHub)}); err != nil {
		return err
	}

	for _, zone := range zones {
		rawZone, _ := json.Marshal(zone)
		record := db.Zone{
			ZoneID:   zone.ZoneID,
			HubID:    hub.HubID,
			ZoneName: zone.ZoneName,
			ZoneType: zone.ZoneType,
			Data:     string(rawZone),
		}
		if err := db.UpsertZone(record); err != nil {
			return err
		}
		for _, appliance := range zone.Appliances {
			rawAppliance, _ := json.Marshal(appliance)
			record := db.Appliance{
				ApplianceID:    appliance.ApplianceID,
				ZoneID:         zone.ZoneID,
				HubID:          hub.HubID,
				FriendlyName:   appliance.FriendlyName,
				ApplianceType:  appliance.ApplianceType,
				ApplianceModel: appliance.ApplianceModel,
				Data:           string(rawAppliance),
			}
			if err := db.UpsertAppliance(record); err != nil {
				return err
			}
		}
	}
	return nil
}

// infoCmd shows detailed information about one appliance in the catalogue.
func infoCmd() *cobra.Command {
	var applianceID string
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show information about a specific appliance",
		Run: func(cmd *cobra.Command, args []string) {
			showApplianceInfo(cmd, applianceID)
		},
	}

	cmd.Flags().StringVarP(&applianceID, "id", "i", "", "ID of the appliance to show its information")

	if err := cmd.MarkFlagRequired("id"); err != nil {
		log.Error().Err(err).Msg("Failed to mark 'id' flag as required")
	}

	return cmd
}

func showApplianceInfo(cmd *cobra.Command, applianceID string) {
	if applianceID == "" {
		cmd.PrintErrln("Error: ID of the appliance is required to fetch information.")
		return
	}

	log.Info().Msgf("Fetching info for appliance with ID=%s", applianceID)

	appliance, err := db.GetApplianceByID(applianceID)
	if err != nil {
		log.Error().Err(err).Msgf("Failed to fetch info for appliance with ID=%s", applianceID)
		cmd.PrintErrln("Error:", err)
		return
	}

	if appliance == nil {
		log.Info().Msgf("No appliance found with ID=%s", applianceID)
		cmd.Println("No appliance found with the specified ID.")
		return
	}

	cmd.Println("Appliance Information:")
	cmd.Printf("ID: %s\n", appliance.ApplianceID)
	cmd.Printf("Name: %s\n", appliance.FriendlyName)
	cmd.Printf("Type: %s\n", appliance.ApplianceType)
	cmd.Printf("Model: %s\n", appliance.ApplianceModel)
	cmd.Printf("Hub ID: %s\n", appliance.HubID)
	cmd.Printf("Zone ID: %s\n", appliance.ZoneID)
	cmd.Printf("Data: %s\n", appliance.Data)
}

// searchCmd searches the catalogue for appliances by name.
func searchCmd() *cobra.Command {
	var searchTerm string
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search for appliances in the catalogue by name",
		Run: func(cmd *cobra.Command, args []string) {
			searchAppliances(cmd, searchTerm)
		},
	}

	cmd.Flags().StringVarP(&searchTerm, "term", "t", "", "Search term; search does partial matching of the term with the appliance name")

	if err := cmd.MarkFlagRequired("term"); err != nil {
		log.Error().Err(err).Msg("Failed to mark 'term' flag as required")
	}

	return cmd
}

func searchAppliances(cmd *cobra.Command, searchTerm string) {
	if searchTerm == "" {
		cmd.PrintErrln("Error: the --term flag is required. Use `dimctl hubs search -h` for more information.")
		return
	}

	log.Info().Msgf("Searching for appliances matching name %q", searchTerm)

	appliances, err := db.SearchAppliancesByName(searchTerm)
	if err != nil {
		log.Error().Err(err).Msgf("Failed to search appliances for term %q", searchTerm)
		cmd.PrintErrln("Error:", err)
		return
	}

	if len(appliances) == 0 {
		cmd.Println("No appliances found matching the search term.")
		return
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Appliance ID", "Name", "Type", "Hub ID"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoWrapText(false)

	for _, appliance := range appliances {
		table.Append([]string{
			appliance.ApplianceID,
			appliance.FriendlyName,
			appliance.ApplianceType,
			appliance.HubID,
		})
	}

	table.Render()
}
