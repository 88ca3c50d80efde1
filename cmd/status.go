package cmd

import (
	"fmt"
	"os"

	"github.com/dimplex-community/dimctl/client"
	"github.com/dimplex-community/dimctl/db"
	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// statusCmd shows the live status of the appliances of a hub.
func statusCmd() *cobra.Command {
	var hubID string
	var applianceID string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the live status of the appliances of a hub",
		Run: func(cmd *cobra.Command, args []string) {
			showStatus(cmd, hubID, applianceID)
		},
	}

	cmd.Flags().StringVarP(&hubID, "hub", "u", "", "ID of the hub to query")
	cmd.Flags().StringVarP(&applianceID, "appliance", "a", "", "Limit to one appliance ID")

	if err := cmd.MarkFlagRequired("hub"); err != nil {
		log.Error().Err(err).Msg("Failed to mark 'hub' flag as required")
	}

	return cmd
}

func showStatus(cmd *cobra.Command, hubID, applianceID string) {
	ctx := cmd.Context()
	sess := newSession()
	if err := sess.ensureFresh(ctx); err != nil {
		cmd.PrintErrln("Error: Failed to authenticate. Please run `dimctl login` and try again.")
		return
	}

	applianceIDs, err := resolveApplianceIDs(cmd, sess, hubID, applianceID)
	if err != nil {
		cmd.PrintErrln("Error:", err)
		return
	}
	if len(applianceIDs) == 0 {
		cmd.Println("No appliances found for the specified hub.")
		return
	}

	statuses, err := sess.api.GetApplianceOverview(ctx, hubID, applianceIDs)
	if err != nil {
		log.Error().Err(err).Msgf("Failed to fetch the appliance overview for hub %s", hubID)
		cmd.PrintErrln("Error: Failed to fetch the appliance status. Please check the logs for details.")
		return
	}

	names := applianceNamesForHub(hubID)
	renderStatusTable(statuses, names)
}

// resolveApplianceIDs figures out which appliances to query: the explicit
// one from the flag, the cached ones, or the ones fetched live when the
// catalogue has not been refreshed yet.
func resolveApplianceIDs(cmd *cobra.Command, sess *session, hubID, applianceID string) ([]string, error) {
	if applianceID != "" {
		return []string{applianceID}, nil
	}

	cached, err := db.GetAppliancesForHub(hubID)
	if err != nil {
		return nil, err
	}
	if len(cached) > 0 {
		ids := make([]string, 0, len(cached))
		for _, appliance := range cached {
			ids = append(ids, appliance.ApplianceID)
		}
		return ids, nil
	}

	log.Info().Msgf("No cached appliances for hub %s; fetching zones from the API.", hubID)
	zones, err := sess.api.GetHubZones(cmd.Context(), hubID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch zones for hub %s: %w", hubID, err)
	}
	var ids []string
	for _, zone := range zones {
		for _, appliance := range zone.Appliances {
			ids = append(ids, appliance.ApplianceID)
		}
	}
	return ids, nil
}

// applianceNamesForHub maps appliance ids to friendly names from the
// catalogue, best effort.
func applianceNamesForHub(hubID string) map[string]string {
	names := make(map[string]string)
	appliances, err := db.GetAppliancesForHub(hubID)
	if err != nil {
		log.Error().Err(err).Msgf("Failed to fetch appliance names for hub %s", hubID)
		return names
	}
	for _, appliance := range appliances {
		names[appliance.ApplianceID] = appliance.FriendlyName
	}
	return names
}

func renderStatusTable(statuses []client.ApplianceStatus, names map[string]string) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Appliance", "Mode", "Room °C", "Target °C", "Boost", "Eco Start", "Open Window"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoWrapText(false)

	for _, status := range statuses {
		name := names[status.ApplianceID]
		if name == "" {
			name = status.ApplianceID
		}
		table.Append([]string{
			name,
			formatMode(status.ApplianceModes),
			formatFloat(status.RoomTemperature),
			formatInt(status.ActiveSetPointTemperature),
			formatBoost(status),
			formatBool(status.EcoStartEnabled),
			formatBool(status.OpenWindowEnabled),
		})
	}

	table.Render()
}

func formatMode(mode *int) string {
	if mode == nil {
		return "-"
	}
	if name := timerModeName(*mode); name != "" {
		return name
	}
	return fmt.Sprintf("%d", *mode)
}

func formatFloat(value *float64) string {
	if value == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *value)
}

func formatInt(value *int) string {
	if value == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *value)
}

func formatBool(value *bool) string {
	if value == nil {
		return "-"
	}
	if *value {
		return "on"
	}
	return "off"
}

func formatBoost(status client.ApplianceStatus) string {
	if status.BoostDuration == nil || *status.BoostDuration == 0 {
		return "-"
	}
	if status.BoostTemperature != nil {
		return fmt.Sprintf("%.1f°C for %d min", *status.BoostTemperature, *status.BoostDuration)
	}
	return fmt.Sprintf("%d min", *status.BoostDuration)
}
