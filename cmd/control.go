package cmd

import (
	"strings"

	"github.com/dimplex-community/dimctl/client"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Wire values for the Boost appliance mode.
const (
	boostMode        = 16
	boostStatusOn    = 1
	defaultBoostTemp = 25.0
)

// setCmd groups the remote-control operations of an appliance.
func setCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Control an appliance",
	}

	cmd.AddCommand(
		setModeCmd(),
		setBoostCmd(),
		setEcoStartCmd(),
		setOpenWindowCmd(),
	)

	return cmd
}

// setModeCmd changes the operation mode of an appliance.
func setModeCmd() *cobra.Command {
	var hubID, applianceID, mode string

	cmd := &cobra.Command{
		Use:   "mode",
		Short: "Set the operation mode of an appliance",
		Long:  "Set the operation mode of an appliance; one of: timer, manual, frost, off",
		Run: func(cmd *cobra.Command, args []string) {
			if !isValidTimerMode(mode) {
				cmd.PrintErrf("Error: Invalid mode %q. Valid modes are: timer, manual, frost, off.\n", mode)
				return
			}

			sess := newSession()
			if err := sess.ensureFresh(cmd.Context()); err != nil {
				cmd.PrintErrln("Error: Failed to authenticate. Please run `dimctl login` and try again.")
				return
			}

			if err := sess.api.SetTimerMode(cmd.Context(), hubID, applianceID, timerModes[strings.ToLower(mode)]); err != nil {
				log.Error().Err(err).Msgf("Failed to set mode %q for appliance %s", mode, applianceID)
				cmd.PrintErrln("Error: Failed to set the appliance mode. Please check the logs for details.")
				return
			}
			cmd.Printf("Appliance mode set to %s.\n", strings.ToLower(mode))
		},
	}

	addTargetFlags(cmd, &hubID, &applianceID)
	cmd.Flags().StringVarP(&mode, "mode", "m", "", "Mode to set [timer, manual, frost, off]")
	markRequired(cmd, "mode")

	return cmd
}

// setBoostCmd activates the Boost mode of an appliance.
func setBoostCmd() *cobra.Command {
	var hubID, applianceID string
	var temperature float64

	cmd := &cobra.Command{
		Use:   "boost",
		Short: "Activate the Boost mode of an appliance",
		Run: func(cmd *cobra.Command, args []string) {
			sess := newSession()
			if err := sess.ensureFresh(cmd.Context()); err != nil {
				cmd.PrintErrln("Error: Failed to authenticate. Please run `dimctl login` and try again.")
				return
			}

			settings := client.NewApplianceModeSettings(boostMode, boostStatusOn, temperature)
			if err := sess.api.SetApplianceMode(cmd.Context(), hubID, []string{applianceID}, settings); err != nil {
				log.Error().Err(err).Msgf("Failed to activate boost for appliance %s", applianceID)
				cmd.PrintErrln("Error: Failed to activate boost. Please check the logs for details.")
				return
			}
			cmd.Printf("Boost activated at %.1f°C.\n", temperature)
		},
	}

	addTargetFlags(cmd, &hubID, &applianceID)
	cmd.Flags().Float64VarP(&temperature, "temp", "c", defaultBoostTemp, "Boost temperature in °C")

	return cmd
}

// setEcoStartCmd toggles the Eco Start feature of an appliance.
func setEcoStartCmd() *cobra.Command {
	return toggleCmd("eco-start", "Eco Start",
		func(sess *session, cmd *cobra.Command, hubID string, applianceIDs []string, enable bool) error {
			return sess.api.SetEcoStart(cmd.Context(), hubID, applianceIDs, enable)
		})
}

// setOpenWindowCmd toggles the open-window detection of an appliance.
func setOpenWindowCmd() *cobra.Command {
	return toggleCmd("open-window", "Open-window detection",
		func(sess *session, cmd *cobra.Command, hubID string, applianceIDs []string, enable bool) error {
			return sess.api.SetOpenWindowDetection(cmd.Context(), hubID, applianceIDs, enable)
		})
}

// toggleCmd builds an on/off subcommand around one of the feature toggles.
func toggleCmd(use, label string, toggle func(sess *session, cmd *cobra.Command, hubID string, applianceIDs []string, enable bool) error) *cobra.Command {
	var hubID, applianceID string
	var off bool

	cmd := &cobra.Command{
		Use:   use,
		Short: "Turn " + label + " on or off for an appliance",
		Run: func(cmd *cobra.Command, args []string) {
			sess := newSession()
			if err := sess.ensureFresh(cmd.Context()); err != nil {
				cmd.PrintErrln("Error: Failed to authenticate. Please run `dimctl login` and try again.")
				return
			}

			enable := !off
			if err := toggle(sess, cmd, hubID, []string{applianceID}, enable); err != nil {
				log.Error().Err(err).Msgf("Failed to toggle %s for appliance %s", label, applianceID)
				cmd.PrintErrf("Error: Failed to change the %s setting. Please check the logs for details.\n", label)
				return
			}
			state := "enabled"
			if off {
				state = "disabled"
			}
			cmd.Printf("%s %s.\n", label, state)
		},
	}

	addTargetFlags(cmd, &hubID, &applianceID)
	cmd.Flags().BoolVar(&off, "off", false, "Turn the feature off instead of on")

	return cmd
}

// addTargetFlags adds the required hub and appliance flags shared by the
// control subcommands.
func addTargetFlags(cmd *cobra.Command, hubID, applianceID *string) {
	cmd.Flags().StringVarP(hubID, "hub", "u", "", "ID of the hub the appliance belongs to")
	cmd.Flags().StringVarP(applianceID, "appliance", "a", "", "ID of the appliance to control")
	markRequired(cmd, "hub")
	markRequired(cmd, "appliance")
}

func markRequired(cmd *cobra.Command, flag string) {
	if err := cmd.MarkFlagRequired(flag); err != nil {
		log.Error().Err(err).Msgf("Failed to mark %q flag as required", flag)
	}
}
