package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// whoamiCmd shows the profile of the logged-in user.
func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user account",
		Run: func(cmd *cobra.Command, args []string) {
			sess := newSession()
			if err := sess.ensureFresh(cmd.Context()); err != nil {
				cmd.PrintErrln("Error: Failed to authenticate. Please run `dimctl login` and try again.")
				return
			}

			user, err := sess.api.GetUserContext(cmd.Context())
			if err != nil {
				log.Error().Err(err).Msg("Failed to fetch the user context.")
				cmd.PrintErrln("Error: Failed to fetch the user account. Please check the logs for details.")
				return
			}

			cmd.Println("User Account:")
			cmd.Printf("ID: %s\n", user.ID)
			if user.Name != "" {
				cmd.Printf("Name: %s\n", user.Name)
			}
			if user.EmailAddress != "" {
				cmd.Printf("Email: %s\n", user.EmailAddress)
			}
		},
	}
}
