package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/dimplex-community/dimctl/client"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// loginCmd creates a new cobra.Command for logging into the Dimplex Control
// cloud. The default flow prints the sign-in URL and asks the user to paste
// the redirect URL back; --headless submits the credentials over plain HTTP
// and --browser drives a real browser window instead.
func loginCmd() *cobra.Command {
	var headless bool
	var browser bool
	var showWindow bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Login to the Dimplex Control cloud",
		Long:  "Login to the Dimplex Control cloud using your account email and password",
		Run: func(cmd *cobra.Command, args []string) {
			sess := newSession()

			var err error
			switch {
			case headless:
				err = credentialLogin(cmd, func(email, password string) error {
					return sess.engine.HeadlessLogin(cmd.Context(), email, password)
				})
			case browser:
				err = credentialLogin(cmd, func(email, password string) error {
					return sess.engine.BrowserLogin(cmd.Context(), email, password, !showWindow)
				})
			default:
				err = manualLogin(cmd, sess)
			}
			if err != nil {
				log.Error().Err(err).Msg("Login failed.")
				cmd.PrintErrln("Error: Failed to login to the Dimplex Control cloud.")
				return
			}

			if err := sess.persistTokens(); err != nil {
				log.Error().Err(err).Msg("Failed to save tokens.")
				cmd.PrintErrln("Error: Logged in but failed to save the tokens.")
				return
			}
			cmd.Println("Login was successful.")
		},
	}

	cmd.Flags().BoolVarP(&headless, "headless", "n", false, "Login by submitting the credentials directly, without a browser")
	cmd.Flags().BoolVarP(&browser, "browser", "b", false, "Login through an automated browser window")
	cmd.Flags().BoolVarP(&showWindow, "show", "s", false, "Show the browser window during --browser login")

	return cmd
}

// credentialLogin prompts for the account credentials and hands them to the
// given login function.
func credentialLogin(cmd *cobra.Command, login func(email, password string) error) error {
	cmd.Println("Please enter your Dimplex Control account email and password.")
	email := promptForInput("Email: ")
	password := promptForPassword("Password: ")

	if !validateCredentials(email, password) {
		return fmt.Errorf("email and password cannot be empty")
	}
	return login(email, password)
}

// manualLogin walks the user through signing in with their own browser and
// pasting the redirect URL back into the terminal.
func manualLogin(cmd *cobra.Command, sess *session) error {
	cmd.Println("Open the following URL in your browser and sign in:")
	cmd.Println()
	cmd.Println("  " + sess.engine.LoginURL())
	cmd.Println()
	cmd.Println("After signing in, the browser will try to open an address starting with")
	cmd.Println(`"msal..." and fail. Copy that address from the address bar and paste it here.`)

	input := promptForInput("Redirect URL: ")
	code, err := client.ExtractAuthCode(input)
	if err != nil {
		return err
	}
	return sess.engine.ExchangeCode(cmd.Context(), code)
}

// promptForInput prompts the user for input and returns the trimmed string.
func promptForInput(prompt string) string {
	reader := bufio.NewReader(os.Stdin)
	fmt.Print(prompt)
	input, err := reader.ReadString('\n')
	if err != nil {
		fmt.Println("Error: Failed to read input.")
		os.Exit(1)
	}
	return strings.TrimSpace(input)
}

// promptForPassword prompts the user for a password securely and returns the
// trimmed string.
func promptForPassword(prompt string) string {
	fmt.Print(prompt)
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		fmt.Println("Error: Failed to read password.")
		os.Exit(1)
	}
	fmt.Println()
	return strings.TrimSpace(string(password))
}

// validateCredentials checks if the email and password are not empty.
func validateCredentials(email, password string) bool {
	return email != "" && password != ""
}
