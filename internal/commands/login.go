package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and print an API token",
	Long: `Sign in and print an API token. Export it as API_TOKEN or pass it with
--token to run admin commands. The password may also come from
CLUBHUB_PASSWORD.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		if password == "" {
			password = os.Getenv("CLUBHUB_PASSWORD")
		}
		if email == "" || password == "" {
			return fmt.Errorf("email and password are required")
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		s, closeStore := newStore(cfg, cmd.ErrOrStderr())
		defer closeStore()

		user, err := s.Login(cmd.Context(), email, password)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "# %s <%s>, %s\n", user.Name, user.Email, user.Role)
		fmt.Fprintf(w, "export API_TOKEN=%s\n", s.Snapshot().Auth.Token)
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the user behind the configured token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.APIToken == "" {
			return fmt.Errorf("not signed in: set API_TOKEN or pass --token")
		}
		s, closeStore := newStore(cfg, cmd.ErrOrStderr())
		defer closeStore()

		user, err := s.LoadProfile(cmd.Context(), cfg.APIToken)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s <%s>\nRoll number: %s (%s, enrolled %d)\nRole: %s\n",
			user.Name, user.Email, user.RollNumber, user.Branch, user.EnrollmentYear, user.Role)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd, whoamiCmd)
	loginCmd.Flags().String("email", "", "account e-mail")
	loginCmd.Flags().String("password", "", "account password")
}
