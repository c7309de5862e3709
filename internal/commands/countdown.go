package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/farellandr/clubhub/internal/derive"
	"github.com/farellandr/clubhub/internal/gateway"
	"github.com/spf13/cobra"
)

var countdownCmd = &cobra.Command{
	Use:   "countdown <id|slug>",
	Short: "Count down to the start of an event until it starts or Ctrl+C",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		interval, _ := cmd.Flags().GetDuration("interval")
		if interval <= 0 {
			return fmt.Errorf("interval must be positive")
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		client := gateway.New(cfg.APIBaseURL, gateway.WithToken(cfg.APIToken), gateway.WithTimeout(cfg.APITimeout))

		event, err := fetchEvent(cmd.Context(), client, args[0])
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		w := cmd.OutOrStdout()
		derive.Tick(ctx, event.When(), interval, func(r derive.Remaining) {
			if r.IsZero() {
				fmt.Fprintf(w, "%s has started.\n", event.Title)
				return
			}
			fmt.Fprintf(w, "%s starts in %s\n", event.Title, r)
		})
		return nil
	},
}

func init() {
	rootCmd.AddCommand(countdownCmd)
	countdownCmd.Flags().Duration("interval", 30*time.Second, "refresh interval")
}
