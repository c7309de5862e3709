// Package commands holds the clubhub command line: the API server and a set
// of client commands that talk to a running server.
package commands

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/farellandr/clubhub/config"
	"github.com/farellandr/clubhub/internal/gateway"
	"github.com/farellandr/clubhub/internal/store"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	configPath string
	apiURL     string
	apiToken   string
)

var rootCmd = &cobra.Command{
	Use:           "clubhub",
	Short:         "Club events, gallery and members",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (eg: ./config.yaml or .env)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "API base URL for client commands (overrides api_base_url)")
	rootCmd.PersistentFlags().StringVar(&apiToken, "token", "", "bearer token for client commands (overrides api_token)")
}

// loadConfig reads the configuration and sets up logging.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if apiURL != "" {
		cfg.APIBaseURL = apiURL
	}
	if apiToken != "" {
		cfg.APIToken = apiToken
	}
	config.InitLogger(cfg)
	return cfg, nil
}

// newStore builds the client side: a gateway bound to the configured API and
// a store whose notifications are printed to w.
func newStore(cfg *config.Config, w io.Writer) (*store.Store, func()) {
	client := gateway.New(cfg.APIBaseURL, gateway.WithToken(cfg.APIToken), gateway.WithTimeout(cfg.APITimeout))
	s := store.New(client)

	var mu sync.Mutex
	seen := map[string]bool{}
	unsubscribe := s.Subscribe(func(state store.State) {
		mu.Lock()
		defer mu.Unlock()
		for _, n := range state.Notifications {
			if seen[n.ID] {
				continue
			}
			seen[n.ID] = true
			if n.Kind == store.NotifyError {
				logrus.WithField("kind", n.Kind).Debug(n.Message)
				continue
			}
			fmt.Fprintf(w, "[%s] %s\n", n.Kind, n.Message)
		}
	})

	return s, func() {
		unsubscribe()
		s.Close()
	}
}
