package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nikoq/switchboard/internal/config"
	"github.com/nikoq/switchboard/internal/version"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show switchboard status and configuration summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("Switchboard %s (commit %s)\n\n", version.Version, version.Commit)

			fmt.Printf("Config:  %s\n", paths.Config)
			fmt.Printf("Data:    %s\n", paths.Data)
			fmt.Printf("Logs:    %s\n", paths.Logs)
			fmt.Println()

			cfg, err := config.Load(paths.Config)
			if err != nil {
				if os.IsNotExist(err) {
					fmt.Println("Config:  not found (using defaults)")
				} else {
					fmt.Printf("Config:  error loading: %v\n", err)
				}
				return nil
			}

			fmt.Printf("Registry: caching=%v retries=%d timeout=%ds cache=%d\n",
				cfg.Registry.CachingEnabled(), cfg.Registry.Retries(),
				cfg.Registry.DefaultTimeoutSeconds, cfg.Registry.CacheMaxSize)
			fmt.Printf("Router:   maxAgents=%d\n", cfg.Router.MaxAgents)
			auth := "off"
			if cfg.Gateway.Auth.Token != "" {
				auth = "token"
			}
			fmt.Printf("Gateway:  port=%d bind=%s auth=%s\n", cfg.Gateway.Port, cfg.Gateway.Bind, auth)
			fmt.Printf("Reports:  store=%s\n", cfg.Reporting.Store)
			fmt.Printf("Agents:   %s\n", strings.Join(cfg.Agents.Builtins, ", "))

			if issues := config.Validate(&cfg); len(issues) > 0 {
				fmt.Printf("\nValidation issues (%d):\n", len(issues))
				for _, issue := range issues {
					fmt.Printf("  - %s: %s\n", issue.Path, issue.Message)
				}
			}
			return nil
		},
	}
}
