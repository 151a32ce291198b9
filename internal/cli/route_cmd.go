package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nikoq/switchboard/internal/registry"
)

// parseContext decodes the --context flag (a JSON object) into a map.
func parseContext(raw string) (map[string]any, error) {
	if raw == "" {
		return nil, nil
	}
	var qctx map[string]any
	if err := json.Unmarshal([]byte(raw), &qctx); err != nil {
		return nil, fmt.Errorf("invalid --context JSON: %w", err)
	}
	return qctx, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newRouteCmd() *cobra.Command {
	var rawContext string

	cmd := &cobra.Command{
		Use:   "route <query>",
		Short: "Route a query to the most competent agent(s)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			qctx, err := parseContext(rawContext)
			if err != nil {
				return err
			}

			a, err := buildApp(false)
			if err != nil {
				return err
			}
			defer a.Close()

			result := a.rt.Route(cmd.Context(), strings.Join(args, " "), qctx)
			return printJSON(result)
		},
	}

	cmd.Flags().StringVar(&rawContext, "context", "", "query context as a JSON object")
	return cmd
}

func newConsultCmd() *cobra.Command {
	var (
		rawContext     string
		timeoutSeconds int
		noCache        bool
	)

	cmd := &cobra.Command{
		Use:   "consult <agent> <query>",
		Short: "Consult a specific agent directly",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			qctx, err := parseContext(rawContext)
			if err != nil {
				return err
			}

			a, err := buildApp(false)
			if err != nil {
				return err
			}
			defer a.Close()

			opts := registry.ConsultOptions{
				Timeout: time.Duration(timeoutSeconds) * time.Second,
				NoCache: noCache,
				From:    "cli",
			}
			result := a.reg.Consult(cmd.Context(), args[0], strings.Join(args[1:], " "), qctx, opts)
			return printJSON(result)
		},
	}

	cmd.Flags().StringVar(&rawContext, "context", "", "query context as a JSON object")
	cmd.Flags().IntVar(&timeoutSeconds, "timeout", 0, "per-attempt timeout in seconds (0 uses the configured default)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the result cache")
	return cmd
}

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded consultations and activities",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(false)
			if err != nil {
				return err
			}
			defer a.Close()

			if a.reports == nil {
				return fmt.Errorf("reporting store is disabled (reporting.store: %q)", a.cfg.Reporting.Store)
			}

			consultations, err := a.reports.RecentConsultations("", limit)
			if err != nil {
				return err
			}
			activities, err := a.reports.RecentActivities("", limit)
			if err != nil {
				return err
			}

			return printJSON(map[string]any{
				"consultations": consultations,
				"activities":    activities,
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum entries per section")
	return cmd
}
