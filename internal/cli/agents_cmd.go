package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newAgentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "agents",
		Short: "List registered agents and their performance",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(false)
			if err != nil {
				return err
			}
			defer a.Close()

			for _, info := range a.reg.Describe() {
				fmt.Printf("%s\n", info.Name)
				fmt.Printf("  capabilities: %s\n", strings.Join(info.Capabilities, ", "))
				p := info.Performance
				fmt.Printf("  consultations: %d (ok %d, failed %d, rate %.2f)\n",
					p.Total, p.Successful, p.Failed, p.SuccessRate())

				if a.reports != nil {
					if stats, err := a.reports.Stats(info.Name); err == nil && stats.Total > 0 {
						fmt.Printf("  recorded: %d consultations, avg %s\n",
							stats.Total, stats.AvgDuration)
					}
				}
			}
			return nil
		},
	}
}
