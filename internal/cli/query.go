package cli

import (
	"errors"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// NewQueryCmd создаёт команду запроса сводки по регионам.
func NewQueryCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var regions []string
	var threshold float64

	cmd := &cobra.Command{
		Use:   "query [REGION...]",
		Short: "Show latency summary per region",
		Long: "Show average and p95 latency, average uptime and threshold breaches\n" +
			"for each region. Regions can be given as arguments or with --region.",
		RunE: func(cmd *cobra.Command, args []string) error {
			all := append(append([]string{}, regions...), args...)
			if len(all) == 0 {
				return errors.New("at least one region is required")
			}

			req := LatencyRequest{Regions: all}
			if cmd.Flags().Changed("threshold") {
				req.ThresholdMs = &threshold
			}

			client := clientFn()
			out := outputFn()

			result, err := client.Latency(cmd.Context(), req)
			if err != nil {
				return err
			}

			headers := []string{"REGION", "AVG_LATENCY", "P95_LATENCY", "AVG_UPTIME", "BREACHES"}
			rows := make([][]string, 0, len(result))
			var missing []string
			seen := make(map[string]bool, len(all))
			for _, region := range all {
				if seen[region] {
					continue
				}
				seen[region] = true

				s, ok := result[region]
				if !ok {
					missing = append(missing, region)
					continue
				}
				rows = append(rows, []string{
					region,
					formatFloat(s.AvgLatency),
					formatFloat(s.P95Latency),
					formatFloat(s.AvgUptime),
					strconv.Itoa(s.Breaches),
				})
			}

			out.Print(headers, rows, result)
			if len(missing) > 0 {
				out.Warn("no data for " + strings.Join(missing, ", "))
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&regions, "region", "r", nil, "Region to report on (repeatable)")
	cmd.Flags().Float64Var(&threshold, "threshold", 180, "Latency threshold in ms for breach counting")

	return cmd
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
