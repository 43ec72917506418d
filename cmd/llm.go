package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/learncoach/internal/llm"
	"github.com/abhisek/learncoach/internal/store"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect LLM request/response events",
}

// withStore opens the configured store for the duration of fn.
func withStore(cmd *cobra.Command, fn func(s *store.Store) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s)
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM events",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")
		student, _ := cmd.Flags().GetString("student")
		since, _ := cmd.Flags().GetDuration("since")

		opts := store.QueryOpts{Limit: limit, Purpose: purpose, StudentID: student}
		if since > 0 {
			opts.From = time.Now().Add(-since)
		}

		return withStore(cmd, func(s *store.Store) error {
			events, err := s.EventRepo().QueryLLMEvents(cmd.Context(), opts)
			if err != nil {
				return fmt.Errorf("query events: %w", err)
			}

			w := cmd.OutOrStdout()
			if len(events) == 0 {
				fmt.Fprintln(w, "No LLM events found.")
				return nil
			}

			const row = "%-8s  %-16s  %-16s  %-12s  %-24s  %6v  %6v  %6v  %s\n"
			fmt.Fprintf(w, row, "ID", "When", "Purpose", "Student", "Model", "In", "Out", "Ms", "OK")
			fmt.Fprintln(w, strings.Repeat("─", 112))
			for _, e := range events {
				ok := "yes"
				if !e.Success {
					ok = "FAIL"
				}
				fmt.Fprintf(w, row,
					truncate(e.ID, 8),
					e.Timestamp.Local().Format("01-02 15:04:05"),
					truncate(e.Purpose, 16),
					truncate(orDash(e.StudentID), 12),
					truncate(e.Model, 24),
					e.InputTokens, e.OutputTokens, e.LatencyMs,
					ok,
				)
			}
			return nil
		})
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "View full request/response for an LLM event (an id prefix is enough)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(s *store.Store) error {
			e, err := s.EventRepo().GetLLMEvent(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("get event: %w", err)
			}

			w := cmd.OutOrStdout()
			sep := strings.Repeat("─", 60)

			fmt.Fprintf(w, "ID:        %s\n", e.ID)
			fmt.Fprintf(w, "Time:      %s\n", e.Timestamp.Local().Format("2006-01-02 15:04:05"))
			fmt.Fprintf(w, "Provider:  %s\n", e.Provider)
			fmt.Fprintf(w, "Model:     %s\n", e.Model)
			fmt.Fprintf(w, "Purpose:   %s\n", e.Purpose)
			if e.StudentID != "" {
				fmt.Fprintf(w, "Student:   %s\n", e.StudentID)
			}
			fmt.Fprintf(w, "Tokens:    %d in / %d out\n", e.InputTokens, e.OutputTokens)
			if cost, ok := llm.EstimateCost(e.Model, e.InputTokens, e.OutputTokens); ok {
				fmt.Fprintf(w, "Cost:      %s\n", formatCost(cost))
			}
			fmt.Fprintf(w, "Latency:   %dms\n", e.LatencyMs)
			fmt.Fprintf(w, "Success:   %v\n", e.Success)
			if e.ErrorMessage != "" {
				fmt.Fprintf(w, "Error:     %s\n", e.ErrorMessage)
			}

			for _, part := range []struct{ title, body string }{
				{"REQUEST", e.RequestBody},
				{"RESPONSE", e.ResponseBody},
			} {
				fmt.Fprintln(w)
				fmt.Fprintln(w, sep)
				fmt.Fprintln(w, part.title)
				fmt.Fprintln(w, sep)
				if part.body != "" {
					fmt.Fprintln(w, part.body)
				} else {
					fmt.Fprintln(w, "(not captured)")
				}
			}
			return nil
		})
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregated LLM token usage and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(s *store.Store) error {
			ctx := cmd.Context()
			w := cmd.OutOrStdout()

			stats, err := s.EventRepo().LLMUsageByPurpose(ctx)
			if err != nil {
				return fmt.Errorf("query usage: %w", err)
			}
			if len(stats) == 0 {
				fmt.Fprintln(w, "No LLM usage recorded yet.")
				return nil
			}

			fmt.Fprintln(w, "Usage by Purpose")
			fmt.Fprintln(w, strings.Repeat("─", 82))
			fmt.Fprintf(w, "%-18s  %6s  %6s  %10s  %10s  %10s  %8s\n",
				"Purpose", "Calls", "Failed", "Input", "Output", "Total", "Avg Ms")
			fmt.Fprintln(w, strings.Repeat("─", 82))

			var totalCalls, totalFailed, totalIn, totalOut int
			for _, st := range stats {
				fmt.Fprintf(w, "%-18s  %6d  %6d  %10d  %10d  %10d  %8d\n",
					truncate(st.Purpose, 18), st.Calls, st.Failures, st.InputTokens, st.OutputTokens,
					st.InputTokens+st.OutputTokens, st.AvgLatencyMs)
				totalCalls += st.Calls
				totalFailed += st.Failures
				totalIn += st.InputTokens
				totalOut += st.OutputTokens
			}
			fmt.Fprintln(w, strings.Repeat("─", 82))
			fmt.Fprintf(w, "%-18s  %6d  %6d  %10d  %10d  %10d\n",
				"TOTAL", totalCalls, totalFailed, totalIn, totalOut, totalIn+totalOut)

			modelUsage, err := s.EventRepo().LLMUsageByModel(ctx)
			if err != nil {
				return fmt.Errorf("query model usage: %w", err)
			}
			if len(modelUsage) == 0 {
				return nil
			}

			fmt.Fprintln(w)
			fmt.Fprintln(w, "Estimated Cost (USD)")
			fmt.Fprintln(w, strings.Repeat("─", 72))
			fmt.Fprintf(w, "%-32s  %6s  %10s  %10s  %10s\n", "Model", "Calls", "Input", "Output", "Cost")
			fmt.Fprintln(w, strings.Repeat("─", 72))

			var totalCost float64
			var unknown []string
			for _, mu := range modelUsage {
				c, ok := llm.EstimateCost(mu.Model, mu.InputTokens, mu.OutputTokens)
				cost := "?"
				if ok {
					totalCost += c
					cost = formatCost(c)
				} else {
					unknown = append(unknown, mu.Model)
				}
				fmt.Fprintf(w, "%-32s  %6d  %10d  %10d  %10s\n",
					truncate(mu.Model, 32), mu.Calls, mu.InputTokens, mu.OutputTokens, cost)
			}

			fmt.Fprintln(w, strings.Repeat("─", 72))
			label := "TOTAL"
			if len(unknown) > 0 {
				label = "TOTAL (partial)"
			}
			fmt.Fprintf(w, "%-32s  %6s  %10s  %10s  %10s\n", label, "", "", "", formatCost(totalCost))
			if len(unknown) > 0 {
				fmt.Fprintf(w, "\nPricing unavailable for: %s\n", strings.Join(unknown, ", "))
			}
			return nil
		})
	},
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (e.g. learning_path, session_analysis)")
	llmListCmd.Flags().String("student", "", "Only calls made for this student id")
	llmListCmd.Flags().Duration("since", 0, "Only events newer than this, e.g. 24h")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmViewCmd)
	llmCmd.AddCommand(llmStatsCmd)
}
