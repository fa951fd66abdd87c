package cmd

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/interviewer/internal/llm"
	"github.com/abhisek/interviewer/internal/store"
	"github.com/abhisek/interviewer/internal/ui/theme"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect the model calls made during interviews",
	Long: "Every model call is recorded with the interview session it served and its purpose: " +
		"answer-scoring, intro-critique or intent.",
}

var llmSessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Model usage and estimated cost per interview session",
	RunE: func(cmd *cobra.Command, _ []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		s, err := openEventStore()
		if err != nil {
			return err
		}
		defer s.Close()

		rows, err := s.EventRepo().LLMUsageBySession(cmd.Context(), "")
		if err != nil {
			return fmt.Errorf("query session usage: %w", err)
		}
		sessions := summarizeSessions(rows)
		if len(sessions) == 0 {
			fmt.Println("No model calls recorded yet.")
			return nil
		}
		if limit > 0 && len(sessions) > limit {
			sessions = sessions[:limit]
		}

		fmt.Println(theme.Title.Render("Interview sessions"))
		fmt.Printf("%-10s  %6s  %6s  %7s  %7s  %7s  %9s  %10s\n",
			"Session", "Scored", "Intro", "Intent", "Failed", "Calls", "Tokens", "Cost")
		fmt.Println(strings.Repeat("─", 80))
		for _, su := range sessions {
			fmt.Printf("%-10s  %6d  %6d  %7d  %7d  %7d  %9d  %10s\n",
				shortID(su.ID),
				su.ByPurpose[llm.PurposeAnswerScoring],
				su.ByPurpose[llm.PurposeIntroCritique],
				su.ByPurpose[llm.PurposeIntent],
				su.Failures, su.Calls, su.Tokens, su.costLabel())
		}
		fmt.Println(theme.Hint.Render("interviewer llm session <id> for the per-purpose breakdown"))
		return nil
	},
}

var llmSessionCmd = &cobra.Command{
	Use:   "session <id>",
	Short: "Per-purpose breakdown and call log for one interview session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openEventStore()
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		id := args[0]
		rows, err := s.EventRepo().LLMUsageBySession(ctx, id)
		if err != nil {
			return fmt.Errorf("query session usage: %w", err)
		}
		if len(rows) == 0 {
			return fmt.Errorf("no model calls recorded for session %s", id)
		}

		fmt.Println(theme.Title.Render("Session " + id))
		printPurposeTable(rows)

		events, err := s.EventRepo().QueryLLMEvents(ctx, store.QueryOpts{SessionID: id})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		fmt.Println()
		printEventTable(events)
		return nil
	},
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent model calls",
	RunE: func(cmd *cobra.Command, _ []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")
		sessionID, _ := cmd.Flags().GetString("session")
		if purpose != "" && !slices.Contains(llm.Purposes, llm.Purpose(purpose)) {
			return fmt.Errorf("unknown purpose %q (want one of %s)", purpose, purposeNames())
		}

		s, err := openEventStore()
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QueryLLMEvents(cmd.Context(), store.QueryOpts{
			Limit:     limit,
			Purpose:   purpose,
			SessionID: sessionID,
		})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		if len(events) == 0 {
			fmt.Println("No model calls found.")
			return nil
		}
		printEventTable(events)
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the full prompt and reply of one model call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var id int
		if _, err := fmt.Sscanf(args[0], "%d", &id); err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		s, err := openEventStore()
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.EventRepo().GetLLMEvent(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("event %d not found", id)
		}

		status := "ok"
		if !e.Success {
			status = theme.Failure.Render("failed: " + e.ErrorMessage)
		}
		fmt.Println(theme.Title.Render(fmt.Sprintf("Call %d · %s", e.ID, e.Purpose)))
		fmt.Printf("Session:  %s\n", cmp.Or(e.SessionID, "(none)"))
		fmt.Printf("Time:     %s\n", e.Timestamp.Local().Format("2006-01-02 15:04:05"))
		fmt.Printf("Model:    %s via %s\n", e.Model, e.Provider)
		fmt.Printf("Tokens:   %d in / %d out, %dms\n", e.InputTokens, e.OutputTokens, e.LatencyMs)
		fmt.Printf("Status:   %s\n", status)

		for _, part := range []struct{ title, body string }{
			{"PROMPT", e.RequestBody},
			{"REPLY", e.ResponseBody},
		} {
			fmt.Println()
			fmt.Println(theme.Hint.Render("── " + part.title + " " + strings.Repeat("─", 50)))
			fmt.Println(cmp.Or(part.body, "(not captured)"))
		}
		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Token usage and estimated cost by purpose and model",
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := openEventStore()
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		byPurpose, err := s.EventRepo().LLMUsageByPurpose(ctx)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		if len(byPurpose) == 0 {
			fmt.Println("No model calls recorded yet.")
			return nil
		}
		byModel, err := s.EventRepo().LLMUsageByModel(ctx)
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}

		fmt.Println(theme.Title.Render("Usage by purpose"))
		printPurposeTable(byPurpose)

		fmt.Println()
		fmt.Println(theme.Title.Render("Estimated cost by model (USD)"))
		var total float64
		var unpriced []string
		for _, mu := range byModel {
			c, ok := usageCost(mu)
			label := "?"
			if ok {
				total += c
				label = formatCost(c)
			} else {
				unpriced = append(unpriced, mu.Model)
			}
			fmt.Printf("%-32s  %6d calls  %10s\n", truncate(mu.Model, 32), mu.Calls, label)
		}
		fmt.Printf("%-32s  %12s  %10s\n", "TOTAL", "", formatCost(total))
		if len(unpriced) > 0 {
			fmt.Println(theme.Hint.Render("pricing unavailable for: " + strings.Join(unpriced, ", ")))
		}
		return nil
	},
}

// sessionUsage rolls the per-purpose, per-model rows of one interview
// session into a single line.
type sessionUsage struct {
	ID        string
	Calls     int
	Failures  int
	Tokens    int
	Cost      float64
	Unpriced  bool
	ByPurpose map[llm.Purpose]int
	last      int64
}

func (su sessionUsage) costLabel() string {
	if su.Unpriced {
		return formatCost(su.Cost) + "+"
	}
	return formatCost(su.Cost)
}

// summarizeSessions folds LLMUsageBySession rows into one entry per
// session, most recently active first. Calls made outside a session are
// grouped under "".
func summarizeSessions(rows []store.LLMUsageStats) []sessionUsage {
	index := map[string]int{}
	var out []sessionUsage
	for _, r := range rows {
		i, ok := index[r.SessionID]
		if !ok {
			i = len(out)
			index[r.SessionID] = i
			out = append(out, sessionUsage{ID: r.SessionID, ByPurpose: map[llm.Purpose]int{}})
		}
		su := &out[i]
		su.Calls += r.Calls
		su.Failures += r.Failures
		su.Tokens += r.InputTokens + r.OutputTokens
		su.ByPurpose[llm.Purpose(r.Purpose)] += r.Calls
		su.last = max(su.last, r.LastSequence)
		if c, ok := usageCost(r); ok {
			su.Cost += c
		} else if r.InputTokens+r.OutputTokens > 0 {
			su.Unpriced = true
		}
	}
	slices.SortStableFunc(out, func(a, b sessionUsage) int { return cmp.Compare(b.last, a.last) })
	return out
}

func usageCost(u store.LLMUsageStats) (float64, bool) {
	price := llm.LookupCost(u.Model)
	if price == nil {
		return 0, false
	}
	return price.Cost(u.InputTokens, u.OutputTokens), true
}

// printPurposeTable prints usage rows grouped by purpose, in interview order.
func printPurposeTable(rows []store.LLMUsageStats) {
	merged := map[string]store.LLMUsageStats{}
	var order []string
	for _, r := range rows {
		m, seen := merged[r.Purpose]
		if !seen {
			order = append(order, r.Purpose)
		}
		m.Purpose = r.Purpose
		m.Calls += r.Calls
		m.Failures += r.Failures
		m.InputTokens += r.InputTokens
		m.OutputTokens += r.OutputTokens
		m.AvgLatencyMs = max(m.AvgLatencyMs, r.AvgLatencyMs)
		merged[r.Purpose] = m
	}
	slices.SortStableFunc(order, func(a, b string) int {
		return cmp.Compare(purposeRank(a), purposeRank(b))
	})

	fmt.Printf("%-16s  %6s  %6s  %10s  %10s  %8s\n", "Purpose", "Calls", "Failed", "Input", "Output", "Avg ms")
	fmt.Println(strings.Repeat("─", 66))
	for _, p := range order {
		m := merged[p]
		fmt.Printf("%-16s  %6d  %6d  %10d  %10d  %8d\n",
			p, m.Calls, m.Failures, m.InputTokens, m.OutputTokens, m.AvgLatencyMs)
	}
}

func printEventTable(events []store.LLMRequestEventRecord) {
	fmt.Printf("%-5s  %-19s  %-10s  %-15s  %-28s  %6s  %6s  %6s  %s\n",
		"ID", "Timestamp", "Session", "Purpose", "Model", "In", "Out", "Ms", "OK")
	fmt.Println(strings.Repeat("─", 112))
	for _, e := range events {
		ok := "✓"
		if !e.Success {
			ok = theme.Failure.Render("✗")
		}
		fmt.Printf("%-5d  %-19s  %-10s  %-15s  %-28s  %6d  %6d  %6d  %s\n",
			e.ID,
			e.Timestamp.Local().Format("2006-01-02 15:04:05"),
			shortID(e.SessionID),
			e.Purpose,
			truncate(e.Model, 28),
			e.InputTokens, e.OutputTokens, e.LatencyMs,
			ok,
		)
	}
}

func purposeRank(p string) int {
	if i := slices.Index(llm.Purposes, llm.Purpose(p)); i >= 0 {
		return i
	}
	return len(llm.Purposes)
}

func purposeNames() string {
	names := make([]string, len(llm.Purposes))
	for i, p := range llm.Purposes {
		names[i] = string(p)
	}
	return strings.Join(names, ", ")
}

// openEventStore opens the store holding model call events.
func openEventStore() (*store.Store, error) {
	cfg, log, err := setup()
	if err != nil {
		return nil, err
	}
	_ = log.Sync()
	return openStore(cfg.Store)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmSessionsCmd.Flags().IntP("limit", "n", 20, "number of sessions to show")

	llmListCmd.Flags().IntP("limit", "n", 20, "number of calls to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "filter by purpose ("+purposeNames()+")")
	llmListCmd.Flags().StringP("session", "s", "", "filter by interview session ID")

	llmCmd.AddCommand(llmSessionsCmd)
	llmCmd.AddCommand(llmSessionCmd)
	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmViewCmd)
	llmCmd.AddCommand(llmStatsCmd)
}
