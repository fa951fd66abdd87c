package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/interviewer/internal/logger"
	"github.com/abhisek/interviewer/internal/store"
)

var transcriptCmd = &cobra.Command{
	Use:   "transcript",
	Short: "Show recorded interview exchanges",
	RunE: func(cmd *cobra.Command, _ []string) error {
		userID, _ := cmd.Flags().GetString("user")
		sessionID, _ := cmd.Flags().GetString("session")
		limit, _ := cmd.Flags().GetInt("limit")
		full, _ := cmd.Flags().GetBool("full")

		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()

		s, err := openStore(cfg.Store)
		if err != nil {
			return err
		}
		defer s.Close()

		exchanges, err := s.ExchangeRepo().QueryExchanges(cmd.Context(), store.QueryOpts{
			Limit:     limit,
			UserID:    userID,
			SessionID: sessionID,
		})
		if err != nil {
			return fmt.Errorf("query exchanges: %w", err)
		}

		if len(exchanges) == 0 {
			fmt.Println("No exchanges found.")
			return nil
		}

		sep := strings.Repeat("─", 60)
		for _, e := range exchanges {
			score := "-"
			if e.Score != nil {
				score = fmt.Sprintf("%d", *e.Score)
			}
			fmt.Println(sep)
			fmt.Printf("#%d  %s  user=%s  session=%s  state=%s  score=%s\n",
				e.ID,
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				e.UserID,
				shortID(e.SessionID),
				e.State,
				score,
			)
			msg, resp := e.UserMessage, e.AIResponse
			if !full {
				msg, resp = logger.Truncate(msg, 80), logger.Truncate(resp, 160)
			}
			fmt.Printf("  > %s\n", msg)
			fmt.Printf("  < %s\n", strings.ReplaceAll(resp, "\n", "\n    "))
		}
		return nil
	},
}

func init() {
	transcriptCmd.Flags().StringP("user", "u", "", "filter by user ID")
	transcriptCmd.Flags().StringP("session", "s", "", "filter by session (interview) ID")
	transcriptCmd.Flags().IntP("limit", "n", 50, "number of most recent exchanges to show")
	transcriptCmd.Flags().Bool("full", false, "do not truncate messages")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
