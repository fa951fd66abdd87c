package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/user"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/interviewer/internal/interview"
	"github.com/abhisek/interviewer/internal/ui/theme"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive mock interview",
	RunE: func(cmd *cobra.Command, _ []string) error {
		userID, _ := cmd.Flags().GetString("user")
		metricsAddr, _ := cmd.Flags().GetString("metrics-addr")
		return runChat(cmd.Context(), userID, metricsAddr)
	},
}

func init() {
	chatCmd.Flags().StringP("user", "u", defaultUserID(), "user ID the interview session belongs to")
	chatCmd.Flags().String("metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9090)")
}

func defaultUserID() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "local"
}

func runChat(ctx context.Context, userID, metricsAddr string) error {
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if metricsAddr != "" {
		srv := serveMetrics(metricsAddr, a.log)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	fmt.Println(theme.Title.Render("🎤 Interviewer"))
	fmt.Println(theme.Hint.Render("輸入「開始面試」開始，「重新開始」重來，Ctrl+C 離開"))
	fmt.Println()

	prompt := promptui.Prompt{
		Label: userID,
		Templates: &promptui.PromptTemplates{
			Prompt:  "{{ . | cyan }} › ",
			Valid:   "{{ . | cyan }} › ",
			Invalid: "{{ . | cyan }} › ",
			Success: "{{ . | faint }} › ",
		},
	}

	for {
		line, err := prompt.Run()
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				return nil
			}
			return fmt.Errorf("read input: %w", err)
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		reply := a.machine.Handle(ctx, userID, line)
		printReply(reply)
	}
}

func printReply(reply interview.Reply) {
	style := theme.Reply
	if !reply.Success {
		style = theme.FailedReply
	}
	fmt.Println(theme.StateBadge(reply.CurrentState))
	fmt.Println(style.Render(reply.Response))
	fmt.Println()
}

func serveMetrics(addr string, log *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		log.Info("serving metrics", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Warn("metrics server stopped", zap.Error(err))
		}
	}()
	return srv
}
