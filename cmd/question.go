package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/interviewer/internal/question"
)

var questionCmd = &cobra.Command{
	Use:   "question",
	Short: "Draw random questions from the configured corpus",
	RunE: func(cmd *cobra.Command, _ []string) error {
		count, _ := cmd.Flags().GetInt("count")
		showAnswer, _ := cmd.Flags().GetBool("answer")
		asJSON, _ := cmd.Flags().GetBool("output-json")

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		drawn := make([]question.Question, 0, count)
		for range count {
			drawn = append(drawn, a.questions.Next(cmd.Context()))
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			enc.SetEscapeHTML(false)
			return enc.Encode(drawn)
		}

		for i, q := range drawn {
			if i > 0 {
				fmt.Println()
			}
			fmt.Printf("%d. %s\n", i+1, q.Text)
			fmt.Printf("   類別：%s｜難度：%s｜來源：%s\n", q.Category(), q.Difficulty(), q.Source)
			if showAnswer {
				fmt.Printf("   參考答案：%s\n", q.StandardAnswer)
			}
		}
		return nil
	},
}

func init() {
	questionCmd.Flags().IntP("count", "n", 1, "number of questions to draw")
	questionCmd.Flags().BoolP("answer", "a", false, "also print the reference answer")
	questionCmd.Flags().Bool("output-json", false, "print questions as JSON")
}
