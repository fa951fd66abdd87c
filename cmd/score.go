package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/interviewer/internal/ui/theme"
)

var scoreCmd = &cobra.Command{
	Use:   "score <answer>",
	Short: "Grade an answer against a reference answer",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reference, _ := cmd.Flags().GetString("reference")
		questionText, _ := cmd.Flags().GetString("question")
		asJSON, _ := cmd.Flags().GetBool("output-json")

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		result := a.scorer.Score(cmd.Context(), strings.Join(args, " "), reference, questionText)
		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			enc.SetEscapeHTML(false)
			return enc.Encode(result)
		}
		fmt.Println(theme.StateBadge(string(result.Method)), theme.Score(result.Score))
		fmt.Println(result.Report())
		return nil
	},
}

func init() {
	scoreCmd.Flags().StringP("reference", "r", "", "reference answer to compare against")
	scoreCmd.Flags().StringP("question", "q", "", "question text given to the model grader")
	scoreCmd.Flags().Bool("output-json", false, "print the result as JSON")
}
