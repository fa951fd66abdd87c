package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/interviewer/internal/interview"
)

var askCmd = &cobra.Command{
	Use:   "ask [message]",
	Short: "Send one message, routed by intent or to a named action",
	Long: "Ask routes a single message through intent classification and prints the " +
		"action result as JSON. With --action the named action is dispatched directly " +
		"using --arg key=value pairs.",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, _ := cmd.Flags().GetString("user")
		actionName, _ := cmd.Flags().GetString("action")
		pairs, _ := cmd.Flags().GetStringArray("arg")
		message := strings.Join(args, " ")

		if actionName == "" && message == "" {
			return fmt.Errorf("a message or --action is required")
		}

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		var result interview.ActionResult
		if actionName != "" {
			action, err := interview.ParseAction(actionName)
			if err != nil {
				return err
			}
			callArgs, err := parseArgs(pairs)
			if err != nil {
				return err
			}
			if _, ok := callArgs["user_id"]; !ok {
				callArgs["user_id"] = userID
			}
			if _, ok := callArgs["message"]; !ok && message != "" {
				callArgs["message"] = message
			}
			result = a.machine.Dispatch(cmd.Context(), interview.Call{Name: string(action), Args: callArgs})
		} else {
			result = a.machine.Converse(cmd.Context(), userID, message)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(result)
	},
}

func init() {
	askCmd.Flags().StringP("user", "u", defaultUserID(), "user ID the session belongs to")
	askCmd.Flags().StringP("action", "a", "", fmt.Sprintf("dispatch an action directly (%s)", actionNames()))
	askCmd.Flags().StringArray("arg", nil, "action argument as key=value (repeatable)")
}

func parseArgs(pairs []string) (map[string]string, error) {
	args := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid --arg %q, want key=value", p)
		}
		args[k] = v
	}
	return args, nil
}

func actionNames() string {
	names := make([]string, len(interview.Actions))
	for i, a := range interview.Actions {
		names[i] = string(a)
	}
	return strings.Join(names, ", ")
}
