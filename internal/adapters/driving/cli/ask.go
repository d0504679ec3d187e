package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var askSession string

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question grounded in indexed papers",
	Long: `Retrieves the most relevant indexed papers and synthesises an answer
with inline [n] citations and a References section.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askSession, "session", "s", "", "session ID for follow-up questions")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	stack, err := newRetrievalStack(ctx)
	if err != nil {
		return err
	}
	defer stack.Close()

	answer, err := stack.answer.Ask(ctx, askSession, args[0])
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	cmd.Println(answer.Text)
	return nil
}
