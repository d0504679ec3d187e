package cli

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/scholia-cli/internal/adapters/driving/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive chat over the indexed papers",
	Long: `Opens an interactive chat session. Follow-up questions are
reformulated against the conversation so far, so pronouns and
elliptical questions ("And for B?") resolve correctly.`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	stack, err := newRetrievalStack(ctx)
	if err != nil {
		return err
	}
	defer stack.Close()

	sessionID := stack.sessions.GetOrCreate(uuid.NewString())
	return tui.Run(ctx, stack.answer, sessionID)
}
