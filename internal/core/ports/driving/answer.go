package driving

import (
	"context"

	"github.com/custodia-labs/scholia-cli/internal/core/domain"
)

// AnswerService produces citation-grounded answers to user questions.
// Each call runs one turn of the pipeline: reformulate the question
// against the session history, search the index, synthesise a grounded
// answer and record the turn.
type AnswerService interface {
	// Ask answers the question within the given session. The returned
	// answer text contains a References section whenever any retrieved
	// paper is cited.
	Ask(ctx context.Context, sessionID, question string) (domain.Answer, error)
}
