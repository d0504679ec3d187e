package services

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/custodia-labs/scholia-cli/internal/core/domain"
	"github.com/custodia-labs/scholia-cli/internal/core/ports/driven"
	"github.com/custodia-labs/scholia-cli/internal/core/ports/driving"
	"github.com/custodia-labs/scholia-cli/internal/logger"
)

// Ensure AnswerService implements the interface.
var _ driving.AnswerService = (*AnswerService)(nil)

// Default retrieval width.
const (
	// DefaultTopK is the number of papers assembled into the context.
	DefaultTopK = 5

	// answerMaxTokens bounds the synthesised answer length.
	answerMaxTokens = 1024

	// answerTemperature keeps answers grounded rather than creative.
	answerTemperature = 0.6
)

// reformulatePrompt instructs the model to rewrite a question so it
// stands alone without the conversation history.
const reformulatePrompt = `Reformulate the question considering chat history context. ` +
	`Resolve pronouns and implicit references so the question can be understood on its own. ` +
	`Return only the reformulated question, with no preamble.`

// answerPrompt is the system instruction for grounded answer synthesis.
// The relevant papers are substituted for %s.
const answerPrompt = `You are an AI research paper assistant. ` +
	`Provide insights from the research papers. ` +
	"Below are the relevant documents: \n\n%s\n\n" +
	`Use the context to inform your response. ` +
	`If information is not available in the context, acknowledge that transparently. ` +
	`When referencing information from papers, include the citation ID ` +
	`at the end of the sentence in square brackets. ` +
	"At the end of your response, include a 'References' section with a numbered list of all cited papers in this format:\n" +
	"1. [citation_id] Title by Authors (Year)\n" +
	"2. [citation_id] Title by Authors (Year)\n" +
	`Make sure each reference is on a new line and properly numbered.`

// referencesHeading matches a References section heading on its own
// line, with or without markdown markers.
var referencesHeading = regexp.MustCompile(`(?mi)^\s*(?:#+\s*|\*\*)?references\b`)

// AnswerConfig tunes the retrieval stage of the answer pipeline.
type AnswerConfig struct {
	// TopK is the number of papers placed in the context block
	// (default DefaultTopK).
	TopK int

	// FetchK, when greater than TopK, widens the initial search and
	// reranks the candidates by query term overlap before keeping
	// TopK. Zero disables the rerank stage.
	FetchK int
}

// AnswerService orchestrates one answering turn: reformulate the
// question against session history, search the index, assemble a
// cited context block, synthesise the answer and record the turn.
type AnswerService struct {
	index    driving.IndexService
	llm      driven.LLMService
	sessions driving.SessionService
	cfg      AnswerConfig
}

// NewAnswerService creates an answer service over the given index,
// LLM and session manager.
func NewAnswerService(
	index driving.IndexService,
	llm driven.LLMService,
	sessions driving.SessionService,
	cfg AnswerConfig,
) (*AnswerService, error) {
	if index == nil {
		return nil, fmt.Errorf("index service: %w", domain.ErrNotConfigured)
	}
	if llm == nil {
		return nil, domain.ErrLLMUnavailable
	}
	if sessions == nil {
		return nil, fmt.Errorf("session service: %w", domain.ErrNotConfigured)
	}
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultTopK
	}
	return &AnswerService{index: index, llm: llm, sessions: sessions, cfg: cfg}, nil
}

// Ask answers the question within the given session.
// Retrieval and synthesis failures abort only the current turn: the
// session history stays intact up to the prior turn, and the error
// reports which stage failed so the caller knows a retry is safe.
func (s *AnswerService) Ask(ctx context.Context, sessionID, question string) (domain.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return domain.Answer{}, fmt.Errorf("empty question: %w", domain.ErrInvalidInput)
	}

	logger.Section("Answer Turn")
	sessionID = s.sessions.GetOrCreate(sessionID)
	history := s.sessions.History(sessionID)

	query, err := s.reformulate(ctx, question, history)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("reformulate question: %w: %w", domain.ErrSynthesis, err)
	}
	logger.Debug("Retrieval query: %q", query)

	papers, err := s.retrieve(ctx, query)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("search index: %w: %w", domain.ErrRetrieval, err)
	}
	logger.Info("Retrieved %d paper(s)", len(papers))

	text, err := s.synthesise(ctx, question, history, papers)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("synthesise answer: %w: %w", domain.ErrSynthesis, err)
	}

	cited := citedPapers(text, papers)
	if len(cited) > 0 && !referencesHeading.MatchString(text) {
		// Fallback formatting path: the model did not emit its own
		// References section, so append one deterministically.
		text = appendReferences(text, cited)
		logger.Debug("Appended fallback References section (%d entries)", len(cited))
	}

	s.sessions.Append(sessionID, domain.Turn{Role: domain.RoleUser, Text: question})
	s.sessions.Append(sessionID, domain.Turn{Role: domain.RoleAssistant, Text: text, Papers: cited})

	return domain.Answer{Text: text, Cited: cited}, nil
}

// reformulate rewrites the question into a self-contained retrieval
// query using the conversation history. With no history the question
// passes through unchanged.
func (s *AnswerService) reformulate(ctx context.Context, question string, history []domain.Turn) (string, error) {
	if len(history) == 0 {
		return question, nil
	}

	messages := make([]driven.ChatMessage, 0, len(history)+2)
	messages = append(messages, driven.ChatMessage{Role: "system", Content: reformulatePrompt})
	messages = append(messages, historyMessages(history)...)
	messages = append(messages, driven.ChatMessage{Role: "user", Content: question})

	reformulated, err := s.llm.Chat(ctx, messages, driven.ChatOptions{MaxTokens: 256})
	if err != nil {
		return "", err
	}
	reformulated = strings.TrimSpace(reformulated)
	if reformulated == "" {
		return question, nil
	}
	return reformulated, nil
}

// retrieve searches the index, optionally widening the search and
// reranking by query term overlap before keeping TopK papers.
func (s *AnswerService) retrieve(ctx context.Context, query string) ([]domain.Paper, error) {
	k := s.cfg.TopK
	if s.cfg.FetchK > k {
		k = s.cfg.FetchK
	}

	papers, err := s.index.Search(ctx, query, k)
	if err != nil {
		return nil, err
	}

	if s.cfg.FetchK > s.cfg.TopK && len(papers) > s.cfg.TopK {
		logger.Debug("Reranking %d candidates down to %d", len(papers), s.cfg.TopK)
		papers = rerankByTermOverlap(query, papers, s.cfg.TopK)
	}
	return papers, nil
}

// synthesise invokes the LLM with the grounding prompt, the full
// conversation history and the user question.
func (s *AnswerService) synthesise(
	ctx context.Context, question string, history []domain.Turn, papers []domain.Paper,
) (string, error) {
	messages := make([]driven.ChatMessage, 0, len(history)+2)
	messages = append(messages, driven.ChatMessage{
		Role:    "system",
		Content: fmt.Sprintf(answerPrompt, contextBlock(papers)),
	})
	messages = append(messages, historyMessages(history)...)
	messages = append(messages, driven.ChatMessage{Role: "user", Content: question})

	text, err := s.llm.Chat(ctx, messages, driven.ChatOptions{
		MaxTokens:   answerMaxTokens,
		Temperature: answerTemperature,
	})
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("model returned empty answer")
	}
	return text, nil
}

// contextBlock renders the retrieved papers as content plus a trailing
// citation line each, separated by blank lines.
func contextBlock(papers []domain.Paper) string {
	if len(papers) == 0 {
		return "(no relevant documents found)"
	}
	parts := make([]string, len(papers))
	for i, p := range papers {
		parts[i] = p.Content + "\n" + p.CitationLine()
	}
	return strings.Join(parts, "\n\n")
}

// historyMessages converts session turns into chat messages.
func historyMessages(history []domain.Turn) []driven.ChatMessage {
	messages := make([]driven.ChatMessage, len(history))
	for i, t := range history {
		messages[i] = driven.ChatMessage{Role: string(t.Role), Content: t.Text}
	}
	return messages
}

// citedPapers returns the retrieved papers whose citation marker
// literally appears in the answer text, deduplicated, ordered by first
// appearance.
func citedPapers(text string, papers []domain.Paper) []domain.Paper {
	type appearance struct {
		paper domain.Paper
		at    int
	}
	var found []appearance
	seen := make(map[string]bool)
	for _, p := range papers {
		if seen[p.CitationID] {
			continue
		}
		if at := strings.Index(text, p.CitationID); at >= 0 {
			seen[p.CitationID] = true
			found = append(found, appearance{paper: p, at: at})
		}
	}

	sort.SliceStable(found, func(i, j int) bool { return found[i].at < found[j].at })

	cited := make([]domain.Paper, len(found))
	for i, f := range found {
		cited[i] = f.paper
	}
	return cited
}

// appendReferences appends a numbered References section for the cited
// papers.
func appendReferences(text string, cited []domain.Paper) string {
	var b strings.Builder
	b.WriteString(text)
	b.WriteString("\n\nReferences:\n")
	for i, p := range cited {
		b.WriteString(p.ReferenceLine(i + 1))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// rerankByTermOverlap orders candidates by how many distinct query
// terms appear in their content, keeping the original distance order
// among equals, and returns the top k.
func rerankByTermOverlap(query string, papers []domain.Paper, k int) []domain.Paper {
	terms := strings.Fields(strings.ToLower(query))

	overlap := func(p domain.Paper) int {
		haystack := strings.ToLower(p.Title + " " + p.Content)
		n := 0
		for _, t := range terms {
			if strings.Contains(haystack, t) {
				n++
			}
		}
		return n
	}

	scores := make(map[string]int, len(papers))
	for _, p := range papers {
		scores[p.IdentityKey] = overlap(p)
	}

	ranked := make([]domain.Paper, len(papers))
	copy(ranked, papers)
	sort.SliceStable(ranked, func(i, j int) bool {
		return scores[ranked[i].IdentityKey] > scores[ranked[j].IdentityKey]
	})

	if k > len(ranked) {
		k = len(ranked)
	}
	return ranked[:k]
}
