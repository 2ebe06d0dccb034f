package engine

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tmc/langchaingo/llms"

	"pdf-chat/internal/models"
)

type stubRetriever struct {
	chunks []string
	err    error
}

func (s *stubRetriever) Retrieve(ctx context.Context, query string, k int) ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	if len(s.chunks) > k {
		return s.chunks[:k], nil
	}
	return s.chunks, nil
}

type stubModel struct {
	answer   string
	err      error
	received [][]llms.MessageContent
}

func (s *stubModel) Generate(ctx context.Context, messages []llms.MessageContent) (string, error) {
	s.received = append(s.received, messages)
	if s.err != nil {
		return "", s.err
	}
	return s.answer, nil
}

func TestAskAppendsHistoryInOrder(t *testing.T) {
	e := New(&stubRetriever{chunks: []string{"Alpha Beta Gamma"}}, &stubModel{answer: "It mentions Alpha."}, 4)

	answer, err := e.Ask(context.Background(), "What is mentioned?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if answer != "It mentions Alpha." {
		t.Fatalf("unexpected answer: %q", answer)
	}

	history := e.History()
	if len(history) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(history))
	}
	if history[0].Role != models.RoleHuman || history[0].Content != "What is mentioned?" {
		t.Fatalf("unexpected first entry: %+v", history[0])
	}
	if history[1].Role != models.RoleAssistant || history[1].Content != "It mentions Alpha." {
		t.Fatalf("unexpected second entry: %+v", history[1])
	}
}

func TestAskFailureLeavesHistoryUnchanged(t *testing.T) {
	model := &stubModel{err: errors.New("rate limited")}
	e := New(&stubRetriever{chunks: []string{"some context"}}, model, 4)

	if _, err := e.Ask(context.Background(), "first?"); err == nil {
		t.Fatal("expected generation error")
	}
	if len(e.History()) != 0 {
		t.Fatalf("failed ask must not mutate history, got %d entries", len(e.History()))
	}

	// The engine stays ready: a retry after the transient failure works.
	model.err = nil
	model.answer = "recovered"
	if _, err := e.Ask(context.Background(), "first?"); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if len(e.History()) != 2 {
		t.Fatalf("expected 2 entries after successful retry, got %d", len(e.History()))
	}
}

func TestAskRetrievalFailure(t *testing.T) {
	model := &stubModel{answer: "never used"}
	e := New(&stubRetriever{err: errors.New("index gone")}, model, 4)

	if _, err := e.Ask(context.Background(), "anything?"); err == nil {
		t.Fatal("expected retrieval error")
	}
	if len(model.received) != 0 {
		t.Fatal("model must not be invoked when retrieval fails")
	}
	if len(e.History()) != 0 {
		t.Fatal("failed retrieval must not mutate history")
	}
}

func TestAskWithZeroChunksStillInvokesModel(t *testing.T) {
	model := &stubModel{answer: "general knowledge answer"}
	e := New(&stubRetriever{}, model, 4)

	answer, err := e.Ask(context.Background(), "off-topic question?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if answer != "general knowledge answer" {
		t.Fatalf("unexpected answer: %q", answer)
	}
	if len(model.received) != 1 {
		t.Fatalf("expected exactly one model call, got %d", len(model.received))
	}
}

func TestAskCarriesPriorHistoryAndContext(t *testing.T) {
	model := &stubModel{answer: "ok"}
	e := New(&stubRetriever{chunks: []string{"chunk one", "chunk two"}}, model, 4)

	if _, err := e.Ask(context.Background(), "first?"); err != nil {
		t.Fatalf("first ask: %v", err)
	}
	if _, err := e.Ask(context.Background(), "second?"); err != nil {
		t.Fatalf("second ask: %v", err)
	}

	// Second call: system frame + 2 history entries + new question.
	second := model.received[1]
	if len(second) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(second))
	}
	system := second[0]
	if system.Role != llms.ChatMessageTypeSystem {
		t.Fatalf("first message should be the system frame, got %v", system.Role)
	}
	text, ok := system.Parts[0].(llms.TextContent)
	if !ok {
		t.Fatalf("system frame is not text: %T", system.Parts[0])
	}
	if !strings.Contains(text.Text, "chunk one") || !strings.Contains(text.Text, "chunk two") {
		t.Fatal("system frame does not carry the retrieved context")
	}
	if second[3].Role != llms.ChatMessageTypeHuman {
		t.Fatalf("last message should be the new question, got %v", second[3].Role)
	}
}
