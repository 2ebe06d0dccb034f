// Package engine answers questions over an indexed document set while
// maintaining conversation history across turns.
package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"

	"pdf-chat/internal/llmservice"
	"pdf-chat/internal/models"
)

const DefaultTopK = 4

// Retriever yields the chunks most relevant to a query. *vectordb.Index
// satisfies this.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]string, error)
}

// Engine binds one retriever, one chat model, and one conversation history.
// A new engine always starts with empty history; it is discarded, never
// reset, when a new document set is processed.
type Engine struct {
	retriever Retriever
	chat      llmservice.Model
	topK      int
	history   []models.Message
}

func New(retriever Retriever, chat llmservice.Model, topK int) *Engine {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Engine{retriever: retriever, chat: chat, topK: topK}
}

// Ask retrieves context for the question, invokes the chat model with the
// full prior history, and on success appends the (human, assistant) pair to
// history. Any failure leaves history untouched so the user can retry.
func (e *Engine) Ask(ctx context.Context, question string) (string, error) {
	chunks, err := e.retriever.Retrieve(ctx, question, e.topK)
	if err != nil {
		return "", fmt.Errorf("retrieval failed: %w", err)
	}
	if len(chunks) == 0 {
		// Not an error: the model is still invoked and may answer from
		// general knowledge or decline.
		log.Debug().Str("question", question).Msg("No context retrieved")
	}

	answer, err := e.chat.Generate(ctx, e.buildMessages(chunks, question))
	if err != nil {
		return "", fmt.Errorf("generation failed: %w", err)
	}

	e.history = append(e.history,
		models.Message{Role: models.RoleHuman, Content: question},
		models.Message{Role: models.RoleAssistant, Content: answer},
	)
	return answer, nil
}

// History returns a copy of the conversation so far, oldest first.
func (e *Engine) History() []models.Message {
	out := make([]models.Message, len(e.history))
	copy(out, e.history)
	return out
}

func (e *Engine) buildMessages(chunks []string, question string) []llms.MessageContent {
	var contextText strings.Builder
	for _, chunk := range chunks {
		contextText.WriteString(chunk)
		contextText.WriteString("\n\n")
	}

	messages := make([]llms.MessageContent, 0, len(e.history)+2)
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem,
		fmt.Sprintf(models.SystemPromptTemplate, contextText.String())))
	for _, m := range e.history {
		role := llms.ChatMessageTypeHuman
		if m.Role == models.RoleAssistant {
			role = llms.ChatMessageTypeAI
		}
		messages = append(messages, llms.TextParts(role, m.Content))
	}
	return append(messages, llms.TextParts(llms.ChatMessageTypeHuman, question))
}
