package models

const (
	RoleHuman     = "human"
	RoleAssistant = "assistant"
)

// Message is one entry of the conversation history.
type Message struct {
	Role    string
	Content string
}

var SystemPromptTemplate = `You are a helpful assistant answering questions about documents the user uploaded.
Use the following document excerpts as context. If the context does not contain the answer, say so or answer from general knowledge.

Context:
%s`
