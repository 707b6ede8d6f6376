// Package chatbot answers user questions from a fixed set of predefined replies,
// falling back to a generative model for everything else.
package chatbot

import (
	"context"
	"strings"
	"sync"

	"github.com/coinly/coinly/internal/logger"
)

const (
	MsgNotUnderstood   = "Sorry, I couldn't understand that."
	MsgGeneratorFailed = "Error: Unable to get a response from Gemini API."
	MsgNotConfigured   = "AI chat is not configured. Please add your Gemini API key."
)

type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

type Message struct {
	Role Role
	Text string
}

// Generator produces free-form text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// predefined replies are keyed by the trimmed, lower-cased question.
var predefined = map[string]string{
	"how to add an expense?":        "Go to Dashboard > Add Expense, enter details, and click Save.",
	"how to view spending reports?": "Navigate to Analytics > Reports for a category-wise breakdown.",
	"can i export my data?":         "Yes! Go to Settings > Export to download your transactions.",
	"what is coinly?":               "Coinly is your personal finance tracker to manage spending, budgeting, and goals.",
}

var quickQuestions = []string{
	"What is Coinly?",
	"How to add an expense?",
	"How to view spending reports?",
	"Can I export my data?",
}

// QuickQuestions returns the suggested starter questions.
func QuickQuestions() []string {
	return append([]string(nil), quickQuestions...)
}

// Bot keeps the conversation history. It is safe for concurrent use.
type Bot struct {
	generator Generator

	mu      sync.Mutex
	history []Message
}

// New creates a bot. A nil generator behaves like a disabled one.
func New(generator Generator) *Bot {
	if generator == nil {
		generator = DisabledGenerator{}
	}
	return &Bot{generator: generator}
}

// Ask records input and returns the bot's reply. Blank input is ignored and
// returns ok=false. Predefined questions never reach the generator.
func (b *Bot) Ask(ctx context.Context, input string) (reply string, ok bool) {
	if strings.TrimSpace(input) == "" {
		return "", false
	}
	b.append(Message{Role: RoleUser, Text: input})

	key := strings.ToLower(strings.TrimSpace(input))
	if answer, found := predefined[key]; found {
		b.append(Message{Role: RoleBot, Text: answer})
		return answer, true
	}

	text, err := b.generator.Generate(ctx, input)
	switch {
	case err != nil:
		logger.FromContext(ctx).Error("gemini api error", "error", err)
		text = MsgGeneratorFailed
	case strings.TrimSpace(text) == "":
		text = MsgNotUnderstood
	}
	b.append(Message{Role: RoleBot, Text: text})
	return text, true
}

// History returns a copy of the conversation so far.
func (b *Bot) History() []Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Message(nil), b.history...)
}

func (b *Bot) append(m Message) {
	b.mu.Lock()
	b.history = append(b.history, m)
	b.mu.Unlock()
}

// DisabledGenerator answers every prompt with MsgNotConfigured.
type DisabledGenerator struct{}

func (DisabledGenerator) Generate(context.Context, string) (string, error) {
	return MsgNotConfigured, nil
}
