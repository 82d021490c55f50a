package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/MikeSquared-Agency/bep/internal/cooking"
	"github.com/MikeSquared-Agency/bep/internal/llm"
)

const maxTokens = 2048

// Reply is one answered chat message. Tool is empty when the model answered
// directly.
type Reply struct {
	Text string
	Tool string
}

type toolCall struct {
	Tool  string `json:"tool"`
	Input string `json:"input"`
}

type Assistant struct {
	llm    llm.Completer
	tools  *cooking.Toolbox
	logger *slog.Logger
}

func New(completer llm.Completer, tools *cooking.Toolbox, logger *slog.Logger) *Assistant {
	return &Assistant{llm: completer, tools: tools, logger: logger}
}

// Reply answers message, running at most one cooking tool when the model asks
// for it.
func (a *Assistant) Reply(ctx context.Context, message string) (*Reply, error) {
	a.logger.Info("received message", "len", len(message))

	initial, err := a.complete(ctx, fmt.Sprintf(analysisPrompt, message, a.toolList()))
	if err != nil {
		return nil, fmt.Errorf("analysis: %w", err)
	}
	initial = strings.TrimSpace(initial)

	call, ok := detectToolCall(initial)
	if !ok {
		a.logger.Debug("no tool call, returning direct response")
		return &Reply{Text: initial}, nil
	}

	a.logger.Info("executing tool", "tool", call.Tool, "input", call.Input)
	result, err := a.tools.Execute(ctx, call.Tool, call.Input)
	if err != nil {
		return nil, fmt.Errorf("tool %s: %w", call.Tool, err)
	}

	final, err := a.complete(ctx, fmt.Sprintf(answerPrompt, message, result))
	if err != nil {
		return nil, fmt.Errorf("answer: %w", err)
	}

	a.logger.Info("reply complete", "tool", call.Tool, "len", len(final))
	return &Reply{Text: strings.TrimSpace(final), Tool: call.Tool}, nil
}

func (a *Assistant) complete(ctx context.Context, prompt string) (string, error) {
	return a.llm.Complete(ctx, systemPrompt, []llm.Message{{Role: "user", Content: prompt}}, maxTokens)
}

func (a *Assistant) toolList() string {
	var sb strings.Builder
	for _, t := range a.tools.Tools() {
		fmt.Fprintf(&sb, "   - %s: %s\n", t.Name, t.Description)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// detectToolCall extracts the object spanning the first '{' and the last '}'.
func detectToolCall(text string) (toolCall, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end < start {
		return toolCall{}, false
	}

	var call toolCall
	if err := json.Unmarshal([]byte(text[start:end+1]), &call); err != nil {
		return toolCall{}, false
	}
	if call.Tool == "" || call.Input == "" {
		return toolCall{}, false
	}
	return call, true
}
