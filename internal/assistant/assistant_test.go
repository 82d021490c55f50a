package assistant

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/MikeSquared-Agency/bep/internal/cooking"
	"github.com/MikeSquared-Agency/bep/internal/llm"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// scriptedLLM returns its responses in order and records the prompts.
type scriptedLLM struct {
	responses []string
	errs      []error
	prompts   []string
}

func (s *scriptedLLM) Complete(_ context.Context, system string, messages []llm.Message, _ int) (string, error) {
	i := len(s.prompts)
	s.prompts = append(s.prompts, messages[0].Content)
	if i < len(s.errs) && s.errs[i] != nil {
		return "", s.errs[i]
	}
	if i >= len(s.responses) {
		return "", errors.New("unexpected call")
	}
	return s.responses[i], nil
}

type recipes map[string]*cooking.Recipe

func (r recipes) RecipeByName(_ context.Context, name string) (*cooking.Recipe, error) {
	if rec, ok := r[strings.ToLower(name)]; ok {
		return rec, nil
	}
	return nil, cooking.ErrRecipeNotFound
}

func newAssistant(l llm.Completer) *Assistant {
	tb := cooking.NewToolbox(recipes{"phở": {
		Name:        "Phở",
		Servings:    2,
		Ingredients: []string{"400g bánh phở", "200g thịt bò"},
	}})
	return New(l, tb, discardLogger())
}

func TestReply_Direct(t *testing.T) {
	l := &scriptedLLM{responses: []string{"  Xin chào! Tôi là đầu bếp của bạn đây.  "}}

	reply, err := newAssistant(l).Reply(context.Background(), "chào bạn")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.Text != "Xin chào! Tôi là đầu bếp của bạn đây." || reply.Tool != "" {
		t.Errorf("unexpected reply %+v", reply)
	}
	if len(l.prompts) != 1 {
		t.Errorf("expected a single llm call, got %d", len(l.prompts))
	}
	if !strings.Contains(l.prompts[0], "Câu hỏi: chào bạn") || !strings.Contains(l.prompts[0], "- list_ingredients:") {
		t.Errorf("analysis prompt missing message or tools:\n%s", l.prompts[0])
	}
}

func TestReply_ToolCall(t *testing.T) {
	l := &scriptedLLM{responses: []string{
		"Để tôi xem nhé {\"tool\": \"list_ingredients\", \"input\": \"phở\"}",
		"Nguyên liệu:\n* 400g bánh phở\n* 200g thịt bò",
	}}

	reply, err := newAssistant(l).Reply(context.Background(), "nguyên liệu nấu phở")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.Tool != cooking.ToolListIngredients {
		t.Errorf("expected tool list_ingredients, got %q", reply.Tool)
	}
	if reply.Text != "Nguyên liệu:\n* 400g bánh phở\n* 200g thịt bò" {
		t.Errorf("unexpected reply text %q", reply.Text)
	}
	if len(l.prompts) != 2 {
		t.Fatalf("expected 2 llm calls, got %d", len(l.prompts))
	}
	if !strings.Contains(l.prompts[1], "- 400g bánh phở") {
		t.Errorf("expected tool result in answer prompt:\n%s", l.prompts[1])
	}
}

func TestReply_MalformedJSONFallsBackToText(t *testing.T) {
	l := &scriptedLLM{responses: []string{"Món này {ngon lắm} đó!"}}

	reply, err := newAssistant(l).Reply(context.Background(), "phở có ngon không")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.Text != "Món này {ngon lắm} đó!" || reply.Tool != "" {
		t.Errorf("unexpected reply %+v", reply)
	}
}

func TestReply_UnknownToolStillAnswers(t *testing.T) {
	l := &scriptedLLM{responses: []string{
		`{"tool": "oven", "input": "200"}`,
		"Tiếc quá, tôi chưa điều khiển được lò nướng.",
	}}

	reply, err := newAssistant(l).Reply(context.Background(), "bật lò")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(l.prompts[1], "Không tìm thấy công cụ oven") {
		t.Errorf("expected unknown tool message passed to model:\n%s", l.prompts[1])
	}
	if reply.Tool != "oven" {
		t.Errorf("expected tool recorded, got %q", reply.Tool)
	}
}

func TestReply_LLMError(t *testing.T) {
	l := &scriptedLLM{errs: []error{errors.New("quota exceeded")}}

	if _, err := newAssistant(l).Reply(context.Background(), "hi"); err == nil {
		t.Fatal("expected error")
	}
}

func TestReply_AnswerError(t *testing.T) {
	l := &scriptedLLM{
		responses: []string{`{"tool": "recipe_finder", "input": "phở"}`},
		errs:      []error{nil, errors.New("timeout")},
	}

	if _, err := newAssistant(l).Reply(context.Background(), "cách nấu phở"); err == nil {
		t.Fatal("expected error from answer stage")
	}
}

func TestDetectToolCall(t *testing.T) {
	tests := []struct {
		in   string
		want toolCall
		ok   bool
	}{
		{`{"tool":"cooking_timer","input":"phở"}`, toolCall{"cooking_timer", "phở"}, true},
		{"text {\"tool\":\"a\",\"input\":\"b\"} more", toolCall{"a", "b"}, true},
		{`{"tool":"a"}`, toolCall{}, false},
		{`} backwards {`, toolCall{}, false},
		{"no json", toolCall{}, false},
	}
	for _, tt := range tests {
		got, ok := detectToolCall(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("detectToolCall(%q) = %+v, %v; want %+v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
