package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type geminiPart struct {
	Text string `json:"text"`
}

type geminiRequest struct {
	Contents []struct {
		Role  string       `json:"role"`
		Parts []geminiPart `json:"parts"`
	} `json:"contents"`
	SystemInstruction *struct {
		Parts []geminiPart `json:"parts"`
	} `json:"systemInstruction"`
	GenerationConfig struct {
		MaxOutputTokens int `json:"maxOutputTokens"`
	} `json:"generationConfig"`
}

func newTestGemini(t *testing.T, handler http.HandlerFunc) *Gemini {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	g, err := newGemini(context.Background(), "test-key", "gemini-test", server.URL)
	if err != nil {
		t.Fatalf("newGemini: %v", err)
	}
	return g
}

func writeCandidate(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"candidates": []map[string]any{{
			"content": map[string]any{
				"role":  "model",
				"parts": []map[string]string{{"text": text}},
			},
		}},
	})
}

func TestGeminiComplete_Success(t *testing.T) {
	g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "models/gemini-test:generateContent") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.Header.Get("x-goog-api-key") != "test-key" {
			t.Errorf("expected api key header, got %q", r.Header.Get("x-goog-api-key"))
		}

		var req geminiRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if len(req.Contents) != 3 {
			t.Fatalf("expected 3 contents, got %d", len(req.Contents))
		}
		roles := []string{req.Contents[0].Role, req.Contents[1].Role, req.Contents[2].Role}
		if roles[0] != "user" || roles[1] != "model" || roles[2] != "user" {
			t.Errorf("unexpected roles %v", roles)
		}
		if req.Contents[2].Parts[0].Text != "nấu phở thế nào" {
			t.Errorf("unexpected last message %q", req.Contents[2].Parts[0].Text)
		}
		if req.SystemInstruction == nil || req.SystemInstruction.Parts[0].Text != "bạn là đầu bếp" {
			t.Errorf("expected system instruction, got %+v", req.SystemInstruction)
		}
		if req.GenerationConfig.MaxOutputTokens != 256 {
			t.Errorf("expected maxOutputTokens 256, got %d", req.GenerationConfig.MaxOutputTokens)
		}

		writeCandidate(w, "Nguyên liệu:\n* bánh phở")
	})

	text, err := g.Complete(context.Background(), "bạn là đầu bếp", []Message{
		{Role: "user", Content: "chào"},
		{Role: "assistant", Content: "Xin chào!"},
		{Role: "user", Content: "nấu phở thế nào"},
	}, 256)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "Nguyên liệu:\n* bánh phở" {
		t.Errorf("unexpected text %q", text)
	}
}

func TestGeminiComplete_EmptyText(t *testing.T) {
	g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[]}`))
	})

	_, err := g.Complete(context.Background(), "", []Message{{Role: "user", Content: "hi"}}, 10)
	if err == nil || !strings.Contains(err.Error(), "empty response content") {
		t.Errorf("expected empty content error, got %v", err)
	}
}

func TestGeminiComplete_APIError(t *testing.T) {
	g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":400,"message":"bad model","status":"INVALID_ARGUMENT"}}`))
	})

	_, err := g.Complete(context.Background(), "", []Message{{Role: "user", Content: "hi"}}, 10)
	if err == nil || !strings.Contains(err.Error(), "generate content") {
		t.Errorf("expected wrapped api error, got %v", err)
	}
}
