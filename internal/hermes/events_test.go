package hermes

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestChatRepliedEncoding(t *testing.T) {
	data, err := json.Marshal(ChatReplied{
		RequestID: "req-1",
		LatencyMS: 1200,
		Timestamp: "2026-10-18T09:00:00Z",
	})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if _, ok := raw["session_id"]; ok {
		t.Error("expected empty session_id to be omitted")
	}
	if _, ok := raw["tool"]; ok {
		t.Error("expected empty tool to be omitted")
	}
	if raw["failed"] != false {
		t.Errorf("expected failed=false to be present, got %v", raw["failed"])
	}
	if raw["latency_ms"] != float64(1200) {
		t.Errorf("expected latency_ms 1200, got %v", raw["latency_ms"])
	}
}

func TestLogChatReplied(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	handle := LogChatReplied(logger)

	data, _ := json.Marshal(ChatReplied{RequestID: "req-7", SessionID: "sess-1", Tool: "recipe_finder", LatencyMS: 42})
	handle(SubjectChatReplied, data)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected one JSON log line, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "chat replied" || entry["request_id"] != "req-7" || entry["tool"] != "recipe_finder" {
		t.Errorf("unexpected log entry %v", entry)
	}

	buf.Reset()
	handle(SubjectChatReplied, []byte("{not json"))
	if !strings.Contains(buf.String(), "malformed chat event") {
		t.Errorf("expected malformed warning, got %q", buf.String())
	}
}
