package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/bep/internal/assistant"
	"github.com/MikeSquared-Agency/bep/internal/hermes"
)

const (
	maxChatBody = 64 << 10

	// errorReply is the body shown to users when the assistant fails.
	errorReply = "Xin lỗi, đã có lỗi xảy ra. Vui lòng thử lại sau!"
)

// Replier answers one chat message.
type Replier interface {
	Reply(ctx context.Context, message string) (*assistant.Reply, error)
}

// Publisher emits events. A nil Publisher disables events.
type Publisher interface {
	Publish(subject string, data any) error
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type chatHandler struct {
	replier Replier
	events  Publisher
	logger  *slog.Logger
	now     func() time.Time
}

// serveHTTP handles POST /chat.
func (h *chatHandler) serveHTTP(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxChatBody)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "message is required"})
		return
	}

	start := h.now()
	evt := hermes.ChatReplied{
		RequestID: uuid.NewString(),
		SessionID: r.Header.Get("X-Session-ID"),
	}

	reply, err := h.replier.Reply(r.Context(), req.Message)
	evt.LatencyMS = h.now().Sub(start).Milliseconds()
	evt.Timestamp = h.now().UTC().Format(time.RFC3339)

	if err != nil {
		h.logger.Error("chat failed",
			"request_id", evt.RequestID,
			"session_id", evt.SessionID,
			"error", err,
		)
		evt.Failed = true
		h.publish(evt)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: errorReply})
		return
	}

	evt.Tool = reply.Tool
	h.publish(evt)
	writeJSON(w, http.StatusOK, chatResponse{Reply: reply.Text})
}

func (h *chatHandler) publish(evt hermes.ChatReplied) {
	if h.events == nil {
		return
	}
	if err := h.events.Publish(hermes.SubjectChatReplied, evt); err != nil {
		// Events are best-effort.
		h.logger.Warn("failed to publish chat event", "request_id", evt.RequestID, "error", err)
	}
}
