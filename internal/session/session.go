// Package session owns one conversation: the transcript, the single in-flight
// request guard and the bound document.
//
// A Session is driven by discrete events (a submit, an upload, a reply
// arriving). At most one outbound call is in flight per session; a submit or
// upload issued while a call is outstanding is dropped, not queued. Every
// transport failure is absorbed into a Bot turn and the session always returns
// to Idle.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/bep/internal/format"
)

// Origin identifies who produced a turn.
type Origin int

const (
	User Origin = iota
	Bot
)

func (o Origin) String() string {
	if o == Bot {
		return "bot"
	}
	return "user"
}

// Turn is one transcript entry. Text is stored exactly as produced.
type Turn struct {
	Text   string
	Origin Origin
}

// State is the controller state.
type State int

const (
	Idle State = iota
	AwaitingReply
)

func (s State) String() string {
	if s == AwaitingReply {
		return "awaiting_reply"
	}
	return "idle"
}

// Transport is the outbound collaborator. Implementations own addressing,
// serialization and timeouts.
type Transport interface {
	Chat(ctx context.Context, message string) (string, error)
	AskDocument(ctx context.Context, filename, question string) (string, error)
	UploadDocument(ctx context.Context, name string, body io.Reader) (string, error)
}

// Messages holds the fixed, locale-specific texts appended by the session.
type Messages struct {
	ReplyFailed  string
	UploadFailed string
	// Uploaded is a fmt template receiving the bound filename.
	Uploaded string
}

// DefaultMessages are the Vietnamese texts.
var DefaultMessages = Messages{
	ReplyFailed:  "Xin lỗi, đã có lỗi xảy ra. Vui lòng thử lại sau!",
	UploadFailed: "❌ Tải file lên thất bại. Vui lòng thử lại!",
	Uploaded:     "📎 Đã tải lên file: %s",
}

// Session is the conversation controller. Create one with New.
type Session struct {
	id        uuid.UUID
	transport Transport
	formatter *format.Formatter
	messages  Messages
	logger    *slog.Logger

	mu         sync.Mutex
	transcript []Turn
	state      State
	draft      string
	document   string
	listeners  []func(Event)
}

// Option configures a Session.
type Option func(*Session)

// WithFormatter sets the formatter used by Render.
func WithFormatter(f *format.Formatter) Option {
	return func(s *Session) { s.formatter = f }
}

// WithMessages overrides the fixed transcript texts.
func WithMessages(m Messages) Option {
	return func(s *Session) { s.messages = m }
}

// WithLogger sets the session logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

func New(t Transport, opts ...Option) *Session {
	s := &Session{
		id:        uuid.New(),
		transport: t,
		formatter: format.New(format.DefaultTipMarker),
		messages:  DefaultMessages,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("session_id", s.id.String())
	return s
}

func (s *Session) ID() uuid.UUID { return s.id }

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Pending reports whether an outbound call is in flight.
func (s *Session) Pending() bool {
	return s.State() == AwaitingReply
}

// Transcript returns a copy of the turns in chronological order.
func (s *Session) Transcript() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Turn, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// Document returns the bound document identifier, or "" when none is bound.
func (s *Session) Document() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.document
}

func (s *Session) Draft() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// SetDraft replaces the uncommitted input text.
func (s *Session) SetDraft(text string) {
	s.mu.Lock()
	if s.draft == text {
		s.mu.Unlock()
		return
	}
	s.draft = text
	s.mu.Unlock()
	s.emit(Event{Kind: DraftChanged})
}

// Submit sends text as the next user turn. It blocks until the reply (or
// failure) has been appended and reports whether the submission was accepted.
// Blank text and submissions while a call is in flight are ignored.
func (s *Session) Submit(ctx context.Context, text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}

	s.mu.Lock()
	if s.state != Idle {
		s.mu.Unlock()
		s.logger.Debug("submit rejected, reply pending")
		return false
	}
	user := s.appendLocked(User, text)
	s.draft = ""
	s.state = AwaitingReply
	document := s.document
	s.mu.Unlock()

	s.emit(
		Event{Kind: TurnAppended, Turn: user},
		Event{Kind: DraftChanged},
		Event{Kind: StateChanged, State: AwaitingReply},
	)
	defer s.release()

	reply, err := s.ask(ctx, document, text)
	if err != nil {
		s.logger.Warn("reply failed", "document", document, "error", err)
		s.append(Bot, s.messages.ReplyFailed)
		return true
	}
	s.append(Bot, reply)
	return true
}

// Upload sends a document and binds the returned identifier to the session.
// It shares the single-flight guard with Submit.
func (s *Session) Upload(ctx context.Context, name string, body io.Reader) bool {
	s.mu.Lock()
	if s.state != Idle {
		s.mu.Unlock()
		s.logger.Debug("upload rejected, reply pending")
		return false
	}
	s.state = AwaitingReply
	s.mu.Unlock()

	s.emit(Event{Kind: StateChanged, State: AwaitingReply})
	defer s.release()

	filename, err := s.upload(ctx, name, body)
	if err == nil && filename == "" {
		err = errors.New("upload returned empty filename")
	}
	if err != nil {
		s.logger.Warn("upload failed", "name", name, "error", err)
		s.append(Bot, s.messages.UploadFailed)
		return true
	}

	s.BindDocument(filename)
	s.append(Bot, fmt.Sprintf(s.messages.Uploaded, filename))
	s.logger.Info("document uploaded", "filename", filename)
	return true
}

// BindDocument routes subsequent submits through the document-scoped ask.
// The last bind wins.
func (s *Session) BindDocument(name string) {
	s.mu.Lock()
	s.document = name
	s.mu.Unlock()
	s.emit(Event{Kind: DocumentBound, Document: name})
}

// UnbindDocument returns routing to general chat.
func (s *Session) UnbindDocument() {
	s.BindDocument("")
}

func (s *Session) ask(ctx context.Context, document, question string) (reply string, err error) {
	defer recoverCall(&err)
	if document != "" {
		return s.transport.AskDocument(ctx, document, question)
	}
	return s.transport.Chat(ctx, question)
}

func (s *Session) upload(ctx context.Context, name string, body io.Reader) (filename string, err error) {
	defer recoverCall(&err)
	return s.transport.UploadDocument(ctx, name, body)
}

// recoverCall turns a transport panic into an ordinary call failure.
func recoverCall(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("transport panic: %v", r)
	}
}

func (s *Session) append(origin Origin, text string) {
	s.mu.Lock()
	turn := s.appendLocked(origin, text)
	s.mu.Unlock()
	s.emit(Event{Kind: TurnAppended, Turn: turn})
}

func (s *Session) appendLocked(origin Origin, text string) *Turn {
	turn := Turn{Text: text, Origin: origin}
	s.transcript = append(s.transcript, turn)
	return &turn
}

// release returns the session to Idle. It runs deferred so a panic while
// appending the reply cannot leave the session stuck.
func (s *Session) release() {
	s.mu.Lock()
	s.state = Idle
	s.mu.Unlock()
	s.emit(Event{Kind: StateChanged, State: Idle})
}
