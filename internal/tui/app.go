// Package tui is the terminal front end: a text input, a scrollable transcript
// and a spinner while a reply is pending. All conversation state lives in
// session.Session; the model only mirrors it.
package tui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MikeSquared-Agency/bep/internal/session"
)

const (
	placeholderChat     = "Nhập câu hỏi..."
	placeholderDocument = "Bạn muốn hỏi gì?..."
	helpText            = "Enter gửi • /upload <file> tải tài liệu • /forget bỏ tài liệu • /quit thoát"
)

// sessionChangedMsg is delivered whenever the session emits an event.
type sessionChangedMsg struct{}

// callDoneMsg is returned by the command running a submit or upload.
// rejected holds submitted text the session refused.
type callDoneMsg struct {
	rejected string
}

type Model struct {
	session *session.Session
	ctx     context.Context
	logger  *slog.Logger
	open    func(path string) (io.ReadCloser, error)

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	width  int
	height int
	status string

	// inFlight is set from Enter until the command's callDoneMsg arrives,
	// covering the gap before the session itself turns pending.
	inFlight bool
}

func NewModel(ctx context.Context, s *session.Session, logger *slog.Logger) Model {
	ti := textinput.New()
	ti.Placeholder = placeholderChat
	ti.CharLimit = 2000
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		session:  s,
		ctx:      ctx,
		logger:   logger,
		open:     func(path string) (io.ReadCloser, error) { return os.Open(path) },
		input:    ti,
		viewport: viewport.New(80, 20),
		spinner:  sp,
		width:    80,
		height:   30,
	}
	m.refresh()
	return m
}

// Notify forwards session events into p. Send runs on its own goroutine
// because some events fire from inside Update.
func Notify(s *session.Session, p *tea.Program) {
	s.Subscribe(func(session.Event) {
		go p.Send(sessionChangedMsg{})
	})
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			return m.handleEnter()
		case tea.KeyPgUp, tea.KeyPgDown:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

	case callDoneMsg:
		m.inFlight = false
		if msg.rejected != "" && m.input.Value() == "" {
			m.input.SetValue(msg.rejected)
			m.session.SetDraft(msg.rejected)
			m.status = "Đang chờ trả lời, vui lòng gửi lại sau."
		}
		m.refresh()
		return m, nil

	case sessionChangedMsg:
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.session.SetDraft(m.input.Value())

	return m, tea.Batch(cmds...)
}

func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	if m.busy() {
		return m, nil
	}

	text := strings.TrimSpace(m.input.Value())
	if strings.HasPrefix(text, "/") {
		m.input.Reset()
		m.session.SetDraft("")
		return m.runCommand(text)
	}
	if text == "" {
		return m, nil
	}

	m.input.Reset()
	m.status = ""
	m.startCall()
	s, ctx := m.session, m.ctx
	return m, func() tea.Msg {
		if !s.Submit(ctx, text) {
			return callDoneMsg{rejected: text}
		}
		return callDoneMsg{}
	}
}

func (m Model) runCommand(line string) (tea.Model, tea.Cmd) {
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "/quit":
		return m, tea.Quit

	case "/forget":
		m.session.UnbindDocument()
		m.status = "Đã bỏ tài liệu, quay lại trò chuyện chung."
		m.refresh()
		return m, nil

	case "/upload":
		if arg == "" {
			m.status = "Cách dùng: /upload <đường dẫn file>"
			return m, nil
		}
		f, err := m.open(arg)
		if err != nil {
			m.logger.Warn("open document failed", "path", arg, "error", err)
			m.status = fmt.Sprintf("Không mở được file: %v", err)
			return m, nil
		}
		m.status = ""
		m.startCall()
		s, ctx := m.session, m.ctx
		return m, func() tea.Msg {
			defer f.Close()
			s.Upload(ctx, filepath.Base(arg), f)
			return callDoneMsg{}
		}

	default:
		m.status = fmt.Sprintf("Lệnh không hợp lệ: %s", name)
		return m, nil
	}
}

func (m *Model) startCall() {
	m.inFlight = true
	m.input.Blur()
}

func (m Model) busy() bool {
	return m.inFlight || m.session.Pending()
}

// refresh mirrors session state into the widgets.
func (m *Model) refresh() {
	if m.busy() {
		m.input.Blur()
	} else {
		m.input.Focus()
	}

	if m.session.Document() != "" {
		m.input.Placeholder = placeholderDocument
	} else {
		m.input.Placeholder = placeholderChat
	}

	m.viewport.SetContent(renderTranscript(m.session.Render(), m.viewport.Width))
	m.viewport.GotoBottom()
}

func (m *Model) resize() {
	m.input.Width = max(m.width-4, 10)
	m.viewport.Width = m.width
	// title, subtitle, blank, status, input, help
	m.viewport.Height = max(m.height-6, 3)
}

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Cooking Assistant"))
	sb.WriteString("\n")
	sb.WriteString(subtitleStyle.Render("Đầu bếp ảo - Người bạn đồng hành trong bếp của bạn"))
	sb.WriteString("\n\n")
	sb.WriteString(m.viewport.View())
	sb.WriteString("\n")
	sb.WriteString(m.statusLine())
	sb.WriteString("\n")
	sb.WriteString(m.input.View())
	sb.WriteString("\n")
	sb.WriteString(statusStyle.Render(helpText))
	return sb.String()
}

func (m Model) statusLine() string {
	var parts []string
	if m.busy() {
		parts = append(parts, m.spinner.View()+" Đang trả lời...")
	}
	if doc := m.session.Document(); doc != "" {
		parts = append(parts, "📎 "+doc)
	}
	line := statusStyle.Render(strings.Join(parts, "  "))
	if m.status != "" {
		line = lipgloss.JoinHorizontal(lipgloss.Top, line, " ", errorStyle.Render(m.status))
	}
	return line
}
