package session

import "github.com/MikeSquared-Agency/bep/internal/format"

// View is the display projection of one turn. Blocks is nil for user turns,
// which are shown as opaque text.
type View struct {
	Origin Origin
	Text   string
	Blocks []format.Block
}

// Render projects the transcript for display. Bot turns are formatted on every
// call; nothing is cached or stored back.
func (s *Session) Render() []View {
	turns := s.Transcript()
	views := make([]View, len(turns))
	for i, t := range turns {
		views[i] = View{Origin: t.Origin, Text: t.Text}
		if t.Origin == Bot {
			views[i].Blocks = s.formatter.Format(t.Text)
		}
	}
	return views
}
