// Package format turns free-form assistant replies into typed display blocks.
//
// Replies are natural-language text with ad hoc emphasis: asterisk bullets,
// numbered steps, "Mẹo:" tip lines and lines ending in a colon used as section
// titles. Each line is classified on its own by an ordered rule chain where the
// first matching rule wins. Unrecognised lines, including empty ones, become
// PlainText so the output always has exactly one block per input line.
package format

import (
	"regexp"
	"strings"
)

// DefaultTipMarker is the Vietnamese "Tip:" prefix used by the assistant.
const DefaultTipMarker = "Mẹo:"

// Kind tags a Block.
type Kind int

const (
	PlainText Kind = iota
	BulletItem
	TipCallout
	SectionHeader
	NumberedStep
)

func (k Kind) String() string {
	switch k {
	case BulletItem:
		return "bullet"
	case TipCallout:
		return "tip"
	case SectionHeader:
		return "header"
	case NumberedStep:
		return "step"
	default:
		return "plain"
	}
}

// Block is one rendered line.
//
// Content holds the bullet text with markers stripped, the tip or header line
// verbatim, the step body after the first '.', or the plain line as-is.
// Index is only set for NumberedStep.
type Block struct {
	Kind    Kind
	Content string
	Index   string
}

var stepPrefix = regexp.MustCompile(`^\d+\.`)

// Formatter classifies reply lines. The zero value uses DefaultTipMarker.
type Formatter struct {
	tipMarker string
}

// New returns a Formatter recognising tipMarker as the tip prefix.
// An empty marker selects DefaultTipMarker.
func New(tipMarker string) *Formatter {
	return &Formatter{tipMarker: tipMarker}
}

var std = New(DefaultTipMarker)

// Format classifies text with the default tip marker.
func Format(text string) []Block {
	return std.Format(text)
}

// Format splits text on newlines and returns one block per line, in order.
func (f *Formatter) Format(text string) []Block {
	lines := strings.Split(text, "\n")
	blocks := make([]Block, 0, len(lines))
	for _, line := range lines {
		blocks = append(blocks, f.classify(line))
	}
	return blocks
}

func (f *Formatter) marker() string {
	if f == nil || f.tipMarker == "" {
		return DefaultTipMarker
	}
	return f.tipMarker
}

func (f *Formatter) classify(line string) Block {
	if strings.Contains(line, "*") {
		// A line of nothing but asterisks is not a bullet; keep going.
		if content := strings.TrimSpace(strings.ReplaceAll(line, "*", "")); content != "" {
			return Block{Kind: BulletItem, Content: content}
		}
	}

	trimmed := strings.TrimSpace(line)
	switch {
	case strings.HasPrefix(trimmed, f.marker()):
		return Block{Kind: TipCallout, Content: line}
	case strings.HasSuffix(trimmed, ":"):
		return Block{Kind: SectionHeader, Content: line}
	case stepPrefix.MatchString(trimmed):
		index, rest, _ := strings.Cut(trimmed, ".")
		return Block{Kind: NumberedStep, Index: index, Content: strings.TrimSpace(rest)}
	}
	return Block{Kind: PlainText, Content: line}
}
