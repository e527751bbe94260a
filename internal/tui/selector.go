package tui

import (
	"fmt"
	"strings"

	"github.com/san-kum/survlab/internal/viz"
)

type option struct {
	label string
	desc  string
}

// selector is a single or multi choice list. A multi selector remembers the
// order in which values were picked.
type selector struct {
	label   string
	options []option
	cursor  int
	multi   bool
	picked  []string
}

func newSelector(label string, options []option, multi bool) selector {
	return selector{label: label, options: options, multi: multi}
}

func (s selector) selected() []string {
	return append([]string(nil), s.picked...)
}

// current is the single selected value, or "" when nothing is picked.
func (s selector) current() string {
	if len(s.picked) == 0 {
		return ""
	}
	return s.picked[0]
}

func (s *selector) setSelected(values []string) {
	s.picked = nil
	for _, v := range values {
		if s.index(v) < 0 || s.position(v) >= 0 {
			continue
		}
		s.picked = append(s.picked, v)
		if !s.multi {
			break
		}
	}
	if len(s.picked) > 0 {
		s.cursor = max(s.index(s.picked[0]), 0)
	}
}

func (s *selector) up() {
	if s.cursor > 0 {
		s.cursor--
	}
}

func (s *selector) down() {
	if s.cursor < len(s.options)-1 {
		s.cursor++
	}
}

// toggle flips the option under the cursor and reports whether the
// selection changed.
func (s *selector) toggle() bool {
	if len(s.options) == 0 {
		return false
	}
	v := s.options[s.cursor].label
	if !s.multi {
		if s.current() == v {
			return false
		}
		s.picked = []string{v}
		return true
	}
	// copy on write: model values share the backing array
	next := make([]string, 0, len(s.picked)+1)
	if i := s.position(v); i >= 0 {
		next = append(next, s.picked[:i]...)
		s.picked = append(next, s.picked[i+1:]...)
		return true
	}
	s.picked = append(append(next, s.picked...), v)
	return true
}

func (s *selector) clear() bool {
	if len(s.picked) == 0 {
		return false
	}
	s.picked = nil
	return true
}

func (s selector) index(v string) int {
	for i, o := range s.options {
		if o.label == v {
			return i
		}
	}
	return -1
}

// position is v's place in the pick order, or -1.
func (s selector) position(v string) int {
	for i, p := range s.picked {
		if p == v {
			return i
		}
	}
	return -1
}

// view renders the list. For a multi selector, slot maps a picked value to
// its series colour index, or -1 when it has no series; a nil slot uses the
// pick position.
func (s selector) view(st viz.Styles, theme viz.Theme, focused bool, slot func(string) int) string {
	var b strings.Builder
	b.WriteString(st.Title.Render(s.label) + "\n\n")

	for i, o := range s.options {
		cursor := "  "
		if focused && i == s.cursor {
			cursor = st.Selected.Render("▸ ")
		}

		pos := s.position(o.label)
		var mark string
		switch {
		case pos < 0 && s.multi:
			mark = st.Dim.Render("[ ]")
		case pos < 0:
			mark = st.Dim.Render("( )")
		case s.multi:
			idx := pos
			if slot != nil {
				idx = slot(o.label)
			}
			if idx < 0 {
				mark = st.Error.Render(fmt.Sprintf("[%d]", pos+1))
				break
			}
			swatch := st.Text.Foreground(theme.SeriesColor(idx).Lipgloss())
			mark = swatch.Render(fmt.Sprintf("[%d]", pos+1))
		default:
			mark = st.Selected.Render("(•)")
		}

		label := st.Dim.Render(fmt.Sprintf("%-18s", o.label))
		if pos >= 0 || (focused && i == s.cursor) {
			label = st.Text.Render(fmt.Sprintf("%-18s", o.label))
		}
		b.WriteString(cursor + mark + " " + label)
		if o.desc != "" {
			b.WriteString(" " + st.Dim.Render(o.desc))
		}
		b.WriteString("\n")
	}
	return b.String()
}
