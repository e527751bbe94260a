package tui

import (
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
)

const panicToast = "Unexpected error (see logs)"

// safeModel keeps the program alive when the wrapped model panics. The
// panic is logged and the last good model stays in place.
type safeModel struct {
	inner tea.Model
	log   *slog.Logger
	toast string
}

func wrapSafe(m tea.Model, log *slog.Logger) safeModel {
	if log == nil {
		log = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return safeModel{inner: m, log: log}
}

func (s safeModel) Init() tea.Cmd {
	return s.inner.Init()
}

func (s safeModel) Update(msg tea.Msg) (tm tea.Model, cmd tea.Cmd) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("panic.recovered",
				"where", "tui.update",
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()),
			)
			s.toast = panicToast
			tm = s
			cmd = nil
		}
	}()

	if _, ok := msg.(tea.KeyMsg); ok {
		s.toast = ""
	}
	inner, c := s.inner.Update(msg)
	if sm, ok := inner.(safeModel); ok {
		return sm, c
	}
	s.inner = inner
	return s, c
}

func (s safeModel) View() (out string) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("panic.recovered",
				"where", "tui.view",
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()),
			)
			out = panicToast
		}
	}()
	out = s.inner.View()
	if s.toast != "" {
		out += "\n" + s.toast
	}
	return out
}

var _ tea.Model = safeModel{}
