package mlog

import (
	"io"
	"strings"

	"github.com/dogmatiq/iago/must"
)

// String renders a log line.
//
// A line consists of the labelled ids, then the icons, then each non-empty
// text segment separated by SeparatorIcon.
func String(
	ids []IconWithLabel,
	icons []Icon,
	text ...string,
) string {
	var b strings.Builder
	line{&b}.write(ids, icons, text)
	return b.String()
}

// Write renders a log line to w.
func Write(
	w io.Writer,
	ids []IconWithLabel,
	icons []Icon,
	text ...string,
) (n int, err error) {
	defer must.Recover(&err)
	return line{w}.write(ids, icons, text), nil
}

// line writes the parts of a log line to an io.Writer, panicking on failure.
type line struct {
	w io.Writer
}

func (l line) write(
	ids []IconWithLabel,
	icons []Icon,
	text []string,
) (n int) {
	for _, id := range ids {
		n += must.WriteTo(l.w, id)
		n += must.WriteString(l.w, "  ")
	}

	for _, icon := range icons {
		n += must.WriteTo(l.w, icon)
		n += must.WriteString(l.w, " ")
	}

	first := true
	for _, t := range text {
		if t == "" {
			continue
		}

		n += must.WriteString(l.w, " ")
		if !first {
			n += must.WriteTo(l.w, SeparatorIcon)
			n += must.WriteString(l.w, " ")
		}
		n += must.WriteString(l.w, t)

		first = false
	}

	return n
}
