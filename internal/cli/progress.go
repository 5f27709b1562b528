package cli

import (
	"fmt"
	"io"
	"strings"
)

const progressWidth = 30

// progressBar renders substitution progress on a single terminal line.
type progressBar struct {
	w       io.Writer
	label   string
	last    int
	started bool
}

func newProgressBar(w io.Writer, label string) *progressBar {
	return &progressBar{w: w, label: label, last: -1}
}

// Update redraws the bar when the percentage changes.
func (p *progressBar) Update(done, total int) {
	if total <= 0 {
		return
	}
	pct := done * 100 / total
	if pct > 100 {
		pct = 100
	}
	if pct == p.last {
		return
	}
	p.last = pct
	p.started = true

	filled := pct * progressWidth / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", progressWidth-filled)
	_, _ = dimColor.Fprintf(p.w, "\r  %s ", p.label)
	_, _ = infoColor.Fprintf(p.w, "%s", bar)
	fmt.Fprintf(p.w, " %3d%%", pct)
}

// Done terminates the progress line.
func (p *progressBar) Done() {
	if p.started {
		fmt.Fprintln(p.w)
	}
}
