package console

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/aalvaropc/fluidcheck/internal/domain"
	"github.com/aalvaropc/fluidcheck/internal/ports"
)

// Pretty streams findings to w as they are reported.
type Pretty struct {
	w        io.Writer
	color    bool
	findings []domain.Finding
}

func NewPretty(w io.Writer, color bool) *Pretty {
	return &Pretty{w: w, color: color}
}

var _ ports.Reporter = (*Pretty)(nil)

func (p *Pretty) Report(f domain.Finding) {
	p.findings = append(p.findings, f)

	msg := f.Message
	if p.color {
		msg = Colorize(LevelColor(f.Level), msg)
	}
	fmt.Fprintln(p.w, msg)
	for _, r := range f.Remedy {
		fmt.Fprintln(p.w, r)
	}
}

func (p *Pretty) Blank() {
	fmt.Fprintln(p.w)
}

// Summary prints a card with the ok/warn/fail tally.
func (p *Pretty) Summary() {
	t := domain.Count(p.findings)
	fmt.Fprintln(p.w, SummaryCard(t, p.color))
}

// SummaryCard renders the tally in a rounded box.
func SummaryCard(t domain.Tally, color bool) string {
	ok := fmt.Sprintf("%d ok", t.OK)
	warn := fmt.Sprintf("%d warning(s)", t.Warn)
	fail := fmt.Sprintf("%d missing", t.Fail)
	if color {
		ok = Colorize(Green, ok)
		warn = Colorize(Yellow, warn)
		fail = Colorize(Red, fail)
	}

	verdict := "Installation looks complete."
	if t.Fail > 0 {
		verdict = "Installation is incomplete, see the suggestions above."
	}

	card := lipgloss.NewStyle().
		Padding(0, 1).
		BorderStyle(lipgloss.RoundedBorder())
	if color {
		card = card.BorderForeground(lipgloss.Color("63"))
	}
	return card.Render(ok + "  " + warn + "  " + fail + "\n" + verdict)
}
