package cli

// This file implements terminal output on top of pterm. Printer satisfies
// publish.Reporter so the upload batch can report progress through it.

import (
	"io"
	"os"

	"github.com/pterm/pterm"
	"golang.org/x/term"
)

// Printer writes styled messages. Quiet suppresses everything except
// warnings and errors.
type Printer struct {
	Quiet  bool
	Writer io.Writer
}

// DefaultPrinter writes to stdout.
var DefaultPrinter = &Printer{}

var stepPrefix = pterm.Prefix{Text: "STEP", Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack)}

func (p *Printer) writer() io.Writer {
	if p.Writer == nil {
		return os.Stdout
	}
	return p.Writer
}

func (p *Printer) prefixed(printer pterm.PrefixPrinter, msg string) {
	printer.Writer = p.writer()
	printer.Println(msg)
}

// Section prints a section heading.
func (p *Printer) Section(title string) {
	if p.Quiet {
		return
	}
	section := pterm.DefaultSection
	section.Writer = p.writer()
	section.Println(title)
}

// Step announces the start of a unit of work.
func (p *Printer) Step(msg string) {
	if p.Quiet {
		return
	}
	step := pterm.Info
	step.Prefix = stepPrefix
	p.prefixed(step, msg)
}

func (p *Printer) Info(msg string) {
	if p.Quiet {
		return
	}
	p.prefixed(pterm.Info, msg)
}

func (p *Printer) Success(msg string) {
	if p.Quiet {
		return
	}
	p.prefixed(pterm.Success, msg)
}

func (p *Printer) Warn(msg string) {
	p.prefixed(pterm.Warning, msg)
}

func (p *Printer) Error(msg string) {
	p.prefixed(pterm.Error, msg)
}

// TableBoxed renders data with its first row as header inside a box.
// Empty data prints nothing.
func (p *Printer) TableBoxed(data [][]string) {
	if p.Quiet || len(data) == 0 {
		return
	}
	_ = pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(data).WithWriter(p.writer()).Render()
}

// isTerminal is replaced in tests.
var isTerminal = term.IsTerminal

// ConfigureStyling turns off colors and box styling when out is not a
// terminal, so piped and redirected output stays free of escape codes.
// It reports whether styling was left on.
func ConfigureStyling(out *os.File) bool {
	if out != nil && isTerminal(int(out.Fd())) {
		return true
	}
	pterm.DisableStyling()
	return false
}

func Green(s string) string  { return pterm.Green(s) }
func Yellow(s string) string { return pterm.Yellow(s) }
func Red(s string) string    { return pterm.Red(s) }
func Cyan(s string) string   { return pterm.Cyan(s) }
