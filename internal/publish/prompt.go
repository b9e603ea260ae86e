package publish

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompter asks the user for missing credentials.
type Prompter interface {
	Username() (string, error)
	Password() (string, error)
}

// TerminalPrompter prompts on out and reads from in. The password is read
// without echo when in is a terminal and as a plain line otherwise (pipes,
// IDE consoles).
type TerminalPrompter struct {
	in     *os.File
	out    io.Writer
	reader *bufio.Reader
}

// NewTerminalPrompter returns a prompter for the given input and output.
func NewTerminalPrompter(in *os.File, out io.Writer) *TerminalPrompter {
	return &TerminalPrompter{in: in, out: out, reader: bufio.NewReader(in)}
}

// Username reads one trimmed line.
func (p *TerminalPrompter) Username() (string, error) {
	fmt.Fprintln(p.out, "Please enter your username:")
	return p.readLine()
}

// Password reads a masked line, falling back to a visible one.
func (p *TerminalPrompter) Password() (string, error) {
	fmt.Fprint(p.out, "Please enter your password: ")
	fd := int(p.in.Fd())
	if term.IsTerminal(fd) {
		password, err := term.ReadPassword(fd)
		fmt.Fprintln(p.out)
		if err == nil {
			return string(password), nil
		}
	}
	return p.readLine()
}

func (p *TerminalPrompter) readLine() (string, error) {
	line, err := p.reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
