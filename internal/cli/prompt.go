package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// errEndOfInput is returned when stdin is exhausted.
var errEndOfInput = errors.New("end of input")

// terminal reads answers line by line and writes prompts to out. It also
// serves as the dashboard's Prompter.
type terminal struct {
	in  *bufio.Scanner
	out io.Writer
	// tty is set when input comes from an interactive terminal.
	tty *os.File
}

func newTerminal(in io.Reader, out io.Writer) *terminal {
	t := &terminal{in: bufio.NewScanner(in), out: out}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		t.tty = f
	}
	return t
}

// ask prints label and returns the next trimmed line.
func (t *terminal) ask(label string) (string, error) {
	fmt.Fprint(t.out, label)
	if !t.in.Scan() {
		if err := t.in.Err(); err != nil {
			return "", err
		}
		return "", errEndOfInput
	}
	return strings.TrimSpace(t.in.Text()), nil
}

// askSecret is ask without echo when reading from a terminal.
func (t *terminal) askSecret(label string) (string, error) {
	if t.tty == nil {
		return t.ask(label)
	}
	fmt.Fprint(t.out, label)
	secret, err := term.ReadPassword(int(t.tty.Fd()))
	fmt.Fprintln(t.out)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(secret)), nil
}

// askDefault is ask with a value used when the answer is blank.
func (t *terminal) askDefault(label, def string) (string, error) {
	answer, err := t.ask(fmt.Sprintf("%s [%s]: ", label, def))
	if err != nil || answer != "" {
		return answer, err
	}
	return def, nil
}

func (t *terminal) Confirm(message string) bool {
	answer, err := t.ask(message + " [y/N]: ")
	if err != nil {
		return false
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func (t *terminal) Alert(message string) {
	fmt.Fprintf(t.out, "! %s\n", message)
}
