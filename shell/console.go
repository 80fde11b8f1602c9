package shell

import (
	"bufio"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// Console is the line oriented terminal the shell talks to.
type Console interface {
	// ReadLine blocks until a complete line is read and stores it without the newline in buf.
	// Bytes exceeding len(buf) are dropped.
	ReadLine(buf []byte) (int, error)
	WriteString(s string) (int, error)
	Clear() error
}

const clearScreen = "\033[H\033[2J"

// TTY is a Console reading from and writing to plain streams.
type TTY struct {
	in  *bufio.Reader
	out io.Writer
}

func NewTTY(in io.Reader, out io.Writer) *TTY {
	return &TTY{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// ReadLine reads the next line. A line ending with "\r\n" is accepted as well.
// If the input ends without a newline, the rest is returned as last line and io.EOF follows on the next call.
func (t *TTY) ReadLine(buf []byte) (int, error) {
	n := 0
	for {
		b, err := t.in.ReadByte()
		if err == io.EOF && n > 0 {
			break
		}
		if err != nil {
			return n, err
		}

		if b == '\n' {
			break
		}

		// Truncate, but keep reading until the end of the line.
		if n < len(buf) {
			buf[n] = b
			n++
		}
	}

	if n > 0 && buf[n-1] == '\r' {
		n--
	}

	return n, nil
}

func (t *TTY) WriteString(s string) (int, error) {
	return io.WriteString(t.out, s)
}

// Clear clears the screen. It does nothing if the output is no terminal.
func (t *TTY) Clear() error {
	file, ok := t.out.(*os.File)
	if !ok || !(isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())) {
		return nil
	}

	_, err := io.WriteString(t.out, clearScreen)
	return err
}

// consoleWriter allows to use a Console as io.Writer.
type consoleWriter struct {
	Console
}

func (c consoleWriter) Write(p []byte) (int, error) {
	return c.WriteString(string(p))
}
