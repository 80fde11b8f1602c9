// Package checkpoint decorates errors with the file and line they passed through,
// which gives a short trace when the error is finally printed.
// The decorated errors still work with errors.Is and errors.As.
package checkpoint

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"strings"
)

// From wraps err into a checkpoint at the position of the caller.
// It returns nil if err is nil.
func From(err error) error {
	if err == nil || passThrough(err) {
		return err
	}

	return newCheckpoint(err, nil)
}

// Wrap adds a checkpoint on top of prev which is described further by err.
// It returns nil if prev is nil, so it can be used directly on the result of a call:
//  var ErrReadDirectory = errors.New("could not read the directory")
//
//  func list() error {
//  	err := readSectors()
//  	return checkpoint.Wrap(err, ErrReadDirectory)
//  }
// Both, ErrReadDirectory and the error from readSectors, match with errors.Is afterwards.
func Wrap(prev, err error) error {
	if prev == nil || prev == io.EOF {
		return prev
	}

	return newCheckpoint(err, prev)
}

// passThrough lists the errors which callers compare with == and therefore must never be wrapped.
// See https://github.com/golang/go/issues/39155
func passThrough(err error) bool {
	return err == io.EOF || err == io.ErrUnexpectedEOF
}

func newCheckpoint(err, prev error) *checkpoint {
	// Skip newCheckpoint and From / Wrap.
	_, file, line, ok := runtime.Caller(2)

	return &checkpoint{
		err:  err,
		prev: prev,

		callerOk: ok,
		file:     filepath.Base(file),
		line:     line,
	}
}

type checkpoint struct {
	err  error
	prev error

	callerOk bool
	file     string
	line     int
}

func (c *checkpoint) location() string {
	if !c.callerOk {
		return "unknown"
	}
	return fmt.Sprintf("%s:%d", c.file, c.line)
}

func (c *checkpoint) Error() string {
	var b strings.Builder
	b.WriteString("File: " + c.location() + "\n\t")

	if c.err != nil {
		b.WriteString(c.err.Error())
	}

	if c.prev == nil {
		return b.String()
	}

	b.WriteString("\n")
	if _, ok := c.prev.(*checkpoint); ok {
		b.WriteString(c.prev.Error())
	} else {
		b.WriteString("File: unknown\n\t" + strings.ReplaceAll(c.prev.Error(), "\n", "\n\t"))
	}

	return b.String()
}

func (c *checkpoint) Unwrap() error {
	return c.prev
}

func (c *checkpoint) Is(target error) bool {
	return c.err != nil && errors.Is(c.err, target)
}

func (c *checkpoint) As(target interface{}) bool {
	return c.err != nil && errors.As(c.err, target)
}
