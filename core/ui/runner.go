// Package ui - Interactive conversion session
package ui

import (
	"bufio"
	"context"
	"io"
	"strings"
)

// Session reads quantities line by line and hands each to a callback
type Session struct {
	w      *Writer
	prompt string
}

// NewSession creates an interactive session writing to w
func NewSession(w *Writer) *Session {
	return &Session{
		w:      w,
		prompt: "> ",
	}
}

// SetPrompt replaces the input prompt; empty disables it
func (s *Session) SetPrompt(prompt string) {
	s.prompt = prompt
}

// Run reads until EOF, "quit", or ctx is done. Blank lines are skipped.
// convert returns false when nothing could be converted.
//
// Reading happens on its own goroutine so cancellation is seen while
// waiting for input. That goroutine stays blocked in Read until in
// delivers or closes.
func (s *Session) Run(ctx context.Context, in io.Reader, convert func(line string) (bool, error)) error {
	lines := make(chan string)
	errc := make(chan error, 1)
	done := make(chan struct{})
	defer close(done)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
		errc <- scanner.Err()
	}()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if s.prompt != "" {
			s.w.Print("%s", s.w.Color(Dim, s.prompt))
		}

		var text string
		select {
		case <-ctx.Done():
			return ctx.Err()
		case l, ok := <-lines:
			if !ok {
				return <-errc
			}
			text = l
		}

		line := strings.TrimSpace(text)
		switch line {
		case "":
			continue
		case "quit", "exit":
			return nil
		}

		s.w.Debug("converting %q", line)
		ok, err := convert(line)
		if err != nil {
			return err
		}
		if !ok {
			s.w.Warning("no conversions for %q", line)
		}
	}
}
