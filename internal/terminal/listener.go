package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/Lin-Jiong-HDU/jarvis/internal/core"
)

// Listener captures utterances. Listen returns io.EOF when input ends.
type Listener interface {
	Listen(ctx context.Context) (core.Utterance, error)
}

type lineResult struct {
	text string
	err  error
}

// LineListener reads one utterance per line
type LineListener struct {
	in     io.Reader
	out    io.Writer
	prompt string
	now    func() time.Time

	once  sync.Once
	lines chan lineResult
}

// NewLineListener creates a listener over in. When out is non-nil the prompt
// is written to it before each read.
func NewLineListener(in io.Reader, out io.Writer, prompt string) *LineListener {
	return &LineListener{
		in:     in,
		out:    out,
		prompt: prompt,
		now:    time.Now,
		lines:  make(chan lineResult),
	}
}

// Listen blocks until a line is read, input ends, or ctx is done.
func (l *LineListener) Listen(ctx context.Context) (core.Utterance, error) {
	l.once.Do(func() { go l.scan() })

	if l.out != nil && l.prompt != "" {
		fmt.Fprint(l.out, l.prompt)
	}

	// A queued line must not win over an already cancelled ctx.
	if err := ctx.Err(); err != nil {
		return core.Utterance{}, err
	}

	select {
	case <-ctx.Done():
		return core.Utterance{}, ctx.Err()
	case res, ok := <-l.lines:
		if !ok {
			return core.Utterance{}, io.EOF
		}
		if res.err != nil {
			return core.Utterance{}, res.err
		}
		return core.Utterance{Text: res.text, At: l.now()}, nil
	}
}

// scan runs for the lifetime of the input; a blocked read can't be
// interrupted, so Listen gives up on ctx instead.
func (l *LineListener) scan() {
	defer close(l.lines)

	scanner := bufio.NewScanner(l.in)
	for scanner.Scan() {
		l.lines <- lineResult{text: scanner.Text()}
	}
	if err := scanner.Err(); err != nil {
		l.lines <- lineResult{err: fmt.Errorf("failed to read input: %w", err)}
	}
}
