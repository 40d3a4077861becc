package core

import (
	"context"
	"errors"
	"time"

	"github.com/Lin-Jiong-HDU/jarvis/internal/core/security"
)

// Utterance is one captured block of free text
type Utterance struct {
	Text string
	At   time.Time
}

// ResponseKind selects how a response is presented
type ResponseKind string

const (
	KindInfo    ResponseKind = "info"
	KindSuccess ResponseKind = "success"
	KindWarning ResponseKind = "warning"
	KindError   ResponseKind = "error"
)

// Response is what a handler hands to the display and speech collaborators.
// Text is meant to be both shown and spoken; Detail is screen-only.
type Response struct {
	Text     string
	Kind     ResponseKind
	Continue bool
	Priority bool
	Detail   *Detail
}

// Detail carries screen-only content attached to a response
type Detail struct {
	Title    string
	Body     string
	Markdown bool
	Facts    []Fact
}

// Fact is a single name/value row, e.g. a system statistic
type Fact struct {
	Name  string
	Value string
}

// Channel delivers responses to the user
type Channel interface {
	Deliver(ctx context.Context, resp Response) error
}

// ChannelFunc adapts a function to Channel
type ChannelFunc func(ctx context.Context, resp Response) error

func (f ChannelFunc) Deliver(ctx context.Context, resp Response) error {
	return f(ctx, resp)
}

// MultiChannel delivers to every channel in order and joins their errors.
type MultiChannel []Channel

func (m MultiChannel) Deliver(ctx context.Context, resp Response) error {
	var errs []error
	for _, ch := range m {
		if ch == nil {
			continue
		}
		if err := ch.Deliver(ctx, resp); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Searcher performs web searches and returns display-ready result lines
type Searcher interface {
	Search(ctx context.Context, query string) ([]string, error)
}

// Encyclopedia returns a display-ready summary for a topic
type Encyclopedia interface {
	Summary(ctx context.Context, topic string) (string, error)
}

// SystemInfo reports host statistics
type SystemInfo interface {
	Collect(ctx context.Context) ([]Fact, error)
}

// Recorder receives every system command resolution, including blocked ones
type Recorder interface {
	Record(cmd security.Command, result *ExecutionResult) error
}

// Features toggles the optional online handlers
type Features struct {
	WebSearch bool
	Wikipedia bool
}
