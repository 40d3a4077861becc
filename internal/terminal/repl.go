package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Lin-Jiong-HDU/jarvis/internal/core"
	"github.com/Lin-Jiong-HDU/jarvis/internal/logger"
)

// ErrUserExit signals that the user asked to leave the loop
var ErrUserExit = errors.New("user requested exit")

// Transcript records the conversation
type Transcript interface {
	AddMessage(role, content string) error
}

// Transcript roles
const (
	roleUser      = "user"
	roleAssistant = "assistant"
)

// REPL is the interactive listen loop
type REPL struct {
	engine     *core.Engine
	listener   Listener
	channel    core.Channel
	transcript Transcript
	out        io.Writer
	log        logger.Logger
}

// NewREPL creates a REPL. transcript may be nil.
func NewREPL(engine *core.Engine, listener Listener, channel core.Channel, transcript Transcript, out io.Writer, log logger.Logger) *REPL {
	if log == nil {
		log = logger.Discard()
	}
	if out == nil {
		out = io.Discard
	}
	return &REPL{
		engine:     engine,
		listener:   listener,
		channel:    channel,
		transcript: transcript,
		out:        out,
		log:        log.With("component", "repl"),
	}
}

// Run delivers the welcome message and processes utterances until the user
// says farewell, input ends, or ctx is cancelled. The offline notice is
// delivered on every exit path.
func (r *REPL) Run(ctx context.Context) error {
	r.deliver(ctx, core.WelcomeResponse())
	defer r.deliver(context.WithoutCancel(ctx), core.OfflineResponse())

	for {
		if ctx.Err() != nil {
			r.log.Info("interrupted", "err", ctx.Err())
			return nil
		}

		utt, err := r.listener.Listen(ctx)
		if err != nil {
			switch {
			case errors.Is(err, io.EOF):
				r.log.Info("input closed")
				return nil
			case ctx.Err() != nil:
				r.log.Info("interrupted", "err", ctx.Err())
				return nil
			default:
				return err
			}
		}
		if ctx.Err() != nil {
			r.log.Info("interrupted", "err", ctx.Err())
			return nil
		}

		if err := r.ProcessInput(ctx, utt); err != nil {
			if errors.Is(err, ErrUserExit) {
				return nil
			}
			return err
		}
	}
}

// ProcessInput handles one utterance. Lines starting with "/" are local
// REPL commands; everything else goes to the engine. ErrUserExit is
// returned when the loop should stop.
func (r *REPL) ProcessInput(ctx context.Context, utt core.Utterance) error {
	input := strings.TrimSpace(utt.Text)
	if input == "" {
		return nil
	}

	if strings.HasPrefix(input, "/") {
		shouldExit, err := r.HandleCommand(input)
		if err != nil {
			return err
		}
		if shouldExit {
			return ErrUserExit
		}
		return nil
	}

	r.record(roleUser, input)

	resp, dispatched := r.engine.Handle(ctx, utt)
	if !dispatched {
		return nil
	}
	r.deliver(ctx, resp)

	if !resp.Continue {
		return ErrUserExit
	}
	return nil
}

// HandleCommand handles a slash command and reports whether to exit
func (r *REPL) HandleCommand(cmd string) (bool, error) {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return false, nil
	}

	switch parts[0] {
	case "/exit", "/quit":
		return true, nil

	case "/help":
		r.DisplayHelp()
		return false, nil

	case "/clear":
		fmt.Fprint(r.out, "\033[H\033[2J")
		return false, nil

	default:
		fmt.Fprintf(r.out, "Unknown command: %s\n", parts[0])
		return false, nil
	}
}

// DisplayHelp prints the local commands
func (r *REPL) DisplayHelp() {
	help := `
Local commands:
  /help              show this help
  /clear             clear the screen
  /exit, /quit       leave without saying goodbye

Say "jarvis help" for voice commands.
`
	fmt.Fprintln(r.out, help)
}

func (r *REPL) deliver(ctx context.Context, resp core.Response) {
	r.record(roleAssistant, resp.Text)
	if err := r.channel.Deliver(ctx, resp); err != nil {
		r.log.Error("delivery failed", "err", err)
	}
}

func (r *REPL) record(role, content string) {
	if r.transcript == nil {
		return
	}
	if err := r.transcript.AddMessage(role, content); err != nil {
		r.log.Warn("failed to save transcript", "err", err)
	}
}
