package core

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/Lin-Jiong-HDU/jarvis/internal/core/intent"
	"github.com/Lin-Jiong-HDU/jarvis/internal/core/security"
	"github.com/Lin-Jiong-HDU/jarvis/internal/logger"
)

// Options wires an Engine to its collaborators. Executor and Policies are
// required; the lookup collaborators may be nil.
type Options struct {
	WakeWord     string
	Policies     *security.PolicyStore
	Executor     *Executor
	Search       Searcher
	Encyclopedia Encyclopedia
	SystemInfo   SystemInfo
	Recorder     Recorder
	Features     Features
	Log          logger.Logger

	// Now defaults to time.Now.
	Now func() time.Time
	// Pick returns an index in [0, n) used to choose a canned reply.
	// Defaults to a random index.
	Pick func(n int) int
}

// Engine turns utterances into responses
type Engine struct {
	wakeWord     string
	policies     *security.PolicyStore
	validator    *security.Validator
	executor     *Executor
	search       Searcher
	encyclopedia Encyclopedia
	sysinfo      SystemInfo
	recorder     Recorder
	features     Features
	log          logger.Logger
	now          func() time.Time
	pick         func(n int) int
}

// NewEngine creates a new engine
func NewEngine(opts Options) *Engine {
	log := opts.Log
	if log == nil {
		log = logger.Discard()
	}
	wake := opts.WakeWord
	if wake == "" {
		wake = intent.DefaultWakeWord
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	pick := opts.Pick
	if pick == nil {
		pick = rand.Intn
	}
	return &Engine{
		wakeWord:     wake,
		policies:     opts.Policies,
		validator:    security.NewValidator(opts.Policies, log),
		executor:     opts.Executor,
		search:       opts.Search,
		encyclopedia: opts.Encyclopedia,
		sysinfo:      opts.SystemInfo,
		recorder:     opts.Recorder,
		features:     opts.Features,
		log:          log.With("component", "engine"),
		now:          now,
		pick:         pick,
	}
}

// Process resolves one utterance and delivers the response to ch. It
// returns whether the interaction loop should continue. Utterances without
// the wake word produce no delivery and continue.
func (e *Engine) Process(ctx context.Context, utt Utterance, ch Channel) (bool, error) {
	resp, dispatched := e.Handle(ctx, utt)
	if !dispatched {
		return true, nil
	}
	if err := ch.Deliver(ctx, resp); err != nil {
		return resp.Continue, fmt.Errorf("failed to deliver response: %w", err)
	}
	return resp.Continue, nil
}

// Handle classifies utt and runs the matching handler. dispatched is false
// when the wake word is absent.
func (e *Engine) Handle(ctx context.Context, utt Utterance) (resp Response, dispatched bool) {
	in, ok := intent.Route(utt.Text, e.wakeWord)
	if !ok {
		e.log.Debug("no wake word, utterance discarded")
		return Response{Continue: true}, false
	}

	e.log.Info("processing command", "intent", in.Kind.String())

	resp = e.dispatch(ctx, in)
	resp.Continue = !in.Terminal()
	return resp, true
}

func (e *Engine) dispatch(ctx context.Context, in intent.Intent) Response {
	switch in.Kind {
	case intent.Farewell:
		return Response{Text: farewellMessage, Kind: KindInfo, Priority: true}
	case intent.Greeting:
		return Response{Text: Pick(greetings, e.pick(len(greetings))), Kind: KindSuccess}
	case intent.TimeQuery:
		return Response{Text: fmt.Sprintf("The current time is %s.", e.now().Format("03:04 PM")), Kind: KindInfo}
	case intent.DateQuery:
		return Response{Text: fmt.Sprintf("Today is %s.", e.now().Format("Monday, January 02, 2006")), Kind: KindInfo}
	case intent.SystemInfoRequest:
		return e.handleSystemInfo(ctx)
	case intent.SystemCommand:
		return e.handleSystemCommand(ctx, in.Arg)
	case intent.WebSearch:
		return e.handleWebSearch(ctx, in.Arg)
	case intent.KnowledgeLookup:
		return e.handleKnowledge(ctx, in.Arg)
	case intent.Help:
		return Response{
			Text:   helpSpoken,
			Kind:   KindInfo,
			Detail: &Detail{Title: "Voice Commands", Body: helpText, Markdown: true},
		}
	default:
		return Response{Text: Pick(unknownReplies, e.pick(len(unknownReplies))), Kind: KindWarning}
	}
}

// RunCommand sanitizes, validates and, if admitted, executes raw under a
// single policy snapshot. Blocked commands never reach the executor.
func (e *Engine) RunCommand(ctx context.Context, raw string) (security.Command, *ExecutionResult) {
	cmd := security.NewCommand(raw)
	policy := e.policies.Load()

	var result *ExecutionResult
	if e.validator.ValidateWith(cmd, policy) {
		result = e.executor.Execute(ctx, cmd, policy)
	} else {
		result = Blocked()
	}

	if e.recorder != nil {
		if err := e.recorder.Record(cmd, result); err != nil {
			e.log.Error("failed to record execution", "err", err)
		}
	}
	return cmd, result
}

func (e *Engine) handleSystemCommand(ctx context.Context, raw string) Response {
	cmd, result := e.RunCommand(ctx, raw)
	return RenderResult(cmd, result)
}

// RenderResult converts an execution result into a user-facing response.
func RenderResult(cmd security.Command, result *ExecutionResult) Response {
	switch result.Status {
	case StatusSuccess:
		resp := Response{Text: "Command executed successfully.", Kind: KindSuccess}
		if result.Stdout != "" {
			resp.Detail = &Detail{Title: "Command Output: " + cmd.String(), Body: result.Stdout}
		}
		return resp
	case StatusBlocked:
		return Response{Text: "Command not allowed for security reasons.", Kind: KindError}
	case StatusTimedOut:
		return Response{Text: "Command timed out.", Kind: KindError}
	case StatusNotFound:
		return Response{Text: "Command not found.", Kind: KindError}
	case StatusFailed:
		resp := Response{
			Text: fmt.Sprintf("Command failed with exit code %d.", result.ExitCode),
			Kind: KindError,
		}
		if body := joinNonEmpty(result.Stdout, result.Stderr); body != "" {
			resp.Detail = &Detail{Title: "Command Output: " + cmd.String(), Body: body}
		}
		return resp
	default:
		return Response{Text: "Command execution failed.", Kind: KindError}
	}
}

func (e *Engine) handleSystemInfo(ctx context.Context) Response {
	if e.sysinfo == nil {
		return Response{Text: "System information is not available.", Kind: KindWarning}
	}
	facts, err := e.sysinfo.Collect(ctx)
	if err != nil {
		e.log.Error("system info error", "err", err)
	}
	if len(facts) == 0 {
		return Response{Text: "System information is not available.", Kind: KindWarning}
	}
	return Response{
		Text:   "System information displayed on screen.",
		Kind:   KindInfo,
		Detail: &Detail{Title: "System Information", Facts: facts},
	}
}

func (e *Engine) handleWebSearch(ctx context.Context, query string) Response {
	if !e.features.WebSearch || e.search == nil {
		return Response{Text: "Web search is disabled.", Kind: KindWarning}
	}
	if query == "" {
		return Response{Text: "What would you like me to search for?", Kind: KindInfo}
	}

	e.log.Info("web search", "query", query)
	results, err := e.search.Search(ctx, query)
	if err != nil {
		e.log.Error("web search error", "err", err)
		return Response{Text: fmt.Sprintf("Search failed: %v", err), Kind: KindWarning}
	}
	if len(results) == 0 {
		return Response{Text: "No search results found.", Kind: KindWarning}
	}
	return Response{
		Text: fmt.Sprintf("I found %d search results for %s. Check the screen for details.", len(results), query),
		Kind: KindInfo,
		Detail: &Detail{
			Title: fmt.Sprintf("Search results for '%s'", query),
			Body:  strings.Join(results, "\n"),
		},
	}
}

func (e *Engine) handleKnowledge(ctx context.Context, topic string) Response {
	if !e.features.Wikipedia || e.encyclopedia == nil {
		return Response{Text: "Wikipedia lookup is disabled.", Kind: KindWarning}
	}
	if topic == "" {
		return Response{Text: "What topic would you like me to look up?", Kind: KindInfo}
	}

	e.log.Info("wikipedia lookup", "topic", topic)
	summary, err := e.encyclopedia.Summary(ctx, topic)
	if err != nil {
		e.log.Error("wikipedia error", "err", err)
		return Response{Text: fmt.Sprintf("Wikipedia lookup failed: %v", err), Kind: KindWarning}
	}

	// Speak only the first line, shown in full on screen.
	brief, _, _ := strings.Cut(summary, "\n")
	if r := []rune(brief); len(r) > 150 {
		brief = string(r[:150]) + "..."
	}
	return Response{
		Text: fmt.Sprintf("Here's what I found about %s: %s", topic, brief),
		Kind: KindInfo,
		Detail: &Detail{
			Title: fmt.Sprintf("Wikipedia summary for '%s'", topic),
			Body:  summary,
		},
	}
}
