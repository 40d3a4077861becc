package intent

import (
	"strings"
)

// matcher inspects a command body and reports whether the rule fires,
// together with the argument extracted for the intent.
type matcher func(body, lower string) (arg string, ok bool)

type rule struct {
	kind  Kind
	match matcher
}

// rules are evaluated top to bottom; the first match wins.
var rules = []rule{
	{Farewell, containsAny("goodbye", "exit", "quit", "shutdown", "power down")},
	{Greeting, containsAny("hello", "hi", "good morning", "good evening", "how are you")},
	{TimeQuery, containsAny("time")},
	{DateQuery, containsAny("date")},
	{SystemInfoRequest, containsAny("system status", "system info", "show stats")},
	{SystemCommand, prefixAny("run ", "execute ", "command ")},
	{WebSearch, prefixAny("search ", "google ", "look up ")},
	{KnowledgeLookup, firstOf(prefixAny("wiki ", "wikipedia "), after("tell me about"))},
	{Help, containsAny("help", "what can you do", "commands")},
}

// Classify maps a command body (wake word already removed) to an intent.
// It is a pure function of body.
func Classify(body string) Intent {
	body = strings.TrimSpace(body)
	lower := strings.ToLower(body)

	for _, r := range rules {
		if arg, ok := r.match(body, lower); ok {
			return Intent{Kind: r.kind, Arg: arg}
		}
	}
	return Intent{Kind: Unknown}
}

func containsAny(words ...string) matcher {
	return func(_, lower string) (string, bool) {
		for _, w := range words {
			if strings.Contains(lower, w) {
				return "", true
			}
		}
		return "", false
	}
}

// prefixAny keeps the original casing of the remainder.
func prefixAny(prefixes ...string) matcher {
	return func(body, _ string) (string, bool) {
		for _, p := range prefixes {
			if hasPrefixFold(body, p) {
				return strings.TrimSpace(body[len(p):]), true
			}
		}
		return "", false
	}
}

// after fires when phrase occurs anywhere and returns the text following it.
func after(phrase string) matcher {
	return func(body, _ string) (string, bool) {
		idx := indexFold(body, phrase)
		if idx < 0 {
			return "", false
		}
		return strings.TrimSpace(body[idx+len(phrase):]), true
	}
}

func firstOf(ms ...matcher) matcher {
	return func(body, lower string) (string, bool) {
		for _, m := range ms {
			if arg, ok := m(body, lower); ok {
				return arg, true
			}
		}
		return "", false
	}
}
