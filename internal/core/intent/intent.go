package intent

import (
	"strings"
)

// Kind is the category of a command body
type Kind int

const (
	Unknown Kind = iota
	Greeting
	Farewell
	TimeQuery
	DateQuery
	SystemInfoRequest
	SystemCommand
	WebSearch
	KnowledgeLookup
	Help
)

// String returns the string representation of a Kind.
func (k Kind) String() string {
	switch k {
	case Greeting:
		return "greeting"
	case Farewell:
		return "farewell"
	case TimeQuery:
		return "time_query"
	case DateQuery:
		return "date_query"
	case SystemInfoRequest:
		return "system_info"
	case SystemCommand:
		return "system_command"
	case WebSearch:
		return "web_search"
	case KnowledgeLookup:
		return "knowledge_lookup"
	case Help:
		return "help"
	default:
		return "unknown"
	}
}

// Intent is a classified command body. Arg carries the raw command text
// for SystemCommand, the query for WebSearch and the topic for
// KnowledgeLookup; it is empty for the other kinds.
type Intent struct {
	Kind Kind
	Arg  string
}

// Terminal reports whether the intent ends the interaction loop.
func (i Intent) Terminal() bool {
	return i.Kind == Farewell
}

// DefaultWakeWord is used when configuration leaves the wake word empty.
const DefaultWakeWord = "jarvis"

// StripWakeWord removes the first case-insensitive occurrence of wake from
// text and trims the remainder. ok is false when the wake word is absent.
func StripWakeWord(text, wake string) (body string, ok bool) {
	if wake == "" {
		wake = DefaultWakeWord
	}
	idx := indexFold(text, wake)
	if idx < 0 {
		return "", false
	}
	body = text[:idx] + text[idx+len(wake):]
	body = strings.TrimSpace(body)
	// "jarvis, run ls" leaves a separator in front of the command
	body = strings.TrimSpace(strings.TrimLeft(body, ",:"))
	return body, true
}

// Route strips the wake word and classifies the rest. ok is false when the
// utterance must be discarded.
func Route(text, wake string) (Intent, bool) {
	body, ok := StripWakeWord(text, wake)
	if !ok {
		return Intent{}, false
	}
	return Classify(body), true
}

// indexFold is strings.Index with Unicode case folding.
func indexFold(s, substr string) int {
	n := len(substr)
	if n == 0 {
		return 0
	}
	for i := 0; i+n <= len(s); i++ {
		if strings.EqualFold(s[i:i+n], substr) {
			return i
		}
	}
	return -1
}

// hasPrefixFold reports whether s starts with the ASCII prefix, ignoring case.
func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
