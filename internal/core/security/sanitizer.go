package security

import (
	"strings"
)

// DangerousChars are removed from user input before anything else sees it.
const DangerousChars = ";&|`$()<>"

var stripper = func() *strings.Replacer {
	pairs := make([]string, 0, 2*len(DangerousChars))
	for _, ch := range DangerousChars {
		pairs = append(pairs, string(ch), "")
	}
	return strings.NewReplacer(pairs...)
}()

// Sanitize removes shell metacharacters and trims surrounding whitespace.
// It never fails and Sanitize(Sanitize(s)) == Sanitize(s).
func Sanitize(input string) string {
	return strings.TrimSpace(stripper.Replace(input))
}

// Command is a sanitized command line. The zero value is an empty command.
type Command struct {
	text string
	argv []string
}

// NewCommand sanitizes raw and splits it on whitespace.
func NewCommand(raw string) Command {
	text := Sanitize(raw)
	return Command{
		text: text,
		argv: strings.Fields(text),
	}
}

// String returns the sanitized command text.
func (c Command) String() string {
	return c.text
}

// Argv returns a copy of the argument vector.
func (c Command) Argv() []string {
	return append([]string(nil), c.argv...)
}

// Base returns the first token, or "" for an empty command.
func (c Command) Base() string {
	if len(c.argv) == 0 {
		return ""
	}
	return c.argv[0]
}

// IsEmpty reports whether the command has no tokens.
func (c Command) IsEmpty() bool {
	return len(c.argv) == 0
}
