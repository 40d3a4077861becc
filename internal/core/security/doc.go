// Package security decides whether a spoken system command may run.
//
// The pieces sit between the intent router and the command executor:
//
//   - Sanitize strips shell metacharacters from free text
//   - NewCommand is the only way to build a Command, so every Command
//     carries sanitized text
//   - Validator checks a sanitized command against a Policy
//     (deny patterns anywhere in the string, then the allow-list on the
//     first token)
//
// Only the base command is whitelisted. Arguments are checked by the deny
// patterns alone, so an allowed program may be called with any arguments
// that survive sanitization.
package security
