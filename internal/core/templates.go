package core

// Canned replies. Selection from a set goes through Pick so the choice is a
// pure function of the supplied index.

var greetings = []string{
	"Hello, sir. How may I assist you today?",
	"Good to see you again, sir. All systems are at your disposal.",
	"Greetings. JARVIS reporting for duty.",
	"Hello, sir. What can I do for you today?",
}

var unknownReplies = []string{
	"I'm not sure how to help with that request, sir. Try saying 'Jarvis help' for available commands.",
	"I don't understand that command. Say 'Jarvis help' to see what I can do.",
	"That command is not recognized. Please try rephrasing or ask for help.",
	"I'm afraid I don't have that capability yet. Say 'Jarvis help' for available commands.",
}

const (
	welcomeMessage  = "Good day, sir. JARVIS at your service. All systems operational and ready for your commands."
	farewellMessage = "Shutting down all systems. It has been a pleasure serving you today, sir. Goodbye."
	offlineMessage  = "JARVIS systems offline. Thank you for using JARVIS!"
	helpSpoken      = "I can help with system commands, web searches, Wikipedia lookups, and general assistance. Check the screen for a complete list."
)

const helpText = `## Available Commands

- **Greetings**: "Jarvis, hello" or "Jarvis, good morning"
- **Time & Date**: "Jarvis, what time is it?" or "Jarvis, what's the date?"
- **System Info**: "Jarvis, system status" or "Jarvis, show stats"
- **System Commands**: "Jarvis, run ls" or "Jarvis, execute ps"
- **Web Search**: "Jarvis, search Python tutorials"
- **Wikipedia**: "Jarvis, wiki Albert Einstein" or "Jarvis, tell me about quantum physics"
- **Exit**: "Jarvis, goodbye" or "Jarvis, shutdown"

Just say 'Jarvis' followed by your command!
`

// Pick returns set[idx] with idx reduced modulo len(set). Negative indexes
// wrap the same way. An empty set yields "".
func Pick(set []string, idx int) string {
	if len(set) == 0 {
		return ""
	}
	i := idx % len(set)
	if i < 0 {
		i += len(set)
	}
	return set[i]
}

// Greetings returns the greeting template set.
func Greetings() []string {
	return append([]string(nil), greetings...)
}

// UnknownReplies returns the fallback template set.
func UnknownReplies() []string {
	return append([]string(nil), unknownReplies...)
}

// WelcomeResponse is delivered once when a listen session starts.
func WelcomeResponse() Response {
	return Response{Text: welcomeMessage, Kind: KindSuccess, Continue: true, Priority: true}
}

// OfflineResponse is delivered once when a listen session ends.
func OfflineResponse() Response {
	return Response{Text: offlineMessage, Kind: KindWarning, Continue: false}
}
