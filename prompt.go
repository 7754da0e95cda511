package triage

import (
	"strings"
	"text/template"
)

// PromptData is the data rendered into the instruction prompt.
type PromptData struct {
	Ticket string
}

// Both the training data and the serving path render this template. A model fine-tuned on it
// expects these exact bytes.
const instructionPrompt = `You are an IT service desk triage classifier.
Given a ticket, output STRICT JSON with keys:
category, priority, route_to, next_action
No extra text.

TICKET: {{.Ticket}}
JSON:`

const jsonMarker = "JSON:"

var promptTmpl = template.Must(template.New("triage-instruction").Parse(instructionPrompt))

// Prompt renders the instruction prompt for a ticket.
func Prompt(ticket string) string {
	buf := strings.Builder{}
	// Executing a parsed constant template into a strings.Builder with a string field cannot fail.
	if err := promptTmpl.Execute(&buf, PromptData{Ticket: ticket}); err != nil {
		panic("triage: failed to execute prompt template: " + err.Error())
	}
	return buf.String()
}

// TicketFromPrompt recovers the ticket text from a prompt produced by Prompt.
// It reports false when prompt does not have the instruction layout.
func TicketFromPrompt(prompt string) (string, bool) {
	head := Prompt("")
	prefix := strings.TrimSuffix(head, "\n"+jsonMarker)
	suffix := "\n" + jsonMarker
	if !strings.HasPrefix(prompt, prefix) || !strings.HasSuffix(prompt, suffix) ||
		len(prompt) < len(prefix)+len(suffix) {
		return "", false
	}
	return prompt[len(prefix) : len(prompt)-len(suffix)], true
}
