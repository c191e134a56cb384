// Package extract pulls plain text out of uploaded documents (PDF, DOCX,
// PPTX, TXT). Extractors are best-effort: missing or unreadable content
// surfaces as an empty result, never as an error to the caller.
package extract

import "strings"

// Outcome classifies how an extraction attempt ended.
type Outcome int

const (
	// OutcomeData means the extractor produced non-empty text.
	OutcomeData Outcome = iota
	// OutcomeEmpty means the document was readable but held no text.
	OutcomeEmpty
	// OutcomeFailed means the document could not be read at all.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeData:
		return "data"
	case OutcomeEmpty:
		return "empty"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the outcome of one extraction attempt. Text is always usable
// as a string; Empty and Failed both carry "".
type Result struct {
	Text    string
	Outcome Outcome
}

func dataOrEmpty(text string) Result {
	if strings.TrimSpace(text) == "" {
		return Result{Outcome: OutcomeEmpty}
	}
	return Result{Text: text, Outcome: OutcomeData}
}

func failed() Result {
	return Result{Outcome: OutcomeFailed}
}
