package domain

import "fmt"

// WindowDescriptor describes the stretch of conversation a summary covers.
// LookbackMinutes and RangeLabel are alternatives; a zero descriptor means
// an unspecified period.
type WindowDescriptor struct {
	LookbackMinutes int
	RangeLabel      string
}

// Phrase renders the window for the summary intro line
func (w WindowDescriptor) Phrase() string {
	if w.LookbackMinutes > 0 {
		return fmt.Sprintf("the last %d minutes", w.LookbackMinutes)
	}
	if w.RangeLabel != "" {
		return w.RangeLabel
	}
	return "this period"
}
