package contracts

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument marks caller mistakes such as an empty history
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInsufficientData marks a history shorter than the required minimum
	ErrInsufficientData = errors.New("insufficient data")
)

// InsufficientDataError reports how many records were required vs supplied
type InsufficientDataError struct {
	Required int
	Got      int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: need at least %d days of history, got %d", e.Required, e.Got)
}

// Is makes errors.Is(err, ErrInsufficientData) match
func (e *InsufficientDataError) Is(target error) bool {
	return target == ErrInsufficientData
}

// ParseWarning describes an input line that was skipped
type ParseWarning struct {
	Line    int    `json:"line"`
	Text    string `json:"text"`
	Message string `json:"message"`
}

func (w ParseWarning) String() string {
	return fmt.Sprintf("line %d: %s (%q)", w.Line, w.Message, w.Text)
}
