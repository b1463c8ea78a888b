package common

import "fmt"

// EmptyBankError is returned by Start when the supplied bank has no
// questions. The session is left exactly as it was.
type EmptyBankError struct {
	BankName string
}

func (e *EmptyBankError) Error() string {
	if e.BankName == "" {
		return "cannot start a session with an empty question bank"
	}
	return fmt.Sprintf("cannot start a session with empty question bank %q", e.BankName)
}

func NewEmptyBankError(name string) *EmptyBankError {
	return &EmptyBankError{BankName: name}
}

// NotStartedError is returned by any session operation invoked before a
// successful Start.
type NotStartedError struct{}

func (e *NotStartedError) Error() string {
	return "session has not been started"
}

func NewNotStartedError() *NotStartedError {
	return &NotStartedError{}
}

// AlreadyAnsweredError is returned when Answer is called on a question
// that already holds an answer record.
type AlreadyAnsweredError struct {
	QuestionIndex int
}

func (e *AlreadyAnsweredError) Error() string {
	return fmt.Sprintf("question %d has already been answered", e.QuestionIndex)
}

func NewAlreadyAnsweredError(index int) *AlreadyAnsweredError {
	return &AlreadyAnsweredError{QuestionIndex: index}
}

// InvalidOptionError is returned when Answer is called with an option
// index outside the current question's answers.
type InvalidOptionError struct {
	SelectedIndex int
	NumAnswers    int
}

func (e *InvalidOptionError) Error() string {
	return fmt.Sprintf("option %d is outside [0,%d)", e.SelectedIndex, e.NumAnswers)
}

func NewInvalidOptionError(selected, numAnswers int) *InvalidOptionError {
	return &InvalidOptionError{SelectedIndex: selected, NumAnswers: numAnswers}
}

// InvalidJumpTargetError is returned by JumpTo for a question number
// outside the valid 1-based range. Min and Max carry the valid range so
// the caller can format a message - the session itself never does.
type InvalidJumpTargetError struct {
	Target int
	Min    int
	Max    int
}

func (e *InvalidJumpTargetError) Error() string {
	return fmt.Sprintf("%d is not a valid question number, valid range is [%d,%d]", e.Target, e.Min, e.Max)
}

func NewInvalidJumpTargetError(target, min, max int) *InvalidJumpTargetError {
	return &InvalidJumpTargetError{Target: target, Min: min, Max: max}
}
