package main

import "fmt"

// Exit codes for the promptlab CLI.
const (
	ExitOK             = 0 // Every prompt produced output.
	ExitInvalidArgs    = 1 // Invalid arguments, config, or no runnable prompts.
	ExitPartialFailure = 2 // Some prompts failed; their rows carry the error.
	ExitTotalFailure   = 3 // Every prompt failed, or output could not be written.
)

type exitCodeError struct {
	code int
	msg  string
}

func (e *exitCodeError) Error() string { return e.msg }

// ExitCode returns the exit code for this error.
func (e *exitCodeError) ExitCode() int { return e.code }

// exitError creates an exitCodeError. If msg is empty, the error message is
// set to a generic description of the exit code.
func exitError(code int, format string, args ...any) *exitCodeError {
	msg := fmt.Sprintf(format, args...)
	if msg == "" {
		switch code {
		case ExitPartialFailure:
			msg = "promptlab: some prompts failed"
		case ExitTotalFailure:
			msg = "promptlab: all prompts failed"
		default:
			msg = "promptlab: error"
		}
	}
	return &exitCodeError{code: code, msg: msg}
}
