package cli

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Pvilangaiah/RequirementsBot/internal/domain/ai"
)

// CLIError wraps domain errors with user-facing messages and actionable hints.
type CLIError struct {
	Message  string
	Hint     string
	Err      error
	ExitCode int
}

func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a CLIError with a default exit code of 1.
func NewCLIError(msg, hint string, err error) *CLIError {
	return &CLIError{
		Message:  msg,
		Hint:     hint,
		Err:      err,
		ExitCode: 1,
	}
}

// MapError converts known errors into CLIErrors with actionable hints.
// Unmapped errors are returned as-is.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	var upstream *ai.UpstreamError
	if errors.As(err, &upstream) {
		hint := "Inspect the upstream response body for details"
		switch upstream.Status {
		case http.StatusUnauthorized, http.StatusForbidden:
			hint = "Check REQBOT_API_KEY (or OPENAI_API_KEY) and its permissions"
		case http.StatusNotFound:
			hint = "Check the model name and base URL"
		case http.StatusTooManyRequests:
			hint = "The completion service is rate limiting; wait and retry"
		}
		return NewCLIError(
			fmt.Sprintf("completion service rejected the request (%d)", upstream.Status),
			hint,
			err,
		)
	}

	return err
}
