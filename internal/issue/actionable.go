// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"strings"
)

// ActionableError is a failure reported to the user together with what was
// being attempted, the file involved, and what to try next.
//
//	return issue.New("load configuration", path, err).
//		Suggest("Run 'baggage config init' to create one").
//		WithGuidance(issue.ConfigLoadFailedId)
type ActionableError struct {
	// Operation is a verb phrase such as "load configuration".
	Operation string
	// Resource is the file or entity involved, if any.
	Resource string
	// Suggestions are short fixes listed under the message.
	Suggestions []string
	// Guidance selects the catalog entry rendered with the error. Zero means
	// none.
	Guidance Id
	// Cause is the underlying error.
	Cause error
}

// New returns an ActionableError for operation on resource.
func New(operation, resource string, cause error) *ActionableError {
	return &ActionableError{Operation: operation, Resource: resource, Cause: cause}
}

// Wrap is New for callers that only have a cause. A nil cause yields nil.
func Wrap(cause error, operation, resource string) error {
	if cause == nil {
		return nil
	}
	return New(operation, resource, cause)
}

// Suggest appends suggestions and returns e.
func (e *ActionableError) Suggest(suggestions ...string) *ActionableError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// WithGuidance attaches a catalog entry and returns e.
func (e *ActionableError) WithGuidance(id Id) *ActionableError {
	e.Guidance = id
	return e
}

// Error returns "failed to <operation>: <resource>: <cause>", leaving out the
// parts that are empty.
func (e *ActionableError) Error() string {
	parts := []string{"failed to " + e.Operation}
	if e.Resource != "" {
		parts = append(parts, e.Resource)
	}
	if e.Cause != nil {
		parts = append(parts, e.Cause.Error())
	}
	return strings.Join(parts, ": ")
}

// Unwrap returns the cause.
func (e *ActionableError) Unwrap() error {
	return e.Cause
}

// Format renders the message and its suggestions. In verbose mode each link of
// the cause chain follows on its own line.
func (e *ActionableError) Format(verbose bool) string {
	lines := []string{e.Error()}
	if len(e.Suggestions) > 0 {
		lines = append(lines, "")
		for _, s := range e.Suggestions {
			lines = append(lines, "  • "+s)
		}
	}
	if verbose {
		for err := e.Cause; err != nil; err = errors.Unwrap(err) {
			lines = append(lines, "  caused by: "+err.Error())
		}
	}
	return strings.Join(lines, "\n")
}

// GuidanceOf returns the catalog entry of the outermost ActionableError in
// err's chain that names one.
func GuidanceOf(err error) (Id, bool) {
	for err != nil {
		var ae *ActionableError
		if !errors.As(err, &ae) {
			return 0, false
		}
		if ae.Guidance != 0 {
			return ae.Guidance, true
		}
		err = ae.Cause
	}
	return 0, false
}
