// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"baggage-cli/internal/issue"
)

// Process exit codes. Failures without a more specific code exit with ExitFailure.
const (
	ExitFailure     = 1
	ExitInvalidMap  = 2
	ExitBuildFailed = 3
)

// exitCodes maps guidance entries to the exit code of the failure they describe.
var exitCodes = map[issue.Id]int{
	issue.SourceMapMalformedId: ExitInvalidMap,
	issue.BundleFailedId:       ExitBuildFailed,
}

// ExitError signals a non-zero exit code without forcing os.Exit in RunE handlers.
type ExitError struct {
	Code int
	Err  error
}

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// exitCodeFor returns the process exit code for err.
func exitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Code != 0 {
		return exitErr.Code
	}
	return ExitFailure
}
