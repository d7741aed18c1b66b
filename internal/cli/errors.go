// Package cli provides error handling utilities for CLI output.
package cli

import (
	"fmt"
	"os"

	kaierrors "github.com/kaihub/kai/internal/errors"
)

// PrintError prints an error to stderr with appropriate formatting.
// If the error is a KaiError, it uses the user-friendly format.
// Otherwise, it prints a simple error message.
func PrintError(err error) {
	if kaiErr := kaierrors.AsKaiError(err); kaiErr != nil {
		fmt.Fprintln(os.Stderr, kaiErr.UserMessage())
		if verbose {
			// In verbose mode, also print the error code and cause
			fmt.Fprintf(os.Stderr, "\nCode: %s\n", kaiErr.Code)
			if kaiErr.HTTPStatus != 0 {
				fmt.Fprintf(os.Stderr, "HTTP status: %d\n", kaiErr.HTTPStatus)
			}
			if kaiErr.Cause != nil {
				fmt.Fprintf(os.Stderr, "Cause: %v\n", kaiErr.Cause)
			}
		}
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}
