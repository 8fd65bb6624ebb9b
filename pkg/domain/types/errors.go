package types

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidSelector is returned when a dataset, version or annotation name is not in the registry.
	ErrInvalidSelector = errors.New("invalid dataset selector")

	// ErrFetchFailure wraps network, checksum and extraction failures raised while retrieving files.
	ErrFetchFailure = errors.New("failed to fetch dataset files")

	// ErrParseFailure wraps malformed downloaded content.
	ErrParseFailure = errors.New("failed to parse dataset file")

	// ErrResultMismatch means the fetcher returned a different number of paths than requested.
	ErrResultMismatch = errors.New("fetch result does not match request")
)

// SelectorError reports an unknown selector together with every valid choice.
type SelectorError struct {
	Dataset  string
	Selector string
	Choices  []string
}

func (e *SelectorError) Error() string {
	if len(e.Choices) == 0 {
		return fmt.Sprintf("%s takes no selector; got %q", e.Dataset, e.Selector)
	}
	return fmt.Sprintf("%s %q does not exist; must be one of [%s]",
		e.Dataset, e.Selector, strings.Join(e.Choices, ", "))
}

// Unwrap lets errors.Is(err, ErrInvalidSelector) match.
func (e *SelectorError) Unwrap() error {
	return ErrInvalidSelector
}

// NewSelectorError copies choices so callers can keep mutating their slice.
func NewSelectorError(dataset, selector string, choices []string) *SelectorError {
	c := make([]string, len(choices))
	copy(c, choices)
	return &SelectorError{
		Dataset:  dataset,
		Selector: selector,
		Choices:  c,
	}
}

// FetchError is a retrieval failure. It matches ErrFetchFailure and keeps its cause in the chain,
// so errors.Is(err, context.DeadlineExceeded) still holds for a timed out download.
type FetchError struct {
	Cause error
}

// NewFetchError wraps cause as a fetch failure.
func NewFetchError(cause error) *FetchError {
	return &FetchError{Cause: cause}
}

func (e *FetchError) Error() string {
	return ErrFetchFailure.Error() + ": " + e.Cause.Error()
}

func (e *FetchError) Unwrap() []error {
	return []error{ErrFetchFailure, e.Cause}
}
