package main

import (
	"errors"
	"fmt"
	"io"

	"radarnet/internal/loader"
	"radarnet/internal/model"
	"radarnet/internal/risk"
)

// Exit codes.
const (
	ExitSuccess      = 0 // Scored, threshold not met or not requested
	ExitFailure      = 1 // Invalid input, usage or I/O error
	ExitThresholdMet = 2 // Severity at or above --fail-on
)

// errThresholdMet signals a successful run whose severity met --fail-on.
var errThresholdMet = errors.New("severity threshold met")

func exitCode(err error, stderr io.Writer) int {
	if err == nil {
		return ExitSuccess
	}
	if errors.Is(err, errThresholdMet) {
		return ExitThresholdMet
	}

	var (
		vErr      *model.ValidationError
		argErr    *risk.InvalidArgumentError
		malformed *loader.MalformedInputError
	)
	switch {
	case errors.As(err, &vErr), errors.As(err, &argErr), errors.As(err, &malformed):
		fmt.Fprintf(stderr, "Error: invalid input: %v\n", err)
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return ExitFailure
}
