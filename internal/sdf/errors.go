package sdf

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidGraph reports negative counts, rates or costs.
	ErrInvalidGraph = errors.New("invalid graph")
	// ErrMalformedGraph reports a graph shape the scheduler cannot analyze.
	ErrMalformedGraph = errors.New("malformed graph")
	// ErrNotSchedulable reports that no firing order satisfies the
	// repetition vector.
	ErrNotSchedulable = errors.New("no schedule found")
	// ErrStateLimit reports that the search generated more states than allowed.
	ErrStateLimit = errors.New("state limit exceeded")
	// ErrVerification reports a schedule that does not replay cleanly.
	ErrVerification = errors.New("schedule verification failed")
)

// SourceConflictError is returned when an input port is wired to more than
// one source.
type SourceConflictError struct {
	Actor   string
	Port    string
	Sources []string
}

func (e *SourceConflictError) Error() string {
	return fmt.Sprintf("input port %s.%s is connected to %d sources: %s",
		e.Actor, e.Port, len(e.Sources), strings.Join(e.Sources, ", "))
}

func (e *SourceConflictError) Unwrap() error { return ErrMalformedGraph }

// UnbalancedChannelError is returned when a channel would not return to its
// initial occupancy after one iteration.
type UnbalancedChannelError struct {
	Producer string
	Consumer string
	Produced int
	Consumed int
}

func (e *UnbalancedChannelError) Error() string {
	return fmt.Sprintf("channel %s -> %s is unbalanced: %d tokens produced, %d consumed per iteration",
		e.Producer, e.Consumer, e.Produced, e.Consumed)
}

func (e *UnbalancedChannelError) Unwrap() error { return ErrNotSchedulable }

// VerificationError describes the first firing of a schedule that violates
// the model.
type VerificationError struct {
	// Step is the zero-based index of the offending firing, or -1 when the
	// problem concerns the schedule as a whole.
	Step   int
	Actor  string
	Reason string
}

func (e *VerificationError) Error() string {
	if e.Step < 0 {
		return fmt.Sprintf("schedule: %s", e.Reason)
	}
	return fmt.Sprintf("firing %d (%s): %s", e.Step, e.Actor, e.Reason)
}

func (e *VerificationError) Unwrap() error { return ErrVerification }
