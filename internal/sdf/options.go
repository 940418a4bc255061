package sdf

import (
	"fmt"
	"strings"
)

// Criterion selects the objective the scheduler minimizes.
type Criterion int

const (
	// BufferSize minimizes the peak memory held by all channels. The peak
	// starts at the footprint of the initial tokens, so no schedule of a
	// graph with initial tokens has a value below that footprint.
	BufferSize Criterion = iota
	// ExecutionTime minimizes the accumulated execution time of all firings.
	ExecutionTime
)

// ParseCriterion accepts "buffer", "buffer-size", "time" and
// "execution-time", case-insensitively.
func ParseCriterion(s string) (Criterion, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buffer", "buffer-size", "buffer_size":
		return BufferSize, nil
	case "time", "execution-time", "execution_time":
		return ExecutionTime, nil
	default:
		return 0, fmt.Errorf("unknown criterion %q: must be 'buffer' or 'time'", s)
	}
}

func (c Criterion) String() string {
	switch c {
	case BufferSize:
		return "buffer"
	case ExecutionTime:
		return "time"
	default:
		return fmt.Sprintf("Criterion(%d)", int(c))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c Criterion) MarshalText() ([]byte, error) {
	if c != BufferSize && c != ExecutionTime {
		return nil, fmt.Errorf("invalid criterion %d", int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Criterion) UnmarshalText(text []byte) error {
	parsed, err := ParseCriterion(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

type options struct {
	criterion Criterion
	memoize   bool
	maxStates int
}

func defaultOptions() options {
	return options{
		criterion: BufferSize,
		memoize:   true,
	}
}

// Option configures a Scheduler.
type Option func(*options)

// WithCriterion selects the objective. The default is BufferSize, whose
// value includes the initial-token footprint as a lower bound.
func WithCriterion(c Criterion) Option {
	return func(o *options) { o.criterion = c }
}

// WithMemoization controls whether states already expanded are skipped when
// reached again through a different firing order. It is on by default.
func WithMemoization(on bool) Option {
	return func(o *options) { o.memoize = on }
}

// WithMaxStates bounds the number of states the search may generate. Zero
// means unbounded.
func WithMaxStates(n int) Option {
	return func(o *options) {
		if n < 0 {
			n = 0
		}
		o.maxStates = n
	}
}
