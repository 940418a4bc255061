// Package render writes scheduling results as text, JSON or YAML.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/vk/sdfsched/internal/sdf"
	"gopkg.in/yaml.v3"
)

// Format selects the output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q: must be one of text, json, yaml", s)
	}
}

// Firing is the serialized form of one schedule entry.
type Firing struct {
	Actor      string `json:"actor" yaml:"actor"`
	Iterations int    `json:"iterations" yaml:"iterations"`
	// Mode is "shared" or "exclusive" for profiled actors and empty
	// otherwise.
	Mode string `json:"mode,omitempty" yaml:"mode,omitempty"`
}

// Result is the outcome of scheduling one graph.
type Result struct {
	Graph     string    `json:"graph" yaml:"graph"`
	Source    string    `json:"source,omitempty" yaml:"source,omitempty"`
	Criterion string    `json:"criterion,omitempty" yaml:"criterion,omitempty"`
	Value     int       `json:"value" yaml:"value"`
	Firings   []Firing  `json:"firings" yaml:"firings"`
	Stats     sdf.Stats `json:"stats" yaml:"stats"`
	Elapsed   string    `json:"elapsed,omitempty" yaml:"elapsed,omitempty"`
	Verified  bool      `json:"verified" yaml:"verified"`
	Error     string    `json:"error,omitempty" yaml:"error,omitempty"`
}

// Failed reports whether scheduling the graph failed.
func (r *Result) Failed() bool { return r.Error != "" }

// NewResult converts a schedule. With compact set, consecutive firings of
// the same actor in the same mode are merged.
func NewResult(graph, source string, sched *sdf.Schedule, compact bool) *Result {
	if compact {
		sched = sched.Compact()
	}
	r := &Result{
		Graph:     graph,
		Source:    source,
		Criterion: sched.Criterion.String(),
		Value:     sched.Value,
		Firings:   make([]Firing, len(sched.Firings)),
		Stats:     sched.Stats,
	}
	if sched.Elapsed > 0 {
		r.Elapsed = sched.Elapsed.Round(time.Microsecond).String()
	}
	for i, f := range sched.Firings {
		r.Firings[i] = Firing{Actor: f.Actor.Name(), Iterations: f.Iterations}
		if f.Profiled {
			r.Firings[i].Mode = "shared"
			if f.Exclusive {
				r.Firings[i].Mode = "exclusive"
			}
		}
	}
	return r
}

// NewFailure records a graph that could not be scheduled.
func NewFailure(graph, source string, err error) *Result {
	return &Result{Graph: graph, Source: source, Error: err.Error()}
}

// Write encodes results to w in the given format.
func Write(w io.Writer, format Format, results []*Result) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(document{Graphs: results})
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(document{Graphs: results}); err != nil {
			return err
		}
		return enc.Close()
	case FormatText, "":
		return writeText(w, results)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

type document struct {
	Graphs []*Result `json:"graphs" yaml:"graphs"`
}

func writeText(w io.Writer, results []*Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	for i, r := range results {
		if i > 0 {
			fmt.Fprintln(tw)
		}
		fmt.Fprintf(tw, "graph %s", r.Graph)
		if r.Source != "" {
			fmt.Fprintf(tw, " (%s)", r.Source)
		}
		fmt.Fprintln(tw)
		if r.Failed() {
			fmt.Fprintf(tw, "  error:\t%s\n", r.Error)
			continue
		}
		fmt.Fprintf(tw, "  criterion:\t%s\n", r.Criterion)
		fmt.Fprintf(tw, "  value:\t%d\n", r.Value)
		fmt.Fprintf(tw, "  schedule:\t%s\n", r.sequence())
		fmt.Fprintf(tw, "  states:\tgenerated=%d expanded=%d pruned=%d peak_frontier=%d\n",
			r.Stats.Generated, r.Stats.Expanded, r.Stats.Pruned, r.Stats.PeakFrontier)
		if r.Verified {
			fmt.Fprintf(tw, "  verified:\tyes\n")
		}
		if r.Elapsed != "" {
			fmt.Fprintf(tw, "  elapsed:\t%s\n", r.Elapsed)
		}
	}
	return tw.Flush()
}

// sequence renders the firings the same way sdf.Firing.String does.
func (r *Result) sequence() string {
	if len(r.Firings) == 0 {
		return "(empty)"
	}
	parts := make([]string, len(r.Firings))
	for i, f := range r.Firings {
		s := f.Actor
		if f.Iterations != 1 {
			s = fmt.Sprintf("%d*%s", f.Iterations, s)
		}
		if f.Mode != "" {
			s += "(" + f.Mode + ")"
		}
		parts[i] = s
	}
	return strings.Join(parts, " ")
}
