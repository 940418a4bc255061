package config

import (
	"fmt"

	"github.com/vk/sdfsched/internal/portref"
	"github.com/vk/sdfsched/internal/sdf"
	"go.uber.org/multierr"
)

// Validate checks every graph of the model and reports all problems at once.
func (m *Model) Validate() error {
	var errs error
	seen := make(map[string]string)
	for i, g := range m.Graphs {
		switch prev, dup := seen[g.Name]; {
		case g.Name == "":
			errs = multierr.Append(errs, fmt.Errorf("graph #%d in %s has no name", i+1, g.Source))
			continue
		case dup:
			errs = multierr.Append(errs, fmt.Errorf("graph %q is defined twice (%s and %s)", g.Name, prev, g.Source))
		}
		seen[g.Name] = g.Source
		errs = multierr.Append(errs, g.Validate())
	}
	return errs
}

// Validate checks names, counts, rates and references of one graph.
func (g *Graph) Validate() error {
	var errs error
	fail := func(format string, args ...any) {
		errs = multierr.Append(errs, fmt.Errorf("graph %q: "+format, append([]any{g.Name}, args...)...))
	}

	if g.Criterion != "" {
		if _, err := sdf.ParseCriterion(g.Criterion); err != nil {
			fail("%w", err)
		}
	}

	actors := make(map[string]bool)
	for _, a := range g.Actors {
		if a.Name == "" {
			fail("actor without a name")
			continue
		}
		if actors[a.Name] {
			fail("actor %q is defined twice", a.Name)
		}
		actors[a.Name] = true
		if a.Repetitions < 0 {
			fail("actor %q: repetitions must not be negative, got %d", a.Name, a.Repetitions)
		}

		ports := make(map[string]bool)
		checkPort := func(kind, name string, rate int) {
			switch {
			case name == "":
				fail("actor %q: %s port without a name", a.Name, kind)
			case ports[name]:
				fail("actor %q: port %q is defined twice", a.Name, name)
			}
			ports[name] = true
			if rate < 0 {
				fail("actor %q: %s port %q: rate must not be negative, got %d", a.Name, kind, name, rate)
			}
		}
		for _, in := range a.Inputs {
			checkPort("input", in.Name, in.Rate)
		}
		for _, out := range a.Outputs {
			checkPort("output", out.Name, out.Rate)
			if out.InitialTokens < 0 {
				fail("actor %q: output port %q: initial_tokens must not be negative, got %d", a.Name, out.Name, out.InitialTokens)
			}
		}
		if p := a.Profile; p != nil {
			if p.SharedBuffer < 0 || p.ExclusiveBuffer < 0 || p.SharedTime < 0 || p.ExclusiveTime < 0 {
				fail("actor %q: profile costs must not be negative", a.Name)
			}
		}
	}

	for _, c := range g.Connections {
		for _, ref := range []string{c.From, c.To} {
			if _, err := portref.Parse(ref); err != nil {
				fail("connection %q -> %q: %w", c.From, c.To, err)
			}
		}
	}
	return errs
}
