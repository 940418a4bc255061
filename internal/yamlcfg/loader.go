// Package yamlcfg implements config.Loader for graph files written in YAML.
//
// A file holds one or more YAML documents, each with a top-level `graphs`
// list:
//
//	graphs:
//	  - name: pipeline
//	    criterion: buffer
//	    actors:
//	      - name: A
//	        repetitions: 2
//	        outputs: [{name: out}]
//	      - name: C
//	        repetitions: 2
//	        inputs: [{name: in, rate: 1}]
//	        profile: {shared_buffer: 1, exclusive_time: 2}
//	    connections:
//	      - {from: A.out, to: C.in}
//
// Unknown keys are rejected.
package yamlcfg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/vk/sdfsched/internal/config"
	"github.com/vk/sdfsched/internal/ctxlog"
	"gopkg.in/yaml.v3"
)

type document struct {
	Graphs []graphDoc `yaml:"graphs"`
}

type graphDoc struct {
	Name        string          `yaml:"name"`
	Criterion   string          `yaml:"criterion"`
	Actors      []actorDoc      `yaml:"actors"`
	Connections []connectionDoc `yaml:"connections"`
}

type actorDoc struct {
	Name        string      `yaml:"name"`
	Repetitions int         `yaml:"repetitions"`
	Inputs      []inputDoc  `yaml:"inputs"`
	Outputs     []outputDoc `yaml:"outputs"`
	Profile     *profileDoc `yaml:"profile"`
}

type inputDoc struct {
	Name string `yaml:"name"`
	Rate *int   `yaml:"rate"`
}

type outputDoc struct {
	Name          string `yaml:"name"`
	Rate          *int   `yaml:"rate"`
	InitialTokens int    `yaml:"initial_tokens"`
}

type profileDoc struct {
	SharedBuffer    int `yaml:"shared_buffer"`
	ExclusiveBuffer int `yaml:"exclusive_buffer"`
	SharedTime      int `yaml:"shared_time"`
	ExclusiveTime   int `yaml:"exclusive_time"`
}

type connectionDoc struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// Loader is the YAML implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new YAML graph loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads the given files and returns the graphs they declare.
func (l *Loader) Load(ctx context.Context, files ...string) (*config.Model, error) {
	model := &config.Model{}
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", file, err)
		}
		m, err := l.Parse(ctx, file, data)
		if err != nil {
			return nil, err
		}
		model.Merge(m)
	}
	ctxlog.FromContext(ctx).Debug("YAML loading complete.", "graphs", len(model.Graphs))
	return model, nil
}

// Parse decodes every document in data. filename is recorded as the source
// of each graph.
func (l *Loader) Parse(ctx context.Context, filename string, data []byte) (*config.Model, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	model := &config.Model{}
	for n := 1; ; n++ {
		var doc document
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("unmarshal %s (document %d): %w", filename, n, err)
		}
		for i := range doc.Graphs {
			g := translateGraph(&doc.Graphs[i])
			g.Source = filename
			model.Graphs = append(model.Graphs, g)
		}
	}
	ctxlog.FromContext(ctx).Debug("Decoded YAML file.", "file", filename, "graphs", len(model.Graphs))
	return model, nil
}

func translateGraph(d *graphDoc) *config.Graph {
	g := &config.Graph{Name: d.Name, Criterion: d.Criterion}
	for _, a := range d.Actors {
		actor := &config.Actor{Name: a.Name, Repetitions: a.Repetitions}
		for _, in := range a.Inputs {
			actor.Inputs = append(actor.Inputs, &config.Input{Name: in.Name, Rate: rateOrDefault(in.Rate)})
		}
		for _, out := range a.Outputs {
			actor.Outputs = append(actor.Outputs, &config.Output{
				Name:          out.Name,
				Rate:          rateOrDefault(out.Rate),
				InitialTokens: out.InitialTokens,
			})
		}
		if p := a.Profile; p != nil {
			actor.Profile = &config.Profile{
				SharedBuffer:    p.SharedBuffer,
				ExclusiveBuffer: p.ExclusiveBuffer,
				SharedTime:      p.SharedTime,
				ExclusiveTime:   p.ExclusiveTime,
			}
		}
		g.Actors = append(g.Actors, actor)
	}
	for _, c := range d.Connections {
		g.Connections = append(g.Connections, &config.Connection{From: c.From, To: c.To})
	}
	return g
}

func rateOrDefault(rate *int) int {
	if rate == nil {
		return config.DefaultRate
	}
	return *rate
}

var _ config.Loader = (*Loader)(nil)
