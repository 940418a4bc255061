package hcl

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/sdfsched/internal/config"
	"github.com/vk/sdfsched/internal/ctxlog"
)

// Loader is the HCL implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL graph loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses the given files and returns the graphs they declare.
func (l *Loader) Load(ctx context.Context, files ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "file_count", len(files))

	model := &config.Model{}
	for _, file := range files {
		src, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read HCL file %s: %w", file, err)
		}
		m, err := l.Parse(ctx, file, src)
		if err != nil {
			return nil, err
		}
		model.Merge(m)
	}

	logger.Debug("HCL loading complete.", "graphs", len(model.Graphs))
	return model, nil
}

// Parse decodes a single HCL document. filename is used in diagnostics and
// recorded as the source of every graph.
func (l *Loader) Parse(ctx context.Context, filename string, src []byte) (*config.Model, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}

	var root fileRoot
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	evalCtx, err := evalContext(root.Locals)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate locals in %s: %w", filename, err)
	}

	model := &config.Model{}
	for _, gb := range root.Graphs {
		var spec graphSpec
		if diags := gohcl.DecodeBody(gb.Body, evalCtx, &spec); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode graph %q in %s: %w", gb.Name, filename, diags)
		}
		g := translateGraph(gb.Name, &spec)
		g.Source = filename
		ctxlog.FromContext(ctx).Debug("Decoded graph.", "graph", g.Name, "actors", len(g.Actors), "connections", len(g.Connections))
		model.Graphs = append(model.Graphs, g)
	}
	return model, nil
}

var _ config.Loader = (*Loader)(nil)
