package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/sdfsched/internal/cli"
)

const producerConsumer = `
graph "pc" {
  actor "A" {
    repetitions = 2
    output "out" {}
  }
  actor "B" {
    repetitions = 2
    input "in" {}
  }
  connect "A.out" "B.in" {}
}
`

func writeGraph(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600), "failed to set up test file")
	return path
}

func TestRun_Schedules(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	path := writeGraph(t, "pc.hcl", producerConsumer)
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}

	// --- Act ---
	err := run(context.Background(), out, errOut, []string{"--log-level", "error", path})

	// --- Assert ---
	require.NoError(t, err)
	assert.Contains(t, out.String(), "schedule:  A B A B")
	assert.Contains(t, out.String(), "verified:  yes")
}

func TestRun_Unschedulable(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// The producer fires three times but the consumer only twice.
	unbalanced := `
graph "pc" {
  actor "A" {
    repetitions = 3
    output "out" {}
  }
  actor "B" {
    repetitions = 2
    input "in" {}
  }
  connect "A.out" "B.in" {}
}
`
	path := writeGraph(t, "pc.hcl", unbalanced)
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}

	// --- Act ---
	err := run(context.Background(), out, errOut, []string{path})

	// --- Assert ---
	require.Error(t, err)
	assert.Equal(t, cli.ExitUnschedulable, cli.AsExitError(err).Code)
	assert.Contains(t, out.String(), "error:")
	assert.Contains(t, errOut.String(), "Graph could not be scheduled.")
}

func TestRun_LoadFailure(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// A syntax error fails the load phase before any graph is scheduled.
	path := writeGraph(t, "broken.hcl", `graph "g" {`)

	// --- Act ---
	err := run(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, []string{path})

	// --- Assert ---
	require.Error(t, err)
	assert.Equal(t, cli.ExitFailure, cli.AsExitError(err).Code)
	assert.Contains(t, err.Error(), "failed to parse")
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// The "-h" (help) flag should cause cli.Parse to return `shouldExit=true`.
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(context.Background(), out, &bytes.Buffer{}, []string{"-h"})

	// --- Assert ---
	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	args := []string{"--this-is-not-a-valid-flag"}

	// --- Act ---
	err := run(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, args)

	// --- Assert ---
	require.Error(t, err)
	assert.Equal(t, cli.ExitUsage, cli.AsExitError(err).Code)
	require.Contains(t, err.Error(), "unknown flag: --this-is-not-a-valid-flag")
}
