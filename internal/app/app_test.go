package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/sdfsched/internal/config"
	"github.com/vk/sdfsched/internal/hcl"
	"github.com/vk/sdfsched/internal/sdf"
	"github.com/vk/sdfsched/internal/testutil"
	"github.com/vk/sdfsched/internal/yamlcfg"
)

const pipelineHCL = `
locals {
  n = 2
}

graph "pipeline" {
  actor "A" {
    repetitions = local.n
    output "out" {}
  }

  actor "C" {
    repetitions = local.n
    input "in" {}
    profile {
      shared_buffer  = 1
      shared_time    = 1
      exclusive_time = 2
    }
  }

  connect "A.out" "C.in" {}
}
`

const deadlockYAML = `
graphs:
  - name: deadlock
    actors:
      - name: A
        repetitions: 1
        inputs: [{name: in}]
        outputs: [{name: out}]
      - name: B
        repetitions: 1
        inputs: [{name: in}]
        outputs: [{name: out}]
    connections:
      - {from: A.out, to: B.in}
      - {from: B.out, to: A.in}
`

func newLoader() *config.MultiLoader {
	yamlLoader := yamlcfg.NewLoader()
	return config.NewMultiLoader(map[string]config.Loader{
		".hcl":  hcl.NewLoader(),
		".yaml": yamlLoader,
		".yml":  yamlLoader,
	})
}

// setupAppTest writes files to a temporary directory and creates an app
// that schedules them.
func setupAppTest(t *testing.T, cfg Config, files map[string]string) (*App, *testutil.SafeBuffer, *testutil.SafeBuffer) {
	t.Helper()
	dir := testutil.WriteFiles(t, files)
	cfg.GraphPaths = []string{dir}
	cfg.LogLevel = "debug"
	appConfig, err := NewConfig(cfg)
	require.NoError(t, err)

	out, logs := &testutil.SafeBuffer{}, &testutil.SafeBuffer{}
	t.Cleanup(func() {
		if os.Getenv("SDFSCHED_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	})
	return NewApp(out, logs, appConfig, newLoader()), out, logs
}

func TestApp_RunOnce(t *testing.T) {
	a, out, logs := setupAppTest(t, Config{Verify: true, Memoize: true, WorkerCount: 2}, map[string]string{
		"a_pipeline.hcl":  pipelineHCL,
		"b_deadlock.yaml": deadlockYAML,
	})

	results, err := a.RunOnce(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, sdf.ErrNotSchedulable)
	assert.Contains(t, err.Error(), `graph "deadlock"`)

	require.Len(t, results, 2)
	assert.Equal(t, "pipeline", results[0].Graph)
	assert.False(t, results[0].Failed())
	assert.True(t, results[0].Verified)
	assert.Equal(t, 1, results[0].Value)
	assert.Equal(t, "deadlock", results[1].Graph)
	assert.True(t, results[1].Failed())

	assert.Contains(t, out.String(), "schedule:  A C(exclusive) A C(exclusive)")
	assert.Contains(t, out.String(), "graph deadlock")
	assert.Contains(t, logs.String(), "run_id=")
	assert.Contains(t, logs.String(), "Graph scheduled.")

	count, err := promtest.GatherAndCount(a.Metrics().Gatherer(), "sdfsched_schedules_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestApp_RunOnce_CriterionOverride(t *testing.T) {
	src := `
graphs:
  - name: timed
    criterion: time
    actors:
      - name: A
        repetitions: 1
        outputs: [{name: out}]
      - name: C
        repetitions: 1
        inputs: [{name: in}]
        profile: {shared_buffer: 1, shared_time: 1, exclusive_time: 2}
    connections:
      - {from: A.out, to: C.in}
`
	a, _, _ := setupAppTest(t, Config{Verify: true, Memoize: true}, map[string]string{"timed.yml": src})

	results, err := a.RunOnce(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "time", results[0].Criterion)
	assert.Equal(t, 1, results[0].Value)
	assert.Equal(t, "shared", results[0].Firings[1].Mode)
}

func TestApp_RunOnce_JSONAndRun(t *testing.T) {
	a, out, logs := setupAppTest(t, Config{Format: "json", Compact: true, Run: true, Memoize: true}, map[string]string{
		"pipeline.hcl": pipelineHCL,
	})

	_, err := a.RunOnce(context.Background())
	require.NoError(t, err)

	var doc struct {
		Graphs []struct {
			Graph   string `json:"graph"`
			Firings []struct {
				Actor      string `json:"actor"`
				Iterations int    `json:"iterations"`
				Mode       string `json:"mode"`
			} `json:"firings"`
		} `json:"graphs"`
	}
	require.NoError(t, json.Unmarshal([]byte(out.String()), &doc))
	require.Len(t, doc.Graphs, 1)
	assert.Len(t, doc.Graphs[0].Firings, 4)
	assert.Equal(t, "exclusive", doc.Graphs[0].Firings[1].Mode)

	assert.Contains(t, logs.String(), "Actor fired.")
	assert.Contains(t, logs.String(), "Schedule executed.")
}

func TestApp_RunOnce_MetricsFile(t *testing.T) {
	metricsFile := filepath.Join(t.TempDir(), "sdfsched.prom")
	a, _, _ := setupAppTest(t, Config{MetricsFile: metricsFile, Memoize: true}, map[string]string{
		"pipeline.hcl": pipelineHCL,
	})

	_, err := a.RunOnce(context.Background())
	require.NoError(t, err)

	data, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `sdfsched_schedule_value{criterion="buffer",graph="pipeline"} 1`)
}

func TestApp_RunOnce_LoadErrors(t *testing.T) {
	t.Run("invalid graph", func(t *testing.T) {
		a, _, _ := setupAppTest(t, Config{}, map[string]string{
			"bad.yaml": "graphs:\n  - name: g\n    actors:\n      - {name: A, repetitions: -1}\n",
		})
		_, err := a.RunOnce(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid graph configuration")
	})

	t.Run("syntax error", func(t *testing.T) {
		a, _, _ := setupAppTest(t, Config{}, map[string]string{"bad.hcl": `graph "g" {`})
		_, err := a.RunOnce(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load graphs")
	})
}

func TestApp_RunOnce_StateLimit(t *testing.T) {
	a, _, _ := setupAppTest(t, Config{MaxStates: 1, Memoize: true}, map[string]string{
		"pipeline.hcl": pipelineHCL,
	})
	_, err := a.RunOnce(context.Background())
	assert.ErrorIs(t, err, sdf.ErrStateLimit)
}

func TestApp_Routes(t *testing.T) {
	a, _, _ := setupAppTest(t, Config{Memoize: true}, map[string]string{"pipeline.hcl": pipelineHCL})
	_, err := a.RunOnce(context.Background())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	a.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK\n", rec.Body.String())

	rec = httptest.NewRecorder()
	a.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `sdfsched_schedules_total{criterion="buffer",graph="pipeline",outcome="scheduled"} 1`)
}

func TestApp_RunOnce_VerificationFailureCountsOnce(t *testing.T) {
	orig := verifySchedule
	verifySchedule = func(context.Context, sdf.Graph, *sdf.Schedule) error {
		return &sdf.VerificationError{Step: -1, Reason: "forced mismatch"}
	}
	t.Cleanup(func() { verifySchedule = orig })

	a, _, _ := setupAppTest(t, Config{Verify: true, Memoize: true}, map[string]string{"pipeline.hcl": pipelineHCL})
	_, err := a.RunOnce(context.Background())
	require.ErrorIs(t, err, sdf.ErrVerification)

	rec := httptest.NewRecorder()
	a.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	assert.Contains(t, body, `sdfsched_schedules_total{criterion="buffer",graph="pipeline",outcome="error"} 1`)
	assert.NotContains(t, body, `outcome="scheduled"`)
	assert.NotContains(t, body, "sdfsched_schedule_value{")
}

func TestApp_Run_Watch(t *testing.T) {
	a, out, _ := setupAppTest(t, Config{Watch: true, Memoize: true}, map[string]string{"pipeline.hcl": pipelineHCL})
	path := filepath.Join(a.config.GraphPaths[0], "pipeline.hcl")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "graph pipeline (")
	}, 5*time.Second, 20*time.Millisecond)

	renamed := []byte(`graph "renamed" {
  actor "A" {
    repetitions = 1
  }
}
`)
	require.NoError(t, os.WriteFile(path, renamed, 0o644))
	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "graph renamed (")
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch mode did not stop after cancellation")
	}
}
