package metrics

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goplus/cppkg/recipe"
)

func TestKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{recipe.Invalidf("no"), "configuration"},
		{fmt.Errorf("failed to build: %w", &recipe.ToolInvocationError{Tool: "make", ExitCode: 2}), "tool"},
		{&recipe.ArtifactMissingError{Path: "lib", What: "directory"}, "artifact"},
		{errors.New("boom"), "other"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Kind(tt.err), "Kind(%v)", tt.err)
	}
}

func TestCounters(t *testing.T) {
	hits := testutil.ToFloat64(cacheHits)
	CacheHit()
	assert.Equal(t, hits+1, testutil.ToFloat64(cacheHits))

	misses := testutil.ToFloat64(cacheMisses)
	CacheMiss()
	assert.Equal(t, misses+1, testutil.ToFloat64(cacheMisses))

	failures := testutil.ToFloat64(stepFailures.WithLabelValues("validate", "configuration"))
	StepFailed("validate", recipe.Invalidf("unsupported"))
	assert.Equal(t, failures+1, testutil.ToFloat64(stepFailures.WithLabelValues("validate", "configuration")))
}

func TestWriteFile(t *testing.T) {
	ObserveStep("build", 2*time.Second)
	file := filepath.Join(t.TempDir(), "cppkg.prom")
	require.NoError(t, WriteFile(file))

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), `cppkg_step_duration_seconds_count{step="build"}`)
}
