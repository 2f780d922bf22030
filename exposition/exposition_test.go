package exposition

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `# HELP node_cpu_seconds_total Seconds the CPUs spent in each mode.
# TYPE node_cpu_seconds_total counter
node_cpu_seconds_total{cpu="0",mode="idle"} 100
node_cpu_seconds_total{cpu="0",mode="iowait"} 10
node_cpu_seconds_total{cpu="0",mode="user"} 30
node_cpu_seconds_total{cpu="1",mode="idle"} 90
node_cpu_seconds_total{cpu="1",mode="system"} 20
# HELP node_memory_MemTotal_bytes Memory information field MemTotal_bytes.
# TYPE node_memory_MemTotal_bytes gauge
node_memory_MemTotal_bytes 8e+09
# HELP node_memory_MemAvailable_bytes Memory information field MemAvailable_bytes.
# TYPE node_memory_MemAvailable_bytes gauge
node_memory_MemAvailable_bytes 2e+09
`

func TestParseCPUTimes(t *testing.T) {
	t.Parallel()

	families, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)

	total, idle := families.CPUTimes()
	assert.InDelta(t, 250, total, 1e-9)
	assert.InDelta(t, 200, idle, 1e-9)
}

func TestParseMemoryUtilization(t *testing.T) {
	t.Parallel()

	families, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)

	util, ok := families.MemoryUtilization()
	require.True(t, ok)
	assert.InDelta(t, 75, util, 1e-9)
}

func TestMemoryUtilizationMissing(t *testing.T) {
	t.Parallel()

	families, err := Parse(strings.NewReader("node_memory_MemTotal_bytes 100\n"))
	require.NoError(t, err)

	_, ok := families.MemoryUtilization()
	assert.False(t, ok)
}

func TestCPUTimesIgnoresSamplesWithoutMode(t *testing.T) {
	t.Parallel()

	families, err := Parse(strings.NewReader("node_cpu_seconds_total{cpu=\"0\"} 5\n"))
	require.NoError(t, err)

	total, idle := families.CPUTimes()
	assert.Zero(t, total)
	assert.Zero(t, idle)
}

func TestParseInvalid(t *testing.T) {
	t.Parallel()

	for name, payload := range map[string]string{
		"garbage":       "not a metric line {\n",
		"empty":         "",
		"other metrics": "# TYPE go_goroutines gauge\ngo_goroutines 12\n",
		"bad samples":   "node_cpu_seconds_total{cpu=\"0\",mode=\"idle\" 100\nnode_memory_MemTotal_bytes abc\n",
	} {
		_, err := Parse(strings.NewReader(payload))
		assert.ErrorIs(t, err, ErrNoHostMetrics, name)
	}
}

// Supabase serves node, postgres and other exporters back to back, so HELP
// and TYPE lines repeat and families are not contiguous.
const stitched = `# HELP go_goroutines Number of goroutines that currently exist.
# TYPE go_goroutines gauge
go_goroutines 12
# HELP node_cpu_seconds_total Seconds the CPUs spent in each mode.
# TYPE node_cpu_seconds_total counter
node_cpu_seconds_total{cpu="0",mode="idle"} 100
node_cpu_seconds_total{cpu="0",mode="user"} 30
# HELP node_memory_MemTotal_bytes Memory information field MemTotal_bytes.
# TYPE node_memory_MemTotal_bytes gauge
node_memory_MemTotal_bytes 8e+09
# HELP go_goroutines Number of goroutines that currently exist.
# TYPE go_goroutines gauge
go_goroutines 40
# HELP node_cpu_seconds_total Seconds the CPUs spent in each mode.
# TYPE node_cpu_seconds_total counter
node_cpu_seconds_total{cpu="1",mode="iowait"} 10
node_cpu_seconds_total{cpu="1",mode="system"} 20
# TYPE pg_up gauge
pg_up{server="db"} 1
node_memory_MemAvailable_bytes 2e+09
`

func TestParseStitchedPayload(t *testing.T) {
	t.Parallel()

	families, err := Parse(strings.NewReader(stitched))
	require.NoError(t, err)

	total, idle := families.CPUTimes()
	assert.InDelta(t, 160, total, 1e-9)
	assert.InDelta(t, 110, idle, 1e-9)

	util, ok := families.MemoryUtilization()
	require.True(t, ok)
	assert.InDelta(t, 75, util, 1e-9)

	assert.NotContains(t, families, "go_goroutines")
	assert.NotContains(t, families, "pg_up")
}

func TestParseSkipsMalformedSamples(t *testing.T) {
	t.Parallel()

	payload := `# TYPE node_cpu_seconds_total counter
node_cpu_seconds_total{cpu="0",mode="idle"} 100
node_cpu_seconds_total{cpu="0",mode="user" 999
node_cpu_seconds_total{cpu="0",mode="user"} 30
node_cpu_seconds_total{cpu="0",mode="system"} NaNish
node_memory_MemTotal_bytes 8e+09
node_memory_MemAvailable_bytes 6e+09
`
	families, err := Parse(strings.NewReader(payload))
	require.NoError(t, err)

	total, idle := families.CPUTimes()
	assert.InDelta(t, 130, total, 1e-9)
	assert.InDelta(t, 100, idle, 1e-9)

	util, ok := families.MemoryUtilization()
	require.True(t, ok)
	assert.InDelta(t, 25, util, 1e-9)
}

func TestParseToleratesConflictingType(t *testing.T) {
	t.Parallel()

	payload := `# TYPE node_memory_MemTotal_bytes gauge
node_memory_MemTotal_bytes 4e+09
# TYPE node_memory_MemTotal_bytes counter
node_memory_MemAvailable_bytes 1e+09
`
	families, err := Parse(strings.NewReader(payload))
	require.NoError(t, err)

	util, ok := families.MemoryUtilization()
	require.True(t, ok)
	assert.InDelta(t, 75, util, 1e-9)
}

func TestCPUTracker(t *testing.T) {
	t.Parallel()

	var tr CPUTracker

	_, ok := tr.Usage(100, 80)
	assert.False(t, ok, "first reading only primes")

	usage, ok := tr.Usage(200, 130)
	require.True(t, ok)
	assert.InDelta(t, 50, usage, 1e-9)

	_, ok = tr.Usage(200, 130)
	assert.False(t, ok, "no progress in total")

	_, ok = tr.Usage(150, 100)
	assert.False(t, ok, "counter reset")

	usage, ok = tr.Usage(250, 100)
	require.True(t, ok)
	assert.InDelta(t, 100, usage, 1e-9)
}
