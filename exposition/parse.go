package exposition

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"github.com/prometheus/common/model"
)

const (
	cpuSecondsTotal   = "node_cpu_seconds_total"
	memTotalBytes     = "node_memory_MemTotal_bytes"
	memAvailableBytes = "node_memory_MemAvailable_bytes"
	modeLabel         = "mode"

	maxLineSize = 1 << 20
)

// hostFamilies are the only families Parse keeps.
var hostFamilies = []string{cpuSecondsTotal, memTotalBytes, memAvailableBytes}

// ErrNoHostMetrics is returned when a payload holds no usable sample of any
// node CPU or memory family.
var ErrNoHostMetrics = errors.New("no host metrics in payload")

// Families is a parsed exposition payload keyed by metric family name.
type Families map[string]*dto.MetricFamily

// familyLines collects the TYPE line and the samples of one family, wherever
// they appear in the payload.
type familyLines struct {
	typeLine string
	samples  []string
}

// Parse reads Prometheus text exposition format and keeps the node CPU and
// memory families. Payloads stitched together from several exporters are
// accepted: other families are ignored, repeated TYPE lines are collapsed and
// samples of one family need not be contiguous. Malformed sample lines are
// skipped.
func Parse(r io.Reader) (Families, error) {
	lines, err := collect(r)
	if err != nil {
		return nil, fmt.Errorf("parse exposition: %w", err)
	}

	out := make(Families, len(hostFamilies))
	for _, name := range hostFamilies {
		fl, ok := lines[name]
		if !ok || len(fl.samples) == 0 {
			continue
		}
		if family := parseFamily(name, fl); family != nil {
			out[name] = family
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("parse exposition: %w", ErrNoHostMetrics)
	}
	return out, nil
}

func collect(r io.Reader) (map[string]*familyLines, error) {
	lines := make(map[string]*familyLines, len(hostFamilies))
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if rest, ok := strings.CutPrefix(line, "#"); ok {
			fields := strings.Fields(rest)
			if len(fields) < 3 || fields[0] != "TYPE" {
				continue
			}
			if fl := lookup(lines, fields[1]); fl != nil && fl.typeLine == "" {
				fl.typeLine = line
			}
			continue
		}
		if fl := lookup(lines, sampleName(line)); fl != nil {
			fl.samples = append(fl.samples, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// lookup returns the collector for name, or nil when the family is not kept.
func lookup(lines map[string]*familyLines, name string) *familyLines {
	for _, want := range hostFamilies {
		if name != want {
			continue
		}
		fl, ok := lines[name]
		if !ok {
			fl = &familyLines{}
			lines[name] = fl
		}
		return fl
	}
	return nil
}

// sampleName returns the metric name a sample line starts with.
func sampleName(line string) string {
	if i := strings.IndexAny(line, "{ \t"); i > 0 {
		return line[:i]
	}
	return ""
}

// parseFamily parses the whole family in one pass and falls back to one
// sample at a time when the block is rejected. A sample the TYPE line does not
// fit is read as untyped.
func parseFamily(name string, fl *familyLines) *dto.MetricFamily {
	if family, err := parseBlock(name, fl.typeLine, fl.samples...); err == nil {
		return family
	}

	var merged *dto.MetricFamily
	for _, sample := range fl.samples {
		family, err := parseBlock(name, fl.typeLine, sample)
		if err != nil {
			if family, err = parseBlock(name, "", sample); err != nil {
				continue
			}
		}
		if merged == nil {
			merged = family
			continue
		}
		merged.Metric = append(merged.Metric, family.Metric...)
	}
	return merged
}

func parseBlock(name, typeLine string, samples ...string) (*dto.MetricFamily, error) {
	var b strings.Builder
	if typeLine != "" {
		b.WriteString(typeLine)
		b.WriteByte('\n')
	}
	for _, s := range samples {
		b.WriteString(s)
		b.WriteByte('\n')
	}

	parser := expfmt.NewTextParser(model.UTF8Validation)
	families, err := parser.TextToMetricFamilies(strings.NewReader(b.String()))
	if err != nil {
		return nil, err
	}
	family, ok := families[name]
	if !ok || len(family.GetMetric()) == 0 {
		return nil, ErrNoHostMetrics
	}
	return family, nil
}

// CPUTimes sums node_cpu_seconds_total across every cpu and mode into total.
// Samples in the idle and iowait modes are also summed into idle.
func (f Families) CPUTimes() (total, idle float64) {
	family, ok := f[cpuSecondsTotal]
	if !ok {
		return 0, 0
	}
	for _, m := range family.GetMetric() {
		mode, ok := labelValue(m, modeLabel)
		if !ok {
			continue
		}
		v := sampleValue(m)
		total += v
		if mode == "idle" || mode == "iowait" {
			idle += v
		}
	}
	return total, idle
}

// MemoryUtilization returns used memory as a percentage of MemTotal. The last
// sample of each family wins. It reports false when either value is missing or
// zero.
func (f Families) MemoryUtilization() (float64, bool) {
	total := f.last(memTotalBytes)
	available := f.last(memAvailableBytes)
	if total == 0 || available == 0 {
		return 0, false
	}
	return 100 * (total - available) / total, true
}

func (f Families) last(name string) float64 {
	family, ok := f[name]
	if !ok {
		return 0
	}
	var v float64
	for _, m := range family.GetMetric() {
		v = sampleValue(m)
	}
	return v
}

func labelValue(m *dto.Metric, name string) (string, bool) {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name {
			return lp.GetValue(), true
		}
	}
	return "", false
}

func sampleValue(m *dto.Metric) float64 {
	switch {
	case m.Counter != nil:
		return m.GetCounter().GetValue()
	case m.Gauge != nil:
		return m.GetGauge().GetValue()
	case m.Untyped != nil:
		return m.GetUntyped().GetValue()
	default:
		return 0
	}
}
