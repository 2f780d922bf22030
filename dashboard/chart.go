package dashboard

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/aalemi-dev/anomaly-lab/monitor"
	"github.com/aalemi-dev/anomaly-lab/window"
)

// ErrNoData is returned when none of the series has a point to draw.
var ErrNoData = errors.New("dashboard: no data")

// Series is one line of the chart.
type Series struct {
	Name   string
	Points []window.Point
}

var lineColors = map[string]color.RGBA{
	"CPU":    {R: 31, G: 119, B: 180, A: 255},
	"Memory": {R: 255, G: 127, B: 14, A: 255},
}

// LoadSeries reads the CPU and memory files the monitor exports into dir.
func LoadSeries(dir string) ([]Series, error) {
	cpu, err := window.LoadCSV(monitor.ExportPath(dir, monitor.MetricCPU))
	if err != nil {
		return nil, fmt.Errorf("cpu: %w", err)
	}
	mem, err := window.LoadCSV(monitor.ExportPath(dir, monitor.MetricMemory))
	if err != nil {
		return nil, fmt.Errorf("memory: %w", err)
	}
	return []Series{{Name: "CPU", Points: cpu}, {Name: "Memory", Points: mem}}, nil
}

// Chart draws series as utilization lines over time and returns the SVG.
// Empty series are skipped.
func Chart(series []Series, width, height vg.Length) ([]byte, error) {
	p := plot.New()
	p.Title.Text = "CPU and Memory Utilization"
	p.X.Label.Text = "Time"
	p.Y.Label.Text = "Utilization (%)"
	p.X.Tick.Marker = plot.TimeTicks{Format: "15:04"}
	p.Y.Min = 0
	p.Add(plotter.NewGrid())

	drawn := 0
	for _, s := range series {
		if len(s.Points) == 0 {
			continue
		}
		xys := make(plotter.XYs, len(s.Points))
		for i, pt := range s.Points {
			xys[i].X = float64(pt.At.Unix())
			xys[i].Y = pt.Value
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return nil, fmt.Errorf("%s line: %w", s.Name, err)
		}
		if c, ok := lineColors[s.Name]; ok {
			line.Color = c
		}
		line.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add(s.Name, line)
		drawn++
	}
	if drawn == 0 {
		return nil, ErrNoData
	}
	if p.Y.Max < 100 {
		p.Y.Max = 100
	}
	p.Legend.Top = true

	w, err := p.WriterTo(width, height, "svg")
	if err != nil {
		return nil, fmt.Errorf("create svg canvas: %w", err)
	}
	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write svg: %w", err)
	}
	return buf.Bytes(), nil
}
