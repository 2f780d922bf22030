// Package window holds the recent history of a metric and turns it into the
// regular series detectors expect.
//
//	w := window.New(window.DefaultCapacity)
//	w.Push(window.Point{At: now, Value: 42})
//	series := window.Resample(w.Points(), time.Minute)
//	_ = window.ExportCSV("cpu_metrics.csv", series)
package window
