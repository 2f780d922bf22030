package batch

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/aalemi-dev/anomaly-lab/detector"
	"github.com/aalemi-dev/anomaly-lab/window"
)

// ErrBadInput is returned for a CSV that is not a ts,y,unique_id table.
var ErrBadInput = errors.New("batch: malformed input")

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ReadSeries groups the rows of a CSV with ts, y and unique_id columns into
// one series per id. Columns may appear in any order and extra columns are
// ignored. Series are ordered by id and their points by time.
func ReadSeries(r io.Reader, freq time.Duration) ([]detector.Series, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty input", ErrBadInput)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadInput, err)
	}

	cols := map[string]int{"ts": -1, "y": -1, "unique_id": -1}
	for i, name := range header {
		name = strings.TrimSpace(name)
		if _, ok := cols[name]; ok {
			cols[name] = i
		}
	}
	for name, i := range cols {
		if i < 0 {
			return nil, fmt.Errorf("%w: missing column %q", ErrBadInput, name)
		}
	}

	byID := make(map[string][]window.Point)
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrBadInput, line, err)
		}
		if len(rec) < len(header) {
			return nil, fmt.Errorf("%w: line %d: %d fields", ErrBadInput, line, len(rec))
		}

		at, err := parseTime(rec[cols["ts"]])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrBadInput, line, err)
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(rec[cols["y"]]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrBadInput, line, err)
		}
		id := strings.TrimSpace(rec[cols["unique_id"]])
		byID[id] = append(byID[id], window.Point{At: at, Value: y})
	}

	series := make([]detector.Series, 0, len(byID))
	for id, points := range byID {
		sort.SliceStable(points, func(i, j int) bool { return points[i].At.Before(points[j].At) })
		series = append(series, detector.Series{ID: id, Points: points, Freq: freq})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].ID < series[j].ID })
	return series, nil
}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparsable time %q", s)
}

// open returns the contents of a local file or an http(s) URL.
func open(ctx context.Context, input string, timeout time.Duration) (io.ReadCloser, error) {
	if !strings.HasPrefix(input, "http://") && !strings.HasPrefix(input, "https://") {
		return os.Open(input)
	}

	resp, err := resty.New().
		SetTimeout(timeout).
		R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(input)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", input, err)
	}
	body := resp.RawBody()
	if resp.StatusCode() != 200 {
		_ = body.Close()
		return nil, fmt.Errorf("download %s: status %d", input, resp.StatusCode())
	}
	return body, nil
}
