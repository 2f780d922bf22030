package window

import (
	"sort"
	"time"
)

// Resample puts points on a regular grid of the given step. Points are
// bucketed by At.Truncate(step) and each bucket takes the mean of its points.
// Empty buckets between the first and last bucket are filled by linear
// interpolation between their neighbours. The input need not be sorted; the
// output is ordered and in UTC.
func Resample(points []Point, step time.Duration) []Point {
	if len(points) == 0 || step <= 0 {
		return nil
	}

	type acc struct {
		sum   float64
		count int
	}
	buckets := make(map[int64]*acc)
	for _, p := range points {
		key := p.At.Truncate(step).UnixNano()
		b, ok := buckets[key]
		if !ok {
			b = &acc{}
			buckets[key] = b
		}
		b.sum += p.Value
		b.count++
	}

	keys := make([]int64, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	first, last := keys[0], keys[len(keys)-1]
	n := int((last-first)/int64(step)) + 1
	out := make([]Point, 0, n)

	prevKey := first
	prevVal := buckets[first].sum / float64(buckets[first].count)
	next := 0
	for i := 0; i < n; i++ {
		key := first + int64(i)*int64(step)
		at := time.Unix(0, key).UTC()

		if b, ok := buckets[key]; ok {
			v := b.sum / float64(b.count)
			out = append(out, Point{At: at, Value: v})
			prevKey, prevVal = key, v
			next++
			continue
		}

		for keys[next] < key {
			next++
		}
		nextKey := keys[next]
		nextVal := buckets[nextKey].sum / float64(buckets[nextKey].count)
		frac := float64(key-prevKey) / float64(nextKey-prevKey)
		out = append(out, Point{At: at, Value: prevVal + frac*(nextVal-prevVal)})
	}
	return out
}
