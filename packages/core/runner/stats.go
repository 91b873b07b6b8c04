package runner

import (
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

const (
	minLatencyUs = 1
	maxLatencyUs = 60_000_000
)

// Stats summarises request latencies of a run.
type Stats struct {
	Count    int
	Failures int
	Min      time.Duration
	Mean     time.Duration
	Max      time.Duration
	P50      time.Duration
	P90      time.Duration
	P95      time.Duration
	P99      time.Duration
}

// SuccessRate is the share of passed requests, between 0 and 1.
func (s Stats) SuccessRate() float64 {
	if s.Count == 0 {
		return 0
	}
	return float64(s.Count-s.Failures) / float64(s.Count)
}

type latencies struct {
	// 1us to 60s range, 3 significant digits
	histogram *hdrhistogram.Histogram
	count     int
	failures  int
}

func newLatencies() *latencies {
	return &latencies{
		histogram: hdrhistogram.New(minLatencyUs, maxLatencyUs, 3),
	}
}

func (l *latencies) record(d time.Duration, passed bool) {
	l.count++
	if !passed {
		l.failures++
	}

	us := d.Microseconds()
	if us < minLatencyUs {
		us = minLatencyUs
	}
	if us > maxLatencyUs {
		us = maxLatencyUs
	}
	_ = l.histogram.RecordValue(us)
}

func (l *latencies) snapshot() Stats {
	s := Stats{Count: l.count, Failures: l.failures}
	if l.count == 0 {
		return s
	}

	us := func(v int64) time.Duration { return time.Duration(v) * time.Microsecond }
	s.Min = us(l.histogram.Min())
	s.Max = us(l.histogram.Max())
	s.Mean = time.Duration(l.histogram.Mean() * float64(time.Microsecond))
	s.P50 = us(l.histogram.ValueAtQuantile(50))
	s.P90 = us(l.histogram.ValueAtQuantile(90))
	s.P95 = us(l.histogram.ValueAtQuantile(95))
	s.P99 = us(l.histogram.ValueAtQuantile(99))
	return s
}
