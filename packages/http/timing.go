package http

import (
	"context"
	"crypto/tls"
	"net/http/httptrace"
	"sync"
	"time"
)

// Timing breaks a network exchange into phases. Phases that did not
// happen, such as DNS for a reused connection, stay zero.
type Timing struct {
	DNSLookup       time.Duration
	TCPConnect      time.Duration
	TLSHandshake    time.Duration
	TimeToFirstByte time.Duration
	ContentTransfer time.Duration
	Total           time.Duration
	ConnReused      bool
}

type timingTracer struct {
	mu sync.Mutex

	start                  time.Time
	dnsStart, connectStart time.Time
	tlsStart, lastPhaseEnd time.Time
	firstByte              time.Time
	timing                 Timing
}

func newTimingTracer() *timingTracer {
	now := time.Now()
	return &timingTracer{start: now, lastPhaseEnd: now}
}

func (t *timingTracer) context(ctx context.Context) context.Context {
	trace := &httptrace.ClientTrace{
		DNSStart: func(httptrace.DNSStartInfo) {
			t.mu.Lock()
			t.dnsStart = time.Now()
			t.mu.Unlock()
		},
		DNSDone: func(httptrace.DNSDoneInfo) {
			t.mu.Lock()
			now := time.Now()
			t.timing.DNSLookup = now.Sub(t.dnsStart)
			t.lastPhaseEnd = now
			t.mu.Unlock()
		},
		ConnectStart: func(_, _ string) {
			t.mu.Lock()
			t.connectStart = time.Now()
			t.mu.Unlock()
		},
		ConnectDone: func(_, _ string, err error) {
			if err != nil {
				return
			}
			t.mu.Lock()
			now := time.Now()
			t.timing.TCPConnect = now.Sub(t.connectStart)
			t.lastPhaseEnd = now
			t.mu.Unlock()
		},
		TLSHandshakeStart: func() {
			t.mu.Lock()
			t.tlsStart = time.Now()
			t.mu.Unlock()
		},
		TLSHandshakeDone: func(_ tls.ConnectionState, err error) {
			if err != nil {
				return
			}
			t.mu.Lock()
			now := time.Now()
			t.timing.TLSHandshake = now.Sub(t.tlsStart)
			t.lastPhaseEnd = now
			t.mu.Unlock()
		},
		GotConn: func(info httptrace.GotConnInfo) {
			t.mu.Lock()
			t.timing.ConnReused = info.Reused
			t.mu.Unlock()
		},
		GotFirstResponseByte: func() {
			t.mu.Lock()
			t.firstByte = time.Now()
			t.timing.TimeToFirstByte = t.firstByte.Sub(t.lastPhaseEnd)
			t.mu.Unlock()
		},
	}
	return httptrace.WithClientTrace(ctx, trace)
}

// finish is called once the body has been read.
func (t *timingTracer) finish() Timing {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	if !t.firstByte.IsZero() {
		t.timing.ContentTransfer = now.Sub(t.firstByte)
	}
	t.timing.Total = now.Sub(t.start)
	return t.timing
}
