package dogstatsd

import (
	"errors"
	"strings"
	"time"
)

// Pipeline accumulates formatted metric lines and ships them in as few
// datagrams as possible. No packet body it builds exceeds its max packet
// size; the one exception is a single line that is itself longer than
// the limit, which goes out alone, best effort.
//
// A Pipeline is not safe for concurrent use. Create one per goroutine,
// or guard it externally. Call Send when the batch's scope ends.
type Pipeline struct {
	client        *Client
	lines         []string
	size          int // body size of lines joined by newline
	maxPacketSize int
}

// Pipeline returns a fresh pipeline bound to the client's transport and
// configuration.
func (c *Client) Pipeline() *Pipeline {
	return &Pipeline{
		client:        c,
		maxPacketSize: c.maxPacketSize,
	}
}

// SetMaxPacketSize reconfigures the datagram body bound. It only affects
// subsequent appends; an already-buffered batch is never re-split.
func (p *Pipeline) SetMaxPacketSize(n int) {
	p.maxPacketSize = n
}

// Append adds one formatted line to the buffer. When the joined body
// would grow past the packet bound, the current buffer is flushed first
// and the line starts a new one. A line that alone exceeds the bound is
// sent immediately as its own oversized packet, after any buffered
// lines, so wire order matches append order; the buffer stays empty.
//
// A transport failure is returned to the caller but never retried; the
// affected packet is gone and buffering continues as if the send had
// succeeded.
func (p *Pipeline) Append(line string) error {
	if len(line) > p.maxPacketSize {
		return errors.Join(p.Flush(), p.client.sendPacket([]byte(line)))
	}

	var err error
	if len(p.lines) > 0 && p.size+1+len(line) > p.maxPacketSize {
		err = p.Flush()
	}

	if len(p.lines) > 0 {
		p.size++ // newline separator
	}
	p.lines = append(p.lines, line)
	p.size += len(line)
	return err
}

// Flush sends the buffered lines as one newline-joined packet and clears
// the buffer. It is a no-op on an empty buffer. The buffer is cleared
// even when the send fails: datagram delivery is best effort and failed
// packets are not re-queued.
func (p *Pipeline) Flush() error {
	if len(p.lines) == 0 {
		return nil
	}

	body := strings.Join(p.lines, "\n")
	p.lines = p.lines[:0]
	p.size = 0
	return p.client.sendPacket([]byte(body))
}

// Send flushes the final partial buffer. It is the terminal operation of
// a batch's scope; calling it again on an emptied pipeline is a no-op.
func (p *Pipeline) Send() error {
	return p.Flush()
}

func (p *Pipeline) appendLine(line string, err error) error {
	if err != nil {
		return err
	}
	return p.Append(line)
}

// Incr appends a counter increment by 1.
func (p *Pipeline) Incr(name string, tags []string) error {
	return p.Count(name, 1, tags)
}

// Decr appends a counter decrement by 1.
func (p *Pipeline) Decr(name string, tags []string) error {
	return p.Count(name, -1, tags)
}

// Count appends a counter modification by value.
func (p *Pipeline) Count(name string, value float64, tags []string) error {
	return p.appendLine(p.client.formatter.metric(name, value, kindCounter, tags))
}

// SampledCount appends a counter modification by value, only rate of the
// time.
func (p *Pipeline) SampledCount(name string, value, rate float64, tags []string) error {
	if !sampled(rate) {
		return nil
	}
	return p.appendLine(p.client.formatter.sampledMetric(name, value, rate, tags))
}

// Gauge appends a gauge value.
func (p *Pipeline) Gauge(name string, value float64, tags []string) error {
	return p.appendLine(p.client.formatter.metric(name, value, kindGauge, tags))
}

// Histogram appends a histogram sample.
func (p *Pipeline) Histogram(name string, value float64, tags []string) error {
	return p.appendLine(p.client.formatter.metric(name, value, kindHistogram, tags))
}

// Timer appends a timer value, in milliseconds.
func (p *Pipeline) Timer(name string, value float64, tags []string) error {
	return p.appendLine(p.client.formatter.metric(name, value, kindTimer, tags))
}

// Time runs work and appends its wall-clock duration as a timer metric,
// in milliseconds.
func (p *Pipeline) Time(name string, tags []string, work func()) error {
	start := time.Now()
	work()
	return p.Timer(name, float64(time.Since(start).Milliseconds()), tags)
}

// Event appends an event with the given title, text and alert type.
func (p *Pipeline) Event(title, text string, alert AlertType, tags []string) error {
	return p.appendLine(p.client.formatter.event(title, text, alert, tags))
}

// ServiceCheck appends the status of a named service check.
func (p *Pipeline) ServiceCheck(name string, status ServiceCheckStatus, tags []string) error {
	return p.appendLine(p.client.formatter.serviceCheck(name, status, tags))
}
