package dogstatsd

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"
)

type (
	// Client is the main object exposing the DogStatsD API.
	//
	// A Client is safe for concurrent use: its configuration is immutable
	// after New, and every datagram reaches the transport in a single Send
	// call. Share one Client across goroutines rather than constructing
	// one per caller. Pipelines minted from a Client are single-owner, see
	// [Client.Pipeline].
	Client struct {
		formatter     lineFormatter
		maxPacketSize int

		transport Transport
		processor *asyncProcessor[[]byte]

		// internalLogger is the logger used to log messages to the console.
		internalLogger *Logger
	}

	// ClientConfig is the configuration for the Client.
	ClientConfig struct {
		// Address is the "host:port" of the DogStatsD agent.
		//
		// If not provided (and no Transport is set either), the client
		// formats metrics but discards them.
		Address string

		// Prefix is dot-joined in front of every metric name.
		Prefix string

		// ConstantTags are merged into every emitted metric, ahead of any
		// call-site tags.
		ConstantTags []string

		// MaxPacketSize bounds the body of one datagram in bytes.
		//
		// If not provided, DefaultMaxPacketSize will be used.
		MaxPacketSize int

		// Verbose is a flag to enable internal logging.
		Verbose bool

		// Transport overrides the UDP transport. Mainly useful for tests.
		Transport Transport

		// AsyncSettings, if provided, moves datagram sends to a background
		// worker. Send errors are then reported through the internal
		// logger instead of being returned to the caller.
		AsyncSettings *AsyncSettings
	}

	// AsyncSettings is the settings for asynchronous emission.
	AsyncSettings struct {
		// BufferSize is the size of the queue of pending payloads.
		BufferSize int

		// OverflowPolicy defines how to handle payload overflow.
		OverflowPolicy OverflowPolicy
	}

	// OverflowPolicy defines how to handle payload overflow.
	OverflowPolicy int
)

const (
	// OverflowPolicyBlock blocks when the queue is full.
	OverflowPolicyBlock OverflowPolicy = iota
	// OverflowPolicyDrop drops new payloads when the queue is full.
	OverflowPolicyDrop
)

// DefaultMaxPacketSize is the default bound on a datagram body.
// 512 bytes fits unfragmented on virtually every network path.
const DefaultMaxPacketSize = 512

var (
	// DefaultAsyncSettings is the default settings for asynchronous
	// emission.
	//
	// BufferSize is set to 128 and OverflowPolicy is set to
	// OverflowPolicyDrop.
	DefaultAsyncSettings = AsyncSettings{
		BufferSize:     128,
		OverflowPolicy: OverflowPolicyDrop,
	}
)

var _ ResourceManager = (*Client)(nil)

// New constructs a Client from the given config. An address that cannot
// be resolved, or constant tags containing protocol delimiters, fail
// here rather than on the first metric call.
func New(config ClientConfig) (*Client, error) {
	if config.MaxPacketSize <= 0 {
		config.MaxPacketSize = DefaultMaxPacketSize
	}
	if err := validateTags(config.ConstantTags); err != nil {
		return nil, fmt.Errorf("constant tags: %w", err)
	}

	c := &Client{
		formatter:     newLineFormatter(config.Prefix, config.ConstantTags),
		maxPacketSize: config.MaxPacketSize,
	}

	c.setupInternalLogger(config.Verbose)
	if err := c.setupTransport(config); err != nil {
		return nil, err
	}
	c.setupProcessor(config.AsyncSettings)

	return c, nil
}

func (c *Client) setupInternalLogger(verbose bool) {
	if verbose {
		c.internalLogger = newLogger(newConsoleLogger())
	} else {
		c.internalLogger = newLogger(newNoopLogger())
	}
}

func (c *Client) setupTransport(config ClientConfig) error {
	switch {
	case config.Transport != nil:
		c.transport = config.Transport
	case config.Address != "":
		c.internalLogger.VerboseF("Dialing agent at %s", config.Address)
		transport, err := newUDPTransport(config.Address)
		if err != nil {
			return err
		}
		c.transport = transport
	default:
		c.internalLogger.Warn("No agent address provided, metrics will be discarded")
		c.transport = noopTransport{}
	}

	if config.Verbose {
		c.transport = newVerboseTransport(c.internalLogger, c.transport)
	}
	return nil
}

func (c *Client) setupProcessor(settings *AsyncSettings) {
	if settings == nil {
		return
	}

	asyncSettings := *settings
	if asyncSettings.BufferSize <= 0 {
		asyncSettings.BufferSize = DefaultAsyncSettings.BufferSize
	}

	c.processor = newAsyncProcessor(
		asyncSettings.BufferSize,
		func(payload []byte) error {
			return c.transport.Send(payload)
		},
		func(err error) {
			if errors.Is(err, errQueueOverflow) {
				c.internalLogger.Error("Metric dropped due to queue overflow")
			} else {
				c.internalLogger.ErrorF("Failed to send metric: %v", err)
			}
		},
	)
	c.processor.SetOverflowPolicy(asyncSettings.OverflowPolicy)
}

// sendPacket hands one datagram body to the transport, or queues it when
// asynchronous emission is configured.
func (c *Client) sendPacket(body []byte) error {
	if c.processor != nil {
		c.processor.send(body)
		return nil
	}
	return c.transport.Send(body)
}

func (c *Client) sendLine(line string, err error) error {
	if err != nil {
		return err
	}
	return c.sendPacket([]byte(line))
}

// Incr increments a counter by 1.
func (c *Client) Incr(name string, tags []string) error {
	return c.Count(name, 1, tags)
}

// Decr decrements a counter by 1.
func (c *Client) Decr(name string, tags []string) error {
	return c.Count(name, -1, tags)
}

// Count modifies a counter by value.
func (c *Client) Count(name string, value float64, tags []string) error {
	return c.sendLine(c.formatter.metric(name, value, kindCounter, tags))
}

// SampledCount modifies a counter by value, only rate of the time.
// The rate is carried on the wire so the agent can scale the value back
// up.
func (c *Client) SampledCount(name string, value, rate float64, tags []string) error {
	if !sampled(rate) {
		return nil
	}
	return c.sendLine(c.formatter.sampledMetric(name, value, rate, tags))
}

// Gauge sets a gauge to value.
func (c *Client) Gauge(name string, value float64, tags []string) error {
	return c.sendLine(c.formatter.metric(name, value, kindGauge, tags))
}

// Histogram records a histogram sample.
func (c *Client) Histogram(name string, value float64, tags []string) error {
	return c.sendLine(c.formatter.metric(name, value, kindHistogram, tags))
}

// Timer records a timer value, in milliseconds.
func (c *Client) Timer(name string, value float64, tags []string) error {
	return c.sendLine(c.formatter.metric(name, value, kindTimer, tags))
}

// Time runs work and reports its wall-clock duration as a timer metric,
// in milliseconds.
func (c *Client) Time(name string, tags []string, work func()) error {
	start := time.Now()
	work()
	return c.Timer(name, float64(time.Since(start).Milliseconds()), tags)
}

// TimeContext runs work with the given context and reports its
// wall-clock duration as a timer metric. The measurement spans the full
// call, including any time the work spends blocked on I/O or channel
// operations. The work's error, if any, is joined with the emission
// error.
func (c *Client) TimeContext(ctx context.Context, name string, tags []string, work func(context.Context) error) error {
	start := time.Now()
	err := work(ctx)
	return errors.Join(err, c.Timer(name, float64(time.Since(start).Milliseconds()), tags))
}

// Event sends an event with the given title, text and alert type.
func (c *Client) Event(title, text string, alert AlertType, tags []string) error {
	return c.sendLine(c.formatter.event(title, text, alert, tags))
}

// ServiceCheck reports the status of a named service check.
func (c *Client) ServiceCheck(name string, status ServiceCheckStatus, tags []string) error {
	return c.sendLine(c.formatter.serviceCheck(name, status, tags))
}

// Shutdown stops the client, draining any queued asynchronous payloads
// until the context expires, then releases the transport.
func (c *Client) Shutdown(ctx context.Context) error {
	var errs []error
	if c.processor != nil {
		errs = append(errs, c.processor.Shutdown(ctx))
	}
	errs = append(errs, c.transport.Close())
	return errors.Join(errs...)
}

// Close stops the client immediately, without draining queued payloads,
// and releases the transport.
func (c *Client) Close() error {
	var errs []error
	if c.processor != nil {
		errs = append(errs, c.processor.Close())
	}
	errs = append(errs, c.transport.Close())
	return errors.Join(errs...)
}

// sampled reports whether an emission with the given sample rate should
// go out this time.
func sampled(rate float64) bool {
	return rate >= 1 || rand.Float64() < rate
}
