package dogstatsd_test

import (
	"context"
	"errors"
	"net"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	dogstatsd "github.com/dogstatsd-io/go-sdk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

type (
	// packetRecorder is a Transport double capturing every packet body.
	packetRecorder struct {
		mu      sync.Mutex
		packets []string
	}

	// failingTransport is a Transport double whose sends always fail.
	failingTransport struct {
		err error
	}

	// packetCollector is a real UDP listener acting as a DogStatsD agent.
	packetCollector struct {
		conn    net.PacketConn
		mu      sync.Mutex
		packets []string
	}
)

func (r *packetRecorder) Send(body []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.packets = append(r.packets, string(body))
	return nil
}

func (r *packetRecorder) Close() error { return nil }

func (r *packetRecorder) recorded() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.packets...)
}

func (t failingTransport) Send(body []byte) error { return t.err }

func (t failingTransport) Close() error { return nil }

func newPacketCollector(t *testing.T) *packetCollector {
	t.Helper()

	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)

	c := &packetCollector{conn: conn}
	go c.listen()
	t.Cleanup(func() { conn.Close() })
	return c
}

func (c *packetCollector) listen() {
	buf := make([]byte, 64*1024)
	for {
		n, _, err := c.conn.ReadFrom(buf)
		if err != nil {
			return
		}
		c.mu.Lock()
		c.packets = append(c.packets, string(buf[:n]))
		c.mu.Unlock()
	}
}

func (c *packetCollector) addr() string {
	return c.conn.LocalAddr().String()
}

func (c *packetCollector) received() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.packets...)
}

func (c *packetCollector) hasPackets() bool {
	return len(c.received()) > 0
}

// newTestClient builds a client whose transport records packets instead
// of touching the network.
func newTestClient(t *testing.T, config dogstatsd.ClientConfig) (*dogstatsd.Client, *packetRecorder) {
	t.Helper()

	recorder := &packetRecorder{}
	config.Transport = recorder
	client, err := dogstatsd.New(config)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client, recorder
}

// timerValue extracts the numeric value from a `name:value|ms` line.
func timerValue(t *testing.T, line string) float64 {
	t.Helper()

	colon := strings.Index(line, ":")
	pipe := strings.Index(line, "|")
	require.Greater(t, pipe, colon)

	value, err := strconv.ParseFloat(line[colon+1:pipe], 64)
	require.NoError(t, err)
	return value
}

func TestClientSendsGaugeOverUDP(t *testing.T) {
	collector := newPacketCollector(t)

	client, err := dogstatsd.New(dogstatsd.ClientConfig{
		Address: collector.addr(),
		Prefix:  "myapp",
	})
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.Gauge("metric", 9.1, nil))

	assert.Eventually(t, collector.hasPackets, time.Second, 5*time.Millisecond)
	assert.Equal(t, "myapp.metric:9.1|g", collector.received()[0])
}

func TestClientWithoutAddressDiscardsMetrics(t *testing.T) {
	client, err := dogstatsd.New(dogstatsd.ClientConfig{})
	require.NoError(t, err)

	assert.NoError(t, client.Incr("metric", nil))
	assert.NoError(t, client.Close())
}

func TestClientConstructionErrors(t *testing.T) {
	t.Run("invalid address", func(t *testing.T) {
		_, err := dogstatsd.New(dogstatsd.ClientConfig{Address: "127.0.0.1:notaport"})
		assert.Error(t, err)
	})

	t.Run("invalid constant tag", func(t *testing.T) {
		_, err := dogstatsd.New(dogstatsd.ClientConfig{ConstantTags: []string{"bad|tag"}})
		assert.ErrorIs(t, err, dogstatsd.ErrInvalidTag)
	})
}

func TestClientTransportErrorSurfaced(t *testing.T) {
	sendErr := errors.New("network unreachable")
	client, err := dogstatsd.New(dogstatsd.ClientConfig{Transport: failingTransport{err: sendErr}})
	require.NoError(t, err)

	assert.ErrorIs(t, client.Gauge("metric", 1, nil), sendErr)
	// The next call still goes through; nothing is buffered or retried.
	assert.ErrorIs(t, client.Incr("metric", nil), sendErr)
}

func TestClientTimeReportsElapsed(t *testing.T) {
	client, recorder := newTestClient(t, dogstatsd.ClientConfig{})

	ran := false
	err := client.Time("work", nil, func() {
		ran = true
		time.Sleep(50 * time.Millisecond)
	})
	require.NoError(t, err)
	assert.True(t, ran)

	packets := recorder.recorded()
	require.Len(t, packets, 1)
	assert.True(t, strings.HasPrefix(packets[0], "work:"))
	assert.True(t, strings.HasSuffix(packets[0], "|ms"))

	elapsed := timerValue(t, packets[0])
	assert.GreaterOrEqual(t, elapsed, float64(50))
	assert.Less(t, elapsed, float64(500))
}

func TestClientTimeContextSpansBlockingWork(t *testing.T) {
	client, recorder := newTestClient(t, dogstatsd.ClientConfig{})

	workErr := errors.New("work failed")
	err := client.TimeContext(context.Background(), "op", nil, func(ctx context.Context) error {
		select {
		case <-time.After(20 * time.Millisecond):
		case <-ctx.Done():
		}
		return workErr
	})
	// The work's error comes back, but the timer is still reported.
	assert.ErrorIs(t, err, workErr)

	packets := recorder.recorded()
	require.Len(t, packets, 1)
	assert.True(t, strings.HasSuffix(packets[0], "|ms"))
	assert.GreaterOrEqual(t, timerValue(t, packets[0]), float64(20))
}

func TestClientConcurrentEmission(t *testing.T) {
	client, recorder := newTestClient(t, dogstatsd.ClientConfig{})

	const goroutines = 8
	const perGoroutine = 25

	var g errgroup.Group
	for i := 0; i < goroutines; i++ {
		g.Go(func() error {
			for j := 0; j < perGoroutine; j++ {
				if err := client.Incr("hits", nil); err != nil {
					return err
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	packets := recorder.recorded()
	assert.Len(t, packets, goroutines*perGoroutine)
	for _, packet := range packets {
		assert.Equal(t, "hits:1|c", packet)
	}
}

func TestClientAsyncShutdownDrains(t *testing.T) {
	recorder := &packetRecorder{}
	client, err := dogstatsd.New(dogstatsd.ClientConfig{
		Transport: recorder,
		AsyncSettings: &dogstatsd.AsyncSettings{
			BufferSize:     256,
			OverflowPolicy: dogstatsd.OverflowPolicyBlock,
		},
	})
	require.NoError(t, err)

	const sent = 20
	for i := 0; i < sent; i++ {
		// Errors never reach the caller in async mode.
		assert.NoError(t, client.Incr("queued", nil))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, client.Shutdown(ctx))

	assert.Len(t, recorder.recorded(), sent)
}
