package dogstatsd

import (
	"fmt"
	"net"
	"time"
)

// Transport delivers one datagram body per Send call.
//
// Implementations must guarantee that concurrent Sends do not interleave
// bytes within a single packet; net.Conn already does for UDP.
type Transport interface {
	Send(body []byte) error
	Close() error
}

const dialTimeout = 1 * time.Second

// udpTransport sends datagrams to a DogStatsD agent.
type udpTransport struct {
	conn net.Conn
}

// newUDPTransport resolves and dials the agent address. The socket is
// connected, so an unresolvable address fails here rather than on the
// first Send.
func newUDPTransport(addr string) (*udpTransport, error) {
	conn, err := net.DialTimeout("udp", addr, dialTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to dial agent: %w", err)
	}
	return &udpTransport{conn: conn}, nil
}

// Send writes one datagram. There is no acknowledgment to wait for;
// delivery is best effort.
func (t *udpTransport) Send(body []byte) error {
	if _, err := t.conn.Write(body); err != nil {
		return fmt.Errorf("failed to send datagram: %w", err)
	}
	return nil
}

func (t *udpTransport) Close() error {
	return t.conn.Close()
}

// noopTransport implements Transport with no-op operations. It backs
// clients constructed without an agent address.
type noopTransport struct{}

func (noopTransport) Send(body []byte) error { return nil }

func (noopTransport) Close() error { return nil }

// verboseTransport logs every packet through the internal logger before
// handing it to the wrapped transport.
type verboseTransport struct {
	logger *Logger
	inner  Transport
}

func newVerboseTransport(logger *Logger, inner Transport) *verboseTransport {
	return &verboseTransport{
		logger: logger,
		inner:  inner,
	}
}

func (t *verboseTransport) Send(body []byte) error {
	t.logger.VerboseF("Sending %d byte packet: %s", len(body), body)
	return t.inner.Send(body)
}

func (t *verboseTransport) Close() error {
	return t.inner.Close()
}
