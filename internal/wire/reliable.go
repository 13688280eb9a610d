package wire

import (
	"bufio"
	"context"
	"fmt"
	"net"
)

// ReliableChannel wraps a long-lived, ordered byte-stream connection
// (a TCP socket in practice) with the read-exactly-N / write-exactly-N
// operations the message catalogue needs. Reads are buffered internally.
// Read itself may return fewer bytes than asked for; the codec reads
// through io.ReadFull, which accumulates short reads until N bytes arrive.
type ReliableChannel struct {
	conn net.Conn
	r    *bufio.Reader
}

// NewReliableChannel wraps an already-accepted connection.
func NewReliableChannel(conn net.Conn) *ReliableChannel {
	disableCoalescing(conn)
	return &ReliableChannel{conn: conn, r: bufio.NewReaderSize(conn, 64*1024)}
}

// DialReliableChannel resolves and connects to host:port, enabling
// immediate send (disabling Nagle-style coalescing) the moment the
// connection is established.
func DialReliableChannel(ctx context.Context, host string, port uint16) (*ReliableChannel, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", fmt.Sprintf("%s:%d", host, port))
	if err != nil {
		return nil, fmt.Errorf("wire: dial %s:%d: %w", host, port, err)
	}
	return NewReliableChannel(conn), nil
}

func disableCoalescing(conn net.Conn) {
	if tc, ok := conn.(*net.TCPConn); ok {
		_ = tc.SetNoDelay(true)
	}
}

// Read implements io.Reader by delegating to the internal buffered
// reader, so ReliableChannel itself can be passed anywhere an io.Reader
// of its message stream is expected.
func (c *ReliableChannel) Read(p []byte) (int, error) {
	return c.r.Read(p)
}

// Write implements io.Writer, looping until every byte has been accepted
// by the kernel or an error occurs.
func (c *ReliableChannel) Write(p []byte) (int, error) {
	total := 0
	for total < len(p) {
		n, err := c.conn.Write(p[total:])
		total += n
		if err != nil {
			return total, fmt.Errorf("wire: write: %w", err)
		}
	}
	return total, nil
}

// PeerName returns "[ip]:port" for the connection's observed remote
// endpoint.
func (c *ReliableChannel) PeerName() string {
	return FormatPeerAddr(c.conn.RemoteAddr())
}

// FormatPeerAddr renders a net.Addr the way every address crossing the
// wire is rendered: "[ip]:port".
func FormatPeerAddr(addr net.Addr) string {
	host, port, err := net.SplitHostPort(addr.String())
	if err != nil {
		return addr.String()
	}
	return fmt.Sprintf("[%s]:%s", host, port)
}

// Close releases the underlying connection.
func (c *ReliableChannel) Close() error {
	return c.conn.Close()
}
