package wire

import (
	"errors"
	"fmt"
	"io"
	"net"
)

// datagramBufferSize is the scratch buffer size for both the receive and
// send buffers; large enough for any single message this protocol emits.
const datagramBufferSize = 64 * 1024

var (
	// ErrPacketOverflow is returned when an append would overflow the
	// send scratch buffer.
	ErrPacketOverflow = errors.New("wire: datagram send buffer overflow")
	// ErrTrailingBytes names the case of bytes left over in a datagram
	// after a message is decoded. Nothing in this module returns it:
	// proto.DecodeGuiMessage reports that case as proto.ErrInvalidMessage.
	ErrTrailingBytes = errors.New("wire: trailing bytes after datagram message")
)

// DatagramChannel owns a bound receive socket and a connected send socket.
// It implements io.Reader over the most recently received packet and
// io.Writer over the packet being accumulated for the next Flush, so the
// same primitive/string/map/sequence codec in this package that works over
// a ReliableChannel works unchanged here too.
type DatagramChannel struct {
	recvConn *net.UDPConn
	sendConn *net.UDPConn

	recvBuf []byte
	recvLen int
	recvPos int

	sendBuf []byte
	sendPos int
}

// NewDatagramChannel binds a receive socket on recvPort and connects a
// send socket to sendHost:sendPort.
func NewDatagramChannel(recvPort uint16, sendHost string, sendPort uint16) (*DatagramChannel, error) {
	recvConn, err := net.ListenUDP("udp", &net.UDPAddr{Port: int(recvPort)})
	if err != nil {
		return nil, fmt.Errorf("wire: listen udp :%d: %w", recvPort, err)
	}

	sendAddr, err := net.ResolveUDPAddr("udp", fmt.Sprintf("%s:%d", sendHost, sendPort))
	if err != nil {
		recvConn.Close()
		return nil, fmt.Errorf("wire: resolve %s:%d: %w", sendHost, sendPort, err)
	}
	sendConn, err := net.DialUDP("udp", nil, sendAddr)
	if err != nil {
		recvConn.Close()
		return nil, fmt.Errorf("wire: dial udp %s:%d: %w", sendHost, sendPort, err)
	}

	return &DatagramChannel{
		recvConn: recvConn,
		sendConn: sendConn,
		recvBuf:  make([]byte, datagramBufferSize),
		sendBuf:  make([]byte, datagramBufferSize),
	}, nil
}

// Close releases both sockets.
func (c *DatagramChannel) Close() error {
	err1 := c.recvConn.Close()
	err2 := c.sendConn.Close()
	if err1 != nil {
		return err1
	}
	return err2
}

// ReceiveOne blocks for the next datagram and resets the read cursor to
// its start. It returns the packet's byte length.
func (c *DatagramChannel) ReceiveOne() (int, error) {
	n, err := c.recvConn.Read(c.recvBuf)
	if err != nil {
		return 0, fmt.Errorf("wire: read datagram: %w", err)
	}
	c.recvLen = n
	c.recvPos = 0
	return n, nil
}

// Remaining reports how many unread bytes are left in the current packet.
// A decoder that finds this nonzero after decoding a message has detected
// trailing bytes.
func (c *DatagramChannel) Remaining() int {
	return c.recvLen - c.recvPos
}

// Read implements io.Reader over the most recently received packet. It
// returns io.EOF once the packet is exhausted, so reading past the end of
// a short/truncated packet surfaces as io.ErrUnexpectedEOF via io.ReadFull
// exactly like a closed ReliableChannel would.
func (c *DatagramChannel) Read(p []byte) (int, error) {
	if c.recvPos >= c.recvLen {
		return 0, io.EOF
	}
	n := copy(p, c.recvBuf[c.recvPos:c.recvLen])
	c.recvPos += n
	return n, nil
}

// Write implements io.Writer over the packet being accumulated for the
// next Flush.
func (c *DatagramChannel) Write(p []byte) (int, error) {
	if c.sendPos+len(p) > len(c.sendBuf) {
		return 0, ErrPacketOverflow
	}
	n := copy(c.sendBuf[c.sendPos:], p)
	c.sendPos += n
	return n, nil
}

// Flush sends the accumulated outbound packet as one datagram and resets
// the send cursor.
func (c *DatagramChannel) Flush() error {
	_, err := c.sendConn.Write(c.sendBuf[:c.sendPos])
	c.sendPos = 0
	if err != nil {
		return fmt.Errorf("wire: flush datagram: %w", err)
	}
	return nil
}
