// Package clientapp implements the proxy client: two cooperating
// goroutines bridging a local front-end's datagram dialect to the
// server's reliable-channel dialect, grounded on
// original_source/src/server.cpp's handle_tcp_stream_in/_out split
// applied to the client's two directions (§4.10).
package clientapp

// Config holds the addresses the client bridges between: the
// authoritative server and the local front-end.
type Config struct {
	PlayerName string
	ServerHost string
	ServerPort uint16
	LocalPort  uint16
	GuiHost    string
	GuiPort    uint16
}
