// Package transport implements the single-datagram command/response exchange
// used to talk to WiZ lights.
//
// Each exchange binds its own ephemeral UDP socket, sends one JSON datagram
// and waits for exactly one reply or a fixed one second timeout, whichever
// comes first. There are no retries: a lost packet is a single Timeout error
// and the caller decides whether to try again.
//
// # Results
//
// Every exchange resolves to a Result. Network, protocol and device failures
// are values inside the Result, never panics or second return values:
//
//	res := transport.Send(ctx, transport.Request{
//	    Message:       protocol.NewBrightnessMessage(50),
//	    DestinationIP: "192.168.1.40",
//	    LocalIP:       "192.168.1.10",
//	})
//	if !res.OK() {
//	    log.Printf("setPilot failed: %v", res.Err())
//	}
//
// # Error Types
//
//   - Bind: the local socket could not be created
//   - Timeout: no reply within one second
//   - Send: the datagram could not be written
//   - Socket: the socket failed while waiting for the reply
//   - Parse: the reply is not JSON
//   - Protocol: the reply has neither result nor error
//   - Device: the light replied with an error object
//   - Canceled: the caller's context ended first
//
// # Concurrency
//
// Exchanges share no state and may run concurrently from any goroutine. Each
// resolves exactly once; events that arrive after resolution are ignored and
// the socket is closed exactly once.
package transport
