// Package bridge relays inbound light messages to WebSocket clients.
//
// A Hub keeps the set of connected clients. Every message the listener
// forwards is wrapped in an Event envelope and written to all clients as one
// JSON text frame. Clients are receive-only; anything they send is read and
// discarded so that pongs and close frames are processed.
//
// Each client has a bounded send buffer. A client whose buffer is full is
// disconnected rather than allowed to stall the listener.
package bridge
