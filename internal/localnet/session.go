package localnet

import (
	"crypto/rand"
	"encoding/hex"
)

// Session is the controller's identity for the lifetime of the process. Lights
// address their pushes and acknowledgements to this MAC.
type Session struct {
	// MAC is 12 lowercase hex digits without separators
	MAC string
}

// NewSession creates a session with a random, locally administered unicast
// MAC identifier.
func NewSession() *Session {
	var b [6]byte
	if _, err := rand.Read(b[:]); err != nil {
		// crypto/rand does not fail on supported platforms
		panic(err)
	}
	b[0] = (b[0] | 0x02) &^ 0x01
	return &Session{MAC: hex.EncodeToString(b[:])}
}
