// Package listener receives the datagrams lights send on their own
// initiative and dispatches them.
//
// A Listener is either idle or listening. StartListening binds UDP port 38900,
// starts the receive loop and then the registration timer, so replies to the
// first registration burst are already being received. StopListening stops
// the timer, closes the socket and leaves a fresh idle socket in its place.
//
// Dispatch rules:
//
//   - syncPilot: acknowledged to the sender with the session MAC, stamped with
//     the receive time and source IP, then passed to the callback
//   - firstBeat: the light is registered directly (unicast), then the message
//     is passed to the callback
//   - anything else: logged and passed to the callback
//
// Malformed datagrams, failed acknowledgements and failed registrations are
// logged and dropped; nothing a peer sends can stop the receive loop.
package listener
