// Package protocol implements the WiZ local JSON-over-UDP protocol.
//
// Lights listen for commands on UDP port 38899 and reply to the sender. After a
// controller registers itself, lights push their state to the controller's
// UDP port 38900 and expect an acknowledgement for every push.
//
// # Wire Format
//
// Every datagram is a single UTF-8 JSON object:
//
//	{"method":"setPilot","version":1,"id":42,"params":{"dimming":50}}
//
// Replies carry the same method together with either a result or an error:
//
//	{"method":"setPilot","id":42,"env":"pro","result":{"success":true}}
//	{"method":"setPilot","id":42,"env":"pro","error":{"code":-32600,"message":"Invalid Request"}}
//
// # Outbound Messages
//
// Messages are built with the NewXxxMessage constructors and validated with
// Validate before they leave the process. Validation rules are plain data
// (see Rule) and a failing message produces a *ValidationError listing every
// offending field:
//
//	msg := protocol.NewBrightnessMessage(5)
//	if err := protocol.Validate(msg, protocol.ValidateOptions{}); err != nil {
//	    // dimming: must be between 10 and 100, got 5
//	}
//
// # Inbound Messages
//
// ParseInbound decodes device-initiated datagrams into a tagged variant:
//
//	msg, err := protocol.ParseInbound(data)
//	switch m := msg.(type) {
//	case *protocol.SyncPilot:
//	    // state push, must be acknowledged
//	case *protocol.FirstBeat:
//	    // device just booted, expects a registration
//	case *protocol.CommandResponse:
//	    // echo of a command method
//	case *protocol.UnknownMessage:
//	    // anything else
//	}
//
// # Scenes
//
// The static scene table maps WiZ scene ids to names and capabilities. See
// SceneByID and SceneByName.
package protocol
