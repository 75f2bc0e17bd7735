package control

import (
	"context"

	"github.com/muurk/wizlocal/internal/listener"
	"github.com/muurk/wizlocal/internal/localnet"
	"github.com/muurk/wizlocal/internal/protocol"
	"github.com/muurk/wizlocal/internal/transport"
)

// Options configures a Controller
type Options struct {
	// IncomingMsgCallback receives every message lights push to the listener
	IncomingMsgCallback listener.Callback
	// InterfaceName selects the network interface; empty uses the default route
	InterfaceName string

	// Sender and Session are optional; they default to UDP and a new session
	Sender  transport.Sender
	Session *localnet.Session
}

// Controller sends commands to lights and receives their pushes
type Controller struct {
	listener *listener.Listener
	sender   transport.Sender
	iface    string
}

// New creates a controller. Nothing is bound until StartListening.
func New(opts Options) *Controller {
	sender := opts.Sender
	if sender == nil {
		sender = transport.DefaultSender
	}
	session := opts.Session
	if session == nil {
		session = localnet.NewSession()
	}
	return &Controller{
		listener: listener.New(listener.Config{
			InterfaceName: opts.InterfaceName,
			Callback:      opts.IncomingMsgCallback,
			Session:       session,
			Sender:        sender,
		}),
		sender: sender,
		iface:  opts.InterfaceName,
	}
}

// StartListening binds the listen port and starts registering with lights
func (c *Controller) StartListening(ctx context.Context) error {
	return c.listener.StartListening(ctx)
}

// StopListening stops receiving pushes and re-registering
func (c *Controller) StopListening() {
	c.listener.StopListening()
}

// Session returns the identity presented to lights
func (c *Controller) Session() *localnet.Session {
	return c.listener.Session()
}

// Listener exposes the underlying listener
func (c *Controller) Listener() *listener.Listener {
	return c.listener
}

// send performs a command exchange from any local address
func (c *Controller) send(ctx context.Context, msg *protocol.Message, ip string) transport.Result[*protocol.Response] {
	return c.sender.Send(ctx, transport.Request{Message: msg, DestinationIP: ip})
}

// command validates msg and sends it, decoding the reply as T
func command[T any](ctx context.Context, c *Controller, msg *protocol.Message, ip string, opts protocol.ValidateOptions) (transport.Result[T], error) {
	if err := protocol.Validate(msg, opts); err != nil {
		return transport.Result[T]{}, err
	}
	return transport.Decode[T](c.send(ctx, msg, ip)), nil
}

// status validates msg and sends it through the listener, which binds the
// configured interface's address
func status[T any](ctx context.Context, c *Controller, msg *protocol.Message, ip string) (transport.Result[T], error) {
	if err := protocol.Validate(msg, protocol.ValidateOptions{}); err != nil {
		return transport.Result[T]{}, err
	}
	return transport.Decode[T](c.listener.Send(ctx, msg, ip)), nil
}

var (
	full    = protocol.ValidateOptions{}
	partial = protocol.ValidateOptions{SkipMissingProperties: true}
)
