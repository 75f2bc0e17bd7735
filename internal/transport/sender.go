package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/wizlocal/internal/logging"
	"github.com/muurk/wizlocal/internal/protocol"
)

// ExchangeTimeout is how long an exchange waits for its single reply
const ExchangeTimeout = 1000 * time.Millisecond

// maxDatagramSize bounds a single reply; WiZ replies are well under 1 KiB
const maxDatagramSize = 4096

// Request describes one command/response exchange
type Request struct {
	Message       *protocol.Message
	DestinationIP string
	// LocalIP is the address to bind; empty binds all interfaces
	LocalIP string
	// Port defaults to protocol.ControlPort
	Port      int
	Broadcast bool
	// Conn replaces the socket the exchange would bind itself. It is
	// closed when the exchange resolves.
	Conn net.PacketConn
}

// Sender performs exchanges. Scheduler, listener and controller depend on
// this interface so tests can observe traffic without sockets.
type Sender interface {
	Send(ctx context.Context, req Request) Result[*protocol.Response]
}

// UDPSender performs exchanges over real UDP sockets
type UDPSender struct {
	timeout time.Duration
}

// NewUDPSender creates a sender using the protocol's fixed timeout
func NewUDPSender() *UDPSender {
	return &UDPSender{timeout: ExchangeTimeout}
}

// DefaultSender is the sender used by the package-level Send
var DefaultSender Sender = NewUDPSender()

// Send performs one exchange with DefaultSender
func Send(ctx context.Context, req Request) Result[*protocol.Response] {
	return DefaultSender.Send(ctx, req)
}

// Send binds a socket, sends the message and resolves with the first reply,
// a timeout, or the first socket failure.
func (s *UDPSender) Send(ctx context.Context, req Request) Result[*protocol.Response] {
	start := time.Now()
	port := req.Port
	if port == 0 {
		port = protocol.ControlPort
	}
	target := net.JoinHostPort(req.DestinationIP, strconv.Itoa(port))

	res := s.exchange(ctx, req, target)

	method := ""
	if req.Message != nil {
		method = req.Message.Method
	}
	logging.LogExchange(method, target, time.Since(start), res.Err())
	return res
}

func (s *UDPSender) exchange(ctx context.Context, req Request, target string) Result[*protocol.Response] {
	if req.Message == nil {
		return Failure[*protocol.Response](newSendError(errors.New("no message to send")))
	}
	payload, err := req.Message.Encode()
	if err != nil {
		return Failure[*protocol.Response](newSendError(err))
	}

	conn := req.Conn
	if conn == nil {
		conn, err = bind(ctx, req.LocalIP, req.Broadcast)
		if err != nil {
			return Failure[*protocol.Response](newBindError(err))
		}
	} else if err := setBroadcast(conn, req.Broadcast); err != nil {
		if req.Broadcast {
			if cerr := conn.Close(); cerr != nil {
				logging.Debug("Error closing exchange socket", zap.String("target", target), zap.Error(cerr))
			}
			return Failure[*protocol.Response](newSendError(fmt.Errorf("failed to enable broadcast: %w", err)))
		}
		logging.Warn("Could not clear broadcast option on injected socket", zap.Error(err))
	}

	ex := newExchange(conn, target)
	timeout := s.timeout
	if timeout <= 0 {
		timeout = ExchangeTimeout
	}
	timer := time.AfterFunc(timeout, func() {
		ex.finish(Failure[*protocol.Response](newTimeoutError()))
	})
	defer timer.Stop()

	go ex.readReply(req.Message.Method)

	dst, err := net.ResolveUDPAddr("udp4", target)
	if err != nil {
		ex.finish(Failure[*protocol.Response](newSendError(err)))
	} else {
		logging.LogDatagram("sent", target, payload)
		if _, err := conn.WriteTo(payload, dst); err != nil {
			ex.finish(Failure[*protocol.Response](newSendError(err)))
		}
	}

	select {
	case <-ex.done:
	case <-ctx.Done():
		ex.finish(Failure[*protocol.Response](newCanceledError(ctx.Err())))
	}
	return ex.result
}

// exchange is the completion guard for one request. The first call to finish
// wins; every later call is a no-op.
type exchange struct {
	conn   net.PacketConn
	target string

	once      sync.Once
	closeOnce sync.Once
	done      chan struct{}
	result    Result[*protocol.Response]
}

func newExchange(conn net.PacketConn, target string) *exchange {
	return &exchange{conn: conn, target: target, done: make(chan struct{})}
}

// finish records res if the exchange is still pending and closes the socket.
// It reports whether res was the winning outcome.
func (ex *exchange) finish(res Result[*protocol.Response]) bool {
	won := false
	ex.once.Do(func() {
		won = true
		ex.result = res
		ex.closeConn()
		close(ex.done)
	})
	return won
}

func (ex *exchange) closeConn() {
	ex.closeOnce.Do(func() {
		if err := ex.conn.Close(); err != nil {
			logging.Debug("Error closing exchange socket", zap.String("target", ex.target), zap.Error(err))
		}
	})
}

func (ex *exchange) readReply(method string) {
	buf := make([]byte, maxDatagramSize)
	n, addr, err := ex.conn.ReadFrom(buf)
	if err != nil {
		// After a timeout the read fails on the closed socket; finish ignores it.
		ex.finish(Failure[*protocol.Response](newSocketError(err)))
		return
	}
	data := buf[:n]
	from := ex.target
	if addr != nil {
		from = addr.String()
	}
	logging.LogDatagram("received", from, data)
	ex.finish(classifyReply(method, data))
}

// classifyReply maps a reply datagram onto a Result
func classifyReply(method string, data []byte) Result[*protocol.Response] {
	resp, err := protocol.ParseResponse(data)
	if err != nil {
		return Failure[*protocol.Response](newParseError(data))
	}
	if resp.HasResult() {
		return Success(method, resp)
	}
	if resp.HasError() {
		return Failure[*protocol.Response](newDeviceError(resp.Error))
	}
	return Failure[*protocol.Response](newProtocolError())
}

// bind opens an IPv4 UDP socket on an ephemeral port of localIP
func bind(ctx context.Context, localIP string, broadcast bool) (net.PacketConn, error) {
	if localIP == "" {
		localIP = "0.0.0.0"
	}
	lc := net.ListenConfig{
		Control: func(network, address string, c syscall.RawConn) error {
			return controlBroadcast(c, broadcast)
		},
	}
	return lc.ListenPacket(ctx, "udp4", net.JoinHostPort(localIP, "0"))
}

// Listen binds an IPv4 UDP socket on the given address and port with
// SO_BROADCAST enabled. It is used for the long-lived listener socket.
func Listen(ctx context.Context, localIP string, port int) (net.PacketConn, error) {
	lc := net.ListenConfig{
		Control: func(network, address string, c syscall.RawConn) error {
			return controlBroadcast(c, true)
		},
	}
	return lc.ListenPacket(ctx, "udp4", net.JoinHostPort(localIP, strconv.Itoa(port)))
}

func controlBroadcast(c syscall.RawConn, on bool) error {
	var sockErr error
	if err := c.Control(func(fd uintptr) {
		sockErr = setBroadcastFD(fd, on)
	}); err != nil {
		return err
	}
	return sockErr
}

// setBroadcast applies SO_BROADCAST to a socket that was not bound here
func setBroadcast(conn net.PacketConn, on bool) error {
	sc, ok := conn.(syscall.Conn)
	if !ok {
		return nil
	}
	rc, err := sc.SyscallConn()
	if err != nil {
		return err
	}
	return controlBroadcast(rc, on)
}
