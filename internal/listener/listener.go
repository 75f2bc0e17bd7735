package listener

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/wizlocal/internal/localnet"
	"github.com/muurk/wizlocal/internal/logging"
	"github.com/muurk/wizlocal/internal/protocol"
	"github.com/muurk/wizlocal/internal/registration"
	"github.com/muurk/wizlocal/internal/transport"
)

const maxDatagramSize = 4096

// Callback receives every message the listener accepts together with the IP
// of the light that sent it
type Callback func(msg protocol.Inbound, sourceIP string)

// Config holds the listener configuration
type Config struct {
	InterfaceName string
	Callback      Callback
	Session       *localnet.Session
	Sender        transport.Sender // defaults to transport.DefaultSender
	ListenPort    int              // defaults to protocol.ListenPort
	ControlPort   int              // defaults to protocol.ControlPort
}

// Listener owns the long-lived listen socket and the registration timer
type Listener struct {
	config    Config
	sender    transport.Sender
	scheduler *registration.Scheduler

	listen       listenFunc
	resolveLocal func(string) string
	now          func() time.Time

	startMu sync.Mutex // serialises StartListening
	mu      sync.Mutex // guards sock, timer and generation
	sock    *socket
	stop    chan struct{} // closed by StopListening to end the receive loop
	timer   *registration.Timer
	gen     uint64
	loops   sync.WaitGroup
}

// New creates an idle listener
func New(config Config) *Listener {
	if config.Sender == nil {
		config.Sender = transport.DefaultSender
	}
	if config.Session == nil {
		config.Session = localnet.NewSession()
	}
	if config.ListenPort == 0 {
		config.ListenPort = protocol.ListenPort
	}
	if config.ControlPort == 0 {
		config.ControlPort = protocol.ControlPort
	}

	l := &Listener{
		config:       config,
		sender:       config.Sender,
		scheduler:    registration.NewScheduler(config.Sender, config.Session),
		listen:       transport.Listen,
		resolveLocal: localnet.ResolveLocalAddress,
		now:          time.Now,
	}
	l.sock = newSocket(l.bindListen)
	return l
}

func (l *Listener) bindListen(ctx context.Context, localIP string, port int) (net.PacketConn, error) {
	return l.listen(ctx, localIP, port)
}

// Session returns the identity the listener acknowledges with
func (l *Listener) Session() *localnet.Session {
	return l.config.Session
}

// Scheduler returns the registration scheduler used by the listener
func (l *Listener) Scheduler() *registration.Scheduler {
	return l.scheduler
}

// StartListening resets the listener, binds the listen port on all interfaces
// and starts receiving. It returns once the initial registration burst has
// been sent.
func (l *Listener) StartListening(ctx context.Context) error {
	l.startMu.Lock()
	defer l.startMu.Unlock()

	l.StopListening()

	l.mu.Lock()
	sock := l.sock
	gen := l.gen
	conn, err := sock.bind(ctx, localnet.Unspecified, l.config.ListenPort)
	if err != nil {
		l.mu.Unlock()
		return fmt.Errorf("failed to bind listen port %d: %w", l.config.ListenPort, err)
	}
	stop := make(chan struct{})
	l.stop = stop
	l.loops.Add(1)
	go l.receive(conn, stop)
	l.mu.Unlock()

	logging.Info("Listening for light broadcasts",
		zap.String("addr", conn.LocalAddr().String()),
		zap.String("interface", l.config.InterfaceName),
		zap.String("session_mac", l.config.Session.MAC),
	)

	timer := l.scheduler.RegisterAllLights(context.WithoutCancel(ctx), l.config.InterfaceName, l.config.ControlPort)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.gen != gen {
		// StopListening ran during the registration burst
		timer.Stop()
		return nil
	}
	l.timer = timer
	return nil
}

// StopListening stops the registration timer, closes the socket and primes
// a fresh idle socket. It is safe to call at any time, including when idle,
// but not from within the Callback: it waits for the receive loop to exit.
func (l *Listener) StopListening() {
	l.mu.Lock()
	if l.timer != nil {
		l.timer.Stop()
		l.timer = nil
	}
	if l.stop != nil {
		close(l.stop)
		l.stop = nil
	}
	wasBound := l.sock.bound()
	if err := l.sock.close(); err != nil {
		logging.Debug("Error closing listen socket", zap.Error(err))
	}
	l.sock = newSocket(l.bindListen)
	l.gen++
	l.mu.Unlock()

	l.loops.Wait()
	if wasBound {
		logging.Info("Stopped listening")
	}
}

// Listening reports whether the listener holds a bound socket
func (l *Listener) Listening() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sock.bound()
}

// LocalAddr returns the bound listen address, or nil when idle
func (l *Listener) LocalAddr() net.Addr {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sock.addr()
}

func (l *Listener) receive(conn net.PacketConn, stop <-chan struct{}) {
	defer l.loops.Done()

	retry := newReadRetry()
	buf := make([]byte, maxDatagramSize)
	for {
		n, addr, err := conn.ReadFrom(buf)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			wait := time.NewTimer(retry.failed(err))
			select {
			case <-stop:
				wait.Stop()
				return
			case <-wait.C:
			}
			continue
		}
		retry.recovered()

		data := append([]byte(nil), buf[:n]...)
		sourceIP := hostOf(addr)
		logging.LogDatagram("received", addr.String(), data)

		msg, err := protocol.ParseInbound(data)
		if err != nil {
			logging.Warn("Dropping malformed datagram",
				zap.String("source", sourceIP),
				zap.Error(err),
			)
			continue
		}
		l.ProcessMessage(msg, sourceIP)
	}
}

// ProcessMessage dispatches one inbound message from sourceIP
func (l *Listener) ProcessMessage(msg protocol.Inbound, sourceIP string) {
	switch m := msg.(type) {
	case *protocol.SyncPilot:
		go l.acknowledge(m.ID, m.Env, sourceIP)
		if len(m.Skipped) > 0 {
			logging.Warn("syncPilot fields with unexpected types ignored",
				zap.String("ip", sourceIP),
				zap.Strings("fields", m.Skipped),
			)
		}

		stamped := *m
		stamped.Timestamp = l.now()
		stamped.IP = sourceIP
		l.deliver(&stamped, sourceIP)

	case *protocol.FirstBeat:
		logging.Info("Light announced itself",
			zap.String("ip", sourceIP),
			zap.String("mac", m.Params.Mac),
			zap.String("firmware", m.Params.FwVersion),
			zap.Strings("skipped", m.Skipped),
		)
		go l.scheduler.RegisterDevice(context.Background(), sourceIP, l.config.InterfaceName, l.config.ControlPort, false)
		l.deliver(m, sourceIP)

	case *protocol.CommandResponse:
		logging.Debug("Command reply on listen port",
			zap.String("ip", sourceIP),
			zap.String("method", m.Method),
		)
		l.deliver(m, sourceIP)

	case *protocol.UnknownMessage:
		logging.Warn("Unrecognized method",
			zap.String("ip", sourceIP),
			zap.String("method", m.Method),
		)
		l.deliver(m, sourceIP)

	default:
		logging.Warn("Unhandled message type",
			zap.String("ip", sourceIP),
			zap.String("type", fmt.Sprintf("%T", msg)),
		)
	}
}

func (l *Listener) acknowledge(id int, env, ip string) {
	ack := protocol.NewSyncPilotAck(id, env, l.config.Session.MAC)
	res := l.Send(context.Background(), ack, ip)
	if !res.OK() {
		logging.Debug("syncPilot acknowledgement failed",
			zap.String("ip", ip),
			zap.Error(res.Err()),
		)
	}
}

func (l *Listener) deliver(msg protocol.Inbound, sourceIP string) {
	if l.config.Callback == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			logging.Error("Message callback panicked",
				zap.String("method", msg.MethodName()),
				zap.Any("panic", r),
			)
		}
	}()
	l.config.Callback(msg, sourceIP)
}

// Send performs one exchange with ip from the address of the configured
// interface
func (l *Listener) Send(ctx context.Context, msg *protocol.Message, ip string) transport.Result[*protocol.Response] {
	return l.sender.Send(ctx, transport.Request{
		Message:       msg,
		DestinationIP: ip,
		LocalIP:       l.resolveLocal(l.config.InterfaceName),
		Port:          l.config.ControlPort,
	})
}

func hostOf(addr net.Addr) string {
	if ua, ok := addr.(*net.UDPAddr); ok {
		return ua.IP.String()
	}
	host, _, err := net.SplitHostPort(addr.String())
	if err != nil {
		return addr.String()
	}
	return host
}
