package registration

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/wizlocal/internal/localnet"
	"github.com/muurk/wizlocal/internal/logging"
	"github.com/muurk/wizlocal/internal/protocol"
	"github.com/muurk/wizlocal/internal/transport"
)

const (
	// BurstCount is the number of back-to-back registrations sent up front
	BurstCount = 3
	// Interval is the re-registration period
	Interval = 15 * time.Second
)

// Scheduler sends registration messages on behalf of one session
type Scheduler struct {
	sender  transport.Sender
	session *localnet.Session

	resolveLocal func(interfaceName string) string
	broadcastFor func(interfaceName string) string
	interval     time.Duration
}

// NewScheduler creates a scheduler that registers as session through sender
func NewScheduler(sender transport.Sender, session *localnet.Session) *Scheduler {
	return &Scheduler{
		sender:       sender,
		session:      session,
		resolveLocal: localnet.ResolveLocalAddress,
		broadcastFor: localnet.BroadcastAddress,
		interval:     Interval,
	}
}

// RegisterDevice sends one registration to ip, advertising the address of
// interfaceName and the session MAC. A zero port means protocol.ControlPort.
func (s *Scheduler) RegisterDevice(ctx context.Context, ip, interfaceName string, port int, broadcast bool) transport.Result[*protocol.Response] {
	localIP := s.resolveLocal(interfaceName)
	msg := protocol.NewRegistrationMessage(localIP, s.session.MAC)

	res := s.sender.Send(ctx, transport.Request{
		Message:       msg,
		DestinationIP: ip,
		LocalIP:       localIP,
		Port:          port,
		Broadcast:     broadcast,
	})
	if !res.OK() {
		logging.Debug("Registration failed",
			zap.String("target", ip),
			zap.Bool("broadcast", broadcast),
			zap.Error(res.Err()))
	}
	return res
}

// RegisterAllLights broadcasts BurstCount registrations, each awaited before
// the next, then keeps broadcasting one per Interval in the background until
// the returned Timer is stopped or ctx ends.
func (s *Scheduler) RegisterAllLights(ctx context.Context, interfaceName string, port int) *Timer {
	target := s.broadcastFor(interfaceName)

	for i := 0; i < BurstCount; i++ {
		s.RegisterDevice(ctx, target, interfaceName, port, true)
	}

	loopCtx, cancel := context.WithCancel(ctx)
	t := &Timer{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(t.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-loopCtx.Done():
				return
			case <-ticker.C:
				if loopCtx.Err() != nil {
					return
				}
				// Stopping the timer must not abort a registration in flight
				s.RegisterDevice(context.WithoutCancel(loopCtx), target, interfaceName, port, true)
			}
		}
	}()

	logging.Debug("Registration timer started",
		zap.String("target", target),
		zap.Duration("interval", s.interval))
	return t
}

// Timer is the handle of a running re-registration loop
type Timer struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Stop ends the loop. It does not wait for an in-flight registration; use
// Done for that. Stop may be called more than once.
func (t *Timer) Stop() {
	t.cancel()
}

// Done is closed once the loop has exited
func (t *Timer) Done() <-chan struct{} {
	return t.done
}
