package listener

import (
	"context"
	"net"
	"sync"
)

type listenFunc func(ctx context.Context, localIP string, port int) (net.PacketConn, error)

// socket is the listener's long-lived handle. A new socket is idle; bind
// opens the underlying connection once.
type socket struct {
	listen listenFunc

	mu   sync.Mutex
	conn net.PacketConn
}

func newSocket(listen listenFunc) *socket {
	return &socket{listen: listen}
}

func (s *socket) bind(ctx context.Context, localIP string, port int) (net.PacketConn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		return s.conn, nil
	}
	conn, err := s.listen(ctx, localIP, port)
	if err != nil {
		return nil, err
	}
	s.conn = conn
	return conn, nil
}

func (s *socket) bound() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn != nil
}

func (s *socket) addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil
	}
	return s.conn.LocalAddr()
}

// close closes the connection if one was bound. The socket cannot be bound
// again afterwards.
func (s *socket) close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.listen = func(context.Context, string, int) (net.PacketConn, error) {
		return nil, net.ErrClosed
	}
	return err
}
