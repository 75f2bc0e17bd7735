// Package transporttest provides a recording Sender for tests of code that
// performs exchanges.
package transporttest

import (
	"context"
	"sync"
	"time"

	"github.com/muurk/wizlocal/internal/protocol"
	"github.com/muurk/wizlocal/internal/transport"
)

// Sender records every request and answers with a scripted result. The zero
// value answers every request with {"result":{"success":true}}.
type Sender struct {
	mu       sync.Mutex
	requests []transport.Request
	notify   chan transport.Request

	reply func(ctx context.Context, req transport.Request) transport.Result[*protocol.Response]
}

// NewSender creates a Sender whose Requests channel buffers up to n sends
func NewSender(n int) *Sender {
	return &Sender{notify: make(chan transport.Request, n)}
}

// Send implements transport.Sender
func (s *Sender) Send(ctx context.Context, req transport.Request) transport.Result[*protocol.Response] {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	notify := s.notify
	reply := s.reply
	s.mu.Unlock()

	if notify != nil {
		select {
		case notify <- req:
		default:
		}
	}
	if reply != nil {
		return reply(ctx, req)
	}
	method := ""
	if req.Message != nil {
		method = req.Message.Method
	}
	return transport.Success(method, &protocol.Response{
		Method: method,
		Result: []byte(`{"success":true}`),
	})
}

// SetReply scripts the result for every following request
func (s *Sender) SetReply(fn func(ctx context.Context, req transport.Request) transport.Result[*protocol.Response]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reply = fn
}

// Fail makes every following request resolve with err
func (s *Sender) Fail(err *transport.Error) {
	s.SetReply(func(context.Context, transport.Request) transport.Result[*protocol.Response] {
		return transport.Failure[*protocol.Response](err)
	})
}

// Requests returns a snapshot of all recorded requests
func (s *Sender) Requests() []transport.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]transport.Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// Count returns the number of recorded requests
func (s *Sender) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// Wait blocks until a request is recorded or the timeout elapses
func (s *Sender) Wait(timeout time.Duration) (transport.Request, bool) {
	select {
	case req := <-s.notify:
		return req, true
	case <-time.After(timeout):
		return transport.Request{}, false
	}
}
