//go:build unix

package transport

import (
	"context"
	"net"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func broadcastOption(t *testing.T, conn net.PacketConn) int {
	t.Helper()
	rc, err := conn.(syscall.Conn).SyscallConn()
	require.NoError(t, err)
	var v int
	var sockErr error
	require.NoError(t, rc.Control(func(fd uintptr) {
		v, sockErr = syscall.GetsockoptInt(int(fd), syscall.SOL_SOCKET, syscall.SO_BROADCAST)
	}))
	require.NoError(t, sockErr)
	return v
}

func TestBindBroadcastOption(t *testing.T) {
	on, err := bind(context.Background(), "127.0.0.1", true)
	require.NoError(t, err)
	defer on.Close()
	assert.NotZero(t, broadcastOption(t, on))

	off, err := bind(context.Background(), "127.0.0.1", false)
	require.NoError(t, err)
	defer off.Close()
	assert.Zero(t, broadcastOption(t, off))
}

func TestListenEnablesBroadcast(t *testing.T) {
	conn, err := Listen(context.Background(), "127.0.0.1", 0)
	require.NoError(t, err)
	defer conn.Close()
	assert.NotZero(t, broadcastOption(t, conn))
}
