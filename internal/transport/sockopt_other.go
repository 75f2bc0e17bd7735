//go:build !unix && !windows

package transport

func setBroadcastFD(fd uintptr, on bool) error {
	return nil
}
