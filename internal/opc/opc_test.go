package opc

import (
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"libdb.so/lectern/internal/led"
)

func TestDeviceSendsFrames(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		conn, err := ln.Accept()
		if err == nil {
			accepted <- conn
		}
	}()

	dev, err := Dial(ln.Addr().String(), 2, slog.Default())
	require.NoError(t, err)

	var conn net.Conn
	select {
	case conn = <-accepted:
		defer conn.Close()
	case <-time.After(5 * time.Second):
		t.Fatal("OPC client never connected")
	}

	frame := led.LEDs{led.RGB(1, 2, 3), led.RGB(4, 5, 6)}
	require.NoError(t, dev.Show(frame))
	require.NoError(t, dev.Show(frame), "duplicate frames are skipped")
	require.NoError(t, dev.Show(led.LEDs{led.Off, led.RGB(7, 8, 9)}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	// channel, command (set pixel colors), big-endian length, R G B...
	want := []byte{
		2, 0, 0, 6, 1, 2, 3, 4, 5, 6,
		2, 0, 0, 6, 0, 0, 0, 7, 8, 9,
	}
	got := make([]byte, len(want))
	_, err = io.ReadFull(conn, got)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDialFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	_, err = Dial(addr, 0, slog.Default())
	assert.Error(t, err)
}
