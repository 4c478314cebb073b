package main

import (
	"context"
	"errors"
	"io"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"lankm/internal/config"
	"lankm/internal/input"
	"lankm/internal/protocol"
	"lankm/internal/switcher"
)

func recv[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting")
	}
	var zero T
	return zero
}

func TestRunServer_ForwardsKeysAfterHotkey(t *testing.T) {
	ctrl := gomock.NewController(t)
	capture := input.NewMockCapture(ctrl)

	handlers := make(chan input.Handler, 1)
	stopped := make(chan struct{})
	capture.EXPECT().Start(gomock.Any()).DoAndReturn(func(h input.Handler) error {
		handlers <- h
		return nil
	})
	capture.EXPECT().Wait().DoAndReturn(func() error {
		<-stopped
		return nil
	})
	capture.EXPECT().Stop().DoAndReturn(func() error {
		close(stopped)
		return nil
	})

	cfg := config.DefaultConfig()
	cfg.Port = 0
	addrs := make(chan net.Addr, 1)
	peers := make(chan string, 2)
	modes := make(chan switcher.Mode, 2)
	events := serverEvents{
		OnListen: func(addr net.Addr) { addrs <- addr },
		OnPeer:   func(peer string) { peers <- peer },
		OnMode:   func(m switcher.Mode) { modes <- m },
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- runServer(ctx, cfg, capture, events)
	}()

	port := recv(t, addrs).(*net.TCPAddr).Port
	conn, err := net.Dial("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(port)))
	require.NoError(t, err)
	defer conn.Close()
	assert.NotEmpty(t, recv(t, peers))

	handle := recv(t, handlers)
	key := input.KeyEvent{HID: 0x04, Kind: input.Press}

	// Local mode keeps keys on this machine.
	assert.False(t, handle(input.KeyEventOf(key)))

	assert.True(t, handle(input.Hotkey()))
	assert.Equal(t, switcher.Remote, recv(t, modes))
	assert.True(t, handle(input.KeyEventOf(key)))

	var buf [protocol.KeyEventSize]byte
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, err = io.ReadFull(conn, buf[:])
	require.NoError(t, err)
	got, err := protocol.DecodeKeyEvent(buf)
	require.NoError(t, err)
	assert.Equal(t, key, got)

	cancel()
	assert.NoError(t, recv(t, done))
}

func TestRunServer_CaptureStartFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	capture := input.NewMockCapture(ctrl)

	startErr := errors.New("no keyboards")
	capture.EXPECT().Start(gomock.Any()).Return(startErr)

	cfg := config.DefaultConfig()
	cfg.Port = 0

	err := runServer(context.Background(), cfg, capture, serverEvents{})
	assert.ErrorIs(t, err, startErr)
}
