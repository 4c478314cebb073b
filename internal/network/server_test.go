package network

import (
	"context"
	"io"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lankm/internal/input"
	"lankm/internal/protocol"
)

type testServer struct {
	server       *Server
	queue        *EventQueue
	connected    chan string
	disconnected chan error
	done         chan error
	cancel       context.CancelFunc
}

func startServer(t *testing.T) *testServer {
	t.Helper()

	ln, err := Listen(0)
	require.NoError(t, err)

	ts := &testServer{
		queue:        NewEventQueue(16),
		connected:    make(chan string, 4),
		disconnected: make(chan error, 4),
		done:         make(chan error, 1),
	}
	ts.server = NewServer(ln, ts.queue)
	ts.server.SetOnConnect(func(peer string) { ts.connected <- peer })
	ts.server.SetOnDisconnect(func(err error) { ts.disconnected <- err })

	ctx, cancel := context.WithCancel(context.Background())
	ts.cancel = cancel
	go func() { ts.done <- ts.server.Serve(ctx) }()

	t.Cleanup(func() {
		cancel()
		select {
		case err := <-ts.done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Error("server did not stop")
		}
	})
	return ts
}

func (ts *testServer) dial(t *testing.T) net.Conn {
	t.Helper()
	port := ts.server.Addr().(*net.TCPAddr).Port
	conn, err := net.Dial("tcp4", net.JoinHostPort("127.0.0.1", strconv.Itoa(port)))
	require.NoError(t, err)

	select {
	case <-ts.connected:
	case <-time.After(2 * time.Second):
		t.Fatal("server did not accept")
	}
	return conn
}

func readEvent(t *testing.T, conn net.Conn) input.KeyEvent {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var buf [protocol.KeyEventSize]byte
	_, err := io.ReadFull(conn, buf[:])
	require.NoError(t, err)
	ev, err := protocol.DecodeKeyEvent(buf)
	require.NoError(t, err)
	return ev
}

func TestServer_DiscardsEventsQueuedBeforeConnect(t *testing.T) {
	ts := startServer(t)

	ts.queue.Forward(press(0x04))
	ts.queue.Forward(press(0x05))

	conn := ts.dial(t)
	defer conn.Close()
	assert.Zero(t, ts.queue.Len())

	want := input.KeyEvent{HID: 0x06, Kind: input.Release, Mods: input.ModAlt}
	ts.queue.Forward(want)
	assert.Equal(t, want, readEvent(t, conn))
}

func TestServer_PreservesOrder(t *testing.T) {
	ts := startServer(t)
	conn := ts.dial(t)
	defer conn.Close()

	for hid := uint16(0x04); hid < 0x0C; hid++ {
		ts.queue.Forward(press(hid))
	}
	for hid := uint16(0x04); hid < 0x0C; hid++ {
		assert.Equal(t, hid, readEvent(t, conn).HID)
	}
}

func TestServer_AcceptsNewClientAfterWriteFailure(t *testing.T) {
	ts := startServer(t)

	first := ts.dial(t)
	require.NoError(t, first.Close())

	// The server only notices the dead peer when a write fails.
	require.Eventually(t, func() bool {
		ts.queue.Forward(press(0x04))
		select {
		case err := <-ts.disconnected:
			assert.Error(t, err)
			return true
		default:
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)

	second := ts.dial(t)
	defer second.Close()

	ts.queue.Forward(press(0x1E))
	assert.EqualValues(t, 0x1E, readEvent(t, second).HID)
}

func TestServer_StopsOnCancel(t *testing.T) {
	ts := startServer(t)
	conn := ts.dial(t)
	defer conn.Close()

	ts.cancel()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, err := conn.Read(make([]byte, 1))
	assert.Error(t, err)
}
