package network

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"lankm/internal/protocol"
)

const acceptRetryDelay = 100 * time.Millisecond

// Listen binds the server's TCP listener on all IPv4 interfaces.
func Listen(port int) (net.Listener, error) {
	ln, err := net.Listen("tcp4", fmt.Sprintf("0.0.0.0:%d", port))
	if err != nil {
		return nil, fmt.Errorf("listen on port %d: %w", port, err)
	}
	return ln, nil
}

// Server forwards queued key events to one client at a time.
type Server struct {
	ln    net.Listener
	queue *EventQueue

	mu           sync.Mutex
	onConnect    func(peer string)
	onDisconnect func(err error)
}

// NewServer creates a server that accepts on ln and forwards from queue.
func NewServer(ln net.Listener, queue *EventQueue) *Server {
	return &Server{ln: ln, queue: queue}
}

// SetOnConnect sets the callback run after a client is accepted and the
// queue has been drained.
func (s *Server) SetOnConnect(callback func(peer string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onConnect = callback
}

// SetOnDisconnect sets the callback run when a client connection is dropped.
func (s *Server) SetOnDisconnect(callback func(err error)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onDisconnect = callback
}

// Addr returns the listener's address.
func (s *Server) Addr() net.Addr {
	return s.ln.Addr()
}

// Serve accepts clients until ctx is done. Each accepted client gets only
// events produced after it connected; when a write fails the connection is
// dropped and the server waits for the next client. Serve closes the
// listener before returning.
func (s *Server) Serve(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		s.ln.Close()
	})
	defer stop()
	defer s.ln.Close()

	log.Info().Stringer("addr", s.ln.Addr()).Msg("Server: waiting for client")
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return fmt.Errorf("accept: %w", err)
			}
			log.Warn().Err(err).Msg("Server: accept failed")
			time.Sleep(acceptRetryDelay)
			continue
		}

		err = s.handle(ctx, conn)
		if ctx.Err() != nil {
			return nil
		}
		log.Warn().Err(err).Msg("Server: client disconnected, waiting for a new one")

		s.mu.Lock()
		onDisconnect := s.onDisconnect
		s.mu.Unlock()
		if onDisconnect != nil {
			onDisconnect(err)
		}
	}
}

func (s *Server) handle(ctx context.Context, conn net.Conn) error {
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() {
		conn.Close()
	})
	defer stop()

	peer := conn.RemoteAddr().String()
	stale := s.queue.Drain()
	log.Info().Str("peer", peer).Int("discarded", stale).Msg("Server: client connected")

	s.mu.Lock()
	onConnect := s.onConnect
	s.mu.Unlock()
	if onConnect != nil {
		onConnect(peer)
	}

	for {
		ev, err := s.queue.Pop(ctx)
		if err != nil {
			return err
		}
		buf := protocol.EncodeKeyEvent(ev)
		if _, err := conn.Write(buf[:]); err != nil {
			return fmt.Errorf("write to %s: %w", peer, err)
		}
		log.Debug().Stringer("event", ev).Msg("Server: forwarded")
	}
}
