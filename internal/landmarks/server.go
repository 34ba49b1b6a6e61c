package landmarks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Path is where detectors connect.
	Path = "/landmarks"

	maxMessageSize = 64 << 10
)

// Server accepts WebSocket connections from a hand detector and pushes every
// decoded frame into a Tap.
type Server struct {
	Addr string
	Tap  *Tap

	upgrader websocket.Upgrader
	clients  atomic.Int32
	frames   atomic.Uint64
	rejected atomic.Uint64
}

func NewServer(addr string, tap *Tap) *Server {
	return &Server{
		Addr: addr,
		Tap:  tap,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  maxMessageSize,
			WriteBufferSize: 1024,
			// Detector pages are opened from file:// or a dev server.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Handler serves the landmark endpoint and a health check.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(Path, s.serveLandmarks)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		fmt.Fprintf(w, "ok clients=%d frames=%d\n", s.Clients(), s.Frames())
	})
	return mux
}

// ListenAndServe runs until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.Addr, err)
	}
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	slog.Info("landmark server listening", "addr", ln.Addr().String(), "path", Path)
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) serveLandmarks(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxMessageSize)

	s.clients.Add(1)
	defer s.clients.Add(-1)
	slog.Info("detector connected", "remote", r.RemoteAddr)

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Warn("detector connection lost", "remote", r.RemoteAddr, "err", err)
			} else {
				slog.Info("detector disconnected", "remote", r.RemoteAddr)
			}
			return
		}
		_, hand, err := Decode(msg)
		if err != nil {
			s.rejected.Add(1)
			slog.Debug("dropping landmark message", "err", err)
			continue
		}
		s.frames.Add(1)
		s.Tap.Push(Frame{Hand: hand, At: time.Now()})
	}
}

// Clients is the number of connected detectors.
func (s *Server) Clients() int { return int(s.clients.Load()) }

// Frames is the number of frames accepted.
func (s *Server) Frames() uint64 { return s.frames.Load() }

// Rejected is the number of messages that failed to decode.
func (s *Server) Rejected() uint64 { return s.rejected.Load() }
