package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/felixge/httpsnoop"
	"github.com/golang/glog"
	"github.com/gorilla/mux"
	"github.com/oklog/ulid/v2"

	"github.com/five82/penplot/internal/plotter"
	"github.com/five82/penplot/internal/stroke"
)

// RequestIDHeader carries the ULID assigned to every request.
const RequestIDHeader = "X-Request-Id"

const (
	maxBodyBytes    = 4 << 20
	readTimeout     = 9 * time.Second
	shutdownTimeout = 5 * time.Second
)

// Server exposes the relay HTTP API.
type Server struct {
	lines  *Lines
	device *Device
	router *mux.Router
}

// NewServer wires the routes around lines and device.
func NewServer(lines *Lines, device *Device) *Server {
	if lines == nil {
		lines = NewLines()
	}
	if device == nil {
		device = NewDevice("", 0)
	}
	s := &Server{lines: lines, device: device}

	r := mux.NewRouter()
	r.Use(requestLogger)
	r.Methods(http.MethodPost).Path("/api/lines").HandlerFunc(s.handleLines)
	r.Methods(http.MethodPost).Path("/api/point").HandlerFunc(s.handlePoint)
	r.Methods(http.MethodPost).Path("/api/command").HandlerFunc(s.handleCommand)
	r.Methods(http.MethodGet).Path("/healthz").HandlerFunc(s.handleHealth)
	s.router = r
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Serve runs the HTTP server on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: readTimeout,
		ReadTimeout:       readTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ulid.Make().String()
		w.Header().Set(RequestIDHeader, id)
		m := httpsnoop.CaptureMetrics(next, w, r)
		glog.Infof("[http] %s %s %s client=%s status=%d duration=%s bytes=%d",
			id, r.Method, r.URL.Path, ClientID(r), m.Code, m.Duration, m.Written)
	})
}

// ClientID identifies the sender of r by its client header, falling back to
// the remote IP.
func ClientID(r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get(plotter.ClientHeader)); id != "" {
		return id
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (s *Server) handleLines(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	if len(body) == 0 || body[0] != '[' {
		http.Error(w, "expected a line list", http.StatusBadRequest)
		return
	}
	reply := s.lines.Update(ClientID(r), body)
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write(reply)
}

func (s *Server) handlePoint(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	var p stroke.WirePoint
	if err := json.Unmarshal(body, &p); err != nil || p.X == "" || p.Y == "" {
		http.Error(w, "expected a point", http.StatusBadRequest)
		return
	}
	// The client waits for the reply, so points reach the device in order.
	if err := s.device.SendPoint(p); err != nil {
		glog.Warningf("[device] point %s,%s dropped: %v", p.X, p.Y, err)
	}
	acknowledge(w, body)
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	var cmd plotter.Command
	if err := json.Unmarshal(body, &cmd); err != nil || cmd == (plotter.Command{}) {
		http.Error(w, "expected a command", http.StatusBadRequest)
		return
	}
	if cmd.Connect != "" {
		glog.Infof("[device] reconnect requested by %s", ClientID(r))
		if err := s.device.Connect(); err != nil {
			glog.Warningf("[device] reconnect failed: %v", err)
		}
	} else if err := s.device.Send(cmd); err != nil {
		glog.Warningf("[device] %s dropped: %v", cmd.Label(), err)
	}
	acknowledge(w, body)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status": "ok",
		"device": s.device.Connected(),
		"points": len(s.lines.Snapshot()),
	})
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, "read body", http.StatusBadRequest)
		return nil, false
	}
	return body, true
}

func acknowledge(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = fmt.Fprintf(w, "Data: %s\nReceived successfully", body)
}
