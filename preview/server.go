// Package preview shows the best genome of a running search.
package preview

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gogpu/tryi"
	"github.com/gogpu/tryi/evolve"
	"github.com/gogpu/tryi/imageio"
)

const (
	// clientBuffer is the number of pending messages per websocket client.
	// Further messages are dropped until the client catches up.
	clientBuffer = 4

	writeTimeout = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool {
		return true
	},
}

// Server serves the latest preview over HTTP:
//
//	GET /latest.png   best raster as PNG
//	GET /latest.tryi  best genome in sized form (after the first checkpoint)
//	GET /metrics      Prometheus metrics
//	GET /ws           websocket: a binary PNG message per preview update
//	                  and a text message with the sized genome per checkpoint
//
// Server implements evolve.Preview and evolve.Checkpointer.
type Server struct {
	logger *slog.Logger
	router *gin.Engine
	width  int
	height int

	mu      sync.RWMutex
	png     []byte
	genome  string
	clients map[*client]struct{}
}

var (
	_ evolve.Preview      = (*Server)(nil)
	_ evolve.Checkpointer = (*Server)(nil)
)

type message struct {
	kind int
	data []byte
}

type client struct {
	conn *websocket.Conn
	send chan message
}

// NewServer returns a server. Genomes are published with the output size
// width x height. gatherer serves /metrics; nil uses
// prometheus.DefaultGatherer.
func NewServer(logger *slog.Logger, gatherer prometheus.Gatherer, width, height int) *Server {
	if logger == nil {
		logger = tryi.Logger()
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	s := &Server{
		logger:  logger,
		width:   width,
		height:  height,
		clients: make(map[*client]struct{}),
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/latest.png", s.handlePNG)
	r.GET("/latest.tryi", s.handleGenome)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	r.GET("/ws", s.handleWS)
	s.router = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Update implements evolve.Preview.
func (s *Server) Update(r *tryi.Raster) {
	var buf bytes.Buffer
	if err := imageio.WritePNG(&buf, r); err != nil {
		s.logger.Warn("preview: encode png", "error", err)
		return
	}
	s.mu.Lock()
	s.png = buf.Bytes()
	s.mu.Unlock()
	s.broadcast(message{kind: websocket.BinaryMessage, data: buf.Bytes()})
}

// Save implements evolve.Checkpointer. It never fails.
func (s *Server) Save(_ context.Context, cp evolve.Checkpoint) error {
	g := tryi.EncodeSized(s.width, s.height, cp.Match.Genome)
	s.mu.Lock()
	s.genome = g
	s.mu.Unlock()
	s.broadcast(message{kind: websocket.TextMessage, data: []byte(g)})
	return nil
}

func (s *Server) broadcast(m message) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for c := range s.clients {
		select {
		case c.send <- m:
		default:
			s.logger.Warn("preview: websocket client is slow, dropping update")
		}
	}
}

func (s *Server) handlePNG(c *gin.Context) {
	s.mu.RLock()
	data := s.png
	s.mu.RUnlock()
	if data == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.Data(http.StatusOK, "image/png", data)
}

func (s *Server) handleGenome(c *gin.Context) {
	s.mu.RLock()
	g := s.genome
	s.mu.RUnlock()
	if g == "" {
		c.Status(http.StatusNoContent)
		return
	}
	c.String(http.StatusOK, g)
}

func (s *Server) handleWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn("preview: websocket upgrade", "error", err)
		return
	}
	cl := &client{conn: conn, send: make(chan message, clientBuffer)}

	s.mu.Lock()
	s.clients[cl] = struct{}{}
	if s.png != nil {
		cl.send <- message{kind: websocket.BinaryMessage, data: s.png}
	}
	s.mu.Unlock()
	s.logger.Debug("preview: websocket client connected", "remote", conn.RemoteAddr().String())

	done := make(chan struct{})
	go s.readLoop(cl, done)
	s.writeLoop(cl, done)

	s.mu.Lock()
	delete(s.clients, cl)
	s.mu.Unlock()
	_ = conn.Close()
}

// readLoop discards client messages and closes done when the client goes.
func (s *Server) readLoop(cl *client, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := cl.conn.NextReader(); err != nil {
			return
		}
	}
}

func (s *Server) writeLoop(cl *client, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case m := <-cl.send:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := cl.conn.WriteMessage(m.kind, m.data); err != nil {
				s.logger.Warn("preview: websocket write", "error", err)
				return
			}
		}
	}
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()
	s.logger.Info("preview server listening", "addr", addr)

	select {
	case err := <-errc:
		return fmt.Errorf("preview: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("preview: shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("preview: %w", err)
	}
	return nil
}
