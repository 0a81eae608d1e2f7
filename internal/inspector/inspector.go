// Package inspector exposes schemas and live scene snapshots to external
// tooling over HTTP and websocket.
package inspector

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/zeusync/zeuscene/internal/app"
	"github.com/zeusync/zeuscene/internal/config"
	"github.com/zeusync/zeuscene/internal/core/observability/log"
	"github.com/zeusync/zeuscene/internal/core/scene"
	"github.com/zeusync/zeuscene/internal/core/schema"
)

// Snapshot is the message streamed to websocket clients and served at /scene.
type Snapshot struct {
	Frame    uint64          `json:"frame"`
	TotalMs  int64           `json:"totalMs"`
	Entities json.RawMessage `json:"entities"`
}

// Metrics counts snapshot traffic.
type Metrics struct {
	Published uint64
	Unchanged uint64
	Dropped   uint64
	Clients   uint64
}

// Inspector turns frames into snapshots on the frame goroutine and serves
// them from its own goroutines. The two sides only share the updates channel
// and the latest encoded snapshot.
type Inspector struct {
	cfg      config.InspectorConfig
	catalog  schema.Catalog
	logger   log.Log
	upgrader websocket.Upgrader

	updates  chan []byte
	lastHash uint64
	hashed   bool

	latestMu sync.RWMutex
	latest   []byte

	clientsMu sync.RWMutex
	clients   map[string]*client

	published atomic.Uint64
	unchanged atomic.Uint64
	dropped   atomic.Uint64

	server *http.Server
}

func New(cfg config.InspectorConfig, catalog schema.Catalog, logger log.Log) *Inspector {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Inspector{
		cfg:     cfg,
		catalog: catalog,
		logger:  logger.With(log.String("component", "inspector")),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		updates: make(chan []byte, 1),
		clients: make(map[string]*client),
	}
}

// Observer returns a frame observer capturing s after every frame.
func (i *Inspector) Observer(s *scene.Scene) func(app.FrameInfo) {
	return func(info app.FrameInfo) { i.Observe(s, info) }
}

// Observe captures the scene and queues it for publishing unless it is
// identical to the previous capture. Must run on the frame goroutine.
func (i *Inspector) Observe(s *scene.Scene, info app.FrameInfo) {
	entities, err := json.Marshal(Capture(s))
	if err != nil {
		i.logger.Warn("encode scene snapshot", log.Error(err))
		return
	}
	h := xxhash.Sum64(entities)
	if i.hashed && h == i.lastHash {
		i.unchanged.Add(1)
		return
	}
	i.lastHash, i.hashed = h, true

	msg, err := json.Marshal(Snapshot{Frame: info.Frame, TotalMs: info.Total.Milliseconds(), Entities: entities})
	if err != nil {
		i.logger.Warn("encode snapshot envelope", log.Error(err))
		return
	}
	select {
	case i.updates <- msg:
	default:
		// Replace the stale pending snapshot.
		select {
		case <-i.updates:
		default:
		}
		select {
		case i.updates <- msg:
		default:
		}
	}
}

// Handler serves /schema, /scene, /ws and /health.
func (i *Inspector) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/schema", i.handleSchema)
	mux.HandleFunc("/scene", i.handleScene)
	mux.HandleFunc("/ws", i.handleWebSocket)
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

// Run serves on the configured address and publishes snapshots until ctx
// is done.
func (i *Inspector) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", i.cfg.Addr)
	if err != nil {
		return errors.Wrapf(err, "inspector listen on %s", i.cfg.Addr)
	}
	i.server = &http.Server{Handler: i.Handler(), ReadHeaderTimeout: 5 * time.Second}
	i.logger.Info("inspector listening", log.String("addr", ln.Addr().String()))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := i.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "inspector serve")
		}
		return nil
	})
	g.Go(func() error {
		i.pump(gctx)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		i.closeClients()
		if err := i.server.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "failed to shutdown inspector")
		}
		return nil
	})
	return g.Wait()
}

// pump fans queued snapshots out to clients.
func (i *Inspector) pump(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-i.updates:
			i.latestMu.Lock()
			i.latest = msg
			i.latestMu.Unlock()
			i.published.Add(1)
			i.broadcast(msg)
		}
	}
}

func (i *Inspector) broadcast(msg []byte) {
	i.clientsMu.RLock()
	var slow []*client
	for _, c := range i.clients {
		if !c.offer(msg) {
			slow = append(slow, c)
		}
	}
	i.clientsMu.RUnlock()
	for _, c := range slow {
		i.dropped.Add(1)
		i.logger.Warn("dropping slow inspector client", log.String("client_id", c.id))
		i.removeClient(c)
	}
}

// Latest returns the last published snapshot, nil before the first one.
func (i *Inspector) Latest() []byte {
	i.latestMu.RLock()
	defer i.latestMu.RUnlock()
	return i.latest
}

func (i *Inspector) GetMetrics() Metrics {
	i.clientsMu.RLock()
	n := len(i.clients)
	i.clientsMu.RUnlock()
	return Metrics{
		Published: i.published.Load(),
		Unchanged: i.unchanged.Load(),
		Dropped:   i.dropped.Load(),
		Clients:   uint64(n),
	}
}

func (i *Inspector) handleSchema(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(i.catalog); err != nil {
		i.logger.Warn("write schema", log.Error(err))
	}
}

func (i *Inspector) handleScene(w http.ResponseWriter, _ *http.Request) {
	latest := i.Latest()
	if latest == nil {
		http.Error(w, "no snapshot yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(latest)
}

func (i *Inspector) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := i.upgrader.Upgrade(w, r, nil)
	if err != nil {
		i.logger.Error("websocket upgrade failed", log.Error(err))
		return
	}
	c := newClient(conn)
	i.clientsMu.Lock()
	i.clients[c.id] = c
	i.clientsMu.Unlock()
	i.logger.Debug("inspector client connected", log.String("client_id", c.id))

	if latest := i.Latest(); latest != nil {
		c.offer(latest)
	}
	go c.writeLoop()
	go func() {
		c.readLoop()
		i.removeClient(c)
	}()
}

func (i *Inspector) removeClient(c *client) {
	i.clientsMu.Lock()
	delete(i.clients, c.id)
	i.clientsMu.Unlock()
	c.close()
}

func (i *Inspector) closeClients() {
	i.clientsMu.Lock()
	clients := i.clients
	i.clients = make(map[string]*client)
	i.clientsMu.Unlock()
	for _, c := range clients {
		c.close()
	}
}
