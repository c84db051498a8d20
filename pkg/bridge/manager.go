package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"rosmqtt/pkg/codec"
	"rosmqtt/pkg/config"
	"rosmqtt/pkg/mqttbus"
	"rosmqtt/pkg/rosbus"
	"rosmqtt/pkg/rosmsg"
)

const activeTimeout = 10 * time.Second

// Manager owns every configured bridge session and the status endpoint.
type Manager struct {
	cfg      *config.Config
	sessions []*Session
	log      *slog.Logger

	mu        sync.RWMutex
	startedAt time.Time
}

// NewManager builds one session per configured bridge. All sessions share
// one encoder and one registry.
func NewManager(cfg *config.Config, node rosbus.Node, client mqttbus.Client, registry *rosmsg.Registry, log *slog.Logger) (*Manager, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if node == nil {
		return nil, errors.New("ros node is required")
	}
	if client == nil {
		return nil, errors.New("mqtt client is required")
	}
	if log == nil {
		log = slog.Default()
	}
	if registry == nil {
		registry = rosmsg.Default
	}

	var imageKinds []string
	if len(cfg.Codec.ImageMessageTypes) > 0 {
		imageKinds = cfg.Codec.ImageMessageTypes
	}
	encoder := codec.NewEncoder(log, imageKinds)

	sessions := make([]*Session, 0, len(cfg.Bridges))
	for _, bridgeCfg := range cfg.Bridges {
		sessions = append(sessions, NewSession(bridgeCfg, node, client, registry, encoder, log))
	}

	return &Manager{
		cfg:      cfg,
		sessions: sessions,
		log:      log.With("component", "bridge.manager"),
	}, nil
}

// Sessions returns the managed sessions in configuration order.
func (m *Manager) Sessions() []*Session { return m.sessions }

// StartAll starts every session. A failing bridge is logged and left in its
// error state; healthy bridges keep running.
func (m *Manager) StartAll() {
	started := 0
	for _, session := range m.sessions {
		if err := session.Start(); err != nil {
			m.log.Error("Bridge failed to start", "bridge", session.Name(), "error", err)
			continue
		}
		started++
	}
	m.log.Info("Bridges started", "total", len(m.sessions), "started", started)
}

// StopAll stops every session; safe to call repeatedly.
func (m *Manager) StopAll() {
	for _, session := range m.sessions {
		session.Stop()
	}
}

// Run starts all bridges and the status server, then blocks until the
// context is canceled or the server fails.
func (m *Manager) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	m.mu.Lock()
	m.startedAt = time.Now().UTC()
	m.mu.Unlock()

	m.StartAll()
	defer m.StopAll()

	serverErrors := make(chan error, 1)
	go m.runStatusServer(ctx, serverErrors)

	select {
	case <-ctx.Done():
		return nil
	case err := <-serverErrors:
		return err
	}
}

// Statistics returns the snapshot of every bridge.
func (m *Manager) Statistics() []Snapshot {
	snapshots := make([]Snapshot, 0, len(m.sessions))
	for _, session := range m.sessions {
		snapshots = append(snapshots, session.Statistics())
	}
	return snapshots
}

type bridgeStatus struct {
	Snapshot
	State  State `json:"state"`
	Active bool  `json:"active"`
}

type statusResponse struct {
	Status        string         `json:"status"`
	UptimeSeconds int64          `json:"uptime_seconds"`
	Bridges       []bridgeStatus `json:"bridges"`
}

func (m *Manager) runStatusServer(ctx context.Context, serverErrors chan<- error) {
	host := m.cfg.Status.Host
	port := m.cfg.Status.Port

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", m.handleHealthz)
	mux.HandleFunc("GET /status", m.handleStatus)

	server := &http.Server{
		Addr:              net.JoinHostPort(host, strconv.Itoa(port)),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	m.log.Info("Status server listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		serverErrors <- fmt.Errorf("status server: %w", err)
	}
}

func (m *Manager) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}` + "\n"))
}

func (m *Manager) handleStatus(w http.ResponseWriter, _ *http.Request) {
	m.mu.RLock()
	startedAt := m.startedAt
	m.mu.RUnlock()

	response := statusResponse{
		Status:  "ok",
		Bridges: make([]bridgeStatus, 0, len(m.sessions)),
	}
	if !startedAt.IsZero() {
		response.UptimeSeconds = int64(time.Since(startedAt).Seconds())
	}

	for _, session := range m.sessions {
		response.Bridges = append(response.Bridges, bridgeStatus{
			Snapshot: session.Statistics(),
			State:    session.State(),
			Active:   session.IsActive(activeTimeout),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		m.log.Warn("Failed to write status response", "error", err)
	}
}
