package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/vocdoni/zk-governance/api"
	"github.com/vocdoni/zk-governance/log"
)

// APIService represents a service that manages the HTTP API server.
type APIService struct {
	conf   *api.APIConfig
	mu     sync.Mutex
	server *http.Server
	addr   net.Addr
	host   string
	port   int
}

// NewAPI creates a new APIService instance. Port 0 lets the OS choose a
// free port, see HostPort.
func NewAPI(conf *api.APIConfig, host string, port int) *APIService {
	return &APIService{
		conf: conf,
		host: host,
		port: port,
	}
}

// Start begins the API server. It returns an error if the service
// is already running or if it fails to start.
func (as *APIService) Start(ctx context.Context) error {
	as.mu.Lock()
	defer as.mu.Unlock()

	if as.server != nil {
		return fmt.Errorf("service already running")
	}
	a, err := api.New(as.conf)
	if err != nil {
		return fmt.Errorf("failed to create API: %w", err)
	}
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", net.JoinHostPort(as.host, strconv.Itoa(as.port)))
	if err != nil {
		return fmt.Errorf("failed to start API server: %w", err)
	}
	as.addr = ln.Addr()
	as.server = &http.Server{
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	go func(srv *http.Server) {
		log.Infow("starting API server", "address", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorw(err, "API server stopped")
		}
	}(as.server)
	return nil
}

// Stop halts the API server, waiting up to five seconds for the in flight
// requests.
func (as *APIService) Stop() {
	as.mu.Lock()
	defer as.mu.Unlock()

	if as.server == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := as.server.Shutdown(ctx); err != nil {
		log.Warnw("API server shutdown", "error", err.Error())
	}
	as.server = nil
}

// HostPort returns the host and port the API server listens on. Once
// started it reports the port chosen by the OS.
func (as *APIService) HostPort() (string, int) {
	as.mu.Lock()
	defer as.mu.Unlock()
	if tcp, ok := as.addr.(*net.TCPAddr); ok {
		return as.host, tcp.Port
	}
	return as.host, as.port
}
