package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"fetchd/internal/api"
	"fetchd/internal/config"
	"fetchd/internal/delivery"
	"fetchd/internal/logging"
	"fetchd/internal/preflight"
	"fetchd/internal/services"
)

type apiServer struct {
	bind       string
	publicBase string
	logger     *slog.Logger
	daemon     *Daemon
	historySvc *api.HistoryService

	listener net.Listener
	server   *http.Server
}

func newAPIServer(cfg *config.Config, d *Daemon, logger *slog.Logger) (*apiServer, error) {
	bind := strings.TrimSpace(cfg.Paths.APIBind)
	if bind == "" {
		return nil, errors.New("api bind address required")
	}

	srv := &apiServer{
		bind:       bind,
		publicBase: strings.TrimRight(strings.TrimSpace(cfg.Paths.PublicBaseURL), "/"),
		logger:     logger,
		daemon:     d,
		historySvc: api.NewHistoryService(d.store),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/process-media", srv.handleProcessMedia)
	mux.HandleFunc("/api/webhook/deliver", srv.handleDeliver)
	mux.HandleFunc("/api/status", srv.handleStatus)
	mux.HandleFunc("/api/requests", srv.handleRequests)
	mux.Handle("/downloads/", http.StripPrefix("/downloads/", http.FileServer(http.Dir(cfg.Paths.DownloadDir))))

	srv.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv, nil
}

func (s *apiServer) start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log().Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.log().Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

func (s *apiServer) stop() {
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

func (s *apiServer) addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *apiServer) handleProcessMedia(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req api.ProcessMediaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeFailure(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	if strings.TrimSpace(req.URL) == "" || strings.TrimSpace(req.Type) == "" {
		s.writeFailure(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	result, err := s.daemon.Process(r.Context(), req.URL, req.Type)
	if err != nil {
		s.log().Error("processing request failed",
			logging.String("url", req.URL),
			logging.Error(err))
		s.writeFailure(w, http.StatusBadRequest, services.Message(err))
		return
	}

	s.writeJSON(w, http.StatusOK, api.FromResult(result, s.fileURL(r, result.ArtifactPath)))
}

// fileURL builds the public link for a produced artifact, preferring the
// configured base URL over the request host.
func (s *apiServer) fileURL(r *http.Request, artifactPath string) string {
	name := artifactPath
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	if s.publicBase != "" {
		return s.publicBase + "/downloads/" + name
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + "/downloads/" + name
}

func (s *apiServer) handleDeliver(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req api.DeliverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.FilePath) == "" {
		s.writeFailure(w, http.StatusBadRequest, "Missing file path")
		return
	}
	if s.daemon.deliverer == nil || !s.daemon.deliverer.Configured() {
		s.writeFailure(w, http.StatusBadRequest, "Webhook URL not configured")
		return
	}

	resolved, err := s.daemon.resolveArtifact(req.FilePath)
	if err != nil {
		s.writeFailure(w, http.StatusNotFound, "File not found")
		return
	}
	if _, err := os.Stat(resolved); err != nil {
		s.writeFailure(w, http.StatusNotFound, "File not found")
		return
	}

	meta := delivery.Metadata{
		Title:    req.Metadata.Title,
		Duration: req.Metadata.Duration,
		Source:   req.Metadata.Source,
	}
	if err := s.daemon.deliverer.Deliver(r.Context(), resolved, meta); err != nil {
		s.log().Error("re-delivery failed", logging.Error(err))
		s.writeFailure(w, http.StatusBadGateway, services.Message(err))
		return
	}

	s.writeJSON(w, http.StatusOK, api.DeliverResponse{Success: true, Message: "File sent to the webhook successfully"})
}

func (s *apiServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	status := s.daemon.Status(r.Context())
	deps := make([]api.DependencyStatus, len(status.Dependencies))
	for i, dep := range status.Dependencies {
		deps[i] = dependencyStatus(dep)
	}
	payload := api.DaemonStatus{
		Running:      status.Running,
		PID:          status.PID,
		HistoryDB:    status.HistoryDB,
		LockFilePath: status.LockFilePath,
		Queue:        api.FromSummary(status.Queue),
		Dependencies: deps,
	}
	s.writeJSON(w, http.StatusOK, payload)
}

func dependencyStatus(result preflight.Result) api.DependencyStatus {
	return api.DependencyStatus{
		Name:      result.Name,
		Available: result.Passed,
		Detail:    result.Detail,
	}
}

func (s *apiServer) handleRequests(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	items, err := s.historySvc.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, api.RequestListResponse{Requests: items})
}

func (s *apiServer) writeFailure(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, api.ProcessMediaResponse{Success: false, Message: message})
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log().Error("failed to encode response", logging.Error(err))
	}
}

func (s *apiServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

func (s *apiServer) log() *slog.Logger {
	if s.logger != nil {
		return s.logger.With(logging.String(logging.FieldComponent, "api-server"))
	}
	return logging.NewNop()
}
