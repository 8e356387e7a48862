package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gofrs/flock"

	"fetchd/internal/api"
	"fetchd/internal/config"
	"fetchd/internal/delivery"
	"fetchd/internal/logging"
	"fetchd/internal/media"
	"fetchd/internal/preflight"
	"fetchd/internal/processor"
	"fetchd/internal/queue"
)

// Daemon coordinates the processing pipeline and the HTTP surface, and
// enforces single-instance execution.
type Daemon struct {
	cfg       *config.Config
	logger    *slog.Logger
	store     *queue.Store
	processor *processor.Processor
	deliverer delivery.Client

	lockPath string
	lock     *flock.Flock

	api *apiServer

	// processMu serializes pipeline runs; the downloads dir and the
	// external tools are not safe for concurrent use per source.
	processMu sync.Mutex

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	PID          int
	HistoryDB    string
	LockFilePath string
	Queue        queue.Summary
	Dependencies []preflight.Result
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, store *queue.Store, proc *processor.Processor, deliverer delivery.Client, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || store == nil || proc == nil {
		return nil, errors.New("daemon requires config, store, and processor")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	lockPath := filepath.Join(cfg.Paths.LogDir, "fetchd.lock")
	d := &Daemon{
		cfg:       cfg,
		logger:    logging.NewComponentLogger(logger, "daemon"),
		store:     store,
		processor: proc,
		deliverer: deliverer,
		lockPath:  lockPath,
		lock:      flock.New(lockPath),
	}
	server, err := newAPIServer(cfg, d, logger)
	if err != nil {
		return nil, err
	}
	d.api = server
	return d, nil
}

// Start acquires the daemon lock and brings up the HTTP listener.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another fetchd instance is already running")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)
	if d.api != nil {
		if err := d.api.start(d.ctx); err != nil {
			_ = d.lock.Unlock()
			d.cancel()
			d.ctx = nil
			d.cancel = nil
			return err
		}
	}

	d.running.Store(true)
	d.logger.Info("fetchd daemon started", logging.String("lock", d.lockPath))
	return nil
}

// Stop shuts the HTTP surface down and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	if d.api != nil {
		d.api.stop()
	}
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.ctx = nil
	d.running.Store(false)
	d.logger.Info("fetchd daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Addr reports the bound HTTP address, empty until Start succeeds.
func (d *Daemon) Addr() string {
	if d.api == nil {
		return ""
	}
	return d.api.addr()
}

// Process runs one request through the pipeline. Runs are serialized.
func (d *Daemon) Process(ctx context.Context, url, kind string) (*media.Result, error) {
	d.processMu.Lock()
	defer d.processMu.Unlock()
	return d.processor.Process(ctx, url, kind)
}

// Status reports runtime information including history counts.
func (d *Daemon) Status(ctx context.Context) Status {
	status := Status{
		Running:      d.running.Load(),
		PID:          os.Getpid(),
		HistoryDB:    d.store.Path(),
		LockFilePath: d.lockPath,
		Dependencies: preflight.Run(d.cfg),
	}
	summary, err := d.store.Summarize(ctx)
	if err != nil {
		d.logger.Warn("failed to summarize history", logging.Error(err))
	} else {
		status.Queue = summary
	}
	return status
}

// History returns recent requests in transport form.
func (d *Daemon) History(ctx context.Context, limit int) ([]api.RequestItem, error) {
	return api.NewHistoryService(d.store).List(ctx, limit)
}

// Redeliver pushes an existing artifact to the configured webhook. The
// path must resolve inside the downloads directory.
func (d *Daemon) Redeliver(ctx context.Context, filePath string, meta delivery.Metadata) error {
	if d.deliverer == nil || !d.deliverer.Configured() {
		return errors.New("webhook delivery not configured")
	}
	resolved, err := d.resolveArtifact(filePath)
	if err != nil {
		return err
	}
	return d.deliverer.Deliver(ctx, resolved, meta)
}

var errArtifactOutsideDownloads = errors.New("artifact path outside downloads directory")

func (d *Daemon) resolveArtifact(filePath string) (string, error) {
	base := d.cfg.Paths.DownloadDir
	candidate := filePath
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(base, candidate)
	}
	candidate = filepath.Clean(candidate)
	rel, err := filepath.Rel(base, candidate)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errArtifactOutsideDownloads
	}
	return candidate, nil
}
