package processor

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"

	"fetchd/internal/config"
	"fetchd/internal/delivery"
	"fetchd/internal/logging"
	"fetchd/internal/media"
	"fetchd/internal/queue"
	"fetchd/internal/services"
	"fetchd/internal/services/ytdlp"
	"fetchd/internal/textextract"
)

// Success messages surfaced to callers, matched per artifact kind.
const (
	messageVideo = "Video downloaded successfully. Click to download."
	messageAudio = "Audio extracted successfully. Click to download."
	messageText  = "Audio transcribed successfully. Click to download the document."
)

// Processor runs media requests sequentially against one downloads dir.
type Processor struct {
	cfg        *config.Config
	downloader ytdlp.Client
	extractor  *textextract.Pipeline
	deliverer  delivery.Client
	store      *queue.Store
	logger     *slog.Logger
}

// New assembles a Processor from its collaborators.
func New(
	cfg *config.Config,
	downloader ytdlp.Client,
	extractor *textextract.Pipeline,
	deliverer delivery.Client,
	store *queue.Store,
	logger *slog.Logger,
) *Processor {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Processor{
		cfg:        cfg,
		downloader: downloader,
		extractor:  extractor,
		deliverer:  deliverer,
		store:      store,
		logger:     logging.NewComponentLogger(logger, "processor"),
	}
}

// Process handles one request and returns the produced artifact. The
// request type is validated before anything touches the filesystem or
// the history store.
func (p *Processor) Process(ctx context.Context, url, kindValue string) (*media.Result, error) {
	kind, err := media.ParseKind(kindValue)
	if err != nil {
		return nil, err
	}
	if _, ok := services.RequestIDFromContext(ctx); !ok {
		ctx = services.WithRequestID(ctx, uuid.NewString())
	}
	ctx = services.WithSourceURL(ctx, url)
	log := logging.WithContext(ctx, p.logger)

	log.Info("processing request", logging.String("kind", string(kind)))

	info, err := p.downloader.Probe(ctx, url)
	if err != nil {
		return nil, err
	}
	if err := checkFormats(info, kind); err != nil {
		return nil, err
	}
	stem := media.Stem(info.Title, url)

	request, err := p.store.NewRequest(ctx, url, string(kind))
	if err != nil {
		return nil, fmt.Errorf("record request: %w", err)
	}
	request.Status = queue.StatusProcessing
	request.Title = info.Title
	request.Duration = info.Duration
	if err := p.store.Update(ctx, request); err != nil {
		return nil, fmt.Errorf("record request: %w", err)
	}

	artifactPath, message, err := p.produce(ctx, url, kind, stem, info)
	if err != nil {
		request.SetFailed(services.Message(err))
		if updateErr := p.store.Update(ctx, request); updateErr != nil {
			log.Error("failed to record request failure", logging.Error(updateErr))
		}
		return nil, err
	}

	request.SetCompleted(artifactPath)
	if err := p.store.Update(ctx, request); err != nil {
		log.Error("failed to record request completion", logging.Error(err))
	}

	log.Info("request completed",
		logging.String("artifact", artifactPath),
		logging.String("kind", string(kind.Artifact())))

	return &media.Result{
		ArtifactPath: artifactPath,
		Kind:         kind.Artifact(),
		Message:      message,
		Info:         *info,
	}, nil
}

func (p *Processor) produce(ctx context.Context, url string, kind media.Kind, stem string, info *media.Info) (string, string, error) {
	switch kind {
	case media.KindVideo:
		path := filepath.Join(p.cfg.Paths.DownloadDir, stem+kind.Extension())
		if err := p.downloader.DownloadVideo(ctx, url, path); err != nil {
			return "", "", err
		}
		return path, messageVideo, nil

	case media.KindAudio:
		path := filepath.Join(p.cfg.Paths.DownloadDir, stem+kind.Extension())
		if err := p.downloader.DownloadAudio(ctx, url, path); err != nil {
			return "", "", err
		}
		return path, messageAudio, nil

	case media.KindText:
		outcome, err := p.extractor.Run(ctx, textextract.Request{
			URL:      url,
			Stem:     stem,
			Title:    info.Title,
			Duration: info.Duration,
		})
		if err != nil {
			return "", "", err
		}
		p.deliver(ctx, outcome.DocumentPath, info, url)
		return outcome.DocumentPath, messageText, nil
	}

	return "", "", services.Wrap(services.ErrInvalidMediaType, "process", "select_branch", fmt.Sprintf("unsupported media type %q", kind), nil)
}

// checkFormats verifies the probed format list can satisfy the requested
// kind before any download starts. Text extraction can succeed from
// captions alone, and sources reporting no formats are left to the
// downloader's own selection expressions.
func checkFormats(info *media.Info, kind media.Kind) error {
	if kind == media.KindText || len(info.Formats) == 0 {
		return nil
	}
	_, err := media.SelectFormat(info.Formats, kind == media.KindVideo)
	return err
}

// deliver pushes the document to the configured webhook. Delivery is
// best effort and never fails the request.
func (p *Processor) deliver(ctx context.Context, documentPath string, info *media.Info, url string) {
	if p.deliverer == nil || !p.deliverer.Configured() {
		return
	}
	log := logging.WithContext(ctx, p.logger)
	meta := delivery.Metadata{Title: info.Title, Duration: info.Duration, Source: url}
	if err := p.deliverer.Deliver(ctx, documentPath, meta); err != nil {
		log.Warn("webhook delivery failed", logging.Error(err))
		return
	}
	log.Info("artifact delivered", logging.String("artifact", filepath.Base(documentPath)))
}
