package main

import (
	"log/slog"
	"net/http"
	"time"

	"fetchd/internal/config"
	"fetchd/internal/delivery"
	"fetchd/internal/logging"
	"fetchd/internal/processor"
	"fetchd/internal/queue"
	"fetchd/internal/services/whisper"
	"fetchd/internal/services/ytdlp"
	"fetchd/internal/textextract"
)

// runtime bundles the collaborators shared by the serve and process
// commands.
type runtime struct {
	cfg       *config.Config
	logger    *slog.Logger
	store     *queue.Store
	processor *processor.Processor
	deliverer delivery.Client
}

func buildRuntime(ctx *commandContext) (*runtime, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	store, err := queue.Open(cfg)
	if err != nil {
		return nil, err
	}

	downloader := ytdlp.NewCLI(
		ytdlp.WithBinary(cfg.ExtractorBinary()),
		ytdlp.WithTimeout(time.Duration(cfg.Extractor.TimeoutSeconds)*time.Second),
	)
	transcriber := whisper.NewClient(
		cfg.Transcriber.APIKey,
		whisper.WithBaseURL(cfg.Transcriber.BaseURL),
		whisper.WithModel(cfg.Transcriber.Model),
		whisper.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.Transcriber.TimeoutSeconds) * time.Second}),
	)
	extractor := textextract.New(downloader, transcriber, cfg.Paths.DownloadDir, logger)
	deliverer := delivery.NewClient(cfg)
	proc := processor.New(cfg, downloader, extractor, deliverer, store, logger)

	return &runtime{
		cfg:       cfg,
		logger:    logger,
		store:     store,
		processor: proc,
		deliverer: deliverer,
	}, nil
}

func (r *runtime) close() {
	if r.store != nil {
		_ = r.store.Close()
	}
}
