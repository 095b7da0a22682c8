package ytexport

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ytexport/config"
	ythttp "ytexport/http"
	"ytexport/internal/retry"
	"ytexport/storage"
	"ytexport/youtube"
)

// Result describes a completed export.
type Result struct {
	// RunID identifies the run in log output.
	RunID string
	// Path is the written JSON file.
	Path string
	// Document is what was written to Path.
	Document *storage.Document
}

// Exporter resolves a channel or playlist, collects its metadata and videos
// and writes them to a JSON file. Steps run strictly in order and nothing is
// written unless every fetch succeeded.
type Exporter struct {
	client *youtube.Client
	writer *storage.Writer
	log    *zap.SugaredLogger

	// Progress, when set, is called after every fetched page of videos.
	Progress youtube.ProgressFunc
}

// New builds an Exporter talking to the YouTube Data API with the key and
// settings in cfg.
func New(ctx context.Context, cfg *config.Config) (*Exporter, error) {
	httpCfg := ythttp.DefaultConfig()
	httpCfg.APIKey = cfg.APIKey
	httpCfg.RequestsPerSecond = cfg.RequestsPerSecond
	if cfg.UserAgent != "" {
		httpCfg.UserAgent = cfg.UserAgent
	}
	httpClient, err := ythttp.New(httpCfg)
	if err != nil {
		return nil, err
	}

	service, err := youtube.NewService(ctx, httpClient)
	if err != nil {
		return nil, err
	}
	api := youtube.NewServiceAPI(service)
	api.RetryConfig = RetryConfig(cfg)

	outDir, err := cfg.ResolveOutputDir()
	if err != nil {
		return nil, err
	}
	return NewWithAPI(api, outDir), nil
}

// NewWithAPI builds an Exporter on top of an existing DataAPI, writing into
// outDir.
func NewWithAPI(api youtube.DataAPI, outDir string) *Exporter {
	return &Exporter{
		client: youtube.NewClient(api),
		writer: storage.NewWriter(outDir),
		log:    zap.S().Named("export"),
	}
}

// RetryConfig derives the per-call retry policy from cfg.
func RetryConfig(cfg *config.Config) retry.Config {
	rc := retry.DefaultConfig()
	rc.MaxRetries = cfg.MaxRetries
	rc.InitialBackoff = cfg.InitialBackoff.Duration()
	rc.MaxBackoff = cfg.MaxBackoff.Duration()
	if cfg.BackoffMultiplier > 0 {
		rc.Multiplier = cfg.BackoffMultiplier
	}
	return rc
}

// Export runs one export for input, which may be a channel ID, playlist ID,
// handle or YouTube URL.
func (e *Exporter) Export(ctx context.Context, input string) (*Result, error) {
	runID := uuid.NewString()
	log := e.log.With("run_id", runID)
	client := e.client.WithLogger(log)

	log.Infow("starting export", "input", input)

	res, err := client.Resolve(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", input, err)
	}

	branding, err := client.FetchBranding(ctx, res.Channel.ID)
	if err != nil {
		return nil, fmt.Errorf("fetch branding for %s: %w", res.Channel.ID, err)
	}

	var videos []youtube.VideoRecord
	if res.IsPlaylist() {
		videos, err = client.ListPlaylist(ctx, res.Playlist.ID, e.Progress)
		if err != nil {
			return nil, fmt.Errorf("list playlist %s: %w", res.Playlist.ID, err)
		}
	} else {
		videos, err = client.ListUploads(ctx, res.Channel.ID, e.Progress)
		if err != nil {
			return nil, fmt.Errorf("list uploads of %s: %w", res.Channel.ID, err)
		}
	}

	doc := storage.NewDocument(res, branding, videos)
	path, err := e.writer.WithLogger(log).Write(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("write export: %w", err)
	}

	log.Infow("export complete", "path", path, "videos", len(videos), "playlist", res.IsPlaylist())
	return &Result{RunID: runID, Path: path, Document: doc}, nil
}

// Export is a convenience wrapper that exports input with the default
// configuration, apiKey and outDir, returning the written path.
func Export(ctx context.Context, apiKey, input, outDir string) (string, error) {
	cfg := config.DefaultConfig()
	cfg.APIKey = apiKey
	cfg.OutputDir = outDir

	exporter, err := New(ctx, cfg)
	if err != nil {
		return "", err
	}
	result, err := exporter.Export(ctx, input)
	if err != nil {
		return "", err
	}
	return result.Path, nil
}
