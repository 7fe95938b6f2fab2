package scraper

import (
	"fmt"
	"sync"

	"github.com/emimontesdeoca/poc-dgt-cameras-scraper/internal/downloader"
	"github.com/emimontesdeoca/poc-dgt-cameras-scraper/pkg/cameras"
	"github.com/emimontesdeoca/poc-dgt-cameras-scraper/pkg/config"
	"github.com/emimontesdeoca/poc-dgt-cameras-scraper/pkg/errors"
	"github.com/emimontesdeoca/poc-dgt-cameras-scraper/pkg/logger"
	"github.com/emimontesdeoca/poc-dgt-cameras-scraper/pkg/markup"
	"github.com/emimontesdeoca/poc-dgt-cameras-scraper/pkg/ratelimit"
	"github.com/emimontesdeoca/poc-dgt-cameras-scraper/pkg/storage"
	"github.com/emimontesdeoca/poc-dgt-cameras-scraper/pkg/ui"
)

// Summary reports what one pipeline run did
type Summary struct {
	// Sources is the number of iframe sources found on the mosaic page
	Sources int
	// Downloaded is the number of snapshots written to disk
	Downloaded int
	// Skipped counts frames whose page carries no image URL
	Skipped int
	// Failed counts frames that errored anywhere in their processing
	Failed int
}

// Scraper orchestrates the camera snapshot download process
type Scraper struct {
	client CameraClient
	store  *storage.Manager
	config *config.Config
	logger logger.Logger
}

// New creates a new Scraper instance
func New(cfg *config.Config) (*Scraper, error) {
	log := logger.GetLogger()

	client := cameras.NewClient(cfg.Download.Timeout, log)
	if cfg.Scraper.UserAgent != "" {
		client.SetHeader("User-Agent", cfg.Scraper.UserAgent)
	}

	store, err := storage.NewManager(cfg.Output.Directory)
	if err != nil {
		log.WithError(err).Error("failed to create storage manager")
		return nil, fmt.Errorf("failed to create storage manager: %w", err)
	}

	return &Scraper{
		client: client,
		store:  store,
		config: cfg,
		logger: log,
	}, nil
}

// Run fetches the mosaic page and processes every camera frame on it. A
// mosaic fetch failure is fatal and surfaces here; per-frame failures are
// absorbed by ProcessCameras.
func (s *Scraper) Run() (*Summary, error) {
	rootURL := s.config.Scraper.RootURL

	s.logger.InfoWithFields("fetching camera mosaic", map[string]interface{}{
		"url": rootURL,
	})

	html, err := s.client.FetchPage(rootURL)
	if err != nil {
		s.logger.WithError(err).WithField("url", rootURL).Error("failed to fetch camera mosaic")
		return nil, fmt.Errorf("failed to fetch camera mosaic: %w", err)
	}

	return s.ProcessCameras(html)
}

// ProcessCameras extracts the iframe sources from the mosaic HTML and
// processes each one independently: resolve the URL, fetch the frame page,
// extract the snapshot URL, download and store the image. A failure in one
// frame is logged against its source and never aborts the others.
func (s *Scraper) ProcessCameras(html string) (*Summary, error) {
	if html == "" {
		return nil, errors.NewInvalidArgument("html must not be empty")
	}

	sources, err := markup.IframeSources(html)
	if err != nil {
		return nil, err
	}

	summary := &Summary{Sources: len(sources)}

	s.logger.InfoWithFields("found camera frames", map[string]interface{}{
		"count": len(sources),
	})

	limiter := ratelimit.ForRequestsPerMinute(s.config.RateLimit.RequestsPerMinute)
	pool := downloader.NewWorkerPool(
		s.config.Download.ConcurrentDownloads,
		s.client,
		s.store,
		limiter,
		s.logger,
	)
	pool.Start()

	// Download results arrive while the frame loop is still queueing, so
	// they get counted on the side and folded in after the pool drains.
	var downloaded, failedDownloads int
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for result := range pool.Results() {
			if result.Success {
				downloaded++
				s.logger.InfoWithFields("snapshot saved", map[string]interface{}{
					"file":   result.Job.FileName,
					"source": result.Job.Source,
					"size":   result.Size,
				})
				continue
			}
			failedDownloads++
			s.reportFrameFailure(result.Job.Source, result.Error)
		}
	}()

	for _, source := range sources {
		queued, err := s.processSource(source, pool)
		switch {
		case err != nil:
			summary.Failed++
			s.reportFrameFailure(source, err)
		case !queued:
			// No imgsrc variable on the frame page: a valid outcome,
			// skipped without a diagnostic.
			summary.Skipped++
			s.logger.DebugWithFields("frame has no snapshot", map[string]interface{}{
				"source": source,
			})
		}
	}

	pool.Stop()
	wg.Wait()

	summary.Downloaded = downloaded
	summary.Failed += failedDownloads

	s.logger.InfoWithFields("camera processing finished", map[string]interface{}{
		"sources":    summary.Sources,
		"downloaded": summary.Downloaded,
		"skipped":    summary.Skipped,
		"failed":     summary.Failed,
	})

	return summary, nil
}

// processSource handles one iframe source up to the point of queueing its
// download. It reports whether a download job was queued; false with a nil
// error means the frame had no snapshot URL.
func (s *Scraper) processSource(source string, pool *downloader.WorkerPool) (bool, error) {
	frameURL := cameras.ResolveSource(source, s.config.Scraper.BaseURL)

	s.logger.DebugWithFields("fetching camera frame", map[string]interface{}{
		"source": source,
		"url":    frameURL,
	})

	body, err := s.client.FetchPage(frameURL)
	if err != nil {
		return false, fmt.Errorf("fetching frame page: %w", err)
	}

	imageURL, err := markup.ImageSource(body)
	if err != nil {
		return false, err
	}
	if imageURL == "" {
		return false, nil
	}

	job := downloader.DownloadJob{
		ImageURL: imageURL,
		FileName: cameras.FileNameFromURL(imageURL),
		Source:   source,
	}
	if err := pool.Submit(job); err != nil {
		return false, err
	}

	return true, nil
}

// reportFrameFailure emits the per-frame diagnostic on the console and the
// structured log.
func (s *Scraper) reportFrameFailure(source string, err error) {
	ui.PrintError(fmt.Sprintf("Error processing iframe source %s", source), err)
	s.logger.ErrorWithFields("failed to process camera frame", map[string]interface{}{
		"source": source,
		"error":  err.Error(),
	})
}

// Store exposes the storage manager, mainly for the CLI's final report
func (s *Scraper) Store() *storage.Manager {
	return s.store
}
