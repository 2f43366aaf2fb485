package job

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"nyaya-sahayak/logging"
)

// Prober re-checks a vector-store backend and updates its availability flag.
type Prober interface {
	Probe(ctx context.Context) error
}

type Archiver interface {
	ArchiveIdle(ctx context.Context, now time.Time) (int64, error)
}

type Config struct {
	ProbeSpec    string
	ProbeTimeout time.Duration
	ArchiveSpec  string
}

// StartCronJob schedules the health re-probe and the idle-conversation
// archive. The returned cron is already running; Stop it on shutdown.
func StartCronJob(cfg Config, prober Prober, archiver Archiver) (*cron.Cron, error) {
	c := cron.New()
	log := logging.New("cron")

	if _, err := c.AddFunc(cfg.ProbeSpec, probeJob(prober, cfg.ProbeTimeout, log)); err != nil {
		return nil, fmt.Errorf("schedule health probe %q: %w", cfg.ProbeSpec, err)
	}
	if _, err := c.AddFunc(cfg.ArchiveSpec, archiveJob(archiver, time.Now, log)); err != nil {
		return nil, fmt.Errorf("schedule archive %q: %w", cfg.ArchiveSpec, err)
	}

	c.Start()
	log.Info("cron started", "probe", cfg.ProbeSpec, "archive", cfg.ArchiveSpec)
	return c, nil
}

func probeJob(prober Prober, timeout time.Duration, log *slog.Logger) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		// Probe logs availability transitions itself
		if err := prober.Probe(ctx); err != nil {
			log.Debug("health probe failed", "error", err)
		}
	}
}

func archiveJob(archiver Archiver, now func() time.Time, log *slog.Logger) func() {
	return func() {
		rows, err := archiver.ArchiveIdle(context.Background(), now())
		if err != nil {
			log.Error("archive idle conversations failed", "error", err)
			return
		}
		log.Info("archive idle conversations done", "rows", rows)
	}
}
