package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/robfig/cron/v3"

	"realtyflow/internal/config"
)

const jobTimeout = 2 * time.Minute

type BlockReleaser interface {
	ReleaseExpired(ctx context.Context) (int, error)
}

type OverdueMarker interface {
	MarkOverdue(ctx context.Context) (int64, error)
}

// Scheduler runs the periodic inventory and payment sweeps.
type Scheduler struct {
	cron     *cron.Cron
	cfg      config.SchedulerConfig
	blocks   BlockReleaser
	payments OverdueMarker
	loggerf  func(format string, args ...interface{})
	running  bool
}

type printfLogger func(format string, args ...interface{})

func (f printfLogger) Printf(format string, args ...interface{}) { f(format, args...) }

func New(cfg config.SchedulerConfig, blocks BlockReleaser, payments OverdueMarker, loggerf func(format string, args ...interface{})) *Scheduler {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	logger := cron.PrintfLogger(printfLogger(loggerf))
	return &Scheduler{
		cron:     cron.New(cron.WithLogger(logger), cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger))),
		cfg:      cfg,
		blocks:   blocks,
		payments: payments,
		loggerf:  loggerf,
	}
}

// Start registers the jobs and starts the cron loop. An empty spec leaves
// its job unscheduled.
func (s *Scheduler) Start() error {
	if !s.cfg.Enabled {
		s.loggerf("level=info msg=\"scheduler disabled\"")
		return nil
	}

	jobs := []struct {
		name string
		spec string
		run  func(context.Context) error
	}{
		{"block_sweep", s.cfg.BlockSweepSpec, s.ReleaseExpiredBlocks},
		{"overdue_sweep", s.cfg.OverdueSweepSpec, s.MarkOverduePayments},
	}
	for _, job := range jobs {
		if job.spec == "" {
			continue
		}
		run := job.run
		name := job.name
		if _, err := s.cron.AddFunc(job.spec, func() {
			ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
			defer cancel()
			if err := run(ctx); err != nil {
				s.loggerf("level=error msg=\"scheduled job failed\" job=%s err=%v", name, err)
			}
		}); err != nil {
			return errors.Join(errors.New("scheduler: invalid spec for "+name), err)
		}
		s.loggerf("level=info msg=\"job scheduled\" job=%s spec=%q", name, job.spec)
	}

	s.cron.Start()
	s.running = true
	return nil
}

// Stop halts the cron loop and waits for running jobs up to ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	if !s.running {
		return
	}
	s.running = false
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.loggerf("level=warn msg=\"scheduler stop timed out\"")
	}
}

func (s *Scheduler) ReleaseExpiredBlocks(ctx context.Context) error {
	n, err := s.blocks.ReleaseExpired(ctx)
	if n > 0 {
		s.loggerf("level=info msg=\"expired blocks released\" count=%d", n)
	}
	return err
}

func (s *Scheduler) MarkOverduePayments(ctx context.Context) error {
	_, err := s.payments.MarkOverdue(ctx)
	return err
}
