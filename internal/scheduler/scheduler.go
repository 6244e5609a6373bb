package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"PortfolioSentinel/internal/capture"
	"PortfolioSentinel/internal/metrics"
	"PortfolioSentinel/internal/model"
	"PortfolioSentinel/internal/notifier"
	"PortfolioSentinel/internal/portfolio"
	"PortfolioSentinel/internal/recorder"
	"PortfolioSentinel/internal/report"
	"PortfolioSentinel/internal/runner"
)

// ErrRunInProgress is returned when a run is requested while another is active.
var ErrRunInProgress = errors.New("a run is already in progress")

// Sender delivers chat messages. *notifier.TelegramNotifier implements it.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler runs the portfolio pipeline on a cron schedule and on demand.
// Optional collaborators (Capturer, Notifier, Metrics) may be nil.
type Scheduler struct {
	Cron          *cron.Cron
	Runner        *runner.Runner
	PortfolioFile string
	Reports       *report.Writer
	Recorder      recorder.Recorder
	Notifier      Sender
	Capturer      *capture.Capturer
	Metrics       *metrics.Registry
	Ctx           context.Context

	running sync.Mutex
	mu      sync.RWMutex
	last    *model.RunReport
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, r *runner.Runner, portfolioFile string, reports *report.Writer, rec recorder.Recorder) *Scheduler {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Scheduler{
		Cron:          cron.New(cron.WithSeconds()),
		Runner:        r,
		PortfolioFile: portfolioFile,
		Reports:       reports,
		Recorder:      rec,
		Ctx:           ctx,
	}
}

// Register adds the daily analysis job.
func (s *Scheduler) Register(dailyCron string) error {
	if _, err := s.Cron.AddFunc(dailyCron, s.dailyTask); err != nil {
		return fmt.Errorf("register daily task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running job.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Info().Msg("scheduler stopped")
}

func (s *Scheduler) dailyTask() {
	if _, err := s.RunNow(s.Ctx, model.TriggerScheduled); err != nil {
		log.Error().Err(err).Msg("scheduled run failed")
		s.trySend(fmt.Sprintf("❌ Scheduled portfolio run failed: %v", err))
	}
}

// RunNow executes one full pipeline: capture, load holdings, analyze, write
// the report, record history, notify and update metrics. Only loading and
// analysis errors fail the run; the later steps log and continue.
func (s *Scheduler) RunNow(ctx context.Context, trigger model.RunTrigger) (*model.RunReport, error) {
	if !s.running.TryLock() {
		return nil, ErrRunInProgress
	}
	defer s.running.Unlock()

	if s.Capturer != nil {
		if _, err := s.Capturer.Capture(ctx); err != nil {
			log.Warn().Err(err).Msg("brokerage capture failed")
		}
	}

	holdings, err := portfolio.Load(s.PortfolioFile)
	if err != nil {
		s.observe(trigger, nil, err)
		return nil, fmt.Errorf("load holdings: %w", err)
	}

	rep, err := s.Runner.Run(ctx, holdings, trigger)
	if err != nil {
		s.observe(trigger, nil, err)
		return nil, fmt.Errorf("run: %w", err)
	}

	if s.Reports != nil {
		if _, err := s.Reports.Write(rep); err != nil {
			log.Error().Err(err).Str("run_id", rep.ID).Msg("write report")
		}
	}
	if err := s.Recorder.RecordRun(ctx, rep); err != nil {
		log.Error().Err(err).Str("run_id", rep.ID).Msg("record run")
	}

	s.mu.Lock()
	s.last = rep
	s.mu.Unlock()

	if trigger == model.TriggerScheduled {
		s.trySend(notifier.FormatRunSummary(rep))
	}
	s.observe(trigger, rep, nil)
	return rep, nil
}

// Latest returns the most recent report, from memory or the recorder.
// It returns nil without error when no run exists yet.
func (s *Scheduler) Latest(ctx context.Context) (*model.RunReport, error) {
	s.mu.RLock()
	last := s.last
	s.mu.RUnlock()
	if last != nil {
		return last, nil
	}
	return s.Recorder.LatestRun(ctx)
}

// HandleCommand processes a chat command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	cmd, _, _ := strings.Cut(strings.ToLower(command), "@") // "/run@MyBot"
	switch cmd {
	case "/latest":
		rep, err := s.Latest(ctx)
		if err != nil {
			return fmt.Sprintf("❌ %v", err)
		}
		if rep == nil {
			return "No report yet. Send /run to analyze now."
		}
		return notifier.FormatRunSummary(rep)
	case "/run":
		rep, err := s.RunNow(ctx, model.TriggerTelegram)
		if errors.Is(err, ErrRunInProgress) {
			return "⏳ A run is already in progress."
		}
		if err != nil {
			return fmt.Sprintf("❌ Run failed: %v", err)
		}
		return notifier.FormatRunSummary(rep)
	default:
		return notifier.FormatHelp()
	}
}

func (s *Scheduler) observe(trigger model.RunTrigger, rep *model.RunReport, err error) {
	if s.Metrics != nil {
		s.Metrics.ObserveRun(trigger, rep, err)
	}
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Error().Err(err).Msg("send notification")
	}
}
