package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"BoxScreener/internal/cache"
	"BoxScreener/internal/model"
	"BoxScreener/internal/notifier"
	"BoxScreener/internal/recorder"
	"BoxScreener/internal/screener"
)

// Runner produces one screening report.
type Runner interface {
	Run(ctx context.Context) (*model.Report, error)
}

// Scheduler runs screenings on a cron schedule, one at a time, and
// fans each new report out to the store, archive, chat and listeners.
type Scheduler struct {
	Cron     *cron.Cron
	Runner   Runner
	Store    cache.Store
	Recorder recorder.Recorder
	Notifier *notifier.TelegramNotifier // nil disables chat summaries
	TopN     int
	Ctx      context.Context

	analyzing atomic.Bool
	wg        sync.WaitGroup

	mu        sync.RWMutex
	listeners []func(*model.Report)
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, runner Runner, store cache.Store, rec recorder.Recorder, tn *notifier.TelegramNotifier, topN int) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Runner:   runner,
		Store:    store,
		Recorder: rec,
		Notifier: tn,
		TopN:     topN,
		Ctx:      ctx,
	}
}

// Register adds the periodic screening task.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, func() { s.RunNow() }); err != nil {
		return fmt.Errorf("register screening task %q: %w", spec, err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for a running screening.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.wg.Wait()
	log.Println("[INFO] scheduler stopped")
}

// Subscribe registers fn to receive every successful report.
func (s *Scheduler) Subscribe(fn func(*model.Report)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Analyzing reports whether a screening is in flight.
func (s *Scheduler) Analyzing() bool {
	return s.analyzing.Load()
}

// Trigger starts a screening in the background. It returns false when
// one is already running.
func (s *Scheduler) Trigger() bool {
	if !s.analyzing.CompareAndSwap(false, true) {
		return false
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.screen()
	}()
	return true
}

// RunNow runs a screening synchronously. It returns false without running
// when one is already in flight.
func (s *Scheduler) RunNow() bool {
	if !s.analyzing.CompareAndSwap(false, true) {
		log.Println("[INFO] screening already in progress, skipping")
		return false
	}
	s.wg.Add(1)
	defer s.wg.Done()
	s.screen()
	return true
}

// screen expects the analyzing flag to be held by the caller.
func (s *Scheduler) screen() {
	defer s.analyzing.Store(false)

	runID := uuid.NewString()
	log.Printf("[INFO] screening run %s started", runID)

	report, err := s.Runner.Run(s.Ctx)
	if err != nil {
		log.Printf("[ERROR] screening run %s: %v", runID, err)
		report = screener.ErrorReport(err, time.Now())
		s.record(runID, report)
		s.trySend(notifier.FormatReport(report, s.TopN))
		return
	}

	// a failed run never replaces the last good report
	if err := s.Store.Save(s.Ctx, report); err != nil {
		log.Printf("[ERROR] save report %s: %v", runID, err)
	}
	s.record(runID, report)
	s.trySend(notifier.FormatReport(report, s.TopN))

	s.mu.RLock()
	listeners := append([]func(*model.Report){}, s.listeners...)
	s.mu.RUnlock()
	for _, fn := range listeners {
		fn(report)
	}
	log.Printf("[INFO] screening run %s finished: %d found", runID, report.FoundCount)
}

// HandleCommand processes a chat command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	switch command {
	case "/top":
		latest, err := s.Store.Latest(s.Ctx)
		if err != nil {
			return fmt.Sprintf("❌ report unavailable: %v", err)
		}
		if latest == nil {
			return "No report yet. Use /scan to start one."
		}
		return notifier.FormatReport(latest, s.TopN)
	case "/scan":
		if s.Trigger() {
			return "🔍 Screening started."
		}
		return "⏳ A screening is already running."
	case "/status":
		latest, err := s.Store.Latest(s.Ctx)
		if err != nil {
			log.Printf("[WARN] status lookup: %v", err)
		}
		return notifier.FormatStatus(latest, s.Analyzing(), time.Now())
	default:
		return "Commands:\n• /top latest results\n• /scan start a screening\n• /status screener state"
	}
}

func (s *Scheduler) record(runID string, report *model.Report) {
	if err := s.Recorder.RecordReport(runID, report); err != nil {
		log.Printf("[ERROR] record report %s: %v", runID, err)
	}
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
