package automation

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/yanqian/prayer-api/internal/domain/prayer"
	"github.com/yanqian/prayer-api/pkg/util"
)

// Publisher delivers a payload on a topic.
type Publisher interface {
	Publish(ctx context.Context, topic, payload string) error
}

// TimesProvider supplies today's prayer times for the default location.
type TimesProvider interface {
	PrayerTimes(ctx context.Context, req prayer.LocationRequest) (prayer.FullResponse, error)
}

// Config tunes the scheduler.
type Config struct {
	CheckInterval  time.Duration
	Window         time.Duration
	TimezoneOffset int
	Rules          []Rule
}

// Scheduler runs the day's plan, regenerating it when the date changes.
type Scheduler struct {
	cfg       Config
	times     TimesProvider
	publisher Publisher
	logger    *slog.Logger
	now       func() time.Time

	mu       sync.Mutex
	planDate string
	tasks    []Task
}

// NewScheduler wires the scheduler.
func NewScheduler(cfg Config, times TimesProvider, publisher Publisher, logger *slog.Logger) *Scheduler {
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = 30 * time.Second
	}
	if cfg.Window <= 0 {
		cfg.Window = 30 * time.Second
	}
	return &Scheduler{
		cfg:       cfg,
		times:     times,
		publisher: publisher,
		logger:    logger.With("component", "automation.scheduler"),
		now:       util.NowUTC,
	}
}

// Run checks once immediately and then every CheckInterval until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("automation scheduler started", "rules", len(s.cfg.Rules), "interval", s.cfg.CheckInterval)
	ticker := time.NewTicker(s.cfg.CheckInterval)
	defer ticker.Stop()

	s.Check(ctx)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("automation scheduler stopped")
			return nil
		case <-ticker.C:
			s.Check(ctx)
		}
	}
}

// Check regenerates the plan on a new day and executes due tasks.
func (s *Scheduler) Check(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().In(util.FixedZone(s.cfg.TimezoneOffset))
	today := now.Format("2006-01-02")
	if today != s.planDate {
		if err := s.regenerate(ctx, now); err != nil {
			s.logger.Error("automation plan generation failed", "date", today, "error", err)
			return
		}
	}

	for i := range s.tasks {
		task := &s.tasks[i]
		if task.Executed || !withinWindow(now, task.At, s.cfg.Window) {
			continue
		}
		if s.execute(ctx, *task) {
			task.Executed = true
		}
	}
}

// Tasks returns a snapshot of the current plan.
func (s *Scheduler) Tasks() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

func (s *Scheduler) regenerate(ctx context.Context, now time.Time) error {
	resp, err := s.times.PrayerTimes(ctx, prayer.LocationRequest{})
	if err != nil {
		return err
	}
	day := util.CivilDate(now, now.Location())
	s.tasks = Plan(day, s.cfg.Rules, timesByName(resp), s.logger)
	s.planDate = day.Format("2006-01-02")
	for _, task := range s.tasks {
		s.logger.Info("automation task planned", "id", task.ID, "at", task.At.Format("15:04"), "actions", len(task.Actions))
	}
	return nil
}

// execute publishes every action and reports whether all succeeded. Failed
// tasks are retried on the next check while still inside the window.
func (s *Scheduler) execute(ctx context.Context, task Task) bool {
	ok := true
	for _, action := range task.Actions {
		if err := s.publisher.Publish(ctx, action.Topic(), string(action.State)); err != nil {
			s.logger.Error("relay command failed", "task", task.ID, "relay", action.Relay, "state", action.State, "error", err)
			ok = false
			continue
		}
		s.logger.Info("relay command sent", "task", task.ID, "relay", action.Relay, "state", action.State)
	}
	return ok
}

func withinWindow(now, at time.Time, window time.Duration) bool {
	diff := now.Sub(at)
	if diff < 0 {
		diff = -diff
	}
	return diff <= window
}

func timesByName(resp prayer.FullResponse) map[prayer.Name]string {
	out := make(map[prayer.Name]string, len(prayer.Labels))
	for _, entry := range resp.PrayerTimes {
		if name, ok := prayer.Canonicalize(entry.Name); ok {
			out[name] = entry.Time
		}
	}
	return out
}
