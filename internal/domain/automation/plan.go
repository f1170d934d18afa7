// Package automation switches relays around prayer times.
package automation

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/yanqian/prayer-api/internal/domain/prayer"
)

// State is the payload sent to a relay.
type State string

const (
	StateOn  State = "ON"
	StateOff State = "OFF"
)

// ParseState accepts ON/OFF in any case.
func ParseState(v string) (State, error) {
	switch strings.ToUpper(strings.TrimSpace(v)) {
	case string(StateOn):
		return StateOn, nil
	case string(StateOff):
		return StateOff, nil
	default:
		return "", fmt.Errorf("unknown relay state %q", v)
	}
}

// Action sets Relay, formatted "<MAC>/<relayN>", to State.
type Action struct {
	Relay string
	State State
}

// Topic is the command topic of the relay.
func (a Action) Topic() string {
	return a.Relay + "/set"
}

// Rule switches relays a number of minutes before and after a prayer.
type Rule struct {
	Prayer        string
	BeforeMinutes int
	BeforeActions []Action
	AfterMinutes  int
	AfterActions  []Action
}

// Phase tells whether a task runs before or after its prayer.
type Phase string

const (
	PhaseBefore Phase = "before"
	PhaseAfter  Phase = "after"
)

// Task is one planned batch of relay actions.
type Task struct {
	ID       string
	Prayer   prayer.Name
	Phase    Phase
	At       time.Time
	Actions  []Action
	Executed bool
}

// Plan expands rules against the day's clock times. times maps canonical
// prayers to "15:04" strings on day, in day's location. Rules naming an
// unknown or missing prayer are skipped. The result is sorted by At.
func Plan(day time.Time, rules []Rule, times map[prayer.Name]string, logger *slog.Logger) []Task {
	tasks := make([]Task, 0, len(rules)*2)
	for _, rule := range rules {
		name, ok := prayer.Canonicalize(rule.Prayer)
		if !ok {
			logger.Warn("automation rule names unknown prayer", "prayer", rule.Prayer)
			continue
		}
		at, err := clockOn(day, times[name])
		if err != nil {
			logger.Warn("prayer time unavailable for automation rule", "prayer", name, "error", err)
			continue
		}
		if len(rule.BeforeActions) > 0 {
			tasks = append(tasks, newTask(day, name, PhaseBefore, at.Add(-time.Duration(rule.BeforeMinutes)*time.Minute), rule.BeforeActions))
		}
		if len(rule.AfterActions) > 0 {
			tasks = append(tasks, newTask(day, name, PhaseAfter, at.Add(time.Duration(rule.AfterMinutes)*time.Minute), rule.AfterActions))
		}
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].At.Before(tasks[j].At)
	})
	return tasks
}

func newTask(day time.Time, name prayer.Name, phase Phase, at time.Time, actions []Action) Task {
	return Task{
		ID:      fmt.Sprintf("%s-%s-%s", day.Format("2006-01-02"), name, phase),
		Prayer:  name,
		Phase:   phase,
		At:      at,
		Actions: append([]Action(nil), actions...),
	}
}

func clockOn(day time.Time, clock string) (time.Time, error) {
	if clock == "" {
		return time.Time{}, fmt.Errorf("no time")
	}
	parsed, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), parsed.Hour(), parsed.Minute(), 0, 0, day.Location()), nil
}
