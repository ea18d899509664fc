package stats

import (
	"context"

	"github.com/verte-zerg/conjuga/internal/model"
)

// MissedLimit caps the most-missed table.
const MissedLimit = 20

// History is the answer-history subset of the store used by reports.
type History interface {
	ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionAggregate, error)
	TenseAggregates(ctx context.Context, cfg model.StatsConfig, sessionIDs []string) ([]model.TenseAggregate, error)
	MissedForms(ctx context.Context, cfg model.StatsConfig, sessionIDs []string, limit int) ([]model.MissedForm, error)
}

// Report contains precomputed data for stats rendering.
type Report struct {
	Sessions         []model.SessionAggregate
	WindowSessionIDs []string
	TenseAggs        []model.TenseAggregate
	TenseAggsWindow  []model.TenseAggregate
	Missed           []model.MissedForm
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, h History, cfg model.StatsConfig) (Report, error) {
	sessions, err := h.ListSessions(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	if cfg.Last > 0 && len(sessions) > cfg.Last {
		sessions = sessions[len(sessions)-cfg.Last:]
	}
	if len(sessions) == 0 {
		return Report{}, nil
	}

	allIDs := sessionIDs(sessions)
	windowIDs := lastSessionIDs(sessions, cfg.CurveWindow)
	tenseAggs, err := h.TenseAggregates(ctx, cfg, allIDs)
	if err != nil {
		return Report{}, err
	}
	tenseAggsWindow, err := h.TenseAggregates(ctx, cfg, windowIDs)
	if err != nil {
		return Report{}, err
	}
	missed, err := h.MissedForms(ctx, cfg, allIDs, MissedLimit)
	if err != nil {
		return Report{}, err
	}

	return Report{
		Sessions:         sessions,
		WindowSessionIDs: windowIDs,
		TenseAggs:        tenseAggs,
		TenseAggsWindow:  tenseAggsWindow,
		Missed:           missed,
	}, nil
}

func sessionIDs(sessions []model.SessionAggregate) []string {
	ids := make([]string, len(sessions))
	for i, s := range sessions {
		ids[i] = s.SessionID
	}
	return ids
}

func lastSessionIDs(sessions []model.SessionAggregate, window int) []string {
	if window <= 0 || len(sessions) <= window {
		return sessionIDs(sessions)
	}
	return sessionIDs(sessions[len(sessions)-window:])
}
