package stats

import (
	"context"

	"github.com/verte-zerg/qwerty/internal/model"
	"github.com/verte-zerg/qwerty/internal/store"
)

// Report is everything the history views render for one filter.
type Report struct {
	Sessions []model.SessionAggregate
	Chapters []model.ChapterAggregate
	// CharAggsAll covers every selected run; CharAggsWindow only the last
	// CurveWindow of them.
	CharAggsAll    []model.CharAggregate
	CharAggsWindow []model.CharAggregate
}

// BuildReport loads the runs selected by filter and their aggregates.
func BuildReport(ctx context.Context, st *store.Store, filter model.HistoryFilter) (Report, error) {
	var report Report
	var err error
	if report.Sessions, err = st.ListSessions(ctx, filter); err != nil {
		return Report{}, err
	}
	if report.Chapters, err = st.ListChapterProgress(ctx, filter); err != nil {
		return Report{}, err
	}
	if report.CharAggsAll, err = st.ListCharAggregates(ctx, filter, filter.Last); err != nil {
		return Report{}, err
	}
	window := filter.CurveWindow
	if filter.Last > 0 && (window <= 0 || window > filter.Last) {
		window = filter.Last
	}
	if report.CharAggsWindow, err = st.ListCharAggregates(ctx, filter, window); err != nil {
		return Report{}, err
	}
	return report, nil
}
