package stats

import (
	"context"
	"time"

	"github.com/verte-zerg/keyrate/internal/model"
	"github.com/verte-zerg/keyrate/internal/store"
)

// Report contains precomputed data for history rendering.
type Report struct {
	Range    Range
	Sessions []model.SessionSummary
	Lifetime Lifetime
}

// BuildReport loads sessions for the range and computes lifetime bests over
// the whole history of the selected mode.
func BuildReport(ctx context.Context, st *store.Store, r Range, mode *model.Mode, last int, now time.Time) (Report, error) {
	all, err := st.ListSessions(ctx, model.HistoryFilter{Mode: mode})
	if err != nil {
		return Report{}, err
	}
	sessions := FilterByRange(all, r, now)
	if last > 0 && len(sessions) > last {
		sessions = sessions[:last]
	}
	return Report{
		Range:    r,
		Sessions: sessions,
		Lifetime: LifetimeStats(all, now),
	}, nil
}
