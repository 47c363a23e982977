package stats

import (
	"fmt"
	"io"

	"github.com/verte-zerg/keyrate/internal/keys"
	"github.com/verte-zerg/keyrate/internal/model"
)

// Badge is a speed milestone.
type Badge struct {
	Level  string
	Name   string
	MinWPM int
}

// Badges are ordered by rising MinWPM.
var Badges = []Badge{
	{Level: "beginner", Name: "Speed Learner", MinWPM: 20},
	{Level: "intermediate", Name: "Quick Fingers", MinWPM: 30},
	{Level: "advanced", Name: "Cheetah Typist", MinWPM: 40},
	{Level: "master", Name: "TypeMaster", MinWPM: 50},
}

// NinjaBadge is earned once every finger is completed.
const NinjaBadge = "TypeNinja"

// BadgeForWPM returns the highest badge reached at wpm.
func BadgeForWPM(wpm int) (Badge, bool) {
	for i := len(Badges) - 1; i >= 0; i-- {
		if wpm >= Badges[i].MinWPM {
			return Badges[i], true
		}
	}
	return Badge{}, false
}

// FingerProgress aggregates the learn sessions of one finger.
type FingerProgress struct {
	Finger       keys.Finger
	Sessions     int
	BestWPM      int
	BestAccuracy int
	// Completed is set once a session reaches the first badge.
	Completed bool
}

// LearnProgress aggregates learn sessions per finger, in keys.Fingers order.
// Sessions of other modes or without a finger are ignored.
func LearnProgress(sessions []model.SessionSummary) []FingerProgress {
	byFinger := make(map[keys.Finger]*FingerProgress, len(keys.Fingers))
	out := make([]FingerProgress, len(keys.Fingers))
	for i, f := range keys.Fingers {
		out[i].Finger = f
		byFinger[f] = &out[i]
	}
	for _, s := range sessions {
		if s.Mode != model.ModeLearn {
			continue
		}
		p, ok := byFinger[keys.Finger(s.Finger)]
		if !ok {
			continue
		}
		p.Sessions++
		p.BestWPM = max(p.BestWPM, s.WPM)
		p.BestAccuracy = max(p.BestAccuracy, s.Accuracy)
	}
	for i := range out {
		out[i].Completed = out[i].BestWPM >= Badges[0].MinWPM
	}
	return out
}

// HasNinjaBadge reports whether every finger is completed.
func HasNinjaBadge(progress []FingerProgress) bool {
	if len(progress) == 0 {
		return false
	}
	for _, p := range progress {
		if !p.Completed {
			return false
		}
	}
	return true
}

// RenderProgress prints one row per finger and the overall badge.
func RenderProgress(w io.Writer, progress []FingerProgress) error {
	headers := []string{"Finger", "Done", "Sessions", "Best WPM", "Best Acc", "Badge"}
	rows := make([][]string, 0, len(progress))
	for _, p := range progress {
		done := "-"
		if p.Completed {
			done = "yes"
		}
		best, acc := "-", "-"
		if p.Sessions > 0 {
			best = fmt.Sprintf("%d", p.BestWPM)
			acc = fmt.Sprintf("%d%%", p.BestAccuracy)
		}
		badge := ""
		if b, ok := BadgeForWPM(p.BestWPM); ok {
			badge = b.Name
		}
		rows = append(rows, []string{string(p.Finger), done, fmt.Sprintf("%d", p.Sessions), best, acc, badge})
	}
	for _, line := range formatTable(headers, rows, map[int]bool{2: true, 3: true, 4: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if HasNinjaBadge(progress) {
		if _, err := fmt.Fprintf(w, "\nAll fingers completed: %s\n", NinjaBadge); err != nil {
			return err
		}
	}
	return nil
}
