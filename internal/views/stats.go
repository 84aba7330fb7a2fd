package views

import (
	"sort"
	"time"

	"fixfirst/internal/types"
)

// Stats is the aggregate dashboard summary for a snapshot.
type Stats struct {
	Total      int
	ByStatus   map[types.Status]int
	ByDanger   map[types.DangerLevel]int
	Open       int // not Resolved or Rejected
	Resolved   int
	AvgDanger  float64
	TotalVotes int
	WithWater  int
	Unassigned int
	Recent     int // reported within the last 7 days
}

// recentWindow bounds the Recent count.
const recentWindow = 7 * 24 * time.Hour

// Summarize computes the aggregate stats over a snapshot.
func Summarize(reports []types.Report) Stats {
	return SummarizeAt(time.Now(), reports)
}

// SummarizeAt computes the stats relative to the given instant.
func SummarizeAt(now time.Time, reports []types.Report) Stats {
	s := Stats{
		Total:    len(reports),
		ByStatus: make(map[types.Status]int),
		ByDanger: make(map[types.DangerLevel]int),
	}

	var dangerSum float64
	for _, r := range reports {
		s.ByStatus[r.Status]++
		s.ByDanger[r.DangerLevel]++
		if !r.Status.Terminal() {
			s.Open++
		}
		if r.Status == types.StatusResolved {
			s.Resolved++
		}
		if r.ContainsWater {
			s.WithWater++
		}
		if r.Assignee == nil {
			s.Unassigned++
		}
		if now.Sub(r.Timestamp) <= recentWindow {
			s.Recent++
		}
		s.TotalVotes += r.Upvotes
		dangerSum += r.DangerScore
	}
	if s.Total > 0 {
		s.AvgDanger = dangerSum / float64(s.Total)
	}
	return s
}

// WorkerStats is the per-worker workload derived from a snapshot.
type WorkerStats struct {
	Worker    types.Worker
	Assigned  int // currently assigned, lifecycle not finished
	Completed int // assigned and Resolved
}

// SummarizeWorkers joins the roster against the snapshot. Roster order is
// preserved.
func SummarizeWorkers(workers []types.Worker, reports []types.Report) []WorkerStats {
	out := make([]WorkerStats, len(workers))
	for i, w := range workers {
		out[i].Worker = w
		for _, r := range reports {
			if r.WorkerName() != w.Name {
				continue
			}
			if r.Status == types.StatusResolved {
				out[i].Completed++
			} else if !r.Status.Terminal() {
				out[i].Assigned++
			}
		}
	}
	return out
}

// Leaderboard orders citizen accounts by score, then report count, then
// name for a stable display.
func Leaderboard(citizens []types.User) []types.User {
	out := append([]types.User(nil), citizens...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		if out[i].Reports != out[j].Reports {
			return out[i].Reports > out[j].Reports
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// MatchView returns the first saved view whose filters and sort are
// structurally equal to the current settings. Used to highlight the active
// view in the toolbar.
func MatchView(saved []types.SavedView, filters types.ViewFilters, sortSpec *types.SortSpec) (types.SavedView, bool) {
	for _, v := range saved {
		if v.Filters != filters {
			continue
		}
		if (v.Sort == nil) != (sortSpec == nil) {
			continue
		}
		if v.Sort != nil && *v.Sort != *sortSpec {
			continue
		}
		return v, true
	}
	return types.SavedView{}, false
}
