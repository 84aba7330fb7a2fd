// Package views computes derived read views over a report snapshot:
// filtered listings, sorted orderings, pagination, the kanban board, the
// activity feed and aggregate statistics. Everything here is pure: inputs
// are never mutated and no state is held between calls.
package views

import (
	"sort"
	"strings"

	"fixfirst/internal/types"
)

// Apply runs the filter pipeline over a snapshot: free-text search, then
// worker, then status, then danger level. Stages set to "All" (or empty
// search text) pass everything through. Relative order is preserved.
func Apply(reports []types.Report, f types.ViewFilters) []types.Report {
	out := make([]types.Report, 0, len(reports))
	query := strings.ToLower(strings.TrimSpace(f.Search))

	for _, r := range reports {
		if query != "" && !matchesSearch(r, query) {
			continue
		}
		if !matchesWorker(r, f.Worker) {
			continue
		}
		if f.Status != "" && f.Status != types.FilterAll && string(r.Status) != f.Status {
			continue
		}
		if f.Danger != "" && f.Danger != types.FilterAll && string(r.DangerLevel) != f.Danger {
			continue
		}
		out = append(out, r)
	}
	return out
}

func matchesSearch(r types.Report, query string) bool {
	return strings.Contains(strings.ToLower(r.Location.Address), query) ||
		strings.Contains(strings.ToLower(r.Description), query) ||
		strings.Contains(strings.ToLower(r.ID), query)
}

func matchesWorker(r types.Report, worker string) bool {
	switch worker {
	case "", types.FilterAll:
		return true
	case types.FilterUnassigned:
		return r.Assignee == nil
	default:
		return r.WorkerName() == worker
	}
}

// Sort returns a sorted copy of the snapshot. The sort is stable so that
// equal keys keep their reverse-creation order. A nil spec returns an
// unsorted copy.
func Sort(reports []types.Report, spec *types.SortSpec) []types.Report {
	out := append([]types.Report(nil), reports...)
	if spec == nil {
		return out
	}

	less := lessFunc(spec.Key)
	sort.SliceStable(out, func(i, j int) bool {
		if spec.Dir == types.SortDesc {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out
}

func lessFunc(key types.SortKey) func(a, b types.Report) bool {
	switch key {
	case types.SortByLocation:
		return func(a, b types.Report) bool { return a.Location.Address < b.Location.Address }
	case types.SortByTimestamp:
		return func(a, b types.Report) bool { return a.Timestamp.Before(b.Timestamp) }
	case types.SortByUpvotes:
		return func(a, b types.Report) bool { return a.Upvotes < b.Upvotes }
	case types.SortByDangerScore:
		return func(a, b types.Report) bool { return a.DangerScore < b.DangerScore }
	case types.SortByDangerLevel:
		return func(a, b types.Report) bool { return a.DangerLevel.Rank() < b.DangerLevel.Rank() }
	case types.SortByStatus:
		return func(a, b types.Report) bool { return statusRank(a.Status) < statusRank(b.Status) }
	case types.SortByWorker:
		// Unassigned sorts after every named worker.
		return func(a, b types.Report) bool {
			an, bn := a.WorkerName(), b.WorkerName()
			if (an == "") != (bn == "") {
				return bn == ""
			}
			return an < bn
		}
	default:
		return func(a, b types.Report) bool { return a.ID < b.ID }
	}
}

func statusRank(s types.Status) int {
	for i, o := range types.StatusOrder {
		if o == s {
			return i
		}
	}
	return len(types.StatusOrder)
}

// Page returns the 1-based page of the given size. An out-of-range page
// returns an empty slice; size must be positive.
func Page(reports []types.Report, page, size int) []types.Report {
	if size <= 0 || page < 1 {
		return nil
	}
	start := (page - 1) * size
	if start >= len(reports) {
		return nil
	}
	end := start + size
	if end > len(reports) {
		end = len(reports)
	}
	return reports[start:end]
}

// PageCount returns the number of pages needed for the given size. An
// empty snapshot still has one (empty) page.
func PageCount(total, size int) int {
	if size <= 0 {
		return 1
	}
	pages := (total + size - 1) / size
	if pages < 1 {
		return 1
	}
	return pages
}

// Board groups a snapshot into kanban columns keyed by status. Every
// status gets a column, possibly empty, and rows keep their incoming
// order.
func Board(reports []types.Report) map[types.Status][]types.Report {
	board := make(map[types.Status][]types.Report, len(types.StatusOrder))
	for _, s := range types.StatusOrder {
		board[s] = []types.Report{}
	}
	for _, r := range reports {
		board[r.Status] = append(board[r.Status], r)
	}
	return board
}

// FeedItem is one activity-log entry paired with the report it belongs to.
type FeedItem struct {
	ReportID      string
	ReportAddress string
	Activity      types.Activity
}

// feedLimit caps the cross-report activity feed.
const feedLimit = 20

// Feed flattens every report's activity log into a single newest-first
// feed, capped at the feed limit.
func Feed(reports []types.Report) []FeedItem {
	var items []FeedItem
	for _, r := range reports {
		for _, a := range r.ActivityLog {
			items = append(items, FeedItem{
				ReportID:      r.ID,
				ReportAddress: r.Location.Address,
				Activity:      a,
			})
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Activity.Timestamp.After(items[j].Activity.Timestamp)
	})
	if len(items) > feedLimit {
		items = items[:feedLimit]
	}
	return items
}
