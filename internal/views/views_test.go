package views

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fixfirst/internal/types"
)

func report(id string, mutate func(*types.Report)) types.Report {
	r := types.Report{
		ID:          id,
		Location:    types.Location{Address: id + " Test St"},
		Timestamp:   time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		User:        types.UserRef{ID: "u1", Name: "Alex"},
		Description: "pothole",
		Upvotes:     1,
		DangerScore: 5,
		DangerLevel: types.DangerMedium,
		Status:      types.StatusSubmitted,
	}
	if mutate != nil {
		mutate(&r)
	}
	return r
}

func TestApplyFilterConjunction(t *testing.T) {
	reports := []types.Report{
		report("a", func(r *types.Report) {
			r.Status = types.StatusInProgress
			r.DangerLevel = types.DangerHigh
			r.Assignee = &types.UserRef{Name: "John Doe"}
		}),
		report("b", func(r *types.Report) {
			r.Status = types.StatusInProgress
			r.DangerLevel = types.DangerLow
			r.Assignee = &types.UserRef{Name: "John Doe"}
		}),
		report("c", func(r *types.Report) {
			r.Status = types.StatusSubmitted
			r.DangerLevel = types.DangerHigh
		}),
	}

	got := Apply(reports, types.ViewFilters{
		Status: string(types.StatusInProgress),
		Danger: string(types.DangerHigh),
		Worker: "John Doe",
	})
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)
}

func TestApplyAllIsWildcard(t *testing.T) {
	reports := []types.Report{report("a", nil), report("b", nil)}

	got := Apply(reports, types.ViewFilters{
		Status: types.FilterAll,
		Danger: types.FilterAll,
		Worker: types.FilterAll,
	})
	assert.Len(t, got, 2)

	// Empty strings behave the same as All
	got = Apply(reports, types.ViewFilters{})
	assert.Len(t, got, 2)
}

func TestApplySearchIsCaseInsensitive(t *testing.T) {
	reports := []types.Report{
		report("a", func(r *types.Report) { r.Location.Address = "123 Main St" }),
		report("b", func(r *types.Report) { r.Description = "crater on MAIN road" }),
		report("c", nil),
	}

	got := Apply(reports, types.ViewFilters{Search: "main"})
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "b", got[1].ID)
}

func TestApplyUnassignedWorker(t *testing.T) {
	reports := []types.Report{
		report("a", func(r *types.Report) { r.Assignee = &types.UserRef{Name: "John Doe"} }),
		report("b", nil),
	}

	got := Apply(reports, types.ViewFilters{Worker: types.FilterUnassigned})
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ID)
}

func TestSortStableOnTies(t *testing.T) {
	reports := []types.Report{
		report("a", func(r *types.Report) { r.Upvotes = 5 }),
		report("b", func(r *types.Report) { r.Upvotes = 5 }),
		report("c", func(r *types.Report) { r.Upvotes = 2 }),
	}

	got := Sort(reports, &types.SortSpec{Key: types.SortByUpvotes, Dir: types.SortDesc})
	require.Len(t, got, 3)
	assert.Equal(t, "a", got[0].ID, "ties keep incoming order")
	assert.Equal(t, "b", got[1].ID)
	assert.Equal(t, "c", got[2].ID)
}

func TestSortWorkerPutsUnassignedLast(t *testing.T) {
	reports := []types.Report{
		report("a", nil),
		report("b", func(r *types.Report) { r.Assignee = &types.UserRef{Name: "Zoe"} }),
		report("c", func(r *types.Report) { r.Assignee = &types.UserRef{Name: "Amy"} }),
	}

	got := Sort(reports, &types.SortSpec{Key: types.SortByWorker, Dir: types.SortAsc})
	assert.Equal(t, "c", got[0].ID)
	assert.Equal(t, "b", got[1].ID)
	assert.Equal(t, "a", got[2].ID)
}

func TestSortDoesNotMutateInput(t *testing.T) {
	reports := []types.Report{
		report("b", func(r *types.Report) { r.Upvotes = 1 }),
		report("a", func(r *types.Report) { r.Upvotes = 9 }),
	}

	_ = Sort(reports, &types.SortSpec{Key: types.SortByUpvotes, Dir: types.SortDesc})
	assert.Equal(t, "b", reports[0].ID, "input order must be preserved")
}

func TestPaginationConcatenation(t *testing.T) {
	var reports []types.Report
	for i := 0; i < 23; i++ {
		reports = append(reports, report(fmt.Sprintf("r%02d", i), nil))
	}

	const size = 10
	pages := PageCount(len(reports), size)
	require.Equal(t, 3, pages)

	var concat []types.Report
	for p := 1; p <= pages; p++ {
		concat = append(concat, Page(reports, p, size)...)
	}
	require.Len(t, concat, len(reports))
	for i := range reports {
		assert.Equal(t, reports[i].ID, concat[i].ID)
	}

	assert.Empty(t, Page(reports, pages+1, size))
	assert.Equal(t, 1, PageCount(0, size), "empty collection still has one page")
}

func TestBoardHasEveryColumn(t *testing.T) {
	reports := []types.Report{
		report("a", func(r *types.Report) { r.Status = types.StatusInProgress }),
		report("b", nil),
	}

	board := Board(reports)
	require.Len(t, board, len(types.StatusOrder))
	assert.Len(t, board[types.StatusSubmitted], 1)
	assert.Len(t, board[types.StatusInProgress], 1)
	assert.Empty(t, board[types.StatusResolved])
}

func TestFeedNewestFirstAndCapped(t *testing.T) {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	var reports []types.Report
	for i := 0; i < 5; i++ {
		idx := i
		reports = append(reports, report(fmt.Sprintf("r%d", i), func(r *types.Report) {
			for j := 0; j < 6; j++ {
				r.ActivityLog = append(r.ActivityLog, types.Activity{
					Timestamp: base.Add(time.Duration(idx*6+j) * time.Minute),
					Message:   fmt.Sprintf("event %d-%d", idx, j),
					Kind:      types.ActivityStatusChange,
				})
			}
		}))
	}

	feed := Feed(reports)
	require.Len(t, feed, feedLimit, "feed is capped")
	for i := 1; i < len(feed); i++ {
		assert.False(t, feed[i].Activity.Timestamp.After(feed[i-1].Activity.Timestamp),
			"feed must be newest first")
	}
}

func TestMatchViewStructuralEquality(t *testing.T) {
	saved := []types.SavedView{
		{
			ID:      "view-1",
			Name:    "urgent",
			Filters: types.ViewFilters{Status: types.FilterAll, Danger: "High", Worker: types.FilterAll},
			Sort:    &types.SortSpec{Key: types.SortByDangerScore, Dir: types.SortDesc},
		},
	}

	_, ok := MatchView(saved,
		types.ViewFilters{Status: types.FilterAll, Danger: "High", Worker: types.FilterAll},
		&types.SortSpec{Key: types.SortByDangerScore, Dir: types.SortDesc})
	assert.True(t, ok)

	_, ok = MatchView(saved,
		types.ViewFilters{Status: types.FilterAll, Danger: "High", Worker: types.FilterAll},
		nil)
	assert.False(t, ok, "sort must match too")

	_, ok = MatchView(saved,
		types.ViewFilters{Status: types.FilterAll, Danger: "Low", Worker: types.FilterAll},
		&types.SortSpec{Key: types.SortByDangerScore, Dir: types.SortDesc})
	assert.False(t, ok)
}

func TestSummarize(t *testing.T) {
	reports := []types.Report{
		report("a", func(r *types.Report) {
			r.Status = types.StatusResolved
			r.DangerScore = 8
			r.Upvotes = 3
		}),
		report("b", func(r *types.Report) {
			r.DangerScore = 2
			r.ContainsWater = true
		}),
	}

	now := time.Date(2026, 8, 5, 0, 0, 0, 0, time.UTC)
	s := SummarizeAt(now, reports)
	assert.Equal(t, 2, s.Total)
	assert.Equal(t, 2, s.Recent, "both reported within the 7-day window")
	assert.Equal(t, 1, s.Open)
	assert.Equal(t, 1, s.Resolved)
	assert.Equal(t, 1, s.WithWater)
	assert.Equal(t, 2, s.Unassigned)
	assert.Equal(t, 4, s.TotalVotes)
	assert.InDelta(t, 5.0, s.AvgDanger, 0.001)
}

func TestSummarizeWorkers(t *testing.T) {
	workers := []types.Worker{
		{ID: "w1", Name: "John Doe", Status: types.WorkerActive},
		{ID: "w2", Name: "Jane Smith", Status: types.WorkerActive},
	}
	reports := []types.Report{
		report("a", func(r *types.Report) {
			r.Assignee = &types.UserRef{Name: "John Doe"}
			r.Status = types.StatusInProgress
		}),
		report("b", func(r *types.Report) {
			r.Assignee = &types.UserRef{Name: "John Doe"}
			r.Status = types.StatusResolved
		}),
		report("c", func(r *types.Report) {
			r.Assignee = &types.UserRef{Name: "John Doe"}
			r.Status = types.StatusRejected
		}),
	}

	stats := SummarizeWorkers(workers, reports)
	require.Len(t, stats, 2)
	assert.Equal(t, 1, stats[0].Assigned, "rejected work is neither assigned nor completed")
	assert.Equal(t, 1, stats[0].Completed)
	assert.Zero(t, stats[1].Assigned)
}

func TestLeaderboardOrdering(t *testing.T) {
	citizens := []types.User{
		{Name: "B", Score: 10, Reports: 1},
		{Name: "A", Score: 10, Reports: 5},
		{Name: "C", Score: 50, Reports: 1},
	}

	got := Leaderboard(citizens)
	assert.Equal(t, "C", got[0].Name)
	assert.Equal(t, "A", got[1].Name, "report count breaks score ties")
	assert.Equal(t, "B", got[2].Name)
}
