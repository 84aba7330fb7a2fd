package store

import (
	"time"

	"fixfirst/internal/logging"
	"fixfirst/internal/types"
)

// DemoWorkers is the road-crew roster shown on the teams page. Assigned and
// completed counts are derived from the report collection, never stored.
func DemoWorkers() []types.Worker {
	join := func(year int, month time.Month, day int) time.Time {
		return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	}
	return []types.Worker{
		{ID: "worker-1", Name: "John Doe", Status: types.WorkerActive, JoinDate: join(2022, time.March, 14)},
		{ID: "worker-2", Name: "Jane Smith", Status: types.WorkerActive, JoinDate: join(2021, time.August, 2)},
		{ID: "worker-3", Name: "Mike Ross", Status: types.WorkerOnLeave, JoinDate: join(2023, time.January, 9)},
		{ID: "worker-4", Name: "Sarah Connor", Status: types.WorkerActive, JoinDate: join(2020, time.November, 23)},
	}
}

// Seed populates the store with demo data when it is empty, so the
// dashboard has something to show on first run. With force, existing
// reports are replaced.
func (s *Store) Seed(force bool) bool {
	s.mu.Lock()
	if len(s.reports) > 0 && !force {
		s.mu.Unlock()
		return false
	}

	now := s.clock()
	demoCitizen := types.UserRef{ID: "user-demo-citizen", Name: "Alex Chen"}

	mkActivity := func(t time.Time, msg string, kind types.ActivityKind) types.Activity {
		return types.Activity{Timestamp: t, Message: msg, Kind: kind}
	}

	first := types.Report{
		ID:            "rpt-seed-1",
		Location:      types.Location{Address: "123 Main St, Springfield", Lat: 39.7817, Lng: -89.6501},
		Timestamp:     now.Add(-72 * time.Hour),
		User:          demoCitizen,
		Description:   "Deep pothole near the crosswalk, catches bike tires.",
		Upvotes:       12,
		DangerScore:   types.ScoreForSeverity(types.DangerHigh, true),
		DangerLevel:   types.DangerHigh,
		RoadType:      types.RoadArterial,
		Status:        types.StatusInProgress,
		Assignee:      &types.UserRef{ID: "worker-1", Name: "John Doe"},
		Priority:      types.PriorityHigh,
		ContainsWater: true,
		ActivityLog: []types.Activity{
			mkActivity(now.Add(-24*time.Hour), "Assigned to John Doe", types.ActivityAssignment),
			mkActivity(now.Add(-48*time.Hour), `Status changed from "Submitted" to "Acknowledged"`, types.ActivityStatusChange),
			mkActivity(now.Add(-72*time.Hour), "Report created by Alex Chen", types.ActivityCreation),
		},
	}

	second := types.Report{
		ID:          "rpt-seed-2",
		Location:    types.Location{Address: "456 Oak Ave, Springfield", Lat: 39.7990, Lng: -89.6440},
		Timestamp:   now.Add(-36 * time.Hour),
		User:        types.UserRef{ID: "user-demo-citizen-2", Name: "Maria Lopez"},
		Description: "Cluster of small potholes across both lanes.",
		Upvotes:     4,
		DangerScore: types.ScoreForSeverity(types.DangerMedium, false),
		DangerLevel: types.DangerMedium,
		RoadType:    types.RoadResidential,
		Status:      types.StatusSubmitted,
		Priority:    types.PriorityMedium,
		ActivityLog: []types.Activity{
			mkActivity(now.Add(-36*time.Hour), "Report created by Maria Lopez", types.ActivityCreation),
		},
	}

	third := types.Report{
		ID:          "rpt-seed-3",
		Location:    types.Location{Address: "789 Elm Blvd, Springfield", Lat: 39.7600, Lng: -89.6700},
		Timestamp:   now.Add(-8 * time.Hour),
		User:        demoCitizen,
		Description: "Edge of the road crumbling near the bus stop.",
		Upvotes:     1,
		DangerScore: types.ScoreForSeverity(types.DangerLow, false),
		DangerLevel: types.DangerLow,
		RoadType:    types.RoadAlley,
		Status:      types.StatusSubmitted,
		Priority:    types.PriorityLow,
		ActivityLog: []types.Activity{
			mkActivity(now.Add(-8*time.Hour), "Report created by Alex Chen", types.ActivityCreation),
		},
	}

	// Newest-created first, matching the order Create maintains.
	s.reports = []types.Report{third, second, first}
	s.persistReports()
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	logging.Store("Seeded %d demo reports", len(snapshot))
	s.notifySubs(snapshot)
	return true
}

// SeedAccounts registers the demo citizen and employee accounts when the
// account table is empty. Existing accounts are left alone.
func (a *Accounts) SeedAccounts() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(a.accounts) > 0 {
		return
	}
	demo := []account{
		{
			User: types.User{
				UID: "user-demo-citizen", Email: "citizen@fixfirst.dev",
				Role: types.RoleCitizen, Name: "Alex Chen", Score: 120, Reports: 2,
			},
			Password: "demo1234",
		},
		{
			User: types.User{
				UID: "user-demo-employee", Email: "works@fixfirst.dev",
				Role: types.RoleEmployee, Name: "Dana Price",
			},
			Password: "demo1234",
		},
	}
	for _, acct := range demo {
		a.accounts[acct.Email] = acct
	}
	a.persistLocked()
}
