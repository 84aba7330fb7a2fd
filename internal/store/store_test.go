package store

import (
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"

	"fixfirst/internal/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestStore(t *testing.T, opts ...Option) (*BlobStore, *Store) {
	t.Helper()
	blob, err := NewBlobStore(":memory:")
	if err != nil {
		t.Fatalf("NewBlobStore: %v", err)
	}
	t.Cleanup(func() { blob.Close() })

	st, err := Open(blob, opts...)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return blob, st
}

func testInput(addr string) CreateInput {
	return CreateInput{
		Location:    types.Location{Address: addr, Lat: 39.78, Lng: -89.65},
		Description: "test pothole",
		User:        types.UserRef{ID: "u1", Name: "Alex Chen"},
		Severity:    types.DangerMedium,
	}
}

func TestCreateDefaults(t *testing.T) {
	_, st := newTestStore(t)

	r := st.Create(testInput("1 First St"))

	if r.ID == "" {
		t.Error("expected a generated id")
	}
	if r.Upvotes != 1 {
		t.Errorf("expected 1 upvote (the reporter's own), got %d", r.Upvotes)
	}
	if r.Status != types.StatusSubmitted {
		t.Errorf("expected Submitted, got %s", r.Status)
	}
	if r.RoadType != types.RoadResidential {
		t.Errorf("expected default road type, got %s", r.RoadType)
	}
	if len(r.ActivityLog) != 1 || r.ActivityLog[0].Kind != types.ActivityCreation {
		t.Errorf("expected one creation activity, got %+v", r.ActivityLog)
	}
	if r.DangerScore != types.ScoreForSeverity(types.DangerMedium, false) {
		t.Errorf("unexpected danger score %v", r.DangerScore)
	}
}

func TestCreatePrependsNewest(t *testing.T) {
	_, st := newTestStore(t)

	a := st.Create(testInput("1 First St"))
	b := st.Create(testInput("2 Second St"))

	all := st.All()
	if len(all) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(all))
	}
	if all[0].ID != b.ID || all[1].ID != a.ID {
		t.Errorf("expected newest-first order, got %s then %s", all[0].ID, all[1].ID)
	}
}

func TestUpdateStatusAndWorker(t *testing.T) {
	_, st := newTestStore(t)
	r := st.Create(testInput("1 First St"))

	status := types.StatusAcknowledged
	updated, err := st.Update(r.ID, Patch{
		Status:   &status,
		Assignee: &types.UserRef{ID: "w1", Name: "John Doe"},
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if updated.Status != types.StatusAcknowledged {
		t.Errorf("status not applied: %s", updated.Status)
	}
	if updated.WorkerName() != "John Doe" {
		t.Errorf("assignee not applied: %q", updated.WorkerName())
	}

	// One entry per changed field, prepended before the creation entry
	if len(updated.ActivityLog) != 3 {
		t.Fatalf("expected 3 activity entries, got %d", len(updated.ActivityLog))
	}
	if updated.ActivityLog[0].Kind != types.ActivityStatusChange {
		t.Errorf("expected status_change first, got %s", updated.ActivityLog[0].Kind)
	}
	if updated.ActivityLog[1].Kind != types.ActivityAssignment {
		t.Errorf("expected assignment second, got %s", updated.ActivityLog[1].Kind)
	}

	// Status change and assignment each emit one notification
	notes := st.Notifications()
	if len(notes) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(notes))
	}
}

func TestUpdateNoChangeNoActivity(t *testing.T) {
	_, st := newTestStore(t)
	r := st.Create(testInput("1 First St"))

	status := types.StatusSubmitted // already the current value
	updated, err := st.Update(r.ID, Patch{Status: &status})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(updated.ActivityLog) != 1 {
		t.Errorf("no-op update grew the activity log: %d entries", len(updated.ActivityLog))
	}
	if len(st.Notifications()) != 0 {
		t.Errorf("no-op update emitted notifications")
	}
}

func TestUpdateUnknownID(t *testing.T) {
	_, st := newTestStore(t)

	if _, err := st.Update("missing", Patch{}); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateResolvedNotificationKind(t *testing.T) {
	_, st := newTestStore(t)
	r := st.Create(testInput("1 First St"))

	status := types.StatusResolved
	if _, err := st.Update(r.ID, Patch{Status: &status}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	notes := st.Notifications()
	if len(notes) != 1 || notes[0].Kind != types.NotifyTaskFixed {
		t.Errorf("expected one task_fixed notification, got %+v", notes)
	}
}

func TestStrictTransitions(t *testing.T) {
	_, st := newTestStore(t, WithStrictTransitions())
	r := st.Create(testInput("1 First St"))

	resolved := types.StatusResolved
	if _, err := st.Update(r.ID, Patch{Status: &resolved}); err == nil {
		t.Error("expected Submitted -> Resolved to be rejected in strict mode")
	}

	ack := types.StatusAcknowledged
	if _, err := st.Update(r.ID, Patch{Status: &ack}); err != nil {
		t.Errorf("Submitted -> Acknowledged should be legal: %v", err)
	}
}

func TestBulkUpdateCountsOnlyChanged(t *testing.T) {
	_, st := newTestStore(t)
	a := st.Create(testInput("1 First St"))
	b := st.Create(testInput("2 Second St"))

	ack := types.StatusAcknowledged
	if _, err := st.Update(b.ID, Patch{Status: &ack}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	before := len(st.Notifications())

	changed := st.BulkUpdate([]string{a.ID, b.ID, "missing"}, BulkStatus, "Acknowledged")
	if changed != 1 {
		t.Fatalf("expected 1 changed (b already Acknowledged, one id unknown), got %d", changed)
	}

	// Exactly one aggregate notification for the whole batch
	notes := st.Notifications()
	if len(notes) != before+1 {
		t.Fatalf("expected one new notification, got %d", len(notes)-before)
	}
	if notes[0].Kind != types.NotifyBulkUpdate {
		t.Errorf("expected bulk_update kind, got %s", notes[0].Kind)
	}

	// The unchanged report's activity log stays untouched
	bAfter, _ := st.Get(b.ID)
	if len(bAfter.ActivityLog) != 2 {
		t.Errorf("unchanged report gained activity entries: %d", len(bAfter.ActivityLog))
	}
	aAfter, _ := st.Get(a.ID)
	if len(aAfter.ActivityLog) != 2 {
		t.Errorf("changed report should have creation + status entries, got %d", len(aAfter.ActivityLog))
	}
}

func TestBulkUpdateAllUnchangedEmitsNothing(t *testing.T) {
	_, st := newTestStore(t)
	a := st.Create(testInput("1 First St"))

	changed := st.BulkUpdate([]string{a.ID}, BulkStatus, "Submitted")
	if changed != 0 {
		t.Fatalf("expected 0 changed, got %d", changed)
	}
	if len(st.Notifications()) != 0 {
		t.Error("no-op bulk update emitted a notification")
	}
}

func TestBulkUpdateWorkerUnassigned(t *testing.T) {
	_, st := newTestStore(t)
	a := st.Create(testInput("1 First St"))
	if _, err := st.Update(a.ID, Patch{Assignee: &types.UserRef{Name: "John Doe"}}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	changed := st.BulkUpdate([]string{a.ID}, BulkWorker, types.FilterUnassigned)
	if changed != 1 {
		t.Fatalf("expected 1 changed, got %d", changed)
	}
	after, _ := st.Get(a.ID)
	if after.Assignee != nil {
		t.Errorf("expected assignment cleared, got %+v", after.Assignee)
	}
}

func TestAddNote(t *testing.T) {
	_, st := newTestStore(t)
	r := st.Create(testInput("1 First St"))

	if !st.AddNote(r.ID, "check drainage", "e1", "Dana Price") {
		t.Fatal("AddNote returned false for existing report")
	}
	if st.AddNote("missing", "x", "e1", "Dana Price") {
		t.Error("AddNote returned true for unknown report")
	}

	after, _ := st.Get(r.ID)
	if len(after.InternalNotes) != 1 || after.InternalNotes[0].Text != "check drainage" {
		t.Fatalf("note not stored: %+v", after.InternalNotes)
	}
	if after.ActivityLog[0].Kind != types.ActivityNoteAdded {
		t.Errorf("expected note_added activity first, got %s", after.ActivityLog[0].Kind)
	}
}

func TestNotificationCap(t *testing.T) {
	_, st := newTestStore(t)
	r := st.Create(testInput("1 First St"))

	// Flip-flop the assignment to generate lots of notifications
	for i := 0; i < maxNotifications; i++ {
		name := "A"
		if i%2 == 0 {
			name = "B"
		}
		if _, err := st.Update(r.ID, Patch{Assignee: &types.UserRef{Name: name}}); err != nil {
			t.Fatalf("Update: %v", err)
		}
	}

	notes := st.Notifications()
	if len(notes) != maxNotifications {
		t.Fatalf("expected cap of %d, got %d", maxNotifications, len(notes))
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	blob, st := newTestStore(t)
	r := st.Create(testInput("1 First St"))
	st.SaveView("high danger", types.ViewFilters{
		Status: types.FilterAll, Danger: "High", Worker: types.FilterAll,
	}, &types.SortSpec{Key: types.SortByDangerScore, Dir: types.SortDesc})

	reopened, err := Open(blob)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}

	got := reopened.All()
	if len(got) != 1 {
		t.Fatalf("expected 1 report after reopen, got %d", len(got))
	}
	want, _ := st.Get(r.ID)
	if diff := cmp.Diff(want, got[0]); diff != "" {
		t.Errorf("report changed across reopen (-want +got):\n%s", diff)
	}

	saved := reopened.SavedViews()
	if len(saved) != 1 || saved[0].Name != "high danger" {
		t.Errorf("saved view lost across reopen: %+v", saved)
	}
}

func TestLegacyStatusFoldedAtLoad(t *testing.T) {
	blob, _ := newTestStore(t)

	legacy := `[{"id":"rpt-legacy","location":{"address":"9 Old Rd","lat":0,"lng":0},` +
		`"timestamp":"2024-01-01T00:00:00Z","user":{"id":"u","name":"n"},"description":"d",` +
		`"upvotes":1,"dangerScore":5,"dangerLevel":"Medium","status":"Fixed","activityLog":[]}]`
	if err := blob.Put(KeyReports, legacy); err != nil {
		t.Fatalf("Put: %v", err)
	}

	st, err := Open(blob)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	r, ok := st.Get("rpt-legacy")
	if !ok {
		t.Fatal("legacy report not loaded")
	}
	if r.Status != types.StatusResolved {
		t.Errorf("expected Fixed folded to Resolved, got %s", r.Status)
	}
}

func TestSubscriberGetsIsolatedSnapshot(t *testing.T) {
	_, st := newTestStore(t)

	var got []types.Report
	unsubscribe := st.Subscribe(func(snapshot []types.Report) {
		got = snapshot
	})
	defer unsubscribe()

	r := st.Create(testInput("1 First St"))
	if len(got) != 1 {
		t.Fatalf("subscriber not invoked, got %d reports", len(got))
	}

	// Mutating the snapshot must not leak into the store
	got[0].Description = "tampered"
	got[0].ActivityLog[0].Message = "tampered"

	fresh, _ := st.Get(r.ID)
	if fresh.Description == "tampered" || fresh.ActivityLog[0].Message == "tampered" {
		t.Error("subscriber snapshot aliases store state")
	}
}

func TestUpvote(t *testing.T) {
	_, st := newTestStore(t)
	r := st.Create(testInput("1 First St"))

	if !st.Upvote(r.ID) {
		t.Fatal("Upvote returned false")
	}
	after, _ := st.Get(r.ID)
	if after.Upvotes != 2 {
		t.Errorf("expected 2 upvotes, got %d", after.Upvotes)
	}
	if st.Upvote("missing") {
		t.Error("Upvote returned true for unknown id")
	}
}

func TestAddrSnippetKeepsRunesIntact(t *testing.T) {
	long := "Übergroße Straßenecke am Münsterplatz"
	got := addrSnippet(long)
	if !utf8.ValidString(got) {
		t.Fatalf("snippet is not valid UTF-8: %q", got)
	}
	if want := "Übergroße Straßeneck..."; got != want {
		t.Errorf("addrSnippet(%q) = %q, want %q", long, got, want)
	}

	short := "Ødegårdveien 3"
	if got := addrSnippet(short); got != short {
		t.Errorf("short address must pass through, got %q", got)
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	_, st := newTestStore(t)

	if !st.Seed(false) {
		t.Fatal("first seed should populate")
	}
	n := len(st.All())
	if n == 0 {
		t.Fatal("seed produced no reports")
	}
	if st.Seed(false) {
		t.Error("second seed should be a no-op without force")
	}
	if len(st.All()) != n {
		t.Errorf("report count changed on repeated seed")
	}
}

func TestClockInjection(t *testing.T) {
	_, st := newTestStore(t)
	fixed := time.Date(2026, time.August, 27, 12, 0, 0, 0, time.UTC)
	st.clock = func() time.Time { return fixed }

	r := st.Create(testInput("1 First St"))
	if !r.Timestamp.Equal(fixed) {
		t.Errorf("expected injected clock timestamp, got %v", r.Timestamp)
	}
}
