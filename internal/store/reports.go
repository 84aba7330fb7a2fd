package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"fixfirst/internal/logging"
	"fixfirst/internal/types"
)

// ErrNotFound is returned when an operation targets an id absent from the
// store.
var ErrNotFound = errors.New("report not found")

// ErrIllegalTransition is returned in strict mode when a status update does
// not follow the forward-only lifecycle graph.
var ErrIllegalTransition = errors.New("illegal status transition")

// Store is the single source of truth for the report collection. All
// writes flow through it; every mutation synchronously persists the full
// collection to the blob store and then invokes all subscribers with a
// fresh snapshot.
type Store struct {
	blob *BlobStore

	mu            sync.RWMutex
	reports       []types.Report
	notifications []types.Notification
	savedViews    []types.SavedView

	subs      map[int]func([]types.Report)
	nextSubID int

	strict bool
	clock  func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithStrictTransitions makes Update and BulkUpdate reject status changes
// that do not follow the forward-only lifecycle graph. The default is the
// permissive any-to-any behavior.
func WithStrictTransitions() Option {
	return func(s *Store) { s.strict = true }
}

// Open loads the report collection, notification log and saved views from
// the blob store. Missing keys start empty; corrupt documents are logged
// and discarded rather than failing the open.
func Open(blob *BlobStore, opts ...Option) (*Store, error) {
	timer := logging.StartTimer(logging.CategoryStore, "store.Open")
	defer timer.Stop()

	s := &Store{
		blob:  blob,
		subs:  make(map[int]func([]types.Report)),
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := loadJSON(blob, KeyReports, &s.reports); err != nil {
		logging.Get(logging.CategoryStore).Error("Discarding unreadable report snapshot: %v", err)
		s.reports = nil
	}
	if err := loadJSON(blob, KeyNotifications, &s.notifications); err != nil {
		logging.Get(logging.CategoryStore).Error("Discarding unreadable notifications: %v", err)
		s.notifications = nil
	}
	if err := loadJSON(blob, KeySavedViews, &s.savedViews); err != nil {
		logging.Get(logging.CategoryStore).Error("Discarding unreadable saved views: %v", err)
		s.savedViews = nil
	}

	// Fold legacy status names into the canonical vocabulary once, at load.
	for i := range s.reports {
		if c, ok := types.CanonicalStatus(string(s.reports[i].Status)); ok {
			s.reports[i].Status = c
		}
	}

	logging.Store("Store opened: %d reports, %d notifications, %d saved views",
		len(s.reports), len(s.notifications), len(s.savedViews))
	return s, nil
}

func loadJSON(blob *BlobStore, key string, out interface{}) error {
	raw, ok, err := blob.Get(key)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	return json.Unmarshal([]byte(raw), out)
}

// CreateInput is a citizen submission.
type CreateInput struct {
	Location      types.Location
	ImageURL      string
	Description   string
	Notes         string
	User          types.UserRef
	Severity      types.DangerLevel
	ContainsWater bool
	RoadType      types.RoadType
}

// Create adds a new report: fresh unique id, Submitted status, activity log
// seeded with one creation entry, upvote count starting at 1 (the
// reporter's own). The new report is prepended so All() stays in reverse
// creation order.
func (s *Store) Create(in CreateInput) types.Report {
	now := s.clock()

	if in.RoadType == "" {
		in.RoadType = types.RoadResidential
	}
	if in.Location.Address == "" {
		in.Location.Address = fmt.Sprintf("%v, %v", in.Location.Lat, in.Location.Lng)
	}

	report := types.Report{
		ID:            "rpt-" + uuid.NewString(),
		Location:      in.Location,
		Timestamp:     now,
		User:          in.User,
		ImageURL:      in.ImageURL,
		Description:   in.Description,
		Notes:         in.Notes,
		Upvotes:       1,
		DangerScore:   types.ScoreForSeverity(in.Severity, in.ContainsWater),
		DangerLevel:   in.Severity,
		RoadType:      in.RoadType,
		Status:        types.StatusSubmitted,
		Priority:      types.PriorityMedium,
		ContainsWater: in.ContainsWater,
		ActivityLog: []types.Activity{{
			Timestamp: now,
			Message:   fmt.Sprintf("Report created by %s", in.User.Name),
			Kind:      types.ActivityCreation,
		}},
	}

	s.mu.Lock()
	s.reports = append([]types.Report{report}, s.reports...)
	s.persistReports()
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	logging.Store("Created report %s at %q", report.ID, report.Location.Address)
	s.notifySubs(snapshot)
	return report.Clone()
}

// All returns a copied snapshot of every report, newest-created first.
func (s *Store) All() []types.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Get returns the report with the given id.
func (s *Store) Get(id string) (types.Report, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.reports {
		if r.ID == id {
			return r.Clone(), true
		}
	}
	return types.Report{}, false
}

// Patch is a partial report update. Nil fields are left untouched;
// ClearAssignee unassigns the report.
type Patch struct {
	Status        *types.Status
	Assignee      *types.UserRef
	ClearAssignee bool
	Priority      *types.Priority
	Description   *string
	Notes         *string
}

// Update shallow-merges the patch onto the report with the given id. For
// each of status, assignee and priority that actually changes value,
// exactly one activity entry is prepended, and status/assignment changes
// each emit one notification. Returns ErrNotFound for an unknown id and,
// in strict mode, ErrIllegalTransition for a status change off the
// lifecycle graph.
func (s *Store) Update(id string, patch Patch) (types.Report, error) {
	s.mu.Lock()

	idx := -1
	for i, r := range s.reports {
		if r.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return types.Report{}, ErrNotFound
	}

	original := s.reports[idx]
	updated := original.Clone()
	now := s.clock()

	var activities []types.Activity

	if patch.Status != nil && *patch.Status != original.Status {
		if s.strict && !types.CanTransition(original.Status, *patch.Status) {
			s.mu.Unlock()
			return types.Report{}, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, original.Status, *patch.Status)
		}
		updated.Status = *patch.Status
		activities = append(activities, types.Activity{
			Timestamp: now,
			Message:   fmt.Sprintf("Status changed from %q to %q", original.Status, updated.Status),
			Kind:      types.ActivityStatusChange,
		})
		s.appendNotificationLocked(statusNotificationKind(updated.Status),
			fmt.Sprintf("Status of %q updated to %s.", addrSnippet(original.Location.Address), updated.Status),
			original.ID, original.Location.Address)
	}

	if patch.ClearAssignee && original.Assignee != nil {
		updated.Assignee = nil
		activities = append(activities, types.Activity{
			Timestamp: now,
			Message:   "Assigned to Unassigned",
			Kind:      types.ActivityAssignment,
		})
		s.appendNotificationLocked(types.NotifyAssignment,
			fmt.Sprintf("Report at %q assigned to Unassigned.", addrSnippet(original.Location.Address)),
			original.ID, original.Location.Address)
	} else if patch.Assignee != nil && original.WorkerName() != patch.Assignee.Name {
		a := *patch.Assignee
		updated.Assignee = &a
		activities = append(activities, types.Activity{
			Timestamp: now,
			Message:   fmt.Sprintf("Assigned to %s", a.Name),
			Kind:      types.ActivityAssignment,
		})
		s.appendNotificationLocked(types.NotifyAssignment,
			fmt.Sprintf("Report at %q assigned to %s.", addrSnippet(original.Location.Address), a.Name),
			original.ID, original.Location.Address)
	}

	if patch.Priority != nil && *patch.Priority != original.Priority {
		updated.Priority = *patch.Priority
		activities = append(activities, types.Activity{
			Timestamp: now,
			Message:   fmt.Sprintf("Priority changed to %s", updated.Priority),
			Kind:      types.ActivityPriorityChange,
		})
	}

	if patch.Description != nil {
		updated.Description = *patch.Description
	}
	if patch.Notes != nil {
		updated.Notes = *patch.Notes
	}

	if len(activities) > 0 {
		updated.ActivityLog = append(activities, updated.ActivityLog...)
	}

	s.reports[idx] = updated
	s.persistReports()
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.notifySubs(snapshot)
	return updated.Clone(), nil
}

// BulkField selects which field a bulk update targets.
type BulkField string

const (
	BulkStatus BulkField = "status"
	BulkWorker BulkField = "worker"
)

// BulkUpdate applies the same single-field change to every targeted report
// whose value actually differs and returns the changed count. One aggregate
// notification is emitted (anchored on the first changed report); each
// changed report still gets its own activity entry. Unknown ids are
// skipped. In strict mode, status changes off the lifecycle graph are
// skipped and not counted.
func (s *Store) BulkUpdate(ids []string, field BulkField, value string) int {
	s.mu.Lock()

	targeted := make(map[string]bool, len(ids))
	for _, id := range ids {
		targeted[id] = true
	}

	// Changed-count first, so the aggregate notification precedes the
	// per-report mutations the way the source emitted it.
	changed := 0
	var anchor *types.Report
	for i := range s.reports {
		r := &s.reports[i]
		if !targeted[r.ID] || !s.bulkApplies(r, field, value) {
			continue
		}
		changed++
		if anchor == nil {
			anchor = r
		}
	}

	if changed == 0 {
		s.mu.Unlock()
		return 0
	}

	s.appendNotificationLocked(types.NotifyBulkUpdate,
		fmt.Sprintf("Bulk updated %d reports.", changed),
		anchor.ID, anchor.Location.Address)

	now := s.clock()
	for i := range s.reports {
		r := &s.reports[i]
		if !targeted[r.ID] || !s.bulkApplies(r, field, value) {
			continue
		}
		updated := r.Clone()
		var activity types.Activity
		switch field {
		case BulkStatus:
			status, _ := types.CanonicalStatus(value)
			updated.Status = status
			activity = types.Activity{
				Timestamp: now,
				Message:   fmt.Sprintf("Status changed to %q.", status),
				Kind:      types.ActivityStatusChange,
			}
		case BulkWorker:
			if value == types.FilterUnassigned {
				updated.Assignee = nil
			} else {
				updated.Assignee = &types.UserRef{Name: value}
			}
			activity = types.Activity{
				Timestamp: now,
				Message:   fmt.Sprintf("Assigned to %s.", value),
				Kind:      types.ActivityAssignment,
			}
		}
		updated.ActivityLog = append([]types.Activity{activity}, updated.ActivityLog...)
		s.reports[i] = updated
	}

	s.persistReports()
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	logging.Store("Bulk updated %d reports (%s=%q)", changed, field, value)
	s.notifySubs(snapshot)
	return changed
}

// bulkApplies reports whether the bulk change would alter this report.
func (s *Store) bulkApplies(r *types.Report, field BulkField, value string) bool {
	switch field {
	case BulkStatus:
		status, ok := types.CanonicalStatus(value)
		if !ok || r.Status == status {
			return false
		}
		if s.strict && !types.CanTransition(r.Status, status) {
			return false
		}
		return true
	case BulkWorker:
		if value == types.FilterUnassigned {
			return r.Assignee != nil
		}
		return r.WorkerName() != value
	}
	return false
}

// AddNote prepends an internal note and a note_added activity entry
// atomically. Returns false if the id is unknown.
func (s *Store) AddNote(id, text, authorID, authorName string) bool {
	s.mu.Lock()

	idx := -1
	for i, r := range s.reports {
		if r.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return false
	}

	now := s.clock()
	updated := s.reports[idx].Clone()
	note := types.InternalNote{
		ID:         "note-" + uuid.NewString(),
		Text:       text,
		AuthorID:   authorID,
		AuthorName: authorName,
		Timestamp:  now,
	}
	updated.InternalNotes = append([]types.InternalNote{note}, updated.InternalNotes...)
	updated.ActivityLog = append([]types.Activity{{
		Timestamp: now,
		Message:   fmt.Sprintf("Internal note added by %s", authorName),
		Kind:      types.ActivityNoteAdded,
	}}, updated.ActivityLog...)

	s.reports[idx] = updated
	s.persistReports()
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.notifySubs(snapshot)
	return true
}

// Upvote increments the upvote count. Returns false if the id is unknown.
func (s *Store) Upvote(id string) bool {
	s.mu.Lock()

	idx := -1
	for i, r := range s.reports {
		if r.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return false
	}

	s.reports[idx].Upvotes++
	s.persistReports()
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.notifySubs(snapshot)
	return true
}

// Subscribe registers a callback invoked with a full copied snapshot after
// every successful mutation. The returned function unsubscribes.
func (s *Store) Subscribe(fn func([]types.Report)) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// snapshotLocked deep-copies the report collection. Callers hold mu.
func (s *Store) snapshotLocked() []types.Report {
	out := make([]types.Report, len(s.reports))
	for i, r := range s.reports {
		out[i] = r.Clone()
	}
	return out
}

// notifySubs invokes every subscriber outside the store lock so a callback
// may call back into the store.
func (s *Store) notifySubs(snapshot []types.Report) {
	s.mu.RLock()
	fns := make([]func([]types.Report), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(snapshot)
	}
}

// persistReports serializes the full collection into the blob store.
// Persistence failures are logged, never surfaced: the in-memory state is
// authoritative and the blob is a local cache. Callers hold mu.
func (s *Store) persistReports() {
	data, err := json.Marshal(s.reports)
	if err != nil {
		logging.Get(logging.CategoryStore).Error("Failed to serialize reports: %v", err)
		return
	}
	if err := s.blob.Put(KeyReports, string(data)); err != nil {
		logging.Get(logging.CategoryStore).Error("Failed to persist reports: %v", err)
	}
}

// statusNotificationKind maps a target status to its notification kind.
func statusNotificationKind(status types.Status) types.NotificationKind {
	switch status {
	case types.StatusResolved:
		return types.NotifyTaskFixed
	case types.StatusRejected:
		return types.NotifyTaskRejected
	default:
		return types.NotifyStatusChange
	}
}

// addrSnippet shortens an address for notification messages. Cuts on
// rune boundaries so non-ASCII street names stay intact.
func addrSnippet(addr string) string {
	const max = 20
	runes := []rune(addr)
	if len(runes) <= max {
		return addr
	}
	return string(runes[:max]) + "..."
}
