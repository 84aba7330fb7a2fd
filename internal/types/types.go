// Package types defines the FixFirst entity model: reports, their activity
// history, notifications, saved views and the people involved (citizens,
// employees, road crews).
package types

import "time"

// DangerLevel is the categorical severity of a pothole.
type DangerLevel string

const (
	DangerLow      DangerLevel = "Low"
	DangerMedium   DangerLevel = "Medium"
	DangerHigh     DangerLevel = "High"
	DangerCritical DangerLevel = "Critical"
	DangerUnknown  DangerLevel = "Unknown"
)

// DangerLevels lists the known levels in ascending order of severity.
var DangerLevels = []DangerLevel{DangerLow, DangerMedium, DangerHigh, DangerCritical}

// Rank returns the ordinal position of the level (Low=0 .. Critical=3).
// Unknown ranks below Low.
func (d DangerLevel) Rank() int {
	for i, l := range DangerLevels {
		if l == d {
			return i
		}
	}
	return -1
}

// Priority is the triage priority an employee assigns to a report.
type Priority string

const (
	PriorityLow      Priority = "Low"
	PriorityMedium   Priority = "Medium"
	PriorityHigh     Priority = "High"
	PriorityCritical Priority = "Critical"
)

// RoadType classifies the road the pothole is on.
type RoadType string

const (
	RoadHighway     RoadType = "Highway"
	RoadArterial    RoadType = "Arterial"
	RoadResidential RoadType = "Residential"
	RoadAlley       RoadType = "Alley"
)

// ActivityKind tags an activity-log entry with the mutation that produced it.
type ActivityKind string

const (
	ActivityCreation       ActivityKind = "creation"
	ActivityStatusChange   ActivityKind = "status_change"
	ActivityAssignment     ActivityKind = "assignment"
	ActivityNoteAdded      ActivityKind = "note_added"
	ActivityPriorityChange ActivityKind = "priority_change"
	ActivityBulkUpdate     ActivityKind = "bulk_update"
)

// Activity is an immutable event record owned by a single report.
// The activity log is prepend-only: ordering is insertion order, not
// timestamp order.
type Activity struct {
	Timestamp time.Time    `json:"timestamp"`
	Message   string       `json:"message"`
	Kind      ActivityKind `json:"type"`
}

// UserRef identifies a user by id with a display name snapshot.
type UserRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Location is a street address with coordinates.
type Location struct {
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

// InternalNote is an employee-authored note on a report.
type InternalNote struct {
	ID         string    `json:"id"`
	Text       string    `json:"noteText"`
	AuthorID   string    `json:"authorId"`
	AuthorName string    `json:"authorName"`
	Timestamp  time.Time `json:"timestamp"`
}

// Report is the central entity: a citizen-submitted pothole record and its
// full management lifecycle. The id is unique and never reused; after
// creation only status, assignment, priority and the note/activity logs are
// mutated through the store.
type Report struct {
	ID            string         `json:"id"`
	Location      Location       `json:"location"`
	Timestamp     time.Time      `json:"timestamp"`
	User          UserRef        `json:"user"`
	ImageURL      string         `json:"imageUrl,omitempty"`
	Description   string         `json:"description"`
	Notes         string         `json:"notes,omitempty"`
	Upvotes       int            `json:"upvotes"`
	DangerScore   float64        `json:"dangerScore"`
	DangerLevel   DangerLevel    `json:"dangerLevel"`
	RoadType      RoadType       `json:"roadType,omitempty"`
	Status        Status         `json:"status"`
	Assignee      *UserRef       `json:"assignee,omitempty"`
	Priority      Priority       `json:"priority,omitempty"`
	ContainsWater bool           `json:"contains_water"`
	InternalNotes []InternalNote `json:"internalNotes,omitempty"`
	ActivityLog   []Activity     `json:"activityLog"`
}

// WorkerName returns the display name of the assigned worker, or "" when
// the report is unassigned.
func (r Report) WorkerName() string {
	if r.Assignee == nil {
		return ""
	}
	return r.Assignee.Name
}

// Clone returns a deep copy of the report so that snapshots handed to
// subscribers cannot alias store-owned slices.
func (r Report) Clone() Report {
	out := r
	if r.Assignee != nil {
		a := *r.Assignee
		out.Assignee = &a
	}
	if r.InternalNotes != nil {
		out.InternalNotes = append([]InternalNote(nil), r.InternalNotes...)
	}
	if r.ActivityLog != nil {
		out.ActivityLog = append([]Activity(nil), r.ActivityLog...)
	}
	return out
}

// NotificationKind maps a store transition to the notification it emits.
type NotificationKind string

const (
	NotifyAssignment   NotificationKind = "assignment"
	NotifyTaskFixed    NotificationKind = "task_fixed"
	NotifyTaskRejected NotificationKind = "task_rejected"
	NotifyStatusChange NotificationKind = "status_change"
	NotifyBulkUpdate   NotificationKind = "bulk_update"
)

// Notification is a user-facing event record with an independent lifecycle
// from its origin report. Only the read flag is mutable.
type Notification struct {
	ID            string           `json:"id"`
	Message       string           `json:"message"`
	ReportID      string           `json:"reportId"`
	ReportAddress string           `json:"reportAddress"`
	Timestamp     time.Time        `json:"timestamp"`
	Read          bool             `json:"read"`
	Kind          NotificationKind `json:"type"`
}

// SortDir is a sort direction.
type SortDir string

const (
	SortAsc  SortDir = "asc"
	SortDesc SortDir = "desc"
)

// SortKey selects the report field a listing is ordered by. "location" is a
// synthetic key mapped to the address string.
type SortKey string

const (
	SortByID          SortKey = "id"
	SortByLocation    SortKey = "location"
	SortByTimestamp   SortKey = "timestamp"
	SortByUpvotes     SortKey = "upvotes"
	SortByDangerScore SortKey = "dangerScore"
	SortByDangerLevel SortKey = "dangerLevel"
	SortByStatus      SortKey = "status"
	SortByWorker      SortKey = "worker"
)

// SortSpec is a sort key plus direction.
type SortSpec struct {
	Key SortKey `json:"key"`
	Dir SortDir `json:"direction"`
}

// ViewFilters is the filter state a saved view captures. "All" (or empty
// search text) means the stage is inactive.
type ViewFilters struct {
	Status string `json:"status"`
	Danger string `json:"danger"`
	Search string `json:"searchQuery"`
	Worker string `json:"worker"`
}

// FilterAll is the wildcard value for the status, danger and worker filters.
const FilterAll = "All"

// FilterUnassigned selects reports without an assigned worker.
const FilterUnassigned = "Unassigned"

// SavedView is a named, reusable combination of filter and sort settings.
// User-created, user-deleted, otherwise immutable.
type SavedView struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Filters ViewFilters `json:"filters"`
	Sort    *SortSpec   `json:"sort"`
}

// WorkerStatus is the availability of a road-crew worker.
type WorkerStatus string

const (
	WorkerActive   WorkerStatus = "Active"
	WorkerOnLeave  WorkerStatus = "On Leave"
	WorkerInactive WorkerStatus = "Inactive"
)

// Worker is a road-crew roster entry. Assigned/completed counts are derived
// by scanning reports, never stored here.
type Worker struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	AvatarURL string       `json:"avatarUrl,omitempty"`
	Status    WorkerStatus `json:"status"`
	JoinDate  time.Time    `json:"joinDate"`
}

// Role distinguishes citizen accounts from employee accounts.
type Role string

const (
	RoleCitizen  Role = "citizen"
	RoleEmployee Role = "employee"
)

// User is an account record. Score and report count only apply to citizens
// and feed the leaderboard.
type User struct {
	UID     string `json:"uid"`
	Email   string `json:"email"`
	Role    Role   `json:"role"`
	Name    string `json:"name"`
	Score   int    `json:"score,omitempty"`
	Reports int    `json:"reports,omitempty"`
}
