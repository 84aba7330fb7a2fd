package store

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"fixfirst/internal/logging"
	"fixfirst/internal/types"
)

// maxNotifications caps the notification log. The log is a ring: the
// newest entry is prepended and the oldest falls off the end.
const maxNotifications = 50

// Notifications returns a copied snapshot of the notification log, newest
// first.
func (s *Store) Notifications() []types.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]types.Notification(nil), s.notifications...)
}

// UnreadCount returns the number of unread notifications.
func (s *Store) UnreadCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, note := range s.notifications {
		if !note.Read {
			n++
		}
	}
	return n
}

// MarkRead marks a single notification as read. Unknown ids are a no-op.
func (s *Store) MarkRead(id string) {
	s.mu.Lock()
	for i := range s.notifications {
		if s.notifications[i].ID == id {
			s.notifications[i].Read = true
			break
		}
	}
	s.persistNotifications()
	s.mu.Unlock()
}

// MarkAllRead marks every notification as read.
func (s *Store) MarkAllRead() {
	s.mu.Lock()
	for i := range s.notifications {
		s.notifications[i].Read = true
	}
	s.persistNotifications()
	s.mu.Unlock()
}

// appendNotificationLocked prepends a new unread notification and trims the
// log to its cap. Callers hold mu; the caller's persist covers the report
// side while this persists the notification side.
func (s *Store) appendNotificationLocked(kind types.NotificationKind, message, reportID, reportAddress string) {
	note := types.Notification{
		ID:            fmt.Sprintf("notif-%s", uuid.NewString()),
		Message:       message,
		ReportID:      reportID,
		ReportAddress: reportAddress,
		Timestamp:     s.clock(),
		Read:          false,
		Kind:          kind,
	}
	s.notifications = append([]types.Notification{note}, s.notifications...)
	if len(s.notifications) > maxNotifications {
		s.notifications = s.notifications[:maxNotifications]
	}
	logging.Notify("%s: %s", kind, message)
	s.persistNotifications()
}

// persistNotifications serializes the notification log into the blob
// store. Callers hold mu.
func (s *Store) persistNotifications() {
	data, err := json.Marshal(s.notifications)
	if err != nil {
		logging.Get(logging.CategoryNotify).Error("Failed to serialize notifications: %v", err)
		return
	}
	if err := s.blob.Put(KeyNotifications, string(data)); err != nil {
		logging.Get(logging.CategoryNotify).Error("Failed to persist notifications: %v", err)
	}
}
