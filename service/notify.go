package service

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Kavyashree-BK/ismart-agreement-sub000/model"
)

// NotifyThresholds controls the expiry warning window and priority cutoffs,
// in days.
type NotifyThresholds struct {
	Window int // include agreements expiring within this many days
	High   int
	Medium int
}

// DefaultNotifyThresholds is the 30/7/14 day scheme used by the dashboard.
var DefaultNotifyThresholds = NotifyThresholds{Window: 30, High: 7, Medium: 14}

// NotificationCenter derives expiry warnings from the agreement collection.
// Notifications are regenerated on demand, one per expiring agreement;
// regeneration replaces the previous entry for an agreement instead of
// accumulating duplicates.
type NotificationCenter struct {
	mu         sync.RWMutex
	byID       map[string]*model.Notification
	thresholds NotifyThresholds
	now        func() time.Time
}

// NewNotificationCenter creates an empty notification center.
func NewNotificationCenter(thresholds NotifyThresholds) *NotificationCenter {
	if thresholds.Window <= 0 {
		thresholds = DefaultNotifyThresholds
	}
	return &NotificationCenter{
		byID:       make(map[string]*model.Notification),
		thresholds: thresholds,
		now:        time.Now,
	}
}

// Refresh recomputes the notification set from an agreement snapshot.
// Open-ended agreements and agreements without an end date are skipped. An
// existing notification for the same agreement is replaced; only its read
// flag carries over, so a warning the user already saw does not pop back to
// unread on every refresh tick.
func (n *NotificationCenter) Refresh(agreements []model.Agreement) {
	n.mu.Lock()
	defer n.mu.Unlock()

	now := n.now()
	fresh := make(map[string]*model.Notification, len(n.byID))
	for _, a := range agreements {
		if a.OpenEnded || a.EndDate == nil {
			continue
		}

		days := daysUntil(now, *a.EndDate)
		if days <= 0 || days > n.thresholds.Window {
			continue
		}

		notif := &model.Notification{
			ID:              "expiry-" + a.ID,
			Type:            model.NotifyExpiryWarning,
			Title:           "Agreement Expiring Soon",
			Message:         fmt.Sprintf("Agreement with %s expires in %d day(s)", a.Client, days),
			AgreementID:     a.ID,
			ClientName:      a.Client,
			DaysUntilExpiry: days,
			Priority:        n.classify(days),
			CreatedAt:       now,
			ActionRequired:  true,
		}
		if previous, ok := n.byID[notif.ID]; ok {
			notif.Read = previous.Read
			notif.CreatedAt = previous.CreatedAt
		}
		fresh[notif.ID] = notif
	}
	n.byID = fresh
}

// List returns the notifications sorted by urgency, most urgent first.
func (n *NotificationCenter) List() []model.Notification {
	n.mu.RLock()
	defer n.mu.RUnlock()

	result := make([]model.Notification, 0, len(n.byID))
	for _, notif := range n.byID {
		result = append(result, *notif)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].DaysUntilExpiry != result[j].DaysUntilExpiry {
			return result[i].DaysUntilExpiry < result[j].DaysUntilExpiry
		}
		return result[i].AgreementID < result[j].AgreementID
	})
	return result
}

// UnreadCount counts unread notifications by scanning the set, never by
// incrementally adjusting a counter.
func (n *NotificationCenter) UnreadCount() int {
	n.mu.RLock()
	defer n.mu.RUnlock()

	count := 0
	for _, notif := range n.byID {
		if !notif.Read {
			count++
		}
	}
	return count
}

// MarkAsRead marks a single notification as read.
func (n *NotificationCenter) MarkAsRead(id string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	notif, ok := n.byID[id]
	if !ok {
		return notFoundError("notification", id)
	}
	notif.Read = true
	return nil
}

// MarkAllAsRead marks every notification as read.
func (n *NotificationCenter) MarkAllAsRead() {
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, notif := range n.byID {
		notif.Read = true
	}
}

// Remove deletes a single notification.
func (n *NotificationCenter) Remove(id string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if _, ok := n.byID[id]; !ok {
		return notFoundError("notification", id)
	}
	delete(n.byID, id)
	return nil
}

// ClearAll deletes every notification.
func (n *NotificationCenter) ClearAll() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.byID = make(map[string]*model.Notification)
}

func (n *NotificationCenter) classify(days int) string {
	switch {
	case days <= n.thresholds.High:
		return model.NotifyHigh
	case days <= n.thresholds.Medium:
		return model.NotifyMedium
	default:
		return model.NotifyLow
	}
}

// daysUntil is the ceiling of the remaining time in whole days.
func daysUntil(now, end time.Time) int {
	remaining := end.Sub(now)
	days := int(remaining / (24 * time.Hour))
	if remaining%(24*time.Hour) > 0 {
		days++
	}
	return days
}
