// Package notify keeps the ordered list of short-lived user notifications.
package notify

import (
	"slices"
	"strconv"
	"time"
)

// DefaultTTL is how long a notification stays visible.
const DefaultTTL = 3 * time.Second

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

type Notification struct {
	ID        string
	Message   string
	Kind      Kind
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Queue is an insertion-ordered list of notifications. Each notification
// carries its own deadline; expiring one never affects another.
//
// Queue is a value type in the same way the Bubble Tea models holding it are.
// Mutating methods take a pointer receiver.
type Queue struct {
	ttl   time.Duration
	seq   int
	items []Notification
}

func NewQueue(ttl time.Duration) Queue {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return Queue{ttl: ttl}
}

func (q Queue) TTL() time.Duration { return q.ttl }

// Push appends a notification created at the given time and returns it. The
// id is derived from the timestamp, with a sequence suffix so that two pushes
// at the same instant still get distinct ids.
func (q *Queue) Push(message string, kind Kind, at time.Time) Notification {
	if q.ttl <= 0 {
		q.ttl = DefaultTTL
	}
	q.seq++
	n := Notification{
		ID:        strconv.FormatInt(at.UnixNano(), 10) + "-" + strconv.Itoa(q.seq),
		Message:   message,
		Kind:      kind,
		CreatedAt: at,
		ExpiresAt: at.Add(q.ttl),
	}
	q.items = append(q.items, n)
	return n
}

// Expire removes the notification with the given id. It reports whether one
// was removed; unknown ids are a no-op.
func (q *Queue) Expire(id string) bool {
	i := slices.IndexFunc(q.items, func(n Notification) bool { return n.ID == id })
	if i < 0 {
		return false
	}
	q.items = slices.Delete(q.items, i, i+1)
	return true
}

// Prune removes every notification whose deadline is at or before now and
// returns the removed ones, oldest first.
func (q *Queue) Prune(now time.Time) []Notification {
	var expired []Notification
	q.items = slices.DeleteFunc(q.items, func(n Notification) bool {
		if !n.ExpiresAt.After(now) {
			expired = append(expired, n)
			return true
		}
		return false
	})
	return expired
}

// Items returns the live notifications in insertion order.
func (q Queue) Items() []Notification {
	return slices.Clone(q.items)
}

func (q Queue) Len() int { return len(q.items) }

func (q Queue) Contains(id string) bool {
	return slices.ContainsFunc(q.items, func(n Notification) bool { return n.ID == id })
}
