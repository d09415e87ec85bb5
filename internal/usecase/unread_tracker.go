package usecase

import (
	"context"
	"sync"
	"time"

	"tallerhub/internal/domain/entity"
)

// ReadMarkerStore is the slice of the chat repository the tracker writes to.
type ReadMarkerStore interface {
	SetReadMarker(ctx context.Context, workOrderID, uid string, at time.Time) error
}

// UnreadTracker owns the single unread computation and the debounced
// read-marker write. Real-time listeners fire in bursts on initial sync, so
// writes within the debounce window are silently skipped; the skipped write
// is harmless because a later one lands with a newer timestamp anyway.
type UnreadTracker struct {
	store    ReadMarkerStore
	debounce time.Duration
	now      func() time.Time

	mu         sync.Mutex
	lastWrites map[string]time.Time // (workOrderID, viewer) -> last write
}

func NewUnreadTracker(store ReadMarkerStore, debounce time.Duration) *UnreadTracker {
	return &UnreadTracker{
		store:      store,
		debounce:   debounce,
		now:        time.Now,
		lastWrites: make(map[string]time.Time),
	}
}

// IsUnread reports whether a chat holds messages the viewer has not seen.
// A viewer is never shown their own last message as unread, and a chat with
// no identified last sender is treated as read.
func IsUnread(chat *entity.Chat, marker *entity.ReadMarker, viewerID string) bool {
	if chat == nil || chat.LastSenderUID == "" || chat.LastSenderUID == viewerID {
		return false
	}

	var lastRead time.Time
	if marker != nil {
		lastRead = marker.LastReadAt
	}

	return chat.UpdatedAt.After(lastRead)
}

// MarkRead advances the viewer's read marker, unless a write for the same
// chat happened within the debounce window. The marker only ever moves
// forward: every write carries the current clock reading.
func (t *UnreadTracker) MarkRead(ctx context.Context, workOrderID, viewerID string) error {
	key := workOrderID + ":" + viewerID

	t.mu.Lock()
	now := t.now()
	if last, ok := t.lastWrites[key]; ok && now.Sub(last) < t.debounce {
		t.mu.Unlock()
		return nil
	}
	t.lastWrites[key] = now
	t.mu.Unlock()

	return t.store.SetReadMarker(ctx, workOrderID, viewerID, now)
}
