package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"gocoach/internal/common"
)

type receivedFrame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// fakeInbox records what the hub sends to one user session.
type fakeInbox struct {
	id     string
	userID uint64

	mu        sync.Mutex
	frames    []receivedFrame
	closed    bool
	closeCode int
	broken    bool
}

func newInbox(userID uint64) *fakeInbox {
	return &fakeInbox{id: fmt.Sprintf("session-%d", userID), userID: userID}
}

func (f *fakeInbox) ID() string     { return f.id }
func (f *fakeInbox) UserID() uint64 { return f.userID }

func (f *fakeInbox) Send(payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.broken || f.closed {
		return ErrConnectionClosed
	}
	var frame receivedFrame
	if err := json.Unmarshal(payload, &frame); err != nil {
		return err
	}
	f.frames = append(f.frames, frame)
	return nil
}

func (f *fakeInbox) Close(code int, _ string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	f.closeCode = code
}

func (f *fakeInbox) events() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.frames))
	for _, fr := range f.frames {
		out = append(out, fr.Event)
	}
	return out
}

// last decodes the data of the most recent frame with the given event name.
func (f *fakeInbox) last(t *testing.T, event string, dst any) {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.frames) - 1; i >= 0; i-- {
		if f.frames[i].Event == event {
			require.NoError(t, json.Unmarshal(f.frames[i].Data, dst))
			return
		}
	}
	t.Fatalf("no %q frame received, got %v", event, f.frames)
}

func (f *fakeInbox) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames = nil
}

// staticMembership maps conversation ids to participant ids.
type staticMembership map[uint64][]uint64

func (m staticMembership) IsParticipant(_ context.Context, conversationID, userID uint64) (bool, error) {
	ids, ok := m[conversationID]
	if !ok {
		return false, nil
	}
	for _, id := range ids {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

func (m staticMembership) ParticipantIDs(_ context.Context, conversationID uint64) ([]uint64, error) {
	ids, ok := m[conversationID]
	if !ok {
		return nil, fmt.Errorf("%w: conversation %d", common.ErrNotFound, conversationID)
	}
	return ids, nil
}

type staticUnread map[uint64]int64

func (u staticUnread) UnreadCount(_ context.Context, userID uint64) (int64, error) {
	if n, ok := u[userID]; ok {
		return n, nil
	}
	return 0, errors.New("unread store unavailable")
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func member(id uint64) common.Principal {
	return common.Principal{UserID: id, Role: common.RolePlayer}
}

var adminPrincipal = common.Principal{UserID: 1, Role: common.RoleAdmin}
