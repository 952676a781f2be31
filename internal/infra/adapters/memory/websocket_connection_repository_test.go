package memory

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	mu      sync.Mutex
	written []any
	block   chan struct{}
	fail    bool
}

func (c *fakeConn) WriteJSON(v any) error {
	if c.block != nil {
		<-c.block
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.fail {
		return errors.New("broken pipe")
	}

	c.written = append(c.written, v)

	return nil
}

func (c *fakeConn) messages() []any {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]any(nil), c.written...)
}

func TestWSConnectionRepository_PublishReachesOnlyRoomMembers(t *testing.T) {
	repo := NewWSConnectionRepository(8)
	roomID := uuid.New()

	inside, outside := &fakeConn{}, &fakeConn{}
	insideID, outsideID := uuid.New(), uuid.New()

	repo.Add(insideID, inside)
	repo.Add(outsideID, outside)
	repo.Join(roomID, insideID)

	repo.Publish(roomID, "hello")

	require.Eventually(t, func() bool { return len(inside.messages()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []any{"hello"}, inside.messages())
	assert.Empty(t, outside.messages())
}

func TestWSConnectionRepository_SendKeepsOrder(t *testing.T) {
	repo := NewWSConnectionRepository(16)
	conn, connID := &fakeConn{}, uuid.New()
	repo.Add(connID, conn)

	for i := 0; i < 10; i++ {
		repo.Send(connID, i)
	}

	require.Eventually(t, func() bool { return len(conn.messages()) == 10 }, time.Second, 5*time.Millisecond)
	for i, msg := range conn.messages() {
		assert.Equal(t, i, msg)
	}
}

func TestWSConnectionRepository_SlowConnectionDoesNotBlockSender(t *testing.T) {
	repo := NewWSConnectionRepository(1)
	roomID := uuid.New()

	slow := &fakeConn{block: make(chan struct{})}
	fast := &fakeConn{}
	slowID, fastID := uuid.New(), uuid.New()

	repo.Add(slowID, slow)
	repo.Add(fastID, fast)
	repo.Join(roomID, slowID)
	repo.Join(roomID, fastID)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 20; i++ {
			repo.Publish(roomID, i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on slow connection")
	}

	require.Eventually(t, func() bool { return len(fast.messages()) > 0 }, time.Second, 5*time.Millisecond)

	close(slow.block)
	repo.Remove(slowID)
}

func TestWSConnectionRepository_RoomsAndRemove(t *testing.T) {
	repo := NewWSConnectionRepository(4)
	first, second := uuid.New(), uuid.New()
	conn, connID := &fakeConn{}, uuid.New()

	repo.Add(connID, conn)
	repo.Join(first, connID)
	repo.Join(second, connID)
	assert.ElementsMatch(t, []uuid.UUID{first, second}, repo.Rooms(connID))

	repo.Leave(first, connID)
	assert.Equal(t, []uuid.UUID{second}, repo.Rooms(connID))

	repo.Remove(connID)
	assert.Nil(t, repo.Rooms(connID))

	// после удаления отправка молча игнорируется
	repo.Send(connID, "late")
	repo.Publish(second, "late")
	repo.Remove(connID)
	assert.Empty(t, conn.messages())
}

func TestWSConnectionRepository_LeaveAll(t *testing.T) {
	repo := NewWSConnectionRepository(4)
	roomID := uuid.New()

	a, b := &fakeConn{}, &fakeConn{}
	aID, bID := uuid.New(), uuid.New()
	repo.Add(aID, a)
	repo.Add(bID, b)
	repo.Join(roomID, aID)
	repo.Join(roomID, bID)
	assert.ElementsMatch(t, []uuid.UUID{aID, bID}, repo.Conns(roomID))

	repo.LeaveAll(roomID)
	assert.Empty(t, repo.Conns(roomID))
	repo.Publish(roomID, "gone")
	repo.Send(aID, "direct")

	require.Eventually(t, func() bool { return len(a.messages()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []any{"direct"}, a.messages())
	assert.Empty(t, repo.Rooms(aID))
	assert.Empty(t, b.messages())
}

func TestWSConnectionRepository_WriteErrorDoesNotStopWriter(t *testing.T) {
	repo := NewWSConnectionRepository(4)
	conn, connID := &fakeConn{fail: true}, uuid.New()
	repo.Add(connID, conn)

	repo.Send(connID, "lost")

	conn.mu.Lock()
	conn.fail = false
	conn.mu.Unlock()

	require.Eventually(t, func() bool {
		repo.Send(connID, "ok")
		return len(conn.messages()) > 0
	}, time.Second, 10*time.Millisecond)
}
