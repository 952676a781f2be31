package memory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qrave1/ListenRoom/internal/domain/models"
	"github.com/qrave1/ListenRoom/internal/domain/runtime"
)

func completePatch(owner uuid.UUID, members ...runtime.Member) runtime.SessionPatch {
	return runtime.SessionPatch{
		Name:     runtime.Ptr("room"),
		Owner:    runtime.Ptr(owner),
		Playlist: runtime.Ptr([]models.Song{{ID: uuid.New(), Length: 100}}),
		Members:  runtime.Ptr(members),
	}
}

func TestSessionRepository_UpsertIncompleteOnAbsentRoomIsNoop(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository()
	roomID := uuid.New()

	s, ok := repo.Upsert(ctx, roomID, runtime.SessionPatch{Paused: runtime.Ptr(false)})
	assert.False(t, ok)
	assert.Nil(t, s)

	_, ok = repo.Get(ctx, roomID)
	assert.False(t, ok)
}

func TestSessionRepository_UpsertCreatesAndMerges(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository()
	roomID, owner := uuid.New(), uuid.New()

	created, ok := repo.Upsert(ctx, roomID, completePatch(owner, runtime.Member{ID: owner}))
	require.True(t, ok)
	assert.Equal(t, roomID, created.ID)
	assert.Equal(t, 0, created.Cursor)
	assert.True(t, created.Paused)

	updated, ok := repo.Upsert(ctx, roomID, runtime.SessionPatch{
		Paused:        runtime.Ptr(false),
		SecondsPlayed: runtime.Ptr(float64(30)),
	})
	require.True(t, ok)
	assert.False(t, updated.Paused)
	assert.Equal(t, float64(30), updated.SecondsPlayed)
	assert.Equal(t, "room", updated.Name)

	got, ok := repo.Get(ctx, roomID)
	require.True(t, ok)
	assert.Equal(t, updated, got)
}

func TestSessionRepository_LastMemberLeavingRemovesSession(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository()
	roomID, owner := uuid.New(), uuid.New()

	_, ok := repo.Upsert(ctx, roomID, completePatch(owner, runtime.Member{ID: owner}))
	require.True(t, ok)

	s, ok := repo.Upsert(ctx, roomID, runtime.SessionPatch{Members: runtime.Ptr([]runtime.Member{})})
	assert.False(t, ok)
	assert.Nil(t, s)

	_, ok = repo.Get(ctx, roomID)
	assert.False(t, ok)
	assert.Empty(t, repo.List(ctx))
}

func TestSessionRepository_RoomsOf(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository()
	owner, guest := uuid.New(), uuid.New()
	first, second := uuid.New(), uuid.New()

	_, ok := repo.Upsert(ctx, first, completePatch(owner, runtime.Member{ID: owner}, runtime.Member{ID: guest}))
	require.True(t, ok)
	_, ok = repo.Upsert(ctx, second, completePatch(owner, runtime.Member{ID: owner}))
	require.True(t, ok)

	assert.ElementsMatch(t, []uuid.UUID{first, second}, repo.RoomsOf(ctx, owner))
	assert.Equal(t, []uuid.UUID{first}, repo.RoomsOf(ctx, guest))
	assert.Empty(t, repo.RoomsOf(ctx, uuid.New()))
	assert.Len(t, repo.List(ctx), 2)
}

func TestSessionRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository()
	roomID, owner := uuid.New(), uuid.New()

	s, ok := repo.Upsert(ctx, roomID, completePatch(owner, runtime.Member{ID: owner, Name: "owner"}))
	require.True(t, ok)

	s.Members[0].Name = "changed"
	s.Playlist = nil
	s.Paused = false

	got, ok := repo.Get(ctx, roomID)
	require.True(t, ok)
	assert.Equal(t, "owner", got.Members[0].Name)
	assert.Len(t, got.Playlist, 1)
	assert.True(t, got.Paused)
}

func TestSessionRepository_Remove(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository()
	roomID, owner := uuid.New(), uuid.New()

	_, ok := repo.Upsert(ctx, roomID, completePatch(owner, runtime.Member{ID: owner}))
	require.True(t, ok)

	repo.Remove(ctx, roomID)

	_, ok = repo.Get(ctx, roomID)
	assert.False(t, ok)

	// повторное удаление ничего не ломает
	repo.Remove(ctx, roomID)
}
