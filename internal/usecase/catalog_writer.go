package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/qrave1/ListenRoom/internal/application/constant"
	"github.com/qrave1/ListenRoom/internal/application/metric"
	"github.com/qrave1/ListenRoom/internal/infra/adapters/postgres/repository"
)

// WriteThrough сохраняет изменения живой сессии в базу, не дожидаясь результата
type WriteThrough interface {
	WritePlaylist(roomID uuid.UUID, songIDs []uuid.UUID)
	WriteAdmins(roomID uuid.UUID, admins []uuid.UUID)
}

const (
	writePlaylist = "playlist"
	writeAdmins   = "admins"
)

type writeJob struct {
	kind   string
	roomID uuid.UUID
	ids    []uuid.UUID
}

// CatalogWriter - очередь записей в базу с одним воркером, порядок записей сохраняется.
// Переполненная очередь и ошибки базы только логируются: живое состояние уже изменено
// и разослано, откатывать его никто не будет.
type CatalogWriter struct {
	rooms   repository.RoomRepository
	jobs    chan writeJob
	timeout time.Duration
}

func NewCatalogWriter(rooms repository.RoomRepository, queueSize int, timeout time.Duration) *CatalogWriter {
	if queueSize <= 0 {
		queueSize = 1
	}

	return &CatalogWriter{
		rooms:   rooms,
		jobs:    make(chan writeJob, queueSize),
		timeout: timeout,
	}
}

func (w *CatalogWriter) WritePlaylist(roomID uuid.UUID, songIDs []uuid.UUID) {
	w.enqueue(writeJob{kind: writePlaylist, roomID: roomID, ids: append([]uuid.UUID(nil), songIDs...)})
}

func (w *CatalogWriter) WriteAdmins(roomID uuid.UUID, admins []uuid.UUID) {
	w.enqueue(writeJob{kind: writeAdmins, roomID: roomID, ids: append([]uuid.UUID(nil), admins...)})
}

func (w *CatalogWriter) enqueue(job writeJob) {
	select {
	case w.jobs <- job:
	default:
		metric.RecordWriteThrough(job.kind, "dropped")
		slog.Error(
			"write-through queue is full, job dropped",
			slog.String(constant.Kind, job.kind),
			slog.Any(constant.RoomID, job.roomID),
		)
	}
}

// Run обрабатывает записи до отмены ctx, после чего дописывает то, что уже в очереди
func (w *CatalogWriter) Run(ctx context.Context) {
	for {
		select {
		case job := <-w.jobs:
			w.exec(ctx, job)
		case <-ctx.Done():
			w.drain()
			return
		}
	}
}

func (w *CatalogWriter) drain() {
	for {
		select {
		case job := <-w.jobs:
			w.exec(context.Background(), job)
		default:
			return
		}
	}
}

func (w *CatalogWriter) exec(ctx context.Context, job writeJob) {
	jobCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), w.timeout)
	defer cancel()

	var err error

	switch job.kind {
	case writePlaylist:
		err = w.rooms.WritePlaylist(jobCtx, job.roomID, job.ids)
	case writeAdmins:
		err = w.rooms.SetAdmins(jobCtx, job.roomID, job.ids)
	}

	if err != nil {
		metric.RecordWriteThrough(job.kind, "failed")
		slog.Error(
			"write-through to catalog",
			slog.String(constant.Kind, job.kind),
			slog.Any(constant.RoomID, job.roomID),
			slog.Any(constant.Error, err),
		)

		return
	}

	metric.RecordWriteThrough(job.kind, "ok")
}
