package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/qrave1/ListenRoom/internal/application/constant"
	"github.com/qrave1/ListenRoom/internal/application/metric"
	"github.com/qrave1/ListenRoom/internal/domain"
	"github.com/qrave1/ListenRoom/internal/domain/events"
	"github.com/qrave1/ListenRoom/internal/domain/models"
	"github.com/qrave1/ListenRoom/internal/domain/policy"
	"github.com/qrave1/ListenRoom/internal/domain/runtime"
	"github.com/qrave1/ListenRoom/internal/infra/adapters/memory"
	"github.com/qrave1/ListenRoom/internal/infra/adapters/postgres/repository"
)

// SessionUsecase - протокол живой комнаты. Все изменения сессий выполняются в EventLoop,
// чтения из базы (гидрация, поиск песни или пользователя) делаются до постановки в очередь.
type SessionUsecase interface {
	// Handle обрабатывает событие соединения. Ошибки уходят только этому соединению.
	Handle(ctx context.Context, connID, actorID uuid.UUID, msg events.Message)
	// Disconnect выводит пользователя из всех комнат, куда входило соединение
	Disconnect(ctx context.Context, connID, actorID uuid.UUID)

	// ChangeRole - общее ядро для socket и REST, возвращает текст для ответа
	ChangeRole(ctx context.Context, roomID, actorID, targetID uuid.UUID, action policy.Action) (string, error)
	// ReplacePlaylist подменяет плейлист живой сессии, если она есть
	ReplacePlaylist(ctx context.Context, roomID, actorID uuid.UUID, playlist []models.Song) error
	// CloseRoom закрывает живую сессию, участники получают left-room
	CloseRoom(ctx context.Context, roomID uuid.UUID) error

	Snapshot(ctx context.Context, roomID uuid.UUID) (*runtime.RoomSession, bool)
	LiveUsers(ctx context.Context) (map[uuid.UUID][]runtime.Member, error)
}

type request struct {
	connID uuid.UUID
	actor  uuid.UUID
	in     *events.Intent

	profile *runtime.Member
	meta    *models.RoomMetadata
	song    *models.Song
	target  *models.User
}

// route: prepare выполняется вне цикла, apply - внутри, со свежим снимком сессии.
// Если задан action, сессия обязана существовать и пройти проверку политики.
type route struct {
	action  policy.Action
	prepare func(ctx context.Context, req *request) error
	apply   func(ctx context.Context, s *runtime.RoomSession, req *request) error
}

type sessionUsecase struct {
	sessions    memory.SessionRepository
	broadcaster memory.WebsocketConnectionRepository
	writer      WriteThrough

	roomRepo repository.RoomRepository
	songRepo repository.SongRepository
	userRepo repository.UserRepository

	loop   *EventLoop
	routes map[string]route
	now    func() time.Time

	// connUsers хранит map[conn_id]user_id, трогается только внутри loop
	connUsers map[uuid.UUID]uuid.UUID
}

func NewSessionUsecase(
	loop *EventLoop,
	sessions memory.SessionRepository,
	broadcaster memory.WebsocketConnectionRepository,
	writer WriteThrough,
	roomRepo repository.RoomRepository,
	songRepo repository.SongRepository,
	userRepo repository.UserRepository,
) SessionUsecase {
	u := &sessionUsecase{
		sessions:    sessions,
		broadcaster: broadcaster,
		writer:      writer,
		roomRepo:    roomRepo,
		songRepo:    songRepo,
		userRepo:    userRepo,
		loop:        loop,
		now:         time.Now,
		connUsers:   make(map[uuid.UUID]uuid.UUID),
	}

	u.routes = map[string]route{
		events.JoinRoom:       {prepare: u.prepareJoin, apply: u.join},
		events.LeaveRoom:      {apply: u.leave},
		events.PlayPause:      {action: policy.PlayPause, apply: u.playPause},
		events.Seek:           {action: policy.Seek, apply: u.seek},
		events.Next:           {action: policy.Next, apply: u.step(events.Next, 1)},
		events.Prev:           {action: policy.Prev, apply: u.step(events.Prev, -1)},
		events.PlaySong:       {action: policy.PlaySong, apply: u.playSong},
		events.Sync:           {action: policy.Sync, apply: u.sync},
		events.UpdatePlaylist: {action: policy.UpdatePlaylist, apply: u.updatePlaylist},
		events.AddSong:        {action: policy.AddSong, prepare: u.prepareSong, apply: u.addSong},
		events.Chat:           {action: policy.Chat, apply: u.chat},

		events.PromoteAdmin:      u.roleRoute(policy.PromoteAdmin),
		events.DemoteAdmin:       u.roleRoute(policy.DemoteAdmin),
		events.PromoteController: u.roleRoute(policy.PromoteController),
		events.DemoteController:  u.roleRoute(policy.DemoteController),
	}

	return u
}

func (u *sessionUsecase) Handle(ctx context.Context, connID, actorID uuid.UUID, msg events.Message) {
	err := u.handle(ctx, connID, actorID, msg)

	outcome := "ok"
	if err != nil {
		outcome = domain.KindOf(err).String()
		u.sendError(connID, err)

		log := slog.Warn
		if domain.KindOf(err) == domain.KindUnknown {
			log = slog.Error
		}

		log(
			"handle room event",
			slog.String(constant.EventType, msg.Type),
			slog.Any(constant.UserID, actorID),
			slog.Any(constant.ConnID, connID),
			slog.Any(constant.Error, err),
		)
	}

	metric.RecordSessionEvent(msg.Type, outcome)
}

func (u *sessionUsecase) handle(ctx context.Context, connID, actorID uuid.UUID, msg events.Message) error {
	r, ok := u.routes[msg.Type]
	if !ok {
		return domain.InvalidArgument("unknown event type %q", msg.Type)
	}

	in, err := events.DecodeIntent(msg.Data)
	if err != nil {
		return domain.InvalidArgument("malformed %s payload", msg.Type)
	}

	switch in.UserID {
	case uuid.Nil:
		in.UserID = actorID
	case actorID:
	default:
		return domain.Forbidden("userId does not match the authenticated user")
	}

	if in.RoomID == uuid.Nil {
		return domain.InvalidArgument("roomId required")
	}

	req := &request{connID: connID, actor: actorID, in: in}

	if r.prepare != nil {
		if err = r.prepare(ctx, req); err != nil {
			return err
		}
	}

	var opErr error

	err = u.loop.Do(ctx, func() {
		s, live := u.sessions.Get(ctx, in.RoomID)

		if r.action != "" {
			if !live {
				opErr = domain.NotFound("Room not found")
				return
			}

			if opErr = policy.Authorize(s, actorID, r.action); opErr != nil {
				return
			}
		}

		opErr = r.apply(ctx, s, req)
	})
	if err != nil {
		return fmt.Errorf("run %s: %w", msg.Type, err)
	}

	return opErr
}

func (u *sessionUsecase) Disconnect(ctx context.Context, connID, actorID uuid.UUID) {
	ctx = context.WithoutCancel(ctx)

	err := u.loop.Do(ctx, func() {
		for _, roomID := range u.broadcaster.Rooms(connID) {
			u.broadcaster.Leave(roomID, connID)

			// пользователь остается участником, пока в комнате есть другое его соединение
			if len(u.userConns(roomID, actorID)) > 0 {
				continue
			}

			u.removeMember(ctx, roomID, actorID)
		}

		delete(u.connUsers, connID)
	})
	if err != nil {
		slog.Error(
			"leave rooms on disconnect",
			slog.Any(constant.ConnID, connID),
			slog.Any(constant.UserID, actorID),
			slog.Any(constant.Error, err),
		)
	}
}

func (u *sessionUsecase) prepareJoin(ctx context.Context, req *request) error {
	in := req.in

	profile := runtime.Member{
		ID:           req.actor,
		Name:         in.Name,
		Email:        in.Email,
		ProfileImage: in.ProfileImage,
	}

	if profile.Name == "" {
		user, err := u.userRepo.GetByID(ctx, req.actor)
		if err != nil {
			return fmt.Errorf("get joining user: %w", err)
		}

		profile.Name = user.Name
		profile.Email = user.Email
		profile.ProfileImage = user.ProfileImage.String
	}

	req.profile = &profile

	if _, live := u.sessions.Get(ctx, in.RoomID); live {
		return nil
	}

	meta, err := u.roomRepo.FindMetadata(ctx, in.RoomID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NotFound("Room not found in the database")
		}

		return fmt.Errorf("find room metadata: %w", err)
	}

	req.meta = meta

	return nil
}

func (u *sessionUsecase) join(ctx context.Context, s *runtime.RoomSession, req *request) error {
	roomID := req.in.RoomID
	member := *req.profile

	u.connUsers[req.connID] = req.actor

	for _, other := range u.sessions.RoomsOf(ctx, req.actor) {
		if other != roomID {
			u.removeMember(ctx, other, req.actor)
		}
	}

	var patch runtime.SessionPatch

	if s == nil {
		// сессия закрылась между подготовкой и выполнением, метаданных у нас нет
		if req.meta == nil {
			return domain.Conflict("room session changed while joining, please retry")
		}

		patch = hydrate(req.meta, member, u.now())
	} else {
		patch = runtime.SessionPatch{Members: runtime.Ptr(append(s.Members, member))}
	}

	updated, ok := u.sessions.Upsert(ctx, roomID, patch)
	if !ok {
		return domain.Conflict("could not open room session")
	}

	u.broadcaster.Join(roomID, req.connID)

	u.send(req.connID, events.JoinedRoom, events.JoinedRoomEvent{RoomState: events.NewRoomState(updated)})
	u.notify(roomID, fmt.Sprintf("%s joined the room", member.Name), "")
	u.publishUsers(updated)

	return nil
}

// hydrate - начальное состояние при первом входе: первый трек, пауза, ноль секунд
func hydrate(meta *models.RoomMetadata, member runtime.Member, now time.Time) runtime.SessionPatch {
	cursor := runtime.NoTrack
	if len(meta.Playlist) > 0 {
		cursor = 0
	}

	return runtime.SessionPatch{
		Name:          runtime.Ptr(meta.Name),
		Owner:         runtime.Ptr(meta.OwnerID),
		Admins:        runtime.Ptr(meta.Admins),
		Controllers:   runtime.Ptr([]uuid.UUID{}),
		Playlist:      runtime.Ptr(append([]models.Song{}, meta.Playlist...)),
		Cursor:        runtime.Ptr(cursor),
		Paused:        runtime.Ptr(true),
		SecondsPlayed: runtime.Ptr(float64(0)),
		LastChangedAt: runtime.Ptr(now),
		Members:       runtime.Ptr([]runtime.Member{member}),
		Chats:         runtime.Ptr([]runtime.ChatEntry{}),
	}
}

func (u *sessionUsecase) leave(ctx context.Context, s *runtime.RoomSession, req *request) error {
	if s == nil {
		return domain.NotFound("Room not found")
	}

	if !s.HasMember(req.actor) {
		return domain.NotFound("user not found in the room: %s", s.Name)
	}

	conns := u.removeMember(ctx, s.ID, req.actor)
	if !slices.Contains(conns, req.connID) {
		conns = append(conns, req.connID)
	}

	for _, connID := range conns {
		u.send(connID, events.LeftRoom, events.LeftRoomEvent{ID: s.ID})
	}

	return nil
}

// removeMember убирает пользователя из комнаты вместе со всеми его подписками на нее
// и закрывает комнату, если участников не осталось. Возвращает отписанные соединения.
func (u *sessionUsecase) removeMember(ctx context.Context, roomID, userID uuid.UUID) []uuid.UUID {
	conns := u.userConns(roomID, userID)
	for _, connID := range conns {
		u.broadcaster.Leave(roomID, connID)
	}

	s, ok := u.sessions.Get(ctx, roomID)
	if !ok {
		return conns
	}

	member, ok := s.Member(userID)
	if !ok {
		return conns
	}

	members := slices.DeleteFunc(s.Members, func(m runtime.Member) bool { return m.ID == userID })

	updated, live := u.sessions.Upsert(ctx, roomID, runtime.SessionPatch{Members: &members})
	if !live {
		u.broadcaster.LeaveAll(roomID)
		slog.Info("room session closed", slog.Any(constant.RoomID, roomID))

		return conns
	}

	u.notify(roomID, fmt.Sprintf("%s left the room", member.Name), "")
	u.publishUsers(updated)

	return conns
}

// userConns - соединения пользователя, подписанные на комнату
func (u *sessionUsecase) userConns(roomID, userID uuid.UUID) []uuid.UUID {
	var conns []uuid.UUID

	for _, connID := range u.broadcaster.Conns(roomID) {
		if u.connUsers[connID] == userID {
			conns = append(conns, connID)
		}
	}

	return conns
}

func (u *sessionUsecase) playPause(ctx context.Context, s *runtime.RoomSession, req *request) error {
	song, ok := s.CurrentSong()
	if !ok {
		return domain.InvalidArgument("playlist is empty")
	}

	paused := !s.Paused

	if _, err := u.upsert(ctx, s.ID, runtime.SessionPatch{Paused: &paused}); err != nil {
		return err
	}

	verb := "played"
	if paused {
		verb = "paused"
	}

	name := actorName(s, req.actor)

	u.publish(s.ID, events.PlayPause, events.PlayPauseEvent{Paused: paused})
	u.notify(
		s.ID,
		fmt.Sprintf("%s by %s", verb, name),
		fmt.Sprintf("%s %s the song: %s", name, verb, song.Title),
	)

	return nil
}

func (u *sessionUsecase) seek(ctx context.Context, s *runtime.RoomSession, req *request) error {
	if !req.in.SeekSeconds.Valid {
		return domain.InvalidArgument("seekSeconds required")
	}

	song, ok := s.CurrentSong()
	if !ok {
		return domain.NotFound("playlist is empty")
	}

	target := req.in.SeekSeconds.Whole()
	if target < 0 || target > song.Length {
		return domain.InvalidArgument("Can not seek to %dseconds for a %dsecond song", target, song.Length)
	}

	now := u.now()

	_, err := u.upsert(ctx, s.ID, runtime.SessionPatch{
		SecondsPlayed: runtime.Ptr(float64(target)),
		Paused:        runtime.Ptr(false),
		LastChangedAt: runtime.Ptr(now),
	})
	if err != nil {
		return err
	}

	at := formatMinutesSeconds(target)

	u.publish(s.ID, events.Seek, events.SeekEvent{
		LastChangedAt: now,
		Paused:        false,
		SecondsPlayed: float64(target),
	})
	u.notify(
		s.ID,
		fmt.Sprintf("Seeked to %s", at),
		fmt.Sprintf("%s seeked the song: %s to %s", actorName(s, req.actor), song.Title, at),
	)

	return nil
}

// step - next и prev. Опорная позиция берется из currentSongId клиента, иначе из курсора сервера.
func (u *sessionUsecase) step(eventType string, delta int) func(context.Context, *runtime.RoomSession, *request) error {
	return func(ctx context.Context, s *runtime.RoomSession, req *request) error {
		from := s.Cursor

		if req.in.CurrentSongID != uuid.Nil {
			from = s.IndexOfSong(req.in.CurrentSongID)
			if from == runtime.NoTrack {
				return domain.NotFound("Can not find current song in the playlist")
			}
		}

		if from == runtime.NoTrack {
			return domain.NotFound("playlist is empty")
		}

		updated, err := u.playAt(ctx, s, eventType, s.Step(from, delta))
		if err != nil {
			return err
		}

		song, _ := updated.CurrentSong()
		name := actorName(s, req.actor)

		if eventType == events.Next {
			u.notify(s.ID, fmt.Sprintf("Next song played by %s", name), fmt.Sprintf("%s played %q as a next song", name, song.Title))
		} else {
			u.notify(s.ID, fmt.Sprintf("Previous song played by %s", name), fmt.Sprintf("%s played %q as a previous song", name, song.Title))
		}

		return nil
	}
}

func (u *sessionUsecase) playSong(ctx context.Context, s *runtime.RoomSession, req *request) error {
	if req.in.SongID == uuid.Nil {
		return domain.InvalidArgument("songId required")
	}

	idx := s.IndexOfSong(req.in.SongID)
	if idx == runtime.NoTrack {
		return domain.NotFound("Can not find song in the playlist")
	}

	updated, err := u.playAt(ctx, s, events.PlaySong, idx)
	if err != nil {
		return err
	}

	song, _ := updated.CurrentSong()
	u.notify(s.ID, song.Title, fmt.Sprintf("%s played %q", actorName(s, req.actor), song.Title))

	return nil
}

// playAt ставит курсор на idx и запускает трек с начала
func (u *sessionUsecase) playAt(ctx context.Context, s *runtime.RoomSession, eventType string, idx int) (*runtime.RoomSession, error) {
	now := u.now()

	updated, err := u.upsert(ctx, s.ID, runtime.SessionPatch{
		Cursor:        runtime.Ptr(idx),
		SecondsPlayed: runtime.Ptr(float64(0)),
		Paused:        runtime.Ptr(false),
		LastChangedAt: runtime.Ptr(now),
	})
	if err != nil {
		return nil, err
	}

	u.publish(s.ID, eventType, events.TrackEvent{
		SecondsPlayed: 0,
		LastChangedAt: now,
		Paused:        false,
		CurrentSong:   updated.CurrentSongID(),
	})

	return updated, nil
}

func (u *sessionUsecase) sync(ctx context.Context, s *runtime.RoomSession, req *request) error {
	seconds := req.in.SecondsPlayed
	if !seconds.Valid {
		return domain.InvalidArgument("secondsPlayed required")
	}

	if seconds.Value < 0 {
		return domain.InvalidArgument("secondsPlayed must not be negative")
	}

	_, err := u.upsert(ctx, s.ID, runtime.SessionPatch{SecondsPlayed: runtime.Ptr(seconds.Value)})

	return err
}

func (u *sessionUsecase) updatePlaylist(ctx context.Context, s *runtime.RoomSession, req *request) error {
	if req.in.SongIDs == nil {
		return domain.InvalidArgument("songIds required")
	}

	playlist := make([]models.Song, 0, len(req.in.SongIDs))

	for _, id := range req.in.SongIDs {
		idx := slices.IndexFunc(s.Playlist, func(song models.Song) bool { return song.ID == id })
		if idx >= 0 {
			playlist = append(playlist, s.Playlist[idx])
		}
	}

	updated, err := u.setPlaylist(ctx, s, playlist)
	if err != nil {
		return err
	}

	u.writer.WritePlaylist(s.ID, updated.PlaylistIDs())

	u.publish(s.ID, events.UpdatePlaylist, playlistEvent(updated))
	u.notify(s.ID, "Playlist updated", fmt.Sprintf("%s updated the playlist", actorName(s, req.actor)))

	return nil
}

func (u *sessionUsecase) prepareSong(ctx context.Context, req *request) error {
	if req.in.Song == nil || req.in.Song.ID == uuid.Nil {
		return domain.InvalidArgument("song not found")
	}

	song, err := u.songRepo.GetByID(ctx, req.in.Song.ID)
	if err != nil {
		return fmt.Errorf("get added song: %w", err)
	}

	req.song = song

	return nil
}

func (u *sessionUsecase) addSong(ctx context.Context, s *runtime.RoomSession, req *request) error {
	updated, err := u.setPlaylist(ctx, s, append(s.Playlist, *req.song))
	if err != nil {
		return err
	}

	u.writer.WritePlaylist(s.ID, updated.PlaylistIDs())

	u.publish(s.ID, events.AddSong, playlistEvent(updated))
	u.notify(s.ID, "New song added", fmt.Sprintf("%s added %s", actorName(s, req.actor), req.song.Title))

	return nil
}

// setPlaylist меняет плейлист, оставляя курсор на текущем треке.
// Если текущий трек пропал, играет первый трек с начала.
func (u *sessionUsecase) setPlaylist(ctx context.Context, s *runtime.RoomSession, playlist []models.Song) (*runtime.RoomSession, error) {
	patch := runtime.SessionPatch{Playlist: &playlist}

	cursor, moved := relocateCursor(s, playlist)
	patch.Cursor = &cursor

	if moved {
		patch.SecondsPlayed = runtime.Ptr(float64(0))
		patch.LastChangedAt = runtime.Ptr(u.now())
	}

	return u.upsert(ctx, s.ID, patch)
}

func relocateCursor(s *runtime.RoomSession, playlist []models.Song) (int, bool) {
	current := s.CurrentSongID()

	if len(playlist) == 0 {
		return runtime.NoTrack, current != uuid.Nil
	}

	if current != uuid.Nil {
		if s.Cursor < len(playlist) && playlist[s.Cursor].ID == current {
			return s.Cursor, false
		}

		if idx := slices.IndexFunc(playlist, func(song models.Song) bool { return song.ID == current }); idx >= 0 {
			return idx, false
		}
	}

	return 0, true
}

func (u *sessionUsecase) chat(ctx context.Context, s *runtime.RoomSession, req *request) error {
	if strings.TrimSpace(req.in.Message) == "" {
		return domain.InvalidArgument("message required")
	}

	author, _ := s.Member(req.actor)

	ts := u.now()
	if req.in.Timestamp.Valid {
		ts = req.in.Timestamp.Time
	}

	chats := append(s.Chats, runtime.ChatEntry{User: author, Message: req.in.Message, Timestamp: ts})

	updated, err := u.upsert(ctx, s.ID, runtime.SessionPatch{Chats: &chats})
	if err != nil {
		return err
	}

	u.publish(s.ID, events.Chat, events.ChatEvent{Chats: updated.Chats})

	return nil
}

func (u *sessionUsecase) ReplacePlaylist(ctx context.Context, roomID, actorID uuid.UUID, playlist []models.Song) error {
	// через REST редактор может быть не в комнате, тогда имя берем из каталога
	editor := "someone"
	if user, err := u.userRepo.GetByID(ctx, actorID); err == nil {
		editor = user.Name
	}

	var opErr error

	err := u.loop.Do(ctx, func() {
		s, ok := u.sessions.Get(ctx, roomID)
		if !ok {
			return
		}

		var updated *runtime.RoomSession
		if updated, opErr = u.setPlaylist(ctx, s, playlist); opErr != nil {
			return
		}

		if m, ok := s.Member(actorID); ok {
			editor = m.Name
		}

		u.publish(roomID, events.UpdatePlaylist, playlistEvent(updated))
		u.notify(roomID, "Playlist updated", fmt.Sprintf("%s updated the playlist", editor))
	})
	if err != nil {
		return fmt.Errorf("replace live playlist: %w", err)
	}

	return opErr
}

func (u *sessionUsecase) CloseRoom(ctx context.Context, roomID uuid.UUID) error {
	err := u.loop.Do(ctx, func() {
		if _, ok := u.sessions.Get(ctx, roomID); !ok {
			return
		}

		u.sessions.Remove(ctx, roomID)
		u.publish(roomID, events.LeftRoom, events.LeftRoomEvent{ID: roomID})
		u.broadcaster.LeaveAll(roomID)

		slog.Info("room session closed", slog.Any(constant.RoomID, roomID))
	})
	if err != nil {
		return fmt.Errorf("close room session: %w", err)
	}

	return nil
}

func (u *sessionUsecase) Snapshot(ctx context.Context, roomID uuid.UUID) (*runtime.RoomSession, bool) {
	return u.sessions.Get(ctx, roomID)
}

func (u *sessionUsecase) LiveUsers(ctx context.Context) (map[uuid.UUID][]runtime.Member, error) {
	users := make(map[uuid.UUID][]runtime.Member)

	err := u.loop.Do(ctx, func() {
		for _, s := range u.sessions.List(ctx) {
			users[s.ID] = s.Members
		}
	})
	if err != nil {
		return nil, fmt.Errorf("list live users: %w", err)
	}

	return users, nil
}

func (u *sessionUsecase) upsert(ctx context.Context, roomID uuid.UUID, patch runtime.SessionPatch) (*runtime.RoomSession, error) {
	updated, ok := u.sessions.Upsert(ctx, roomID, patch)
	if !ok {
		return nil, domain.Conflict("room session closed")
	}

	return updated, nil
}

func (u *sessionUsecase) publishUsers(s *runtime.RoomSession) {
	u.publish(s.ID, events.UsersChange, events.UsersChangeEvent{Users: s.Members, RoomID: s.ID})
}

func (u *sessionUsecase) notify(roomID uuid.UUID, title, description string) {
	u.publish(roomID, events.Notification, events.NotificationEvent{Title: title, Description: description})
}

func (u *sessionUsecase) publish(roomID uuid.UUID, eventType string, payload any) {
	msg, err := events.NewMessage(eventType, payload)
	if err != nil {
		slog.Error("build room event", slog.String(constant.EventType, eventType), slog.Any(constant.Error, err))
		return
	}

	u.broadcaster.Publish(roomID, msg)
}

func (u *sessionUsecase) send(connID uuid.UUID, eventType string, payload any) {
	msg, err := events.NewMessage(eventType, payload)
	if err != nil {
		slog.Error("build event", slog.String(constant.EventType, eventType), slog.Any(constant.Error, err))
		return
	}

	u.broadcaster.Send(connID, msg)
}

func (u *sessionUsecase) sendError(connID uuid.UUID, err error) {
	message := "internal error"

	var de *domain.Error
	if errors.As(err, &de) {
		message = de.Message
	}

	u.send(connID, events.Error, events.ErrorEvent{Message: message})
}

func playlistEvent(s *runtime.RoomSession) events.PlaylistEvent {
	playlist := s.Playlist
	if playlist == nil {
		playlist = []models.Song{}
	}

	return events.PlaylistEvent{
		Playlist:    playlist,
		CurrentSong: s.CurrentSongID(),
		Paused:      s.Paused,
	}
}

func actorName(s *runtime.RoomSession, userID uuid.UUID) string {
	if m, ok := s.Member(userID); ok {
		return m.Name
	}

	return "someone"
}
