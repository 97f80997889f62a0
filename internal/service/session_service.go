package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SakshamGunj/pos-sub001/internal/dto"
	"github.com/SakshamGunj/pos-sub001/internal/model"
	"github.com/SakshamGunj/pos-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// activeHintKey caches the current active session id in redis so a reloaded
// client can re-attach without a full query. Advisory only — the sessions
// table is always the source of truth.
const activeHintKey = "sessions:active_hint"

type SessionService interface {
	// Start opens a new shift. Fails with ErrSessionConflict while another
	// session is active — either via the pre-check or the partial unique
	// index when two terminals race.
	Start(ctx context.Context, userID string) (*dto.SessionResponse, error)
	// End closes the active shift, freezing its totals. Notes are settable
	// only here.
	End(ctx context.Context, req dto.EndSessionRequest) (*dto.SessionResponse, error)
	// GetActive returns the active session, or nil when none is open.
	GetActive(ctx context.Context) (*dto.SessionResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.SessionResponse, error)
	List(ctx context.Context, page, limit int) (*dto.SessionListResponse, error)
	// ActiveHint returns the cached active session id, discarding hints that
	// point at a closed or missing session.
	ActiveHint(ctx context.Context) (*string, error)
}

type sessionService struct {
	repo repository.SessionRepository
	rdb  *redis.Client // optional; nil disables the hint cache
	now  func() time.Time
}

func NewSessionService(repo repository.SessionRepository, rdb *redis.Client) SessionService {
	return &sessionService{repo: repo, rdb: rdb, now: time.Now}
}

func (s *sessionService) Start(ctx context.Context, userID string) (*dto.SessionResponse, error) {
	if userID == "" {
		userID = "anonymous"
	}

	// Pre-check for a friendly error; the partial unique index is the
	// authoritative guard when two starts race.
	if _, err := s.repo.FindActive(ctx); err == nil {
		return nil, ErrSessionConflict
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("querying active session: %w", err)
	}

	sess := &model.Session{
		UserID:    userID,
		StartTime: s.now().UTC(),
		IsActive:  true,
	}
	if err := s.repo.Create(ctx, sess); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSessionConflict
		}
		return nil, fmt.Errorf("creating session: %w", err)
	}

	s.setHint(ctx, sess.ID.String())
	return s.toResponse(sess), nil
}

func (s *sessionService) End(ctx context.Context, req dto.EndSessionRequest) (*dto.SessionResponse, error) {
	active, err := s.repo.FindActive(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("querying active session: %w", err)
	}

	notes := req.Notes
	if notes != nil && *notes == "" {
		notes = nil
	}

	endTime := s.now().UTC()
	if err := s.repo.Close(ctx, active.ID, endTime, notes); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Closed by another terminal between the read and the update.
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("closing session: %w", err)
	}

	s.dropHint(ctx)

	closed, err := s.repo.FindByID(ctx, active.ID)
	if err != nil {
		return nil, fmt.Errorf("reloading closed session: %w", err)
	}
	return s.toResponse(closed), nil
}

func (s *sessionService) GetActive(ctx context.Context) (*dto.SessionResponse, error) {
	n, err := s.repo.CountActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting active sessions: %w", err)
	}
	if n == 0 {
		s.dropHint(ctx)
		return nil, nil
	}
	if n > 1 {
		// Should be impossible under the partial unique index. Pick the
		// earliest deterministically and flag for investigation.
		log.Warn().Int64("count", n).Msg("multiple active sessions found, taking earliest")
	}

	active, err := s.repo.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("querying active session: %w", err)
	}

	s.setHint(ctx, active.ID.String())
	return s.toResponse(active), nil
}

func (s *sessionService) GetByID(ctx context.Context, id uuid.UUID) (*dto.SessionResponse, error) {
	sess, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("loading session: %w", err)
	}
	return s.toResponse(sess), nil
}

func (s *sessionService) List(ctx context.Context, page, limit int) (*dto.SessionListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	sessions, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}

	items := make([]dto.SessionResponse, 0, len(sessions))
	for i := range sessions {
		items = append(items, *s.toResponse(&sessions[i]))
	}
	return &dto.SessionListResponse{Data: items, Total: total, Page: page, Limit: limit}, nil
}

func (s *sessionService) ActiveHint(ctx context.Context) (*string, error) {
	if s.rdb == nil {
		return nil, nil
	}
	id, err := s.rdb.Get(ctx, activeHintKey).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading session hint: %w", err)
	}

	// A hint pointing at a closed or missing session is stale — discard it.
	sid, err := uuid.Parse(id)
	if err != nil {
		s.dropHint(ctx)
		return nil, nil
	}
	sess, err := s.repo.FindByID(ctx, sid)
	if err != nil || !sess.IsActive {
		s.dropHint(ctx)
		return nil, nil
	}
	return &id, nil
}

// ── Hint cache ────────────────────────────────────────────────────────────────
// Cache failures are logged and ignored — the hint is never load-bearing.

func (s *sessionService) setHint(ctx context.Context, id string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Set(ctx, activeHintKey, id, 0).Err(); err != nil {
		log.Warn().Err(err).Msg("failed to cache active session hint")
	}
}

func (s *sessionService) dropHint(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, activeHintKey).Err(); err != nil {
		log.Warn().Err(err).Msg("failed to drop active session hint")
	}
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// FormatDuration renders an elapsed time as "1h 30m".
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	return fmt.Sprintf("%dh %dm", int(d.Hours()), int(d.Minutes())%60)
}

func (s *sessionService) toResponse(sess *model.Session) *dto.SessionResponse {
	resp := &dto.SessionResponse{
		ID:       sess.ID.String(),
		UserID:   sess.UserID,
		IsActive: sess.IsActive,
		Totals: dto.MethodTotals{
			Cash:  sess.CashTotal,
			Upi:   sess.UpiTotal,
			Bank:  sess.BankTotal,
			Total: sess.TotalRevenue,
		},
		Notes:     sess.Notes,
		StartTime: sess.StartTime.UTC().Format("2006-01-02T15:04:05Z"),
		Duration:  FormatDuration(sess.Duration(s.now().UTC())),
	}
	if sess.EndTime != nil {
		t := sess.EndTime.UTC().Format("2006-01-02T15:04:05Z")
		resp.EndTime = &t
	}
	return resp
}
