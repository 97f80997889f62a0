package repository

import (
	"context"
	"errors"
	"time"

	"github.com/SakshamGunj/pos-sub001/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrNoActiveRow is returned by IncrementTotalsTx when the guarded UPDATE
// matched no row, i.e. the session was closed (or removed) concurrently.
var ErrNoActiveRow = errors.New("no active session row matched")

type SessionRepository interface {
	Create(ctx context.Context, s *model.Session) error
	// FindActive returns the active session, or gorm.ErrRecordNotFound.
	// Ordered by start_time so a (theoretically impossible) duplicate
	// resolves deterministically to the earliest one.
	FindActive(ctx context.Context) (*model.Session, error)
	CountActive(ctx context.Context) (int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Session, error)
	Close(ctx context.Context, id uuid.UUID, endTime time.Time, notes *string) error
	List(ctx context.Context, page, limit int) ([]model.Session, int64, error)
	// IncrementTotalsTx atomically adds amount to the accumulator column for
	// the given payment method and to total_revenue, guarded by is_active.
	// Must run inside the same transaction that inserts the Transaction row.
	IncrementTotalsTx(tx *gorm.DB, id uuid.UUID, method model.PaymentMethod, amount decimal.Decimal) error
	DB() *gorm.DB // exposes the DB for transaction creation in the service layer
}

type sessionRepo struct{ db *gorm.DB }

func NewSessionRepository(db *gorm.DB) SessionRepository { return &sessionRepo{db: db} }

func (r *sessionRepo) DB() *gorm.DB { return r.db }

func (r *sessionRepo) Create(ctx context.Context, s *model.Session) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *sessionRepo) FindActive(ctx context.Context) (*model.Session, error) {
	var s model.Session
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("start_time ASC").
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *sessionRepo) CountActive(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Session{}).
		Where("is_active = ?", true).Count(&n).Error
	return n, err
}

func (r *sessionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Session, error) {
	var s model.Session
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Close flips the session to inactive exactly once. The is_active guard makes
// a double close a no-op at the store level (caller checks beforehand too).
func (r *sessionRepo) Close(ctx context.Context, id uuid.UUID, endTime time.Time, notes *string) error {
	res := r.db.WithContext(ctx).Model(&model.Session{}).
		Where("id = ? AND is_active = ?", id, true).
		Updates(map[string]interface{}{
			"is_active": false,
			"end_time":  endTime,
			"notes":     notes,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *sessionRepo) List(ctx context.Context, page, limit int) ([]model.Session, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	var sessions []model.Session
	err := r.db.WithContext(ctx).
		Order("start_time DESC").
		Offset(offset).Limit(limit).
		Find(&sessions).Error
	return sessions, total, err
}

func (r *sessionRepo) IncrementTotalsTx(tx *gorm.DB, id uuid.UUID, method model.PaymentMethod, amount decimal.Decimal) error {
	var column string
	switch method {
	case model.PaymentMethodCash:
		column = "cash_total"
	case model.PaymentMethodUPI:
		column = "upi_total"
	case model.PaymentMethodBank:
		column = "bank_total"
	default:
		return errors.New("unknown payment method column")
	}

	res := tx.Model(&model.Session{}).
		Where("id = ? AND is_active = ?", id, true).
		Updates(map[string]interface{}{
			column:          gorm.Expr(column+" + ?", amount),
			"total_revenue": gorm.Expr("total_revenue + ?", amount),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNoActiveRow
	}
	return nil
}
