package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// ErrOverlapViolation is returned when a new version's effective date
// would overlap the validity window of an existing record for the same
// subject key.
var ErrOverlapViolation = errors.New("validity window overlap")

// VersionedRecord is a date-effective record with a half-open validity
// window [valid_from, valid_to). A nil valid_to marks the currently
// open version. SubjectConditions returns the column set identifying
// the subject key the windows must not overlap within.
type VersionedRecord interface {
	SubjectConditions() map[string]any
	SubjectKey() string
	Window() (from time.Time, to *time.Time)
	SetWindow(from time.Time, to *time.Time)
	EnsureID()
}

// TemporalStore is a point-in-time versioned-record store over one
// gorm-mapped table. PT must be the pointer type of the record struct.
type TemporalStore[T any, PT interface {
	VersionedRecord
	*T
}] struct {
	db *gorm.DB
}

func NewTemporalStore[T any, PT interface {
	VersionedRecord
	*T
}](db *gorm.DB) *TemporalStore[T, PT] {
	return &TemporalStore[T, PT]{db: db}
}

// ResolveAsOf returns the record whose window contains asOf for the
// subject identified by the conditions of probe, or
// gorm.ErrRecordNotFound. Overlaps are rejected at write time; if one
// slipped in anyway the latest-starting window wins, which is the
// tightest match.
func (s *TemporalStore[T, PT]) ResolveAsOf(ctx context.Context, probe PT, asOf time.Time) (PT, error) {
	record := PT(new(T))
	err := s.db.WithContext(ctx).
		Where(probe.SubjectConditions()).
		Where("valid_from <= ?", asOf).
		Where("valid_to IS NULL OR valid_to > ?", asOf).
		Order("valid_from DESC").
		First(record).Error
	if err != nil {
		return nil, err
	}
	return record, nil
}

// CurrentOpen returns the subject's record with valid_to IS NULL, or
// gorm.ErrRecordNotFound.
func (s *TemporalStore[T, PT]) CurrentOpen(ctx context.Context, probe PT) (PT, error) {
	record := PT(new(T))
	err := s.db.WithContext(ctx).
		Where(probe.SubjectConditions()).
		Where("valid_to IS NULL").
		First(record).Error
	if err != nil {
		return nil, err
	}
	return record, nil
}

// InsertVersion closes the subject's open record at effective and
// inserts record as the new open version, atomically. It fails with
// ErrOverlapViolation when effective does not come strictly after the
// open record's valid_from, which would leave overlapping windows.
func (s *TemporalStore[T, PT]) InsertVersion(ctx context.Context, record PT, effective time.Time) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		open := PT(new(T))
		err := tx.
			Where(record.SubjectConditions()).
			Where("valid_to IS NULL").
			First(open).Error
		switch {
		case err == nil:
			openFrom, _ := open.Window()
			if !effective.After(openFrom) {
				return ErrOverlapViolation
			}
			closed := effective
			open.SetWindow(openFrom, &closed)
			if err := tx.Model(open).Update("valid_to", closed).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			// First version for this subject.
		default:
			return err
		}

		record.EnsureID()
		record.SetWindow(effective, nil)
		return tx.Create(record).Error
	})
}

// History returns every version for the subject, newest first.
func (s *TemporalStore[T, PT]) History(ctx context.Context, probe PT) ([]T, error) {
	var records []T
	err := s.db.WithContext(ctx).
		Where(probe.SubjectConditions()).
		Order("valid_from DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
