package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/caribelex/expedientes/models"
	"github.com/caribelex/expedientes/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SequenceCounterRepositoryImpl implements SequenceCounterRepository
type SequenceCounterRepositoryImpl struct {
	DB *gorm.DB
}

// NewSequenceCounterRepository creates a new sequence counter repository
func NewSequenceCounterRepository(db *gorm.DB) SequenceCounterRepository {
	return &SequenceCounterRepositoryImpl{DB: db}
}

func (r *SequenceCounterRepositoryImpl) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(TxContextKey).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return r.DB
}

// NextValue advances the counter for key within the ambient transaction.
// The row is locked with SELECT ... FOR UPDATE, so concurrent transactions on
// the same key serialize and never return the same value. When the stored year
// differs from the current UTC calendar year the counter restarts at 1.
//
// A missing row is created lazily with value 1; if two transactions race on
// first use, the primary key constraint fails one of them and the commit error
// propagates to the caller, which may retry the whole operation.
func (r *SequenceCounterRepositoryImpl) NextValue(ctx context.Context, key string) (int64, int, error) {
	db := r.getDB(ctx)
	year := utils.CurrentYear()

	var counter models.SequenceCounter
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("key = ?", key).
		Take(&counter).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		counter = models.SequenceCounter{
			Key:       key,
			Year:      year,
			Value:     1,
			UpdatedAt: utils.UTCNow(),
		}
		if err := db.Create(&counter).Error; err != nil {
			return 0, 0, fmt.Errorf("failed to create counter %s: %w", key, err)
		}
		return counter.Value, year, nil
	}
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read counter %s: %w", key, err)
	}

	if counter.Year != year {
		// Annual reset
		counter.Year = year
		counter.Value = 1
	} else {
		counter.Value++
	}
	counter.UpdatedAt = utils.UTCNow()

	if err := db.Save(&counter).Error; err != nil {
		return 0, 0, fmt.Errorf("failed to update counter %s: %w", key, err)
	}

	return counter.Value, year, nil
}

// Current returns the stored counter row without advancing it
func (r *SequenceCounterRepositoryImpl) Current(ctx context.Context, key string) (*models.SequenceCounter, error) {
	db := r.getDB(ctx)

	var counter models.SequenceCounter
	err := db.Where("key = ?", key).Take(&counter).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read counter %s: %w", key, err)
	}

	return &counter, nil
}
