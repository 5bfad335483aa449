package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/swasthsathi/telehealth-service/internal/repositories"
)

// getDB prefers an explicit transaction handle over the base connection.
func getDB(db, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return db
}

// applyPagination applies limit/offset when set.
func applyPagination(query *gorm.DB, limit, offset int) *gorm.DB {
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	return query
}

// translateError maps gorm sentinel errors to repository errors.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repositories.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return repositories.ErrDuplicate
	}
	return err
}
