package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"
)

// TimeOperation executes an operation and logs its execution time
func TimeOperation(ctx context.Context, name string, operation func() error) error {
	start := time.Now()
	err := operation()
	elapsed := time.Since(start)
	slog.Log(ctx, slog.LevelInfo, fmt.Sprintf("Operation %s took %s", name, elapsed))
	return err
}

// WithTransaction runs operation inside a database transaction, rolling back
// on error or panic and committing otherwise.
func WithTransaction(db *gorm.DB, ctx context.Context, operation func(tx *gorm.DB) error) (err error) {
	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to start transaction: %w", tx.Error)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p) // re-throw panic after Rollback
		} else if err != nil {
			if rbErr := tx.Rollback().Error; rbErr != nil {
				slog.Log(ctx, slog.LevelError, "Error while rolling back transaction", "error", rbErr)
			}
		} else {
			err = tx.Commit().Error
		}
	}()

	err = operation(tx)
	return err
}
