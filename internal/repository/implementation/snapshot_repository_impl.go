package implementation

import (
	"context"
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"notebooklm-be/internal/model"
	"notebooklm-be/internal/repository/contract"
)

type SnapshotRepositoryImpl struct {
	db *gorm.DB
}

func NewSnapshotRepository(db *gorm.DB) contract.SnapshotRepository {
	return &SnapshotRepositoryImpl{db: db}
}

func (r *SnapshotRepositoryImpl) Save(ctx context.Context, key string, payload []byte) error {
	m := &model.Snapshot{
		Key:     key,
		Payload: datatypes.JSON(payload),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(m).Error
}

func (r *SnapshotRepositoryImpl) Load(ctx context.Context, key string) ([]byte, error) {
	var m model.Snapshot
	if err := r.db.WithContext(ctx).First(&m, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, contract.ErrSnapshotNotFound
		}
		return nil, err
	}
	return []byte(m.Payload), nil
}
