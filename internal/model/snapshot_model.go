package model

import (
	"time"

	"gorm.io/datatypes"
)

// Snapshot is the single-row persistence record: one JSON document holding
// the sanitized projection of all notebook state under a fixed key.
type Snapshot struct {
	Key       string         `gorm:"type:varchar(64);primaryKey"`
	Payload   datatypes.JSON `gorm:"not null"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
}

func (Snapshot) TableName() string {
	return "snapshots"
}
