package model

import (
	"time"

	"github.com/thep200/xsmb-analyzer/cfg"
	"github.com/thep200/xsmb-analyzer/pkg/db"
	"github.com/thep200/xsmb-analyzer/pkg/log"
)

type Model struct {
	Config    *cfg.Config `gorm:"-" json:"-"`
	Logger    log.Logger  `gorm:"-" json:"-"`
	Db        db.Database `gorm:"-" json:"-"`
	ID        uint        `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}
