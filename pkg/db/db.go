package db

import (
	"fmt"

	"github.com/thep200/xsmb-analyzer/cfg"
	"gorm.io/gorm"
)

// Database là handle kết nối được truyền tường minh vào model, không dùng biến toàn cục
type Database interface {
	Db() (*gorm.DB, error)
	Ping() error
	Close() error
	Migrate(models ...interface{}) error
}

func NewDatabase(config *cfg.Config) (Database, error) {
	switch config.Database.Driver {
	case "", "mysql":
		return NewMysql(config)
	case "sqlite":
		return NewSqlite(config)
	default:
		return nil, fmt.Errorf("[ERROR][DB] unsupported driver: %s", config.Database.Driver)
	}
}

func ping(gdb *gorm.DB) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func closeDb(gdb *gorm.DB) error {
	if gdb == nil {
		return nil
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
