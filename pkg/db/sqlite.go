package db

import (
	"sync"

	"github.com/glebarez/sqlite"
	"github.com/thep200/xsmb-analyzer/cfg"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Sqlite dùng cho chạy local và test, driver thuần Go nên không cần CGO
type Sqlite struct {
	Config  *cfg.Config
	once    sync.Once
	db      *gorm.DB
	initErr error
}

func NewSqlite(config *cfg.Config) (*Sqlite, error) {
	return &Sqlite{
		Config: config,
	}, nil
}

func (s *Sqlite) Db() (*gorm.DB, error) {
	s.once.Do(func() {
		path := s.Config.Sqlite.Path
		if path == "" {
			path = "file::memory:?cache=shared"
		}
		s.db, s.initErr = gorm.Open(sqlite.Open(path), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if s.initErr != nil {
			return
		}
		// SQLite chỉ cho một writer tại một thời điểm
		sqlDB, err := s.db.DB()
		if err != nil {
			s.initErr = err
			return
		}
		sqlDB.SetMaxOpenConns(1)
	})
	return s.db, s.initErr
}

func (s *Sqlite) Ping() error {
	gdb, err := s.Db()
	if err != nil {
		return err
	}
	return ping(gdb)
}

func (s *Sqlite) Close() error {
	return closeDb(s.db)
}

func (s *Sqlite) Migrate(models ...interface{}) error {
	gdb, err := s.Db()
	if err != nil {
		return err
	}
	return gdb.AutoMigrate(models...)
}
