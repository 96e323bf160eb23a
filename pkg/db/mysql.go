package db

import (
	"database/sql"
	"sync"
	"time"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"github.com/thep200/xsmb-analyzer/cfg"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Mysql struct {
	Config  *cfg.Config
	once    sync.Once
	db      *gorm.DB
	initErr error
}

func NewMysql(config *cfg.Config) (*Mysql, error) {
	return &Mysql{
		Config: config,
	}, nil
}

func (m *Mysql) DSN() string {
	config := mysqlDriver.Config{
		User:                 m.Config.Mysql.Username,
		Passwd:               m.Config.Mysql.Password,
		DBName:               m.Config.Mysql.Database,
		Addr:                 m.Config.Mysql.Host + ":" + m.Config.Mysql.Port,
		Net:                  "tcp",
		ParseTime:            true,
		AllowNativePasswords: true,
		Params:               map[string]string{"charset": "utf8mb4"},
	}
	return config.FormatDSN()
}

func (m *Mysql) Db() (*gorm.DB, error) {
	m.once.Do(func() {
		var gdb *gorm.DB
		gdb, m.initErr = gorm.Open(mysql.Open(m.DSN()), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
		if m.initErr != nil {
			return
		}

		var sqlDB *sql.DB
		sqlDB, m.initErr = gdb.DB()
		if m.initErr != nil {
			return
		}

		// Setting connection pool
		sqlDB.SetMaxIdleConns(m.Config.Mysql.MaxIdleConnection)
		sqlDB.SetMaxOpenConns(m.Config.Mysql.MaxOpenConnection)
		sqlDB.SetConnMaxLifetime(time.Duration(m.Config.Mysql.MaxLifeTimeConnection) * time.Second)

		m.db = gdb
	})
	return m.db, m.initErr
}

func (m *Mysql) Ping() error {
	gdb, err := m.Db()
	if err != nil {
		return err
	}
	return ping(gdb)
}

func (m *Mysql) Close() error {
	return closeDb(m.db)
}

func (m *Mysql) Migrate(models ...interface{}) error {
	gdb, err := m.Db()
	if err != nil {
		return err
	}
	return gdb.AutoMigrate(models...)
}
