package db

import (
	"portfolio/config"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var Instance *gorm.DB

// Open connects to MySQL when a DSN is configured, SQLite otherwise
func Open(cfg config.DatabaseConfig, debug bool) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if cfg.MySQLDSN != "" {
		dialector = mysql.Open(cfg.MySQLDSN)
	} else {
		dialector = sqlite.Open(cfg.SQLiteFile)
	}
	logLevel := logger.Warn
	if debug {
		logLevel = logger.Info
	}
	return gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
		Logger:                 logger.Default.LogMode(logLevel),
	})
}

func Init(cfg config.DatabaseConfig, debug bool) {
	db, err := Open(cfg, debug)
	if err != nil || db == nil {
		panic(err)
	}
	Instance = db
}
