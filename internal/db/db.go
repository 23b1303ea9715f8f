package db

import (
	"log"
	"os"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Postgres reports whether the active connection is backed by Postgres
// (as opposed to the embedded sqlite file).
var Postgres bool

// Connect opens the database from environment configuration. DATABASE_URL
// selects Postgres; otherwise SQLITE_PATH selects the embedded sqlite file.
// Call only when one of the two is set — the default deployment uses the
// JSON file store and no database at all.
func Connect() {
	dsn := os.Getenv("DATABASE_URL")
	sqlitePath := os.Getenv("SQLITE_PATH")
	if dsn == "" && sqlitePath == "" {
		log.Fatal("DATABASE_URL and SQLITE_PATH are both empty")
	}

	// Verbose logger to surface slow queries in deployment logs.
	lg := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             100 * time.Millisecond, // log queries > 100ms
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	var (
		db  *gorm.DB
		err error
	)
	if dsn != "" {
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: lg})
		Postgres = true
	} else {
		db, err = gorm.Open(sqlite.Open(sqlitePath), &gorm.Config{Logger: lg})
	}
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	if Postgres {
		sqlDB, err := db.DB()
		if err != nil {
			log.Fatal("Failed to get sql.DB: ", err)
		}
		sqlDB.SetMaxOpenConns(20)
		sqlDB.SetMaxIdleConns(20)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	DB = db
	log.Println("Connected to database")
}
