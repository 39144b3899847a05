package storage

import (
	"context"
	"time"

	"github.com/quintans/faults"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/NgigiN/ledger/internal/ledger"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Database is the gorm backed ledger.Store.
type Database struct {
	db *gorm.DB
}

var _ ledger.Store = (*Database)(nil)

// NewDatabase opens the database and migrates the schema. SQLite allows a
// single writer, so its pool is capped at one connection and transactions
// run one after the other. Postgres relies on row locks instead.
func NewDatabase(driver, dsn string, logger logrus.FieldLogger) (*Database, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverSQLite:
		dialector = sqlite.Open(dsn)
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	default:
		return nil, faults.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.New(logger, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, faults.Errorf("failed to connect to database: %w", err)
	}

	if driver == DriverSQLite {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, faults.Errorf("failed to get connection pool: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(&Account{}, &Transaction{}); err != nil {
		return nil, faults.Errorf("failed to migrate schema: %w", err)
	}

	return &Database{db: db}, nil
}

func (d *Database) Accounts() ledger.AccountStore {
	return &AccountStore{db: d.db}
}

func (d *Database) Transactions() ledger.TransactionLog {
	return &TransactionLog{db: d.db}
}

// Do runs fn in one database transaction. Returning an error, or panicking,
// rolls back every write fn made.
func (d *Database) Do(ctx context.Context, fn func(accounts ledger.AccountStore, txLog ledger.TransactionLog) error) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&AccountStore{db: tx}, &TransactionLog{db: tx})
	})
}

func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return faults.Wrap(err)
	}
	return faults.Wrap(sqlDB.PingContext(ctx))
}

func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return faults.Wrap(err)
	}
	return faults.Wrap(sqlDB.Close())
}
