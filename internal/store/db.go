package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/harentsoaR/dentist-platform/internal/logger"
	"github.com/harentsoaR/dentist-platform/internal/models"
)

// Supported values of Options.Driver.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Options configures the connection pool.
type Options struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// GormStore implements Repository on PostgreSQL, or on SQLite for
// single-node deployments and tests.
type GormStore struct {
	db *gorm.DB
}

var _ Repository = (*GormStore)(nil)

// activeAppointmentIndex keeps at most one non-cancelled appointment per
// dentist/date/time.
const activeAppointmentIndex = `CREATE UNIQUE INDEX IF NOT EXISTS idx_appointments_active_slot
	ON appointments (dentist_id, appointment_date, appointment_time)
	WHERE status <> 'CANCELLED'`

// Open connects to the configured database and configures the pool.
func Open(opts Options, log *logger.Logger) (*GormStore, error) {
	dialector, err := openDialector(&opts)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger: gormlogger.New(log, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)

	return New(db), nil
}

// openDialector picks the gorm driver. SQLite gets a single connection so
// that transactions serialise the way row locks do on PostgreSQL; the
// driver drops FOR UPDATE clauses it cannot run.
func openDialector(opts *Options) (gorm.Dialector, error) {
	switch opts.Driver {
	case "", DriverPostgres:
		return postgres.Open(opts.DSN), nil
	case DriverSQLite:
		opts.MaxOpenConns = 1
		opts.MaxIdleConns = 1
		opts.ConnMaxLifetime = 0
		return sqlite.Open(sqliteDSN(opts.DSN)), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}
}

// sqliteDSN turns on foreign keys (the cascades depend on them), waits on
// a busy database instead of failing, and starts write transactions eagerly.
func sqliteDSN(dsn string) string {
	params := []string{"_foreign_keys=on", "_busy_timeout=5000", "_txlock=immediate"}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	for _, p := range params {
		key := p[:strings.Index(p, "=")+1]
		if strings.Contains(dsn, key) {
			continue
		}
		dsn += sep + p
		sep = "&"
	}
	return dsn
}

// New wraps an existing gorm handle.
func New(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Migrate creates the tables, foreign keys (all ON DELETE CASCADE) and indexes.
func (s *GormStore) Migrate(ctx context.Context) error {
	db := s.db.WithContext(ctx)
	err := db.AutoMigrate(
		&models.User{},
		&models.Dentist{},
		&models.ClinicImage{},
		&models.Testimonial{},
		&models.Review{},
		&models.TimeSlot{},
		&models.Appointment{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	if err := db.Exec(activeAppointmentIndex).Error; err != nil {
		return fmt.Errorf("failed to create active appointment index: %w", err)
	}
	return nil
}

// Close releases the pool.
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *GormStore) Transaction(ctx context.Context, fn func(tx Repository) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

// translate maps gorm errors onto the package sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	default:
		return err
	}
}

// affected turns a zero-row update or delete into ErrNotFound.
func affected(res *gorm.DB) error {
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
