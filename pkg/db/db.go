package db

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/samseatt/vitaledge-pi-iot/pkg/common"
)

const DefaultDbPath = "sensor_data.db"

type DB struct {
	Conn *gorm.DB
}

// Open connects, applies pragmas and migrations. The pool is pinned to a single
// connection: the buffer has exactly one writer and readers queue behind it.
func Open(dialector gorm.Dialector) (*DB, error) {
	logger := common.GetLogger()

	conn, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access connection pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	logger.Info("Connected to database with dialector:", zap.String("dialector", dialector.Name()))

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if err := conn.Exec(pragma).Error; err != nil {
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	if err := Migrate(conn); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	version, err := CurrentSchemaVersion(conn)
	if err != nil {
		return nil, err
	}
	logger.Info("Database migration completed", zap.Uint64("schema_version", uint64(version)))

	return &DB{Conn: conn}, nil
}

func (d *DB) Close() error {
	sqlDB, err := d.Conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (d *DB) Ping() error {
	sqlDB, err := d.Conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func UseSqliteFileDialector(dbPath string) gorm.Dialector {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			common.GetLogger().Error("Failed to create database directory", zap.String("dir", dir), zap.Error(err))
		}
	}
	return sqlite.Open(dbPath)
}

// UseMemorySqliteDialector returns a fresh named in-memory database, so each caller
// gets its own buffer.
func UseMemorySqliteDialector() gorm.Dialector {
	return sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
}
