package db

import (
	"embed"
	"fmt"
	"io/fs"
	"regexp"
	"strconv"

	"gorm.io/gorm"
)

// sensor_data matches the table layout of earlier device builds, so an existing
// buffer file is adopted as is (CREATE ... IF NOT EXISTS).
//
//go:embed migrations/*/up.sql
var migrationsFS embed.FS

var migrationVersionRegex = regexp.MustCompile(`^(\d+)_`)

type SchemaVersion uint64

type SchemaMigration struct {
	Version SchemaVersion `gorm:"primaryKey"`
}

type Migration struct {
	Version SchemaVersion
	Name    string
}

func (m Migration) UpSQL() (string, error) {
	upSQL, err := fs.ReadFile(migrationsFS, fmt.Sprintf("migrations/%s/up.sql", m.Name))
	if err != nil {
		return "", fmt.Errorf("failed to read up.sql for migration %s: %w", m.Name, err)
	}
	return string(upSQL), nil
}

func CurrentSchemaVersion(conn *gorm.DB) (SchemaVersion, error) {
	var current SchemaMigration
	err := conn.Model(&SchemaMigration{}).
		Select("version").
		Order("version desc").
		Limit(1).
		Scan(&current).Error
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return current.Version, nil
}

func MigrationsNewerThan(minVersion SchemaVersion) ([]Migration, error) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	if err != nil {
		return nil, err
	}

	var migrations []Migration
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		match := migrationVersionRegex.FindStringSubmatch(entry.Name())
		if len(match) != 2 {
			return nil, fmt.Errorf("invalid migration directory name: %s", entry.Name())
		}

		versionInt, err := strconv.ParseUint(match[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid migration version: %s - %w", match[1], err)
		}

		if SchemaVersion(versionInt) <= minVersion {
			continue
		}

		migrations = append(migrations, Migration{Version: SchemaVersion(versionInt), Name: entry.Name()})
	}

	return migrations, nil
}

// Migrate applies every embedded migration newer than the recorded schema version,
// each in its own transaction together with its schema_migrations row.
func Migrate(conn *gorm.DB) error {
	if err := conn.AutoMigrate(&SchemaMigration{}); err != nil {
		return fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	current, err := CurrentSchemaVersion(conn)
	if err != nil {
		return err
	}

	migrations, err := MigrationsNewerThan(current)
	if err != nil {
		return err
	}

	for _, migration := range migrations {
		sql, err := migration.UpSQL()
		if err != nil {
			return err
		}

		err = conn.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&SchemaMigration{Version: migration.Version}).Error; err != nil {
				return err
			}
			return tx.Exec(sql).Error
		})
		if err != nil {
			return fmt.Errorf("failed to apply migration %d: %w", migration.Version, err)
		}
	}

	return nil
}
