package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

type schemaMigration struct {
	Filename  string `gorm:"primaryKey"`
	AppliedAt int64  `gorm:"autoCreateTime"`
}

func (schemaMigration) TableName() string { return "schema_migrations" }

// RunMigrations applies every embedded migration for the connection's
// dialect that has not been recorded in schema_migrations yet. Each file runs
// in its own transaction.
func RunMigrations(ctx context.Context, db *gorm.DB, log *zap.Logger) error {
	dialect := Dialect(db)
	dir := path.Join("migrations", dialect)

	files, err := listMigrationFiles(dir)
	if err != nil {
		return fmt.Errorf("list migration files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no migrations for dialect %q", dialect)
	}

	db = db.WithContext(ctx)
	if err := db.AutoMigrate(&schemaMigration{}); err != nil {
		return fmt.Errorf("ensure migrations table: %w", err)
	}

	applied, err := appliedMigrations(db)
	if err != nil {
		return fmt.Errorf("get applied migrations: %w", err)
	}

	for _, filename := range files {
		if applied[filename] {
			log.Debug("migration already applied", zap.String("file", filename))
			continue
		}
		if err := applyMigration(db, dir, filename); err != nil {
			return fmt.Errorf("apply migration %s: %w", filename, err)
		}
		log.Info("migration applied", zap.String("file", filename))
	}
	return nil
}

func listMigrationFiles(dir string) ([]string, error) {
	entries, err := fs.ReadDir(migrationsFS, dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

func appliedMigrations(db *gorm.DB) (map[string]bool, error) {
	var rows []schemaMigration
	if err := db.Order("filename").Find(&rows).Error; err != nil {
		return nil, err
	}
	applied := make(map[string]bool, len(rows))
	for _, r := range rows {
		applied[r.Filename] = true
	}
	return applied, nil
}

func applyMigration(db *gorm.DB, dir, filename string) error {
	content, err := fs.ReadFile(migrationsFS, path.Join(dir, filename))
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, stmt := range splitStatements(string(content)) {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("execute sql: %w", err)
			}
		}
		if err := tx.Create(&schemaMigration{Filename: filename}).Error; err != nil {
			return fmt.Errorf("record migration: %w", err)
		}
		return nil
	})
}

// splitStatements splits a migration file on semicolons. Migration files must
// not contain semicolons inside literals.
func splitStatements(sql string) []string {
	var out []string
	for _, part := range strings.Split(sql, ";") {
		var lines []string
		for _, line := range strings.Split(part, "\n") {
			if strings.HasPrefix(strings.TrimSpace(line), "--") {
				continue
			}
			lines = append(lines, line)
		}
		if stmt := strings.TrimSpace(strings.Join(lines, "\n")); stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}
