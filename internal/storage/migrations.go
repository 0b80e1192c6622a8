package storage

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"

	"scoreboard/internal/core"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrations управляет версиями БД
type Migrations struct {
	db *DB
}

// NewMigrations создаёт мигратор
func NewMigrations(db *DB) *Migrations {
	return &Migrations{db: db}
}

// RunMigrations выполняет все миграции
func (m *Migrations) RunMigrations(ctx context.Context) error {
	// Создаёт таблицу миграций, если не существует
	if err := m.createMigrationsTable(ctx); err != nil {
		return fmt.Errorf("ошибка создания таблицы миграций: %w", err)
	}

	// Находит все SQL файлы миграций
	files, err := fs.Glob(migrationFiles, "migrations/*.sql")
	if err != nil {
		return fmt.Errorf("ошибка поиска миграций: %w", err)
	}

	// Сортирует по номеру (001, 002...)
	sort.Strings(files)

	applied := 0
	for _, file := range files {
		ok, err := m.runMigration(ctx, file)
		if err != nil {
			return fmt.Errorf("ошибка миграции %s: %w", file, err)
		}
		if ok {
			applied++
		}
	}

	core.LogInfo("Миграции завершены успешно", map[string]interface{}{
		"files":   len(files),
		"applied": applied,
	})
	return nil
}

// createMigrationsTable создаёт таблицу для отслеживания миграций
func (m *Migrations) createMigrationsTable(ctx context.Context) error {
	const q = `
		CREATE TABLE IF NOT EXISTS migrations (
			name VARCHAR(255) NOT NULL PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`

	_, err := m.db.ExecContext(ctx, q)
	return err
}

// runMigration выполняет одну миграцию; false — миграция уже была применена
func (m *Migrations) runMigration(ctx context.Context, file string) (bool, error) {
	name := path.Base(file)

	// Проверяет, применена ли уже миграция
	var count int
	if err := m.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM migrations WHERE name = ?", name); err != nil {
		return false, fmt.Errorf("ошибка проверки миграции: %w", err)
	}
	if count > 0 {
		core.LogDebug("Миграция уже применена", map[string]interface{}{"file": name})
		return false, nil
	}

	sqlBytes, err := migrationFiles.ReadFile(file)
	if err != nil {
		return false, fmt.Errorf("ошибка чтения файла: %w", err)
	}

	tx, err := m.db.BeginTx(ctx)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, string(sqlBytes)); err != nil {
		return false, fmt.Errorf("ошибка выполнения SQL: %w", err)
	}

	// Записывает в таблицу миграций
	if _, err := tx.ExecContext(ctx, "INSERT INTO migrations (name) VALUES (?)", name); err != nil {
		return false, fmt.Errorf("ошибка записи миграции: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("ошибка коммита: %w", err)
	}

	core.LogInfo("Миграция применена", map[string]interface{}{"file": name})
	return true, nil
}
