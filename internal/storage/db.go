package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"scoreboard/internal/core"
)

// Поддерживаемые драйверы
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// DB — пул подключений sqlx. Наружу доступны только методы, которые засчитывают
// каждый запрос в счётчик из контекста (см. WithQueryCounter).
type DB struct {
	x      *sqlx.DB
	driver string
}

// Tx — транзакция с тем же подсчётом запросов
type Tx struct {
	x *sqlx.Tx
}

// Open создаёт пул подключений с продакшн-настройками и проверяет подключение
func Open(ctx context.Context, driver, dsn string) (*DB, error) {
	switch driver {
	case DriverMySQL:
		normalized, err := mysqlDSN(dsn)
		if err != nil {
			return nil, fmt.Errorf("разбор DSN MySQL: %w", err)
		}
		dsn = normalized
	case DriverSQLite:
	default:
		return nil, fmt.Errorf("неизвестный драйвер БД: %q", driver)
	}

	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		core.LogError("ошибка подключения к БД", map[string]interface{}{
			"driver": driver,
			"error":  err.Error(),
			"dsn":    SanitizeDSN(driver, dsn),
		})
		return nil, err
	}

	if driver == DriverSQLite {
		// :memory: живёт в одном соединении
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	} else {
		// Настройка connection pool для продакшена
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	core.LogInfo("Подключение к БД успешно", map[string]interface{}{
		"driver": driver,
		"dsn":    SanitizeDSN(driver, dsn),
	})
	return &DB{x: db, driver: driver}, nil
}

// Close корректно закрывает пул подключений
// Вызывается при graceful shutdown приложения
func Close(db *DB) error {
	if db == nil || db.x == nil {
		return nil
	}

	if err := db.x.Close(); err != nil {
		core.LogError("ошибка закрытия пула БД", map[string]interface{}{
			"error": err.Error(),
		})
		return err
	}

	core.LogInfo("Пул БД закрыт", nil)
	return nil
}

// Driver — имя драйвера ("mysql" или "sqlite")
func (db *DB) Driver() string {
	return db.driver
}

func (db *DB) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	countQuery(ctx)
	return db.x.GetContext(ctx, dest, query, args...)
}

func (db *DB) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	countQuery(ctx)
	return db.x.SelectContext(ctx, dest, query, args...)
}

func (db *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	countQuery(ctx)
	return db.x.ExecContext(ctx, query, args...)
}

// NamedExecContext — INSERT/UPDATE по тегам db
func (db *DB) NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error) {
	countQuery(ctx)
	return db.x.NamedExecContext(ctx, query, arg)
}

// BeginTx открывает транзакцию; запросы внутри неё считаются так же
func (db *DB) BeginTx(ctx context.Context) (*Tx, error) {
	tx, err := db.x.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &Tx{x: tx}, nil
}

func (tx *Tx) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	countQuery(ctx)
	return tx.x.GetContext(ctx, dest, query, args...)
}

func (tx *Tx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	countQuery(ctx)
	return tx.x.ExecContext(ctx, query, args...)
}

func (tx *Tx) Commit() error {
	return tx.x.Commit()
}

func (tx *Tx) Rollback() error {
	return tx.x.Rollback()
}

// mysqlDSN дополняет DSN безопасными параметрами подключения
func mysqlDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", err
	}
	cfg.ParseTime = true                 // Парсинг времени
	cfg.Collation = "utf8mb4_general_ci" // Unicode + эмодзи
	cfg.Timeout = 5 * time.Second        // Таймаут подключения
	cfg.ReadTimeout = 5 * time.Second    // Таймаут чтения
	cfg.WriteTimeout = 10 * time.Second  // Таймаут записи
	cfg.InterpolateParams = true         // Prepared statements на клиенте
	cfg.MultiStatements = false          // Безопасность SQL
	cfg.Loc = time.Local                 // Локальная временная зона
	return cfg.FormatDSN(), nil
}

// SanitizeDSN удаляет пароль из DSN для логирования
func SanitizeDSN(driver, dsn string) string {
	if driver != DriverMySQL {
		return dsn
	}
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "<invalid dsn>"
	}
	if cfg.Passwd != "" {
		cfg.Passwd = "***"
	}
	return cfg.FormatDSN()
}
