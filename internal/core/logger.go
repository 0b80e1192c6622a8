package core

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type Logger struct {
	mainLogger  zerolog.Logger
	errorLogger zerolog.Logger
	mainFile    *os.File
	errorFile   *os.File
}

var (
	logMu        sync.Mutex
	globalLogger *Logger
	cleanupOnce  sync.Once
)

// logRetentionDays — сколько дней хранить файлы логов
const logRetentionDays = 7

// InitDailyLog открывает файлы dir/DD-MM-YYYY.log и dir/errors-DD-MM-YYYY.log.
// Повторный вызов закрывает предыдущие файлы (ротация раз в сутки из main).
func InitDailyLog(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("создание директории %s: %w", dir, err)
	}

	// Формируем имена файлов на основе текущей даты
	dateStr := time.Now().Format("02-01-2006")
	mainPath := filepath.Join(dir, dateStr+".log")
	errorPath := filepath.Join(dir, "errors-"+dateStr+".log")

	mainFile, err := os.OpenFile(mainPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("открытие основного лог-файла: %w", err)
	}

	errorFile, err := os.OpenFile(errorPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		_ = mainFile.Close()
		return fmt.Errorf("открытие файла ошибок: %w", err)
	}

	// Основной лог дублируется в stdout, ошибки — в stderr
	mainLogger := zerolog.New(io.MultiWriter(mainFile, os.Stdout)).With().Timestamp().Logger()
	errorLogger := zerolog.New(io.MultiWriter(errorFile, os.Stderr)).With().Timestamp().Logger()

	logMu.Lock()
	closeFilesLocked()
	globalLogger = &Logger{
		mainLogger:  mainLogger,
		errorLogger: errorLogger,
		mainFile:    mainFile,
		errorFile:   errorFile,
	}
	logMu.Unlock()

	// Очистка старых логов — один раз за процесс
	cleanupOnce.Do(func() { go cleanupOldLogs(dir, logRetentionDays) })
	return nil
}

// SetOutput направляет все записи в w без файлов (тесты, консольный режим).
func SetOutput(w io.Writer) {
	l := zerolog.New(w).With().Timestamp().Logger()

	logMu.Lock()
	defer logMu.Unlock()
	closeFilesLocked()
	globalLogger = &Logger{mainLogger: l, errorLogger: l}
}

// SetLevel задаёт глобальный уровень zerolog ("debug", "info", ...).
func SetLevel(level string) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(lvl)
	return nil
}

func LogDebug(msg string, fields map[string]interface{}) {
	write(zerolog.DebugLevel, msg, fields)
}

func LogInfo(msg string, fields map[string]interface{}) {
	write(zerolog.InfoLevel, msg, fields)
}

func LogError(msg string, fields map[string]interface{}) {
	write(zerolog.ErrorLevel, msg, fields)
}

func write(level zerolog.Level, msg string, fields map[string]interface{}) {
	logMu.Lock()
	defer logMu.Unlock()
	if globalLogger == nil {
		return // Игнорируем, если логгер закрыт
	}

	logger := &globalLogger.mainLogger
	if level >= zerolog.ErrorLevel {
		logger = &globalLogger.errorLogger
	}

	event := logger.WithLevel(level)
	for k, v := range fields {
		event = event.Interface(k, v)
	}
	event.Msg(msg)
}

func cleanupOldLogs(dir string, days int) {
	files, err := os.ReadDir(dir)
	if err != nil {
		LogError("Не удалось прочитать директорию логов", map[string]interface{}{"dir": dir, "error": err.Error()})
		return
	}

	cutoff := time.Now().AddDate(0, 0, -days)
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		info, err := file.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			path := filepath.Join(dir, file.Name())
			if err := os.Remove(path); err != nil {
				LogError("Не удалось удалить старый лог", map[string]interface{}{"path": path, "error": err.Error()})
			}
		}
	}
}

// closeFilesLocked закрывает файлы текущего логгера; вызывается под logMu.
func closeFilesLocked() {
	if globalLogger == nil {
		return
	}
	consoleLogger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	if globalLogger.mainFile != nil {
		if err := globalLogger.mainFile.Close(); err != nil {
			consoleLogger.Error().Msgf("Закрытие mainFile: %v", err)
		}
	}
	if globalLogger.errorFile != nil {
		if err := globalLogger.errorFile.Close(); err != nil {
			consoleLogger.Error().Msgf("Закрытие errorFile: %v", err)
		}
	}
	globalLogger = nil
}

func Close() {
	logMu.Lock()
	defer logMu.Unlock()
	closeFilesLocked()
}
