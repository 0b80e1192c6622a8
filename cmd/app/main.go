package main

//main.go
import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"scoreboard/internal/core"
	"scoreboard/internal/csp"
	httpx "scoreboard/internal/http"
	"scoreboard/internal/metrics"
	"scoreboard/internal/session"
	"scoreboard/internal/storage"
)

func main() {
	// 1) Конфиг и логи
	config, err := core.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка конфигурации: %v\n", err)
		os.Exit(1)
	}
	if err := core.InitDailyLog(config.LogDir); err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка инициализации логов: %v\n", err)
		os.Exit(1)
	}
	if err := core.SetLevel(config.LogLevel); err != nil {
		core.LogError("Неверный LOG_LEVEL", map[string]interface{}{"error": err.Error()})
	}
	core.LogInfo("Конфигурация загружена", map[string]interface{}{
		"env":           config.Env,
		"secure":        config.Secure,
		"count_queries": config.CountQueries,
	})

	// 2) БД
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := storage.Open(ctx, config.DBDriver, config.DBDSN)
	if err != nil {
		core.LogError("Ошибка инициализации БД", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}

	// 3) Миграции
	if err := storage.NewMigrations(db).RunMigrations(ctx); err != nil {
		core.LogError("Ошибка выполнения миграций", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}

	// 4) Ежедневная ротация логов
	startLogRotation(ctx, config.LogDir)

	// 5) CSP собирается один раз на процесс
	policy := csp.Init(config.CSP())
	core.LogInfo("Content-Security-Policy", map[string]interface{}{"policy": policy.PolicyString()})

	// 6) Роутер с хуками запроса
	handler := httpx.NewRouter(httpx.Deps{
		Config:   config,
		Policy:   policy,
		Sessions: session.NewStore(httpx.SessionKey(config.SessionKey), config.Secure, config.SessionExpiration()),
		Users:    storage.NewUsers(db),
		Metrics:  metrics.New(),
	})

	// 7) HTTP-сервер с таймаутами (OWASP A05)
	srv := core.Server(config, handler)

	// 8) Перехват сигналов
	sigs, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 9) Запуск сервера
	runServer(srv, config)

	// 10) Ожидаем сигнал завершения
	waitShutdown(sigs, srv, config)

	// 11) Закрытие ресурсов
	if cerr := storage.Close(db); cerr != nil {
		core.LogError("Ошибка закрытия БД", map[string]interface{}{"error": cerr.Error()})
	}
	core.Close()
}

// startLogRotation — ротация раз в сутки
func startLogRotation(ctx context.Context, dir string) {
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := core.InitDailyLog(dir); err != nil {
					fmt.Fprintf(os.Stderr, "Ошибка ротации логов: %v\n", err)
				}
			}
		}
	}()
}

// gracefulShutdown — корректное завершение
func gracefulShutdown(srv *http.Server, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return srv.Shutdown(ctx)
}

// runServer — запуск (ListenAndServe) в горутине
func runServer(srv *http.Server, cfg core.Config) {
	go func() {
		core.LogInfo("http: сервер запущен", map[string]interface{}{"addr": cfg.Addr, "env": cfg.Env, "app": cfg.AppName})
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			core.LogError("Ошибка работы сервера", map[string]interface{}{"error": err.Error()})
			os.Exit(1)
		}
	}()
}

// waitShutdown — ожидание сигналов и shutdown
func waitShutdown(sigs context.Context, srv *http.Server, cfg core.Config) {
	<-sigs.Done()
	core.LogInfo("http: начат процесс завершения", nil)
	if err := gracefulShutdown(srv, cfg.ShutdownTimeout); err != nil {
		core.LogError("Ошибка завершения сервера", map[string]interface{}{"error": err.Error()})
	} else {
		core.LogInfo("http: завершение выполнено", nil)
	}
}
