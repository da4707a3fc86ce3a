package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"

	"github.com/lumenlab/lampcore/internal/audit"
	auditrepo "github.com/lumenlab/lampcore/internal/audit/repo"
	"github.com/lumenlab/lampcore/internal/config"
	"github.com/lumenlab/lampcore/internal/lamp"
	lamprepo "github.com/lumenlab/lampcore/internal/lamp/repo"
	"github.com/lumenlab/lampcore/internal/router"
	"github.com/lumenlab/lampcore/internal/user"
	userrepo "github.com/lumenlab/lampcore/internal/user/repo"
	"github.com/lumenlab/lampcore/pkg/database"
	"github.com/lumenlab/lampcore/pkg/document"
	"github.com/lumenlab/lampcore/pkg/qrimage"
	"github.com/lumenlab/lampcore/pkg/utilities"
)

func main() {
	// load .env file if present so os.Getenv picks values from it
	// this is best-effort: if no .env exists, continue (use defaults or real env)
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// init logger
	logCfg := utilities.LogConfigFromEnv()
	if logCfg.Dir == "" {
		logCfg.Dir = cfg.Paths.Logs
	}
	lg, err := utilities.InitLogger(logCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer lg.Sync()

	sugar := lg.Sugar()
	sugar.Info("starting lampcore")

	// init db
	sqlDB, err := database.Connect(database.ConfigFromEnv())
	if err != nil {
		sugar.Fatalf("db connect: %v", err)
	}
	defer sqlDB.Close()

	// wrap with sqlx for the document store
	sqlxDB := sqlx.NewDb(sqlDB, "postgres")
	defer sqlxDB.Close()

	store := document.NewStore(sqlxDB, sugar)
	if err := store.EnsureSchema(context.Background()); err != nil {
		sugar.Fatalf("ensure schema: %v", err)
	}
	if err := os.MkdirAll(cfg.Paths.Images, 0o755); err != nil {
		sugar.Fatalf("create images dir: %v", err)
	}

	// wire services
	users := userrepo.NewUserRepo(store)
	userSvc := user.NewUserService(users, nil)
	auditSvc := audit.NewAuditService(auditrepo.NewDeletedDataRepo(store), users)
	lampSvc := lamp.NewLampService(lamprepo.NewLampRepo(store), users, auditSvc, qrimage.Writer{}, cfg.Paths.Images, sugar)

	handler := router.RegisterRoutes(sugar,
		user.NewHandler(userSvc, sugar),
		lamp.NewHandler(lampSvc, sugar),
		audit.NewHandler(auditSvc, sugar),
	)

	// graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: handler,
	}

	// run server in background
	go func() {
		sugar.Infow("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalf("http server failed: %v", err)
		}
	}()

	<-ctx.Done()

	sugar.Info("shutting down")

	// give a short grace period for cleanup
	doneCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(doneCtx); err != nil {
		sugar.Warnf("db ping on shutdown failed: %v", err)
	}

	if err := srv.Shutdown(doneCtx); err != nil {
		sugar.Warnf("http server shutdown failed: %v", err)
	}

	sugar.Info("goodbye")
}
