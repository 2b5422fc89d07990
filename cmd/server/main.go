package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"account-portal/internal/auth"
	"account-portal/internal/config"
	apphttp "account-portal/internal/http"
	"account-portal/internal/repository/sqlite"
	"account-portal/internal/service"
	"account-portal/internal/session"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer db.Close()

	userRepo := sqlite.NewUserRepository(db)
	questionRepo := sqlite.NewQuestionRepository(db)

	if err := userRepo.Init(ctx); err != nil {
		logger.Fatalf("init user repository: %v", err)
	}
	if err := questionRepo.Init(ctx); err != nil {
		logger.Fatalf("init question repository: %v", err)
	}

	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)

	seeder := service.NewSeeder(userRepo, questionRepo, hasher, service.AdminAccount{
		Email:    cfg.Admin.Email,
		Username: cfg.Admin.Username,
		Password: cfg.Admin.Password,
	}, logger)
	if err := seeder.Run(ctx); err != nil {
		logger.Fatalf("seed startup data: %v", err)
	}

	authService := service.NewAuthService(userRepo, questionRepo, hasher)
	adminService := service.NewAdminService(userRepo)
	sessions := session.NewStore(time.Duration(cfg.Session.TTLMinutes) * time.Minute)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(apphttp.Recovery())
	handler := apphttp.NewHandler(authService, adminService, sessions, cfg.Session.CookieName)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}

	logger.Info("bye")
}
