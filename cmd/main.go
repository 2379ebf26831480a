package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/shopcore/accounts-server/internal/api/http/handler"
	"github.com/shopcore/accounts-server/internal/api/http/middleware"
	"github.com/shopcore/accounts-server/internal/api/http/router"
	httpserver "github.com/shopcore/accounts-server/internal/api/http/server"
	"github.com/shopcore/accounts-server/internal/config"
	"github.com/shopcore/accounts-server/internal/logger"
	"github.com/shopcore/accounts-server/internal/model"
	"github.com/shopcore/accounts-server/internal/repository/postgres"
	"github.com/shopcore/accounts-server/internal/security"
	"github.com/shopcore/accounts-server/internal/server"
	"github.com/shopcore/accounts-server/internal/service"
	"github.com/shopcore/accounts-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	hasher := security.NewBcrypt()
	userRepo := postgres.NewUserRepository(db, hasher)
	addressRepo := postgres.NewAddressRepository(db)
	tokenManager := token.NewJWT(cfg.JWT.Secret, time.Duration(cfg.JWT.AccessTTLMinutes)*time.Minute)

	userService := service.NewUser(userRepo, hasher, logger)
	addressService := service.NewAddress(addressRepo, logger)

	httpServer := registerHTTPServer(logger, userService, addressService, userRepo, tokenManager, fmt.Sprintf(":%s", cfg.HTTP.Port))

	var sl model.SecurityLayer

	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		err := s.Start(sl)
		if err != nil {
			logger.Error("failed to start server", "error", err)
		}
	}(httpServer)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", httpServer.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}

func registerHTTPServer(
	logger *logger.Logger,
	userService *service.User,
	addressService *service.Address,
	userRepo *postgres.UserRepository,
	tokenManager model.TokenManager,
	addr string,
) *httpserver.HTTPServer {
	engine := router.New(router.Deps{
		Auth:         handler.NewAuth(userService, tokenManager, logger),
		User:         handler.NewUser(userService, logger),
		Address:      handler.NewAddress(addressService, logger),
		Authenticate: middleware.NewAuthenticate(tokenManager, userRepo, logger),
		Logging:      middleware.NewLogging(logger),
	})

	return httpserver.NewHTTPServer(engine, addr)
}
