package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"entrepreneur/backend/internal/config"
	authdomain "entrepreneur/backend/internal/domain/auth"
	projectdomain "entrepreneur/backend/internal/domain/project"
	"entrepreneur/backend/internal/httpserver"
	"entrepreneur/backend/internal/infrastructure/memory"
	"entrepreneur/backend/internal/infrastructure/password"
	"entrepreneur/backend/internal/infrastructure/postgres"
	"entrepreneur/backend/internal/infrastructure/token"
	"entrepreneur/backend/internal/logging"
	authusecase "entrepreneur/backend/internal/usecase/auth"
	projectusecase "entrepreneur/backend/internal/usecase/project"
	userusecase "entrepreneur/backend/internal/usecase/user"

	"github.com/rs/zerolog"
)

const serviceName = "ai-entrepreneur"

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := logging.New("info", "json", serviceName)
		boot.Fatal().Err(err).Msg("failed to load config")
	}

	log := logging.New(cfg.LogLevel, cfg.LogFormat, serviceName)

	rootCtx := context.Background()
	users, projects, closeStore, err := openStorage(rootCtx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StorageDriver).Msg("failed to open storage")
	}
	defer closeStore()

	tokenManager, err := token.NewJWTManager(cfg.Token, token.WithLogger(logging.Component(log, "token")))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to configure token service")
	}

	hasher := password.NewBcrypt(cfg.BcryptCost)
	authService := authusecase.NewService(users, hasher, tokenManager, logging.Component(log, "auth"))
	userService := userusecase.NewService(users, hasher)
	projectService := projectusecase.NewService(projects)

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		created, err := userService.EnsureAdmin(rootCtx, cfg.AdminEmail, cfg.AdminPassword)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to provision admin user")
		}
		if created {
			log.Info().Msg("admin user provisioned")
		}
	}

	server := httpserver.NewServer(cfg, log, authService, userService, projectService)
	log.Info().Str("addr", server.Addr()).Msg("HTTP server listening")

	go func() {
		if err := server.Start(); err != nil {
			if errors.Is(err, http.ErrServerClosed) {
				log.Info().Msg("HTTP server closed")
				return
			}
			log.Error().Err(err).Msg("server error")
			os.Exit(1)
		}
	}()

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	} else {
		log.Info().Msg("graceful shutdown completed")
	}
}

func openStorage(ctx context.Context, cfg config.Config, log zerolog.Logger) (authdomain.UserRepository, projectdomain.Repository, func(), error) {
	switch cfg.StorageDriver {
	case config.StorageMemory:
		log.Warn().Msg("using in-memory storage; data is lost on restart")
		return memory.NewUserRepository(), memory.NewProjectRepository(), func() {}, nil
	default:
		db, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, nil, err
		}
		return postgres.NewUserRepository(db.Pool), postgres.NewProjectRepository(db.Pool), db.Close, nil
	}
}
