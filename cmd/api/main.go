package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/njprem/Identity_APP_BackEnd/internal/config"
	"github.com/njprem/Identity_APP_BackEnd/internal/logging"
	miniorepo "github.com/njprem/Identity_APP_BackEnd/internal/repository/minio"
	"github.com/njprem/Identity_APP_BackEnd/internal/repository/postgres"
	"github.com/njprem/Identity_APP_BackEnd/internal/service"
	transporthttp "github.com/njprem/Identity_APP_BackEnd/internal/transport/http"
	"github.com/njprem/Identity_APP_BackEnd/internal/transport/mail"
	"github.com/njprem/Identity_APP_BackEnd/internal/util"
)

func main() {
	cfg := config.Load()

	if cfg.LogstashTCPAddr != "" {
		writer, err := logging.NewLogstashWriter(cfg.LogstashTCPAddr)
		if err != nil {
			log.Printf("logstash mirror disabled: %v", err)
		} else {
			defer writer.Close()
			log.SetOutput(io.MultiWriter(os.Stdout, writer))
		}
	}

	db, err := postgres.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer db.Close()

	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), time.Minute)
	if err := postgres.Migrate(migrateCtx, db); err != nil {
		cancelMigrate()
		log.Fatalf("run migrations: %v", err)
	}
	cancelMigrate()

	minioClient, err := miniorepo.NewClient(cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOUseSSL)
	if err != nil {
		log.Fatalf("connect minio: %v", err)
	}
	storage := miniorepo.NewStorage(minioClient, cfg.MinIOPublicURL, cfg.MinIOUseSSL)

	credentialRepo := postgres.NewCredentialRepo(db)
	userRepo := postgres.NewUserRepo(db)
	resetRepo := postgres.NewPasswordResetRepo(db)
	orgRepo := postgres.NewOrganizationRepo(db)

	jwtManager := util.NewJWTManager(cfg.JWTSecret, cfg.SessionTTL)
	mailer := mail.NewPasswordResetMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)

	identity := service.NewIdentityService(credentialRepo, userRepo, jwtManager, cfg.GoogleAudience)
	resets := service.NewPasswordResetService(resetRepo, userRepo, credentialRepo, mailer, cfg.FrontendBaseURL, cfg.PasswordResetTTL)
	orgs := service.NewOrganizationService(orgRepo, storage, cfg.MinIOBucketOrgs)
	guests := service.NewGuestCleanupService(userRepo, credentialRepo, cfg.GuestMaxAge)

	e := transporthttp.NewRouter(cfg.AllowOrigins)
	transporthttp.RegisterAuth(e, identity)
	transporthttp.RegisterPasswordReset(e, resets)
	transporthttp.RegisterOrganizations(e, identity, orgs)
	transporthttp.RegisterAdmin(e, identity, resets, guests)
	transporthttp.RegisterSwagger(e)
	transporthttp.RegisterPages(e, cfg.FrontendBaseURL)

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go runSweeps(rootCtx, cfg.SweepInterval, resets, guests)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server stopped: %v", err)
		}
	}()

	<-rootCtx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

// runSweeps periodically deletes expired reset tokens and stale guest
// accounts. Both sweeps are idempotent so a missed or doubled tick is
// harmless.
func runSweeps(ctx context.Context, interval time.Duration, resets *service.PasswordResetService, guests *service.GuestCleanupService) {
	if interval <= 0 {
		interval = time.Hour
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sweepCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
			if _, err := resets.Sweep(sweepCtx); err != nil {
				log.Printf("token sweep: %v", err)
			}
			if _, err := guests.Run(sweepCtx); err != nil {
				log.Printf("guest sweep: %v", err)
			}
			cancel()
		}
	}
}
