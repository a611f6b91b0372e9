package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/ecodrop/ecodrop-api/internal/chain"
	"github.com/ecodrop/ecodrop-api/internal/config"
	"github.com/ecodrop/ecodrop-api/internal/handlers"
	"github.com/ecodrop/ecodrop-api/internal/jobs"
	"github.com/ecodrop/ecodrop-api/internal/services"
	"github.com/ecodrop/ecodrop-api/internal/store"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	if err := run(log); err != nil {
		log.WithError(err).Fatal("server exited")
	}
}

func run(log *logrus.Logger) error {
	// A missing .env file is fine; the environment may be set directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := store.NewDatabase(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		return err
	}

	node, err := newChainNode(cfg.Chain, log)
	if err != nil {
		return err
	}

	userRepo := store.NewUserRepository(db)
	binRepo := store.NewBinRepository(db)
	dropRepo := store.NewDropRepository(db)
	notificationRepo := store.NewNotificationRepository(db)
	treasuryRepo := store.NewTreasuryRepository(db)

	emailService := services.NewEmailService(cfg.Email, log)
	rewardService := services.NewRewardService()
	authService := services.NewAuthService(userRepo, cfg.Auth, log)
	treasuryService := services.NewTreasuryService(treasuryRepo, node, cfg.Chain.TreasuryAddress, log)
	dropService := services.NewDropService(dropRepo, userRepo, binRepo, rewardService, log)
	binService := services.NewBinService(binRepo)
	approvalService := services.NewApprovalService(dropRepo, userRepo, notificationRepo,
		treasuryService, emailService, node, log)
	walletService := services.NewWalletService(userRepo, dropRepo, notificationRepo,
		treasuryService, node, log)
	notificationService := services.NewNotificationService(notificationRepo)
	qrService := services.NewQRService(cfg.Server.BaseURL)

	if err := authService.EnsureAdmin(cfg.Admin); err != nil {
		return fmt.Errorf("failed to seed admin account: %w", err)
	}

	hub := handlers.NewHub(log)
	go hub.Run()

	scheduler := jobs.NewScheduler(userRepo, walletService, treasuryService, log)
	if err := scheduler.Start(); err != nil {
		return fmt.Errorf("failed to start background jobs: %w", err)
	}
	defer scheduler.Stop()

	router := handlers.NewRouter(handlers.Services{
		Auth:          authService,
		Drops:         dropService,
		Bins:          binService,
		Approvals:     approvalService,
		Treasury:      treasuryService,
		Wallets:       walletService,
		Notifications: notificationService,
		QR:            qrService,
	}, hub, log)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{
			"port":    cfg.Server.Port,
			"network": node.Network(),
		}).Info("server listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
	}

	return nil
}

// newChainNode builds the chain access layer. Demo mode is an explicit
// configuration choice; config.Load already rejects live mode without
// credentials.
func newChainNode(cfg config.ChainConfig, log *logrus.Logger) (chain.Node, error) {
	if cfg.Mode == config.ChainModeDemo {
		balance, err := decimal.NewFromString(cfg.DemoBalanceADA)
		if err != nil {
			return nil, fmt.Errorf("invalid demo balance %q: %w", cfg.DemoBalanceADA, err)
		}
		log.Warn("chain access is in demo mode, transaction hashes are synthetic")
		return chain.NewDemoNode(balance), nil
	}

	return chain.NewCardanoNode(cfg)
}
