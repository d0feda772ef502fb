package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/pawnbook/internal/auth"
	"github.com/MrJamesThe3rd/pawnbook/internal/config"
	"github.com/MrJamesThe3rd/pawnbook/internal/customer"
	customerStore "github.com/MrJamesThe3rd/pawnbook/internal/customer/store"
	"github.com/MrJamesThe3rd/pawnbook/internal/database"
	"github.com/MrJamesThe3rd/pawnbook/internal/export"
	pawnHttp "github.com/MrJamesThe3rd/pawnbook/internal/http"
	authHandler "github.com/MrJamesThe3rd/pawnbook/internal/http/auth"
	customerHandler "github.com/MrJamesThe3rd/pawnbook/internal/http/customer"
	exportHandler "github.com/MrJamesThe3rd/pawnbook/internal/http/export"
	invoiceHandler "github.com/MrJamesThe3rd/pawnbook/internal/http/invoice"
	itemHandler "github.com/MrJamesThe3rd/pawnbook/internal/http/item"
	pricingHandler "github.com/MrJamesThe3rd/pawnbook/internal/http/pricing"
	txHandler "github.com/MrJamesThe3rd/pawnbook/internal/http/transaction"
	userHandler "github.com/MrJamesThe3rd/pawnbook/internal/http/user"
	"github.com/MrJamesThe3rd/pawnbook/internal/invoice"
	invoiceStore "github.com/MrJamesThe3rd/pawnbook/internal/invoice/store"
	"github.com/MrJamesThe3rd/pawnbook/internal/item"
	itemStore "github.com/MrJamesThe3rd/pawnbook/internal/item/store"
	"github.com/MrJamesThe3rd/pawnbook/internal/loan"
	"github.com/MrJamesThe3rd/pawnbook/internal/pricing"
	pricingStore "github.com/MrJamesThe3rd/pawnbook/internal/pricing/store"
	"github.com/MrJamesThe3rd/pawnbook/internal/report"
	"github.com/MrJamesThe3rd/pawnbook/internal/transaction"
	txStore "github.com/MrJamesThe3rd/pawnbook/internal/transaction/store"
	"github.com/MrJamesThe3rd/pawnbook/internal/user"
	userStore "github.com/MrJamesThe3rd/pawnbook/internal/user/store"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to read .env", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	var (
		userService        = user.NewService(userStore.New(db))
		customerService    = customer.NewService(customerStore.New(db))
		itemService        = item.NewService(itemStore.New(db))
		invoiceService     = invoice.NewService(invoiceStore.New(db), itemService, loan.SettlementMode(cfg.Loan.SettlementMode))
		transactionService = transaction.NewService(txStore.New(db))
		reportService      = report.NewService(transactionService)
		exportService      = export.NewService(reportService)
		pricingService     = pricing.NewService(pricingStore.New(db))
		issuer             = auth.NewIssuer(cfg.Auth.Secret, cfg.Auth.TokenTTL)
	)

	if cfg.Bootstrap.Password != "" {
		created, err := userService.BootstrapAdmin(ctx, cfg.Bootstrap.Username, cfg.Bootstrap.Password)
		if err != nil {
			return fmt.Errorf("bootstrap admin: %w", err)
		}

		if created {
			slog.Info("created bootstrap admin", "username", cfg.Bootstrap.Username)
		}
	}

	router := pawnHttp.New(pawnHttp.Handlers{
		Auth:         authHandler.NewHandler(userService, issuer),
		Users:        userHandler.NewHandler(userService),
		Customers:    customerHandler.NewHandler(customerService),
		Items:        itemHandler.NewHandler(itemService),
		Invoices:     invoiceHandler.NewHandler(invoiceService),
		Transactions: txHandler.NewHandler(transactionService),
		Reports:      exportHandler.NewHandler(reportService, exportService),
		Pricing:      pricingHandler.NewHandler(pricingService),
	}, issuer, cfg.AllowedOrigins())

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
	}

	errCh := make(chan error, 1)

	go func() {
		slog.Info("starting server", "name", cfg.App.Name, "port", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
