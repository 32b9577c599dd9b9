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

	"github.com/Kesavaawalakbari/konek/internal/auth"
	"github.com/Kesavaawalakbari/konek/internal/catalog"
	catalogStore "github.com/Kesavaawalakbari/konek/internal/catalog/store"
	"github.com/Kesavaawalakbari/konek/internal/config"
	"github.com/Kesavaawalakbari/konek/internal/database"
	"github.com/Kesavaawalakbari/konek/internal/employee"
	employeeStore "github.com/Kesavaawalakbari/konek/internal/employee/store"
	"github.com/Kesavaawalakbari/konek/internal/event"
	konekHttp "github.com/Kesavaawalakbari/konek/internal/http"
	employeeHandler "github.com/Kesavaawalakbari/konek/internal/http/employee"
	importHandler "github.com/Kesavaawalakbari/konek/internal/http/importcsv"
	productHandler "github.com/Kesavaawalakbari/konek/internal/http/product"
	reportHandler "github.com/Kesavaawalakbari/konek/internal/http/report"
	storeHandler "github.com/Kesavaawalakbari/konek/internal/http/store"
	supplierHandler "github.com/Kesavaawalakbari/konek/internal/http/supplier"
	txHandler "github.com/Kesavaawalakbari/konek/internal/http/transaction"
	"github.com/Kesavaawalakbari/konek/internal/i18n"
	"github.com/Kesavaawalakbari/konek/internal/importer"
	"github.com/Kesavaawalakbari/konek/internal/inventory"
	inventoryStore "github.com/Kesavaawalakbari/konek/internal/inventory/store"
	"github.com/Kesavaawalakbari/konek/internal/report"
	reportStore "github.com/Kesavaawalakbari/konek/internal/report/store"
	"github.com/Kesavaawalakbari/konek/internal/supplier"
	supplierStore "github.com/Kesavaawalakbari/konek/internal/supplier/store"
	"github.com/Kesavaawalakbari/konek/internal/transaction"
	txStore "github.com/Kesavaawalakbari/konek/internal/transaction/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	loc, err := cfg.Location()
	if err != nil {
		slog.Error("failed to load timezone", "error", err)
		os.Exit(1)
	}

	bundle, err := i18n.New(cfg.App.DefaultLanguage)
	if err != nil {
		slog.Error("failed to load translations", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	var publisher event.Publisher = event.Nop{}

	if len(cfg.Kafka.Brokers) > 0 {
		kp := event.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer kp.Close()

		publisher = kp

		slog.Info("publishing events", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
	}

	var (
		catalogService     = catalog.NewService(catalogStore.New(db))
		ledger             = inventory.NewLedger(inventoryStore.New(db), publisher)
		reportService      = report.NewService(reportStore.New(db), loc)
		importService      = importer.NewService()
		supplierService    = supplier.NewService(supplierStore.New(db))
		employeeService    = employee.NewService(employeeStore.New(db), employee.WithLocation(loc))
		transactionService = transaction.NewService(
			txStore.New(db),
			catalogStore.New(db),
			transaction.WithLocation(loc),
			transaction.WithPublisher(publisher),
		)
	)

	var (
		productH     = productHandler.NewHandler(catalogService, ledger, reportService)
		importH      = importHandler.NewHandler(importService, catalogService)
		storeH       = storeHandler.NewHandler(catalogService)
		transactionH = txHandler.NewHandler(transactionService, reportService)
		reportH      = reportHandler.NewHandler(reportService)
		supplierH    = supplierHandler.NewHandler(supplierService)
		employeeH    = employeeHandler.NewHandler(employeeService)
	)

	router := konekHttp.New(konekHttp.Options{
		Verifier:       auth.NewVerifier(cfg.JWT.Secret),
		Bundle:         bundle,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Timeout:        cfg.Server.Timeout,
		DB:             db,
	}, productH, importH, storeH, transactionH, reportH, supplierH, employeeH)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("starting server", "app", cfg.App.Name, "port", srv.Addr, "timezone", loc.String())

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}
}
