package main

import (
	"context"
	"encoding/base64"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/classicalvivekch/building-shop-manager-sub000/internal/config"
	"github.com/classicalvivekch/building-shop-manager-sub000/internal/db"
	"github.com/classicalvivekch/building-shop-manager-sub000/internal/handler"
	"github.com/classicalvivekch/building-shop-manager-sub000/internal/repository"
	"github.com/classicalvivekch/building-shop-manager-sub000/internal/server"
	"github.com/classicalvivekch/building-shop-manager-sub000/internal/service"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pg, err := db.New(ctx, cfg)
	if err != nil {
		logger.Error("failed to connect database", "err", err)
		os.Exit(1)
	}
	defer pg.Close()

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		logger.Error("failed to create upload dir", "err", err)
		os.Exit(1)
	}

	// Firebase Auth (optional)
	var firebaseAuth *auth.Client
	if cfg.FirebaseProjectID != "" {
		app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.FirebaseProjectID}, firebaseOptions(cfg)...)
		if err != nil {
			logger.Error("failed to init firebase app", "err", err)
			os.Exit(1)
		}
		client, err := app.Auth(ctx)
		if err != nil {
			logger.Error("failed to init firebase auth", "err", err)
			os.Exit(1)
		}
		firebaseAuth = client
	}

	// repositories
	userRepo := repository.UserRepository{DB: pg}
	customerRepo := repository.CustomerRepository{DB: pg}
	inventoryRepo := repository.InventoryRepository{DB: pg}
	saleRepo := repository.SaleRepository{DB: pg, Customers: customerRepo}
	borrowRepo := repository.BorrowRepository{DB: pg}
	expenseRepo := repository.ExpenseRepository{DB: pg}
	salaryRepo := repository.SalaryRepository{DB: pg}
	reportRepo := repository.ReportRepository{DB: pg}
	dashboardRepo := repository.DashboardRepository{DB: pg}

	// services
	authSvc := service.AuthService{Config: cfg, Users: userRepo, Logger: logger, FirebaseAuth: firebaseAuth}

	// handlers
	healthHandler := handler.HealthHandler{DB: pg}
	authHandler := handler.AuthHandler{Config: cfg, Auth: authSvc, Logger: logger}
	userHandler := handler.UserHandler{Users: userRepo}
	inventoryHandler := handler.InventoryHandler{Repo: inventoryRepo}
	saleHandler := handler.SaleHandler{Repo: saleRepo, Logger: logger}
	borrowHandler := handler.BorrowHandler{Repo: borrowRepo}
	expenseHandler := handler.ExpenseHandler{Repo: expenseRepo}
	salaryHandler := handler.SalaryHandler{Repo: salaryRepo}
	reportHandler := handler.ReportHandler{Repo: reportRepo, Currency: cfg.DefaultCurrency}
	dashboardHandler := handler.DashboardHandler{Repo: dashboardRepo, Sales: saleRepo, Currency: cfg.DefaultCurrency}
	calendarHandler := handler.CalendarHandler{Sales: saleRepo, Expenses: expenseRepo}
	uploadHandler := handler.UploadHandler{Config: cfg}

	router := server.NewRouter(cfg, logger, healthHandler, authHandler, userHandler, inventoryHandler, saleHandler, borrowHandler, expenseHandler, salaryHandler, reportHandler, dashboardHandler, calendarHandler, uploadHandler)

	if err := server.Start(ctx, cfg, router, logger); err != nil {
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
}

func firebaseOptions(cfg config.Config) []option.ClientOption {
	if cfg.FirebaseCredFile == "" {
		return nil
	}

	cred := cfg.FirebaseCredFile
	// Allow inline JSON or base64-encoded JSON in env to avoid writing a file.
	if strings.HasPrefix(strings.TrimSpace(cred), "{") {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(cred))}
	}
	if decoded, err := base64.StdEncoding.DecodeString(cred); err == nil && strings.HasPrefix(strings.TrimSpace(string(decoded)), "{") {
		return []option.ClientOption{option.WithCredentialsJSON(decoded)}
	}

	return []option.ClientOption{option.WithCredentialsFile(cred)}
}
