package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopspring/decimal"
	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/D3stan/motorcycle-repair-shop-MS-sub001/internal/auth"
	"github.com/D3stan/motorcycle-repair-shop-MS-sub001/internal/billing"
	"github.com/D3stan/motorcycle-repair-shop-MS-sub001/internal/config"
	"github.com/D3stan/motorcycle-repair-shop-MS-sub001/internal/export"
	httpserver "github.com/D3stan/motorcycle-repair-shop-MS-sub001/internal/interfaces/http"
	"github.com/D3stan/motorcycle-repair-shop-MS-sub001/internal/render"
	"github.com/D3stan/motorcycle-repair-shop-MS-sub001/internal/repository"
	"github.com/D3stan/motorcycle-repair-shop-MS-sub001/internal/service"
	"github.com/D3stan/motorcycle-repair-shop-MS-sub001/pkg/database"
	"github.com/D3stan/motorcycle-repair-shop-MS-sub001/pkg/utils"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = gotenv.Load()

	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting workshop management system",
		zap.Int("port", cfg.Server.Port))

	vatRate, err := decimal.NewFromString(cfg.Billing.VATRate)
	if err != nil {
		logger.Fatal("Invalid VAT rate", zap.String("vat_rate", cfg.Billing.VATRate), zap.Error(err))
	}

	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	migrator := database.NewMigrator(db, logger)
	if err := migrator.RunMigrations(cfg.Database.MigrationsDir); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Repositories.
	userRepo := repository.NewUserRepository(db.DB, logger)
	supplierRepo := repository.NewSupplierRepository(db.DB, logger)
	modelRepo := repository.NewModelRepository(db.DB, logger)
	motorcycleRepo := repository.NewMotorcycleRepository(db.DB, logger)
	partRepo := repository.NewPartRepository(db.DB, logger)
	appointmentRepo := repository.NewAppointmentRepository(db.DB, logger)
	workOrderRepo := repository.NewWorkOrderRepository(db.DB, logger)
	workSessionRepo := repository.NewWorkSessionRepository(db.DB, logger)
	invoiceRepo := repository.NewInvoiceRepository(db.DB, logger)

	docCfg := billing.DocumentConfig{
		VATRate:      vatRate,
		DueDays:      cfg.Billing.DueDays,
		CompanyName:  cfg.Billing.CompanyName,
		CompanyVATID: cfg.Billing.CompanyVATID,
		CompanyAddr:  cfg.Billing.CompanyAddr,
	}
	pageFormat := render.PageFormat{
		Size:        cfg.Render.PageSize,
		Orientation: cfg.Render.Orientation,
		FontFamily:  cfg.Render.FontFamily,
	}

	tokens := auth.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	renderer := render.NewPDFRenderer(logger)

	// Services.
	authSvc := service.NewAuthService(userRepo, tokens, logger)
	garageSvc := service.NewGarageService(motorcycleRepo, modelRepo, logger)
	appointmentSvc := service.NewAppointmentService(appointmentRepo, motorcycleRepo, logger)
	workOrderSvc := service.NewWorkOrderService(workOrderRepo, partRepo, invoiceRepo, db, logger)
	workSessionSvc := service.NewWorkSessionService(workSessionRepo, invoiceRepo, logger)
	billingSvc := service.NewBillingService(invoiceRepo, workOrderRepo, workSessionRepo, db, docCfg, cfg.Billing.InvoicePrefix, logger)
	invoiceQuerySvc := service.NewInvoiceQueryService(invoiceRepo, workOrderRepo, workSessionRepo, userRepo, renderer, docCfg, pageFormat, logger)
	adminSvc := service.NewAdminService(userRepo, supplierRepo, modelRepo, partRepo, logger)
	reportWriter := export.NewInvoiceReportWriter(logger)

	handlers := httpserver.NewHandlers(
		authSvc,
		garageSvc,
		appointmentSvc,
		workOrderSvc,
		workSessionSvc,
		billingSvc,
		invoiceQuerySvc,
		adminSvc,
		reportWriter,
		logger,
	)
	server := httpserver.NewServer(cfg.Server, handlers, tokens, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}

	logger.Info("Server exited successfully")
}
