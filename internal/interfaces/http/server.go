// Package http is the HTTP adapter: it translates requests into service
// calls and service errors into status codes, and owns nothing else.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/D3stan/motorcycle-repair-shop-MS-sub001/internal/auth"
	"github.com/D3stan/motorcycle-repair-shop-MS-sub001/internal/config"
)

// Server is the HTTP server adapter
type Server struct {
	config     config.ServerConfig
	httpServer *http.Server
	router     *gin.Engine
	handlers   *Handlers
	tokens     *auth.Manager
	logger     *zap.Logger
}

// NewServer creates a new HTTP server wired to the given handlers
func NewServer(cfg config.ServerConfig, handlers *Handlers, tokens *auth.Manager, logger *zap.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	server := &Server{
		config:   cfg,
		router:   gin.New(),
		handlers: handlers,
		tokens:   tokens,
		logger:   logger,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// setupMiddleware configures middleware for the router
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(corsMiddleware())
	s.router.Use(requestIDMiddleware())
	s.router.Use(loggingMiddleware(s.logger))
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	h := s.handlers

	s.router.GET("/health", h.HealthCheck)

	api := s.router.Group("/api/v1")
	api.POST("/auth/login", h.Login)

	authed := api.Group("")
	authed.Use(authMiddleware(s.tokens))
	{
		authed.GET("/models", h.ListModels)

		authed.GET("/motorcycles", h.ListMotorcycles)
		authed.POST("/motorcycles", h.RegisterMotorcycle)
		authed.DELETE("/motorcycles/:id", h.RemoveMotorcycle)

		authed.GET("/appointments", h.ListAppointments)
		authed.POST("/appointments", h.BookAppointment)
		authed.DELETE("/appointments/:id", h.CancelAppointment)

		authed.GET("/work-orders", h.ListMyWorkOrders)

		authed.GET("/invoices", h.ListMyInvoices)
		authed.GET("/invoices/:id/download", h.DownloadInvoice)
	}

	staff := authed.Group("/admin")
	staff.Use(requireStaff())
	{
		staff.GET("/appointments/pending", h.ListPendingAppointments)
		staff.POST("/appointments/:id/review", h.ReviewAppointment)

		staff.POST("/work-orders", h.CreateWorkOrder)
		staff.GET("/work-orders/:id", h.GetWorkOrder)
		staff.PATCH("/work-orders/:id/status", h.UpdateWorkOrderStatus)
		staff.POST("/work-orders/:id/parts", h.AddWorkOrderPart)
		staff.POST("/work-orders/:id/invoice", h.IssueWorkOrderInvoice)

		staff.POST("/work-sessions", h.CreateWorkSession)
		staff.POST("/work-sessions/:id/complete", h.CompleteWorkSession)
		staff.POST("/work-sessions/:id/cancel", h.CancelWorkSession)
		staff.POST("/work-sessions/:id/invoice", h.IssueWorkSessionInvoice)

		staff.GET("/invoices", h.ListAllInvoices)
		staff.GET("/invoices/export", h.ExportInvoices)
		staff.POST("/invoices/:id/pay", h.MarkInvoicePaid)
		staff.POST("/invoices/:id/cancel", h.CancelInvoice)
	}

	admin := authed.Group("/admin")
	admin.Use(requireAdmin())
	{
		admin.POST("/users", h.CreateUser)
		admin.GET("/users", h.ListUsers)
		admin.DELETE("/users/:id", h.DeleteUser)

		admin.POST("/suppliers", h.CreateSupplier)
		admin.GET("/suppliers", h.ListSuppliers)
		admin.PUT("/suppliers/:id", h.UpdateSupplier)
		admin.DELETE("/suppliers/:id", h.DeleteSupplier)

		admin.POST("/models", h.CreateModel)
		admin.PUT("/models/:id", h.UpdateModel)
		admin.DELETE("/models/:id", h.DeleteModel)

		admin.POST("/parts", h.CreatePart)
		admin.GET("/parts", h.ListParts)
		admin.PUT("/parts/:id", h.UpdatePart)
		admin.DELETE("/parts/:id", h.DeletePart)
	}
}

// Start starts the HTTP server and blocks until the context is cancelled
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("Starting HTTP server", zap.String("address", addr))

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("HTTP server shutdown requested")
		return s.Stop()
	case err := <-errCh:
		s.logger.Error("HTTP server error", zap.Error(err))
		return err
	}
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", zap.Error(err))
		return err
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// Router returns the underlying gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}
