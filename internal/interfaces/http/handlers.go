package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/D3stan/motorcycle-repair-shop-MS-sub001/internal/billing"
	"github.com/D3stan/motorcycle-repair-shop-MS-sub001/internal/export"
	"github.com/D3stan/motorcycle-repair-shop-MS-sub001/internal/models"
	"github.com/D3stan/motorcycle-repair-shop-MS-sub001/internal/render"
	"github.com/D3stan/motorcycle-repair-shop-MS-sub001/internal/service"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	auth         *service.AuthService
	garage       *service.GarageService
	appointments *service.AppointmentService
	workOrders   *service.WorkOrderService
	sessions     *service.WorkSessionService
	billing      *service.BillingService
	invoices     *service.InvoiceQueryService
	admin        *service.AdminService
	reports      *export.InvoiceReportWriter
	logger       *zap.Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	authSvc *service.AuthService,
	garage *service.GarageService,
	appointments *service.AppointmentService,
	workOrders *service.WorkOrderService,
	sessions *service.WorkSessionService,
	billing *service.BillingService,
	invoices *service.InvoiceQueryService,
	admin *service.AdminService,
	reports *export.InvoiceReportWriter,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		auth:         authSvc,
		garage:       garage,
		appointments: appointments,
		workOrders:   workOrders,
		sessions:     sessions,
		billing:      billing,
		invoices:     invoices,
		admin:        admin,
		reports:      reports,
		logger:       logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// respondError maps service errors onto HTTP statuses. Internal causes are
// logged but never leaked to the client.
func (h *Handlers) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, Response{Success: false, Error: "invalid credentials"})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, Response{Success: false, Error: "not found"})
	case errors.Is(err, billing.ErrMissingWorkOrder):
		h.logger.Warn("Invoice references unresolvable work",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
		c.JSON(http.StatusNotFound, Response{Success: false, Error: "not found"})
	case errors.Is(err, service.ErrNotInvoiceable),
		errors.Is(err, service.ErrAlreadyInvoiced),
		errors.Is(err, service.ErrWorkOrderLocked):
		c.JSON(http.StatusConflict, Response{Success: false, Error: err.Error()})
	case errors.Is(err, render.ErrRenderFailure):
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "could not generate document"})
	default:
		h.logger.Error("Unhandled request error",
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", c.GetString("request_id")),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "internal server error"})
	}
}

func (h *Handlers) respondBadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
}

func idParam(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id parameter")
	}
	return id, nil
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// LoginRequest is the credentials payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the access token and the account it belongs to
type LoginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Login handles POST /api/v1/auth/login
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBadRequest(c, err)
		return
	}

	token, user, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: LoginResponse{Token: token, User: user}})
}

// ListMotorcycles handles GET /api/v1/motorcycles
func (h *Handlers) ListMotorcycles(c *gin.Context) {
	list, err := h.garage.List(c.Request.Context(), identityFrom(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: list})
}

// RegisterMotorcycle handles POST /api/v1/motorcycles
func (h *Handlers) RegisterMotorcycle(c *gin.Context) {
	var req service.RegisterMotorcycleInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBadRequest(c, err)
		return
	}

	m, err := h.garage.Register(c.Request.Context(), identityFrom(c), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, Response{Success: true, Data: m})
}

// RemoveMotorcycle handles DELETE /api/v1/motorcycles/:id
func (h *Handlers) RemoveMotorcycle(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		h.respondBadRequest(c, err)
		return
	}

	if err := h.garage.Remove(c.Request.Context(), identityFrom(c), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true})
}

// ListAppointments handles GET /api/v1/appointments
func (h *Handlers) ListAppointments(c *gin.Context) {
	list, err := h.appointments.ListMine(c.Request.Context(), identityFrom(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: list})
}

// BookAppointment handles POST /api/v1/appointments
func (h *Handlers) BookAppointment(c *gin.Context) {
	var req service.BookAppointmentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBadRequest(c, err)
		return
	}

	a, err := h.appointments.Book(c.Request.Context(), identityFrom(c), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, Response{Success: true, Data: a})
}

// CancelAppointment handles DELETE /api/v1/appointments/:id
func (h *Handlers) CancelAppointment(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		h.respondBadRequest(c, err)
		return
	}

	if err := h.appointments.Cancel(c.Request.Context(), identityFrom(c), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true})
}

// ListMyWorkOrders handles GET /api/v1/work-orders
func (h *Handlers) ListMyWorkOrders(c *gin.Context) {
	list, err := h.workOrders.ListForUser(c.Request.Context(), identityFrom(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: list})
}

// ListMyInvoices handles GET /api/v1/invoices
func (h *Handlers) ListMyInvoices(c *gin.Context) {
	listing, err := h.invoices.ListForUser(c.Request.Context(), identityFrom(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: listing})
}

// DownloadInvoice handles GET /api/v1/invoices/:id/download. The rendered
// document is never cached: it reflects invoice state at request time.
func (h *Handlers) DownloadInvoice(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		h.respondBadRequest(c, err)
		return
	}

	result, err := h.invoices.Download(c.Request.Context(), identityFrom(c), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.Header("Expires", "0")
	c.Data(http.StatusOK, result.ContentType, result.Bytes)
}

// ListPendingAppointments handles GET /api/v1/admin/appointments/pending
func (h *Handlers) ListPendingAppointments(c *gin.Context) {
	list, err := h.appointments.ListPending(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: list})
}

// ReviewAppointmentRequest accepts or rejects a pending appointment
type ReviewAppointmentRequest struct {
	Accept *bool `json:"accept" binding:"required"`
}

// ReviewAppointment handles POST /api/v1/admin/appointments/:id/review
func (h *Handlers) ReviewAppointment(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		h.respondBadRequest(c, err)
		return
	}

	var req ReviewAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBadRequest(c, err)
		return
	}

	if err := h.appointments.Review(c.Request.Context(), id, *req.Accept); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true})
}

// CreateWorkOrder handles POST /api/v1/admin/work-orders
func (h *Handlers) CreateWorkOrder(c *gin.Context) {
	var req service.CreateWorkOrderInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBadRequest(c, err)
		return
	}

	wo, err := h.workOrders.Create(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, Response{Success: true, Data: wo})
}

// GetWorkOrder handles GET /api/v1/admin/work-orders/:id
func (h *Handlers) GetWorkOrder(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		h.respondBadRequest(c, err)
		return
	}

	view, err := h.workOrders.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: view})
}

// UpdateWorkOrderStatus handles PATCH /api/v1/admin/work-orders/:id/status
func (h *Handlers) UpdateWorkOrderStatus(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		h.respondBadRequest(c, err)
		return
	}

	var req service.UpdateStatusInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBadRequest(c, err)
		return
	}

	wo, err := h.workOrders.UpdateStatus(c.Request.Context(), id, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: wo})
}

// AddWorkOrderPart handles POST /api/v1/admin/work-orders/:id/parts
func (h *Handlers) AddWorkOrderPart(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		h.respondBadRequest(c, err)
		return
	}

	var req service.AddPartInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBadRequest(c, err)
		return
	}

	usage, err := h.workOrders.AddPart(c.Request.Context(), id, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, Response{Success: true, Data: usage})
}

// CreateWorkSession handles POST /api/v1/admin/work-sessions
func (h *Handlers) CreateWorkSession(c *gin.Context) {
	var req service.CreateWorkSessionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBadRequest(c, err)
		return
	}

	ws, err := h.sessions.Create(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, Response{Success: true, Data: ws})
}

// CompleteWorkSessionRequest carries the billable hours of a finished session
type CompleteWorkSessionRequest struct {
	Hours decimal.Decimal `json:"hours" binding:"required"`
}

// CompleteWorkSession handles POST /api/v1/admin/work-sessions/:id/complete
func (h *Handlers) CompleteWorkSession(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		h.respondBadRequest(c, err)
		return
	}

	var req CompleteWorkSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBadRequest(c, err)
		return
	}

	ws, err := h.sessions.Complete(c.Request.Context(), id, req.Hours)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: ws})
}

// CancelWorkSession handles POST /api/v1/admin/work-sessions/:id/cancel
func (h *Handlers) CancelWorkSession(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		h.respondBadRequest(c, err)
		return
	}

	if err := h.sessions.Cancel(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true})
}

// IssueInvoiceRequest carries the optional note printed on the invoice
type IssueInvoiceRequest struct {
	Note string `json:"note"`
}

// IssueWorkOrderInvoice handles POST /api/v1/admin/work-orders/:id/invoice
func (h *Handlers) IssueWorkOrderInvoice(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		h.respondBadRequest(c, err)
		return
	}

	// The note is optional; an empty body is fine.
	var req IssueInvoiceRequest
	_ = c.ShouldBindJSON(&req)

	inv, err := h.billing.IssueForWorkOrder(c.Request.Context(), id, req.Note)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, Response{Success: true, Data: inv})
}

// IssueWorkSessionInvoice handles POST /api/v1/admin/work-sessions/:id/invoice
func (h *Handlers) IssueWorkSessionInvoice(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		h.respondBadRequest(c, err)
		return
	}

	var req IssueInvoiceRequest
	_ = c.ShouldBindJSON(&req)

	inv, err := h.billing.IssueForWorkSession(c.Request.Context(), id, req.Note)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, Response{Success: true, Data: inv})
}

// MarkInvoicePaid handles POST /api/v1/admin/invoices/:id/pay
func (h *Handlers) MarkInvoicePaid(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		h.respondBadRequest(c, err)
		return
	}

	inv, err := h.billing.MarkPaid(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: inv})
}

// CancelInvoice handles POST /api/v1/admin/invoices/:id/cancel
func (h *Handlers) CancelInvoice(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		h.respondBadRequest(c, err)
		return
	}

	inv, err := h.billing.Cancel(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: inv})
}

// ListAllInvoices handles GET /api/v1/admin/invoices
func (h *Handlers) ListAllInvoices(c *gin.Context) {
	listing, err := h.invoices.ListAll(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: listing})
}

// ExportInvoices handles GET /api/v1/admin/invoices/export
func (h *Handlers) ExportInvoices(c *gin.Context) {
	listing, err := h.invoices.ListAll(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	data, err := h.reports.Write(listing)
	if err != nil {
		h.respondError(c, err)
		return
	}

	filename := "invoices-" + time.Now().UTC().Format("2006-01-02") + ".xlsx"
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// CreateUser handles POST /api/v1/admin/users
func (h *Handlers) CreateUser(c *gin.Context) {
	var req service.CreateUserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBadRequest(c, err)
		return
	}

	user, err := h.admin.CreateUser(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, Response{Success: true, Data: user})
}

// ListUsers handles GET /api/v1/admin/users?role=customer
func (h *Handlers) ListUsers(c *gin.Context) {
	role := c.DefaultQuery("role", models.RoleCustomer)

	users, err := h.admin.ListUsers(c.Request.Context(), role)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: users})
}

// DeleteUser handles DELETE /api/v1/admin/users/:id
func (h *Handlers) DeleteUser(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		h.respondBadRequest(c, err)
		return
	}

	if err := h.admin.DeleteUser(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true})
}

// CreateSupplier handles POST /api/v1/admin/suppliers
func (h *Handlers) CreateSupplier(c *gin.Context) {
	var sup models.Supplier
	if err := c.ShouldBindJSON(&sup); err != nil {
		h.respondBadRequest(c, err)
		return
	}

	if err := h.admin.CreateSupplier(c.Request.Context(), &sup); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, Response{Success: true, Data: sup})
}

// ListSuppliers handles GET /api/v1/admin/suppliers
func (h *Handlers) ListSuppliers(c *gin.Context) {
	list, err := h.admin.ListSuppliers(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: list})
}

// UpdateSupplier handles PUT /api/v1/admin/suppliers/:id
func (h *Handlers) UpdateSupplier(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		h.respondBadRequest(c, err)
		return
	}

	var sup models.Supplier
	if err := c.ShouldBindJSON(&sup); err != nil {
		h.respondBadRequest(c, err)
		return
	}
	sup.ID = id

	if err := h.admin.UpdateSupplier(c.Request.Context(), &sup); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: sup})
}

// DeleteSupplier handles DELETE /api/v1/admin/suppliers/:id
func (h *Handlers) DeleteSupplier(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		h.respondBadRequest(c, err)
		return
	}

	if err := h.admin.DeleteSupplier(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true})
}

// CreateModel handles POST /api/v1/admin/models
func (h *Handlers) CreateModel(c *gin.Context) {
	var m models.MotorcycleModel
	if err := c.ShouldBindJSON(&m); err != nil {
		h.respondBadRequest(c, err)
		return
	}

	if err := h.admin.CreateModel(c.Request.Context(), &m); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, Response{Success: true, Data: m})
}

// ListModels handles GET /api/v1/models (available to every authenticated
// user, so customers can pick their model when registering a motorcycle)
func (h *Handlers) ListModels(c *gin.Context) {
	list, err := h.admin.ListModels(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: list})
}

// UpdateModel handles PUT /api/v1/admin/models/:id
func (h *Handlers) UpdateModel(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		h.respondBadRequest(c, err)
		return
	}

	var m models.MotorcycleModel
	if err := c.ShouldBindJSON(&m); err != nil {
		h.respondBadRequest(c, err)
		return
	}
	m.ID = id

	if err := h.admin.UpdateModel(c.Request.Context(), &m); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: m})
}

// DeleteModel handles DELETE /api/v1/admin/models/:id
func (h *Handlers) DeleteModel(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		h.respondBadRequest(c, err)
		return
	}

	if err := h.admin.DeleteModel(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true})
}

// CreatePart handles POST /api/v1/admin/parts
func (h *Handlers) CreatePart(c *gin.Context) {
	var p models.Part
	if err := c.ShouldBindJSON(&p); err != nil {
		h.respondBadRequest(c, err)
		return
	}

	if err := h.admin.CreatePart(c.Request.Context(), &p); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, Response{Success: true, Data: p})
}

// ListParts handles GET /api/v1/admin/parts
func (h *Handlers) ListParts(c *gin.Context) {
	list, err := h.admin.ListParts(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: list})
}

// UpdatePart handles PUT /api/v1/admin/parts/:id
func (h *Handlers) UpdatePart(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		h.respondBadRequest(c, err)
		return
	}

	var p models.Part
	if err := c.ShouldBindJSON(&p); err != nil {
		h.respondBadRequest(c, err)
		return
	}
	p.ID = id

	if err := h.admin.UpdatePart(c.Request.Context(), &p); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: p})
}

// DeletePart handles DELETE /api/v1/admin/parts/:id
func (h *Handlers) DeletePart(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		h.respondBadRequest(c, err)
		return
	}

	if err := h.admin.DeletePart(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true})
}
