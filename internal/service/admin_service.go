package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/D3stan/motorcycle-repair-shop-MS-sub001/internal/auth"
	"github.com/D3stan/motorcycle-repair-shop-MS-sub001/internal/models"
	"github.com/D3stan/motorcycle-repair-shop-MS-sub001/pkg/utils"
)

type userStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ListByRole(ctx context.Context, role string) ([]*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id int64) error
}

type supplierStore interface {
	Create(ctx context.Context, s *models.Supplier) error
	GetByID(ctx context.Context, id int64) (*models.Supplier, error)
	List(ctx context.Context) ([]*models.Supplier, error)
	Update(ctx context.Context, s *models.Supplier) error
	Delete(ctx context.Context, id int64) error
}

type modelStore interface {
	Create(ctx context.Context, m *models.MotorcycleModel) error
	List(ctx context.Context) ([]*models.MotorcycleModel, error)
	Update(ctx context.Context, m *models.MotorcycleModel) error
	Delete(ctx context.Context, id int64) error
}

type partCatalogStore interface {
	Create(ctx context.Context, p *models.Part) error
	GetByID(ctx context.Context, id int64) (*models.Part, error)
	List(ctx context.Context) ([]*models.Part, error)
	Update(ctx context.Context, p *models.Part) error
	Delete(ctx context.Context, id int64) error
}

// AdminService covers back-office management of accounts, suppliers and
// the parts and model catalogs
type AdminService struct {
	users     userStore
	suppliers supplierStore
	catalog   modelStore
	parts     partCatalogStore
	logger    *zap.Logger
}

// NewAdminService creates a new admin service
func NewAdminService(users userStore, suppliers supplierStore, catalog modelStore, parts partCatalogStore, logger *zap.Logger) *AdminService {
	return &AdminService{
		users:     users,
		suppliers: suppliers,
		catalog:   catalog,
		parts:     parts,
		logger:    logger,
	}
}

// CreateUserInput is the request to create an account
type CreateUserInput struct {
	FirstName  string `json:"first_name" binding:"required"`
	LastName   string `json:"last_name" binding:"required"`
	FiscalCode string `json:"fiscal_code" binding:"required"`
	Email      string `json:"email" binding:"required"`
	Phone      string `json:"phone"`
	Password   string `json:"password" binding:"required"`
	Role       string `json:"role" binding:"required"`
}

// CreateUser creates a customer or staff account with a hashed password
func (s *AdminService) CreateUser(ctx context.Context, input CreateUserInput) (*models.User, error) {
	if input.Role != models.RoleCustomer && input.Role != models.RoleMechanic && input.Role != models.RoleAdmin {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, input.Role)
	}
	if err := utils.ValidateEmail(input.Email); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := utils.ValidateFiscalCode(input.FiscalCode); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if len(input.Password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}

	existing, err := s.users.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: email already registered", ErrValidation)
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		FirstName:    utils.SanitizeString(input.FirstName),
		LastName:     utils.SanitizeString(input.LastName),
		FiscalCode:   input.FiscalCode,
		Email:        input.Email,
		Phone:        utils.SanitizeString(input.Phone),
		PasswordHash: hash,
		Role:         input.Role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User created",
		zap.Int64("id", user.ID),
		zap.String("role", user.Role))
	return user, nil
}

// ListUsers returns all accounts with the given role
func (s *AdminService) ListUsers(ctx context.Context, role string) ([]*models.User, error) {
	if role != models.RoleCustomer && role != models.RoleMechanic && role != models.RoleAdmin {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}
	return s.users.ListByRole(ctx, role)
}

// DeleteUser removes an account
func (s *AdminService) DeleteUser(ctx context.Context, id int64) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}
	return s.users.Delete(ctx, id)
}

// CreateSupplier registers a parts supplier
func (s *AdminService) CreateSupplier(ctx context.Context, sup *models.Supplier) error {
	if sup.Name == "" || sup.VATNumber == "" {
		return fmt.Errorf("%w: supplier name and VAT number are required", ErrValidation)
	}
	return s.suppliers.Create(ctx, sup)
}

// ListSuppliers returns all suppliers
func (s *AdminService) ListSuppliers(ctx context.Context) ([]*models.Supplier, error) {
	return s.suppliers.List(ctx)
}

// UpdateSupplier updates a supplier record
func (s *AdminService) UpdateSupplier(ctx context.Context, sup *models.Supplier) error {
	if sup.Name == "" || sup.VATNumber == "" {
		return fmt.Errorf("%w: supplier name and VAT number are required", ErrValidation)
	}
	return s.suppliers.Update(ctx, sup)
}

// DeleteSupplier removes a supplier record
func (s *AdminService) DeleteSupplier(ctx context.Context, id int64) error {
	return s.suppliers.Delete(ctx, id)
}

// CreateModel adds a motorcycle model to the catalog
func (s *AdminService) CreateModel(ctx context.Context, m *models.MotorcycleModel) error {
	if m.Brand == "" || m.Name == "" || m.ModelYear == 0 {
		return fmt.Errorf("%w: brand, name and model year are required", ErrValidation)
	}
	return s.catalog.Create(ctx, m)
}

// ListModels returns the whole model catalog
func (s *AdminService) ListModels(ctx context.Context) ([]*models.MotorcycleModel, error) {
	return s.catalog.List(ctx)
}

// UpdateModel updates a catalog entry
func (s *AdminService) UpdateModel(ctx context.Context, m *models.MotorcycleModel) error {
	if m.Brand == "" || m.Name == "" || m.ModelYear == 0 {
		return fmt.Errorf("%w: brand, name and model year are required", ErrValidation)
	}
	return s.catalog.Update(ctx, m)
}

// DeleteModel removes a catalog entry
func (s *AdminService) DeleteModel(ctx context.Context, id int64) error {
	return s.catalog.Delete(ctx, id)
}

// CreatePart adds a part to the inventory catalog
func (s *AdminService) CreatePart(ctx context.Context, p *models.Part) error {
	if err := validatePart(p); err != nil {
		return err
	}
	return s.parts.Create(ctx, p)
}

// ListParts returns the inventory catalog
func (s *AdminService) ListParts(ctx context.Context) ([]*models.Part, error) {
	return s.parts.List(ctx)
}

// UpdatePart updates a part's catalog fields. Price changes apply to future
// consumption only; recorded usages keep their snapshot price.
func (s *AdminService) UpdatePart(ctx context.Context, p *models.Part) error {
	if err := validatePart(p); err != nil {
		return err
	}
	return s.parts.Update(ctx, p)
}

// DeletePart removes a part from the catalog
func (s *AdminService) DeletePart(ctx context.Context, id int64) error {
	return s.parts.Delete(ctx, id)
}

func validatePart(p *models.Part) error {
	if p.Code == "" || p.Name == "" {
		return fmt.Errorf("%w: part code and name are required", ErrValidation)
	}
	if p.UnitPrice.LessThan(decimal.Zero) {
		return fmt.Errorf("%w: unit price must not be negative", ErrValidation)
	}
	if p.StockQty < 0 {
		return fmt.Errorf("%w: stock quantity must not be negative", ErrValidation)
	}
	return nil
}
