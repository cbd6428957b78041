package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/D3stan/motorcycle-repair-shop-MS-sub001/internal/auth"
	"github.com/D3stan/motorcycle-repair-shop-MS-sub001/internal/models"
	"github.com/D3stan/motorcycle-repair-shop-MS-sub001/pkg/utils"
)

type motorcycleStore interface {
	Create(ctx context.Context, m *models.Motorcycle) error
	ListByUser(ctx context.Context, userID int64) ([]*models.Motorcycle, error)
	Delete(ctx context.Context, id, userID int64) error
}

type modelReader interface {
	GetByID(ctx context.Context, id int64) (*models.MotorcycleModel, error)
}

// GarageService manages a customer's registered motorcycles
type GarageService struct {
	motorcycles motorcycleStore
	catalog     modelReader
	logger      *zap.Logger
}

// NewGarageService creates a new garage service
func NewGarageService(motorcycles motorcycleStore, catalog modelReader, logger *zap.Logger) *GarageService {
	return &GarageService{
		motorcycles: motorcycles,
		catalog:     catalog,
		logger:      logger,
	}
}

// RegisterMotorcycleInput is the request to add a vehicle to a garage
type RegisterMotorcycleInput struct {
	ModelID          int64  `json:"model_id" binding:"required"`
	Plate            string `json:"plate" binding:"required"`
	VIN              string `json:"vin" binding:"required"`
	RegistrationYear int    `json:"registration_year" binding:"required"`
	Notes            string `json:"notes"`
}

// List returns the caller's motorcycles
func (s *GarageService) List(ctx context.Context, ident auth.Identity) ([]*models.Motorcycle, error) {
	return s.motorcycles.ListByUser(ctx, ident.UserID)
}

// Register adds a motorcycle to the caller's garage
func (s *GarageService) Register(ctx context.Context, ident auth.Identity, input RegisterMotorcycleInput) (*models.Motorcycle, error) {
	if err := utils.ValidatePlate(input.Plate); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := utils.ValidateVIN(input.VIN); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	model, err := s.catalog.GetByID(ctx, input.ModelID)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	if model == nil {
		return nil, fmt.Errorf("%w: unknown model %d", ErrValidation, input.ModelID)
	}
	if input.RegistrationYear < model.ModelYear {
		return nil, fmt.Errorf("%w: registration year %d precedes model year %d",
			ErrValidation, input.RegistrationYear, model.ModelYear)
	}

	m := &models.Motorcycle{
		UserID:           ident.UserID,
		ModelID:          input.ModelID,
		Plate:            strings.ToUpper(input.Plate),
		VIN:              strings.ToUpper(input.VIN),
		RegistrationYear: input.RegistrationYear,
		Notes:            utils.SanitizeString(input.Notes),
	}
	if err := s.motorcycles.Create(ctx, m); err != nil {
		return nil, err
	}
	m.Model = model

	s.logger.Info("Motorcycle registered",
		zap.Int64("user_id", ident.UserID),
		zap.String("plate", m.Plate))
	return m, nil
}

// Remove deletes a motorcycle from the caller's garage. A motorcycle owned
// by someone else is reported as not found.
func (s *GarageService) Remove(ctx context.Context, ident auth.Identity, motorcycleID int64) error {
	err := s.motorcycles.Delete(ctx, motorcycleID, ident.UserID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
