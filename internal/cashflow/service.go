package cashflow

import (
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mbarcellos/finance-tracker/internal"
	cashflowDatamodel "github.com/mbarcellos/finance-tracker/internal/core/datamodel/cashflow"
)

type RepositoryAPI interface {
	List(groupIDs []int64, filters ListFilters) ([]*cashflowDatamodel.CashFlow, error)
	GetByID(id int64) (*cashflowDatamodel.CashFlow, error)
	Create(c *cashflowDatamodel.CashFlow) error
	Update(c *cashflowDatamodel.CashFlow) error
	Delete(id int64) error
	SumAmounts(groupIDs []int64) (decimal.Decimal, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) List(groupIDs []int64, filters ListFilters) ([]*CashFlow, error) {
	models, err := s.repo.List(groupIDs, filters)
	if err != nil {
		s.logger.Error("failed to list cash flows", "error", err)
		return nil, err
	}
	return FromDataModelSlice(models), nil
}

func (s *Service) Get(id int64, groupIDs []int64) (*CashFlow, error) {
	model, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if model == nil || !inGroup(model.CreatedBy, groupIDs) {
		return nil, internal.ErrCashFlowNotFound
	}
	return FromDataModel(model), nil
}

func (s *Service) Create(userID int64, dto CreateCashFlowDTO) (*CashFlow, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	date := time.Now()
	if dto.Date != "" {
		date, _ = time.Parse(dateLayout, dto.Date)
	}

	now := time.Now()
	c := &CashFlow{
		Description: dto.Description,
		Amount:      dto.Amount,
		FlowType:    dto.FlowType,
		Date:        date,
		Responsible: dto.Responsible,
		CreatedBy:   userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	model := ToDataModel(c)
	if err := s.repo.Create(model); err != nil {
		s.logger.Error("failed to create cash flow", "error", err, "user_id", userID)
		return nil, err
	}
	c.ID = model.ID

	s.logger.Info("cash flow created", "cashflow_id", c.ID, "flow_type", c.FlowType)
	return c, nil
}

func (s *Service) Update(id int64, groupIDs []int64, dto UpdateCashFlowDTO) (*CashFlow, error) {
	c, err := s.Get(id, groupIDs)
	if err != nil {
		return nil, err
	}

	if dto.FlowType != nil {
		if !dto.FlowType.Valid() {
			return nil, internal.NewValidationFieldError("flow_type",
				"flow_type must be initial, adjustment or transfer", internal.ErrCodeValidationFailed)
		}
		c.FlowType = *dto.FlowType
	}
	if dto.Description != nil {
		if *dto.Description == "" {
			return nil, internal.NewValidationFieldError("description",
				"description is required", internal.ErrCodeValidationFailed)
		}
		c.Description = *dto.Description
	}
	if dto.Amount != nil {
		if dto.Amount.IsZero() || dto.Amount.Exponent() < -2 {
			return nil, internal.NewValidationFieldError("amount",
				"amount must be a non-zero value with at most 2 decimal places", internal.ErrCodeInvalidAmount)
		}
		c.Amount = *dto.Amount
	}
	if dto.Date != nil {
		d, perr := time.Parse(dateLayout, *dto.Date)
		if perr != nil {
			return nil, internal.NewValidationFieldError("date",
				"date must be a YYYY-MM-DD date", internal.ErrCodeValidationFailed)
		}
		c.Date = d
	}
	if dto.Responsible != nil {
		if !dto.Responsible.Valid() {
			return nil, internal.NewValidationFieldError("responsible",
				"responsible must be person1, person2 or both", internal.ErrCodeInvalidResponsible)
		}
		c.Responsible = *dto.Responsible
	}

	c.UpdatedAt = time.Now()
	if err := s.repo.Update(ToDataModel(c)); err != nil {
		s.logger.Error("failed to update cash flow", "error", err, "cashflow_id", id)
		return nil, err
	}

	return c, nil
}

func (s *Service) Delete(id int64, groupIDs []int64) error {
	c, err := s.Get(id, groupIDs)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(c.ID); err != nil {
		s.logger.Error("failed to delete cash flow", "error", err, "cashflow_id", id)
		return err
	}

	s.logger.Info("cash flow deleted", "cashflow_id", id)
	return nil
}

// Balance is the signed sum of every movement in the group. It seeds the
// accumulated balance of the monthly projection.
func (s *Service) Balance(groupIDs []int64) (decimal.Decimal, error) {
	return s.repo.SumAmounts(groupIDs)
}

func inGroup(userID int64, groupIDs []int64) bool {
	for _, id := range groupIDs {
		if id == userID {
			return true
		}
	}
	return false
}
