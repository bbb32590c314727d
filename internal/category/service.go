package category

import (
	"log/slog"

	"github.com/mbarcellos/finance-tracker/internal"
	categoryDatamodel "github.com/mbarcellos/finance-tracker/internal/core/datamodel/category"
)

type RepositoryAPI interface {
	// ListVisible returns categories owned by any user in the group plus
	// the default set, optionally narrowed by type.
	ListVisible(groupIDs []int64, typ Type) ([]*categoryDatamodel.Category, error)
	GetByID(id int64) (*categoryDatamodel.Category, error)
	FindByNameTypeOwner(name string, typ Type, ownerID int64) (*categoryDatamodel.Category, error)
	Create(category *categoryDatamodel.Category) error
	Update(category *categoryDatamodel.Category) error
	Delete(id int64) error
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

func (s *Service) List(groupIDs []int64, typ Type) ([]*Category, error) {
	models, err := s.repo.ListVisible(groupIDs, typ)
	if err != nil {
		s.logger.Error("failed to list categories", "error", err)
		return nil, err
	}
	return FromDataModelSlice(models), nil
}

// GetVisible fetches a category and checks the caller's group may see it.
// A category outside the group reads as not found, not forbidden.
func (s *Service) GetVisible(id int64, groupIDs []int64) (*Category, error) {
	model, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if model == nil {
		return nil, internal.ErrCategoryNotFound
	}
	cat := FromDataModel(model)
	if !cat.VisibleTo(groupIDs) {
		return nil, internal.ErrCategoryNotFound
	}
	return cat, nil
}

func (s *Service) Create(userID int64, dto CreateCategoryDTO) (*Category, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByNameTypeOwner(dto.Name, dto.Type, userID)
	if err != nil {
		s.logger.Error("failed to check category uniqueness", "error", err, "user_id", userID)
		return nil, err
	}
	if existing != nil {
		return nil, internal.ErrCategoryTaken
	}

	cat := NewCategory(dto.Name, dto.Type, dto.Color, dto.Icon, userID)
	model := ToDataModel(cat)
	if err := s.repo.Create(model); err != nil {
		s.logger.Error("failed to create category", "error", err, "user_id", userID)
		return nil, err
	}

	s.logger.Info("category created", "category_id", model.ID, "name", dto.Name, "type", dto.Type, "user_id", userID)
	return FromDataModel(model), nil
}

func (s *Service) Update(id int64, groupIDs []int64, dto UpdateCategoryDTO) (*Category, error) {
	cat, err := s.GetVisible(id, groupIDs)
	if err != nil {
		return nil, err
	}
	if cat.IsDefault {
		return nil, internal.NewForbiddenError("default categories cannot be modified", internal.ErrCodeCategoryTaken)
	}

	if dto.Name != nil {
		cat.Name = *dto.Name
	}
	if dto.Color != nil {
		cat.Color = *dto.Color
	}
	if dto.Icon != nil {
		cat.Icon = dto.Icon
	}

	model := ToDataModel(cat)
	if err := s.repo.Update(model); err != nil {
		s.logger.Error("failed to update category", "error", err, "category_id", id)
		return nil, err
	}
	return FromDataModel(model), nil
}

func (s *Service) Delete(id int64, groupIDs []int64) error {
	cat, err := s.GetVisible(id, groupIDs)
	if err != nil {
		return err
	}
	if cat.IsDefault {
		return internal.NewForbiddenError("default categories cannot be deleted", internal.ErrCodeCategoryTaken)
	}
	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete category", "error", err, "category_id", id)
		return err
	}
	s.logger.Info("category deleted", "category_id", id)
	return nil
}
