package entry

import (
	"context"
	"log/slog"
	"time"

	"github.com/mbarcellos/finance-tracker/internal"
	"github.com/mbarcellos/finance-tracker/internal/category"
	entryDatamodel "github.com/mbarcellos/finance-tracker/internal/core/datamodel/entry"
	"github.com/mbarcellos/finance-tracker/internal/core/events"
)

type RepositoryAPI interface {
	List(typ Type, groupIDs []int64, filters ListFilters) ([]*entryDatamodel.Entry, error)
	GetByID(id int64) (*entryDatamodel.Entry, error)
	Create(e *entryDatamodel.Entry) error
	Update(e *entryDatamodel.Entry) error
	Delete(id int64) error
}

// CategoryReader is the slice of the category service the entry feature
// needs: cross-validating the category on writes and labeling listings.
type CategoryReader interface {
	GetVisible(id int64, groupIDs []int64) (*category.Category, error)
	List(groupIDs []int64, typ category.Type) ([]*category.Category, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	repo       RepositoryAPI
	categories CategoryReader
	publisher  EventPublisher
	logger     *slog.Logger
}

func NewService(repo RepositoryAPI, categories CategoryReader, publisher EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		categories: categories,
		publisher:  publisher,
		logger:     logger,
	}
}

// List returns the group's entries of one type, newest entry date first,
// labeled with their category names.
func (s *Service) List(typ Type, groupIDs []int64, filters ListFilters) ([]*Entry, error) {
	models, err := s.repo.List(typ, groupIDs, filters)
	if err != nil {
		s.logger.Error("failed to list entries", "error", err, "type", typ)
		return nil, err
	}

	entries := FromDataModelSlice(models)
	s.labelCategories(entries, groupIDs)
	return entries, nil
}

// Overdue returns pending entries whose start date has passed.
func (s *Service) Overdue(typ Type, groupIDs []int64, today time.Time) ([]*Entry, error) {
	entries, err := s.List(typ, groupIDs, ListFilters{Status: StatusPending})
	if err != nil {
		return nil, err
	}

	overdue := make([]*Entry, 0, len(entries))
	for _, e := range entries {
		if e.IsOverdue(today) {
			overdue = append(overdue, e)
		}
	}
	return overdue, nil
}

// Get returns one entry if it belongs to the group; entries outside the
// group read as not found.
func (s *Service) Get(id int64, typ Type, groupIDs []int64) (*Entry, error) {
	model, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if model == nil || model.Type != string(typ) || !inGroup(model.CreatedBy, groupIDs) {
		return nil, internal.ErrEntryNotFound
	}

	e := FromDataModel(model)
	s.labelCategories([]*Entry{e}, groupIDs)
	return e, nil
}

func (s *Service) Create(ctx context.Context, typ Type, userID int64, groupIDs []int64, dto CreateEntryDTO) (*Entry, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	cat, err := s.categories.GetVisible(dto.CategoryID, groupIDs)
	if err != nil {
		return nil, err
	}
	if verr := validateCategory(typ, cat); verr != nil {
		return nil, verr
	}

	today := dateOnly(time.Now())
	entryDate := today
	if dto.EntryDate != "" {
		entryDate, _ = time.Parse(dateLayout, dto.EntryDate)
	}
	startDate := entryDate
	if dto.StartDate != "" {
		startDate, _ = time.Parse(dateLayout, dto.StartDate)
	}

	current := dto.CurrentInstallment
	if dto.Kind == KindInstallment && current == nil {
		first := 1
		current = &first
	}

	now := time.Now()
	e := &Entry{
		Type:               typ,
		Description:        dto.Description,
		Amount:             dto.Amount,
		CategoryID:         dto.CategoryID,
		CategoryName:       cat.Name,
		CategoryColor:      cat.Color,
		EntryDate:          entryDate,
		StartDate:          startDate,
		DueDay:             dto.DueDay,
		Kind:               dto.Kind,
		Responsible:        dto.Responsible,
		TotalInstallments:  dto.TotalInstallments,
		CurrentInstallment: current,
		Status:             StatusPending,
		CreatedBy:          userID,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	model := ToDataModel(e)
	if err := s.repo.Create(model); err != nil {
		s.logger.Error("failed to create entry", "error", err, "type", typ, "user_id", userID)
		return nil, err
	}
	e.ID = model.ID

	s.publisher.Publish(ctx, events.NewEntryCreatedEvent(
		e.ID, string(e.Type), e.Amount.StringFixed(2), userID, e.EntryDate))

	s.logger.Info("entry created", "entry_id", e.ID, "type", typ, "kind", e.Kind)
	return e, nil
}

// QuickEntry is the compact creation path: type inline, kind defaulting to
// single, both dates today. Validation failures create nothing.
func (s *Service) QuickEntry(ctx context.Context, userID int64, groupIDs []int64, dto QuickEntryDTO) (*Entry, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	kind := dto.Kind
	if kind == "" {
		kind = KindSingle
	}

	return s.Create(ctx, dto.Type, userID, groupIDs, CreateEntryDTO{
		Description:       dto.Description,
		Amount:            dto.Amount,
		CategoryID:        dto.CategoryID,
		DueDay:            dto.DueDay,
		Kind:              kind,
		Responsible:       dto.Responsible,
		TotalInstallments: dto.TotalInstallments,
	})
}

func (s *Service) Update(ctx context.Context, id int64, typ Type, groupIDs []int64, dto UpdateEntryDTO) (*Entry, error) {
	e, err := s.Get(id, typ, groupIDs)
	if err != nil {
		return nil, err
	}

	if dto.Description != nil {
		e.Description = *dto.Description
	}
	if dto.Amount != nil {
		e.Amount = *dto.Amount
	}
	if dto.CategoryID != nil {
		cat, err := s.categories.GetVisible(*dto.CategoryID, groupIDs)
		if err != nil {
			return nil, err
		}
		if verr := validateCategory(typ, cat); verr != nil {
			return nil, verr
		}
		e.CategoryID = cat.ID
		e.CategoryName = cat.Name
		e.CategoryColor = cat.Color
	}
	if dto.EntryDate != nil {
		d, perr := time.Parse(dateLayout, *dto.EntryDate)
		if perr != nil {
			return nil, internal.NewValidationFieldError("entry_date",
				"entry_date must be a YYYY-MM-DD date", internal.ErrCodeValidationFailed)
		}
		e.EntryDate = d
	}
	if dto.StartDate != nil {
		d, perr := time.Parse(dateLayout, *dto.StartDate)
		if perr != nil {
			return nil, internal.NewValidationFieldError("start_date",
				"start_date must be a YYYY-MM-DD date", internal.ErrCodeValidationFailed)
		}
		e.StartDate = d
	}
	if dto.DueDay != nil {
		e.DueDay = *dto.DueDay
	}
	if dto.Kind != nil {
		e.Kind = *dto.Kind
	}
	if dto.Responsible != nil {
		e.Responsible = *dto.Responsible
	}
	if dto.TotalInstallments != nil {
		e.TotalInstallments = dto.TotalInstallments
	}

	if verr := validateUpdated(e); verr != nil {
		return nil, verr
	}

	e.UpdatedAt = time.Now()
	if err := s.repo.Update(ToDataModel(e)); err != nil {
		s.logger.Error("failed to update entry", "error", err, "entry_id", id)
		return nil, err
	}

	return e, nil
}

func (s *Service) Delete(ctx context.Context, id int64, typ Type, groupIDs []int64) error {
	e, err := s.Get(id, typ, groupIDs)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(e.ID); err != nil {
		s.logger.Error("failed to delete entry", "error", err, "entry_id", id)
		return err
	}

	s.publisher.Publish(ctx, events.NewEntryDeletedEvent(e.ID, string(e.Type), e.CreatedBy, e.EntryDate))
	s.logger.Info("entry deleted", "entry_id", id, "type", typ)
	return nil
}

// MarkPaid transitions the entry to paid. Re-marking a paid entry just
// refreshes the payment date.
func (s *Service) MarkPaid(ctx context.Context, id int64, typ Type, groupIDs []int64, dto MarkPaidDTO) (*Entry, error) {
	e, err := s.Get(id, typ, groupIDs)
	if err != nil {
		return nil, err
	}

	paidDate := time.Now()
	if dto.PaidDate != "" {
		d, perr := time.Parse(dateLayout, dto.PaidDate)
		if perr != nil {
			return nil, internal.NewValidationFieldError("paid_date",
				"paid_date must be a YYYY-MM-DD date", internal.ErrCodeValidationFailed)
		}
		paidDate = d
	}

	oldStatus := e.Status
	e.MarkPaid(paidDate)

	if err := s.repo.Update(ToDataModel(e)); err != nil {
		s.logger.Error("failed to mark entry paid", "error", err, "entry_id", id)
		return nil, err
	}

	s.publisher.Publish(ctx, events.NewEntryStatusChangedEvent(
		e.ID, string(e.Type), string(oldStatus), string(e.Status), e.CreatedBy, e.EntryDate))
	return e, nil
}

func (s *Service) MarkPending(ctx context.Context, id int64, typ Type, groupIDs []int64) (*Entry, error) {
	e, err := s.Get(id, typ, groupIDs)
	if err != nil {
		return nil, err
	}

	oldStatus := e.Status
	e.MarkPending()

	if err := s.repo.Update(ToDataModel(e)); err != nil {
		s.logger.Error("failed to mark entry pending", "error", err, "entry_id", id)
		return nil, err
	}

	s.publisher.Publish(ctx, events.NewEntryStatusChangedEvent(
		e.ID, string(e.Type), string(oldStatus), string(e.Status), e.CreatedBy, e.EntryDate))
	return e, nil
}

// validateUpdated re-runs the field invariants after a partial edit, since
// an update can move an entry between kinds.
func validateUpdated(e *Entry) *internal.AppError {
	var errs []internal.ValidationError

	if e.Description == "" {
		errs = append(errs, fieldError("description", "description is required", internal.ErrCodeValidationFailed))
	}
	errs = append(errs, validateAmount(e.Amount)...)
	errs = append(errs, validateDueDay(e.DueDay)...)
	if !e.Kind.Valid() {
		errs = append(errs, fieldError("kind", "kind must be fixed, single or installment", internal.ErrCodeInvalidEntryKind))
	}
	if !e.Responsible.Valid() {
		errs = append(errs, fieldError("responsible", "responsible must be person1, person2 or both", internal.ErrCodeInvalidResponsible))
	}
	errs = append(errs, validateInstallments(e.Kind, e.TotalInstallments)...)

	if len(errs) > 0 {
		return internal.NewValidationFieldErrors(errs)
	}
	return nil
}

func (s *Service) labelCategories(entries []*Entry, groupIDs []int64) {
	if len(entries) == 0 {
		return
	}
	cats, err := s.categories.List(groupIDs, "")
	if err != nil {
		s.logger.Warn("failed to load categories for labeling", "error", err)
		return
	}
	byID := make(map[int64]*category.Category, len(cats))
	for _, c := range cats {
		byID[c.ID] = c
	}
	for _, e := range entries {
		if c, ok := byID[e.CategoryID]; ok {
			e.CategoryName = c.Name
			e.CategoryColor = c.Color
		}
	}
}

func inGroup(userID int64, groupIDs []int64) bool {
	for _, id := range groupIDs {
		if id == userID {
			return true
		}
	}
	return false
}
