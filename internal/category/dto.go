package category

import "github.com/mbarcellos/finance-tracker/internal"

type CreateCategoryDTO struct {
	Name  string  `json:"name"`
	Type  Type    `json:"type"`
	Color string  `json:"color,omitempty"`
	Icon  *string `json:"icon,omitempty"`
}

func (d CreateCategoryDTO) Validate() *internal.AppError {
	var errs []internal.ValidationError
	if d.Name == "" {
		errs = append(errs, internal.ValidationError{
			Field: "name", Message: "name is required", Code: string(internal.ErrCodeValidationFailed),
		})
	}
	if !d.Type.Valid() {
		errs = append(errs, internal.ValidationError{
			Field: "type", Message: "type must be income or expense", Code: string(internal.ErrCodeValidationFailed),
		})
	}
	if len(errs) > 0 {
		return internal.NewValidationFieldErrors(errs)
	}
	return nil
}

type UpdateCategoryDTO struct {
	Name  *string `json:"name,omitempty"`
	Color *string `json:"color,omitempty"`
	Icon  *string `json:"icon,omitempty"`
}

type CategoriesResponse struct {
	Categories []*Category `json:"categories"`
}
