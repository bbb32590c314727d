package auth

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterDTO struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Phone           string `json:"phone,omitempty"`
	BirthDate       string `json:"birth_date,omitempty"`
}

type RefreshTokenDTO struct {
	RefreshToken string `json:"refresh_token"`
}

type ChangePasswordDTO struct {
	CurrentPassword    string `json:"current_password"`
	NewPassword        string `json:"new_password"`
	NewPasswordConfirm string `json:"new_password_confirm"`
}

type PasswordResetRequestDTO struct {
	Email string `json:"email"`
}

type PasswordResetConfirmDTO struct {
	Token              string `json:"token"`
	NewPassword        string `json:"new_password"`
	NewPasswordConfirm string `json:"new_password_confirm"`
}

// ValidationError represents a simple validation error from DTO validation.
type ValidationError struct {
	Msg string
}

func (v ValidationError) Error() string { return v.Msg }

const minPasswordLength = 8

func (d LoginDTO) Validate() error {
	if d.Email == "" {
		return ValidationError{Msg: "email is required"}
	}
	if d.Password == "" {
		return ValidationError{Msg: "password is required"}
	}
	return nil
}

func (d RegisterDTO) Validate() error {
	if d.Email == "" {
		return ValidationError{Msg: "email is required"}
	}
	if d.FirstName == "" {
		return ValidationError{Msg: "first_name is required"}
	}
	if d.LastName == "" {
		return ValidationError{Msg: "last_name is required"}
	}
	if len(d.Password) < minPasswordLength {
		return ValidationError{Msg: "password must be at least 8 characters"}
	}
	if d.Password != d.PasswordConfirm {
		return ValidationError{Msg: "passwords do not match"}
	}
	return nil
}

func (d RefreshTokenDTO) Validate() error {
	if d.RefreshToken == "" {
		return ValidationError{Msg: "refresh_token is required"}
	}
	return nil
}

func (d ChangePasswordDTO) Validate() error {
	if d.CurrentPassword == "" {
		return ValidationError{Msg: "current_password is required"}
	}
	if len(d.NewPassword) < minPasswordLength {
		return ValidationError{Msg: "new password must be at least 8 characters"}
	}
	if d.NewPassword != d.NewPasswordConfirm {
		return ValidationError{Msg: "passwords do not match"}
	}
	return nil
}

func (d PasswordResetRequestDTO) Validate() error {
	if d.Email == "" {
		return ValidationError{Msg: "email is required"}
	}
	return nil
}

func (d PasswordResetConfirmDTO) Validate() error {
	if d.Token == "" {
		return ValidationError{Msg: "token is required"}
	}
	if len(d.NewPassword) < minPasswordLength {
		return ValidationError{Msg: "new password must be at least 8 characters"}
	}
	if d.NewPassword != d.NewPasswordConfirm {
		return ValidationError{Msg: "passwords do not match"}
	}
	return nil
}
