package validator

import "strings"

type SignInInput struct {
	Email    string `json:"email" label:"Email" validate:"required,email"`
	Password string `json:"password" label:"Password" validate:"min=6"`
}

type SignUpInput struct {
	Name            string `json:"name" label:"Name" validate:"min=3"`
	Email           string `json:"email" label:"Email" validate:"required,email"`
	Password        string `json:"password" label:"Password" validate:"min=6"`
	ConfirmPassword string `json:"confirm_password" label:"Confirm password" validate:"min=6,eqfield=Password"`
}

type UpdateProfileInput struct {
	Name  string `json:"name" label:"Name" validate:"min=3"`
	Email string `json:"email" label:"Email" validate:"min=3"`
}

type UpdateUserInput struct {
	Name  string `json:"name" label:"Name" validate:"min=3"`
	Email string `json:"email" label:"Email" validate:"min=3"`
	Role  string `json:"role" label:"Role" validate:"required,oneof=user admin"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ParseSignIn validates credentials.
func ParseSignIn(in SignInInput) (*SignInInput, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validate(in); err != nil {
		return nil, err
	}
	return &in, nil
}

// ParseSignUp validates a registration form.
func ParseSignUp(in SignUpInput) (*SignUpInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if err := validate(in); err != nil {
		return nil, err
	}
	return &in, nil
}

// ParseUpdateProfile validates the self-service profile form.
func ParseUpdateProfile(in UpdateProfileInput) (*UpdateProfileInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if err := validate(in); err != nil {
		return nil, err
	}
	return &in, nil
}

// ParseUpdateUser validates the admin user form.
func ParseUpdateUser(id uint, in UpdateUserInput) (*UpdateUserInput, error) {
	if id == 0 {
		return nil, newValidationError("id", "Id is required")
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if err := validate(in); err != nil {
		return nil, err
	}
	return &in, nil
}
