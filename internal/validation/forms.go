package validation

import "strings"

// LoginForm is the input for signing in.
type LoginForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// RegistrationForm is the input for signing up.
type RegistrationForm struct {
	FirstName       string `json:"first_name" validate:"required"`
	LastName        string `json:"last_name"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"omitempty,eqfield=Password"`
}

// PasswordForm is the input for setting a new password.
type PasswordForm struct {
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"omitempty,eqfield=Password"`
}

// SanitizeEmail trims and lower-cases an email address.
func SanitizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateLogin validates the sign-in form.
func ValidateLogin(f LoginForm) Result {
	f.Email = SanitizeEmail(f.Email)
	return Struct(f)
}

// ValidateRegistration validates the sign-up form. Names are trimmed
// before checking, so a blank first name is reported as missing.
func ValidateRegistration(f RegistrationForm) Result {
	f.Email = SanitizeEmail(f.Email)
	f.FirstName = strings.TrimSpace(f.FirstName)
	return Struct(f)
}

// ValidatePassword validates the password update form.
func ValidatePassword(f PasswordForm) Result {
	return Struct(f)
}

// IsEmail reports whether s has the shape of an email address.
func IsEmail(s string) bool {
	return validate.Var(s, "required,email") == nil
}
