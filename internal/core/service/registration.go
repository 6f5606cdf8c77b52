package service

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/sirpyerre/members-only/internal/core/domain"
	"github.com/sirpyerre/members-only/internal/core/ports"
)

const passwordSymbols = "@$!%*?&"

// bcryptMaxBytes is the longest input bcrypt accepts.
const bcryptMaxBytes = 72

// commonPasswords are rejected when any of them appears in the lowercased
// password.
var commonPasswords = []string{"password", "123456", "qwerty", "letmein", "iloveyou", "welcome"}

// rule is one check applied to a field. When other is set the tag is
// evaluated against it (used for cross-field checks such as eqfield).
type rule struct {
	tag     string
	message string
	other   func(in ports.RegistrationInput) string
}

// fieldValidator runs every rule for one field; rules do not short-circuit.
type fieldValidator struct {
	field string
	value func(in ports.RegistrationInput) string
	rules []rule
}

type registrationValidator struct {
	v      *validator.Validate
	fields []fieldValidator
}

func newRegistrationValidator() *registrationValidator {
	v := validator.New()
	_ = v.RegisterValidation("notcommon", notCommonPassword)
	_ = v.RegisterValidation("maxbytes", maxBytes)

	return &registrationValidator{
		v: v,
		fields: []fieldValidator{
			{
				field: "first_name",
				value: func(in ports.RegistrationInput) string { return in.FirstName },
				rules: []rule{
					{tag: "required", message: "First name is required"},
					{tag: "alpha", message: "First name must only contain letters"},
				},
			},
			{
				field: "last_name",
				value: func(in ports.RegistrationInput) string { return in.LastName },
				rules: []rule{
					{tag: "required", message: "Last name is required"},
					{tag: "alpha", message: "Last name must only contain letters"},
				},
			},
			{
				field: "username",
				value: func(in ports.RegistrationInput) string { return in.Username },
				rules: []rule{
					{tag: "required", message: "Username is required"},
				},
			},
			{
				field: "email",
				value: func(in ports.RegistrationInput) string { return in.Email },
				rules: []rule{
					{tag: "email", message: "Must be a valid email"},
				},
			},
			{
				field: "password",
				value: func(in ports.RegistrationInput) string { return in.Password },
				rules: []rule{
					{tag: "min=8", message: "Password must be at least 8 characters long"},
					{tag: "containsany=ABCDEFGHIJKLMNOPQRSTUVWXYZ", message: "Password must contain at least one uppercase letter"},
					{tag: "containsany=abcdefghijklmnopqrstuvwxyz", message: "Password must contain at least one lowercase letter"},
					{tag: "containsany=0123456789", message: "Password must contain at least one number"},
					{tag: "containsany=" + passwordSymbols, message: "Password must contain at least one special character (" + passwordSymbols + ")"},
					{tag: "notcommon", message: "Password is too common"},
					{tag: "maxbytes=" + strconv.Itoa(bcryptMaxBytes), message: "Password must be at most " + strconv.Itoa(bcryptMaxBytes) + " bytes"},
				},
			},
			{
				field: "confirm_password",
				value: func(in ports.RegistrationInput) string { return in.ConfirmPassword },
				rules: []rule{
					{
						tag:     "eqfield",
						message: "Password confirmation does not match password",
						other:   func(in ports.RegistrationInput) string { return in.Password },
					},
				},
			},
		},
	}
}

// Validate runs every field validator and returns all failures together, or
// nil when the input is acceptable.
func (r *registrationValidator) Validate(in ports.RegistrationInput) domain.ValidationErrors {
	var errs domain.ValidationErrors
	for _, fv := range r.fields {
		value := fv.value(in)
		for _, ru := range fv.rules {
			var err error
			if ru.other != nil {
				err = r.v.VarWithValue(value, ru.other(in), ru.tag)
			} else {
				err = r.v.Var(value, ru.tag)
			}
			if err != nil {
				errs = append(errs, domain.FieldError{Field: fv.field, Message: ru.message})
			}
		}
	}
	return errs
}

// normalizeRegistration trims free-text fields and lowercases the email.
// Passwords are left untouched.
func normalizeRegistration(in ports.RegistrationInput) ports.RegistrationInput {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Username = strings.TrimSpace(in.Username)
	in.Email = normalizeEmail(in.Email)
	return in
}

// normalizeEmail only trims and lowercases. Provider-specific forms such as
// dots or "+tag" suffixes are kept, so they count as distinct addresses.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func notCommonPassword(fl validator.FieldLevel) bool {
	lowered := strings.ToLower(fl.Field().String())
	for _, common := range commonPasswords {
		if strings.Contains(lowered, common) {
			return false
		}
	}
	return true
}

// maxBytes checks the byte length rather than the rune count that max= uses.
func maxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= limit
}
