package auth

import (
	"reflect"
	"strings"

	"github.com/angelmondragon/storefront-core/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-core/pkg/errors"
	"github.com/angelmondragon/storefront-core/pkg/types"
	"github.com/go-playground/validator/v10"
)

// User is the session identity. It mirrors a directory record minus the
// password, which never enters session state.
type User struct {
	ID        string         `json:"id"`
	Email     string         `json:"email"`
	FirstName string         `json:"firstName"`
	LastName  string         `json:"lastName"`
	Role      enums.UserRole `json:"role"`
	Avatar    string         `json:"avatar"`
	Phone     string         `json:"phone"`
	Address   types.Address  `json:"address"`
	Orders    []types.Order  `json:"orders"`
}

func (u *User) clone() *User {
	if u == nil {
		return nil
	}
	out := *u
	out.Orders = append([]types.Order(nil), u.Orders...)
	return &out
}

// RegisterInput is the profile payload for a new account. Email is the only
// required field; everything else defaults.
type RegisterInput struct {
	Email     string         `json:"email" validate:"required,email"`
	FirstName string         `json:"firstName"`
	LastName  string         `json:"lastName"`
	Phone     string         `json:"phone"`
	Address   *types.Address `json:"address,omitempty"`
}

// ProfileUpdate carries a shallow merge: nil fields are left untouched.
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
	Phone     *string
	Avatar    *string
	Address   *types.Address
}

type snapshot struct {
	User            *User `json:"user"`
	IsAuthenticated bool  `json:"isAuthenticated"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

func validateRegisterInput(input RegisterInput) error {
	if err := validate.Struct(input); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok {
			details := map[string]string{}
			for _, fieldErr := range errs {
				details[fieldErr.Field()] = validationMessage(fieldErr)
			}
			return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
		}
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
	}
	return nil
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	default:
		return "is invalid"
	}
}
