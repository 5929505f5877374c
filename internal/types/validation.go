package types

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrUnknownField is returned when a field name is not one of the
	// eight contact fields.
	ErrUnknownField = errors.New("unknown contact field")

	// ErrMissingField is returned by NewContact when a required field is
	// absent from the input map.
	ErrMissingField = errors.New("missing contact field")
)

// contactInput is the presence-checking view of a raw field map.
//
// Each field is a pointer so that validator's "required" rule means
// "the key was supplied" rather than "the value is non-empty": a non-nil
// pointer to "" passes, a nil pointer fails. Empty values are legal
// contact data.
type contactInput struct {
	FirstName *string `label:"first name" validate:"required"`
	LastName  *string `label:"last name"  validate:"required"`
	Address   *string `label:"address"    validate:"required"`
	City      *string `label:"city"       validate:"required"`
	State     *string `label:"state"      validate:"required"`
	Zip       *string `label:"zip"        validate:"required"`
	Phone     *string `label:"phone"      validate:"required"`
	Email     *string `label:"email"      validate:"required"`
}

// validate is shared: validator caches struct metadata per instance.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their label ("first name") or YAML key instead of
	// the Go name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if label := fld.Tag.Get("label"); label != "" {
			return label
		}
		if name, _, _ := strings.Cut(fld.Tag.Get("yaml"), ","); name != "" && name != "-" {
			return name
		}
		return fld.Name
	})
	return v
}

// NewContact builds a Contact from a label → value map such as the one a
// field prompt or a JSON document produces.
//
// All eight labels must be present; values may be empty. Keys that do not
// name a contact field fail with ErrUnknownField so typos are not dropped
// silently.
func NewContact(fields map[string]string) (Contact, error) {
	var in contactInput
	slots := map[Field]**string{
		FirstName: &in.FirstName,
		LastName:  &in.LastName,
		Address:   &in.Address,
		City:      &in.City,
		State:     &in.State,
		Zip:       &in.Zip,
		Phone:     &in.Phone,
		Email:     &in.Email,
	}

	for key, value := range fields {
		f, err := ParseField(key)
		if err != nil {
			return Contact{}, err
		}
		v := value
		*slots[f] = &v
	}

	if err := validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return Contact{}, fmt.Errorf("%w: %s", ErrMissingField, describe(verrs))
		}
		return Contact{}, fmt.Errorf("NewContact: validate: %w", err)
	}

	var c Contact
	for f, slot := range slots {
		c.Set(f, **slot)
	}
	return c, nil
}

// Validate checks any struct carrying validate:"..." tags with the shared
// validator and flattens the failures into one readable error.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return errors.New(describe(verrs))
	}
	return err
}

// describe converts validator field errors into a single sentence list,
// e.g. "field city is required, field zip is required".
func describe(errs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		switch e.ActualTag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("field %s is required", e.Field()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("field %s must be one of [%s]", e.Field(), e.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("field %s is invalid", e.Field()))
		}
	}
	return strings.Join(msgs, ", ")
}
