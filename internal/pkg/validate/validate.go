package validate

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// v is the package-level singleton validator. It is initialised once at
// package load time. Any custom type registrations must be made during init()
// before the first call to Struct.
var v = validator.New()

// FieldError describes a single failing field. For nested DTOs the property
// carries the dotted path to the leaf field.
type FieldError struct {
	Property    string   `json:"property"`
	Constraints []string `json:"constraints"`
}

// Error aggregates all field failures of one validation pass. Handlers render
// it as the message list of a 422 response.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	var parts []string
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Property, strings.Join(f.Constraints, ", ")))
	}
	return strings.Join(parts, "; ")
}

// Struct validates the given struct using its validate tags. Returns *Error
// when one or more constraints fail, nil otherwise.
func Struct(s interface{}) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	byField := make(map[string][]string)
	var order []string
	for _, fe := range ve {
		prop := property(fe)
		if _, seen := byField[prop]; !seen {
			order = append(order, prop)
		}
		byField[prop] = append(byField[prop], constraint(fe))
	}
	out := &Error{}
	for _, prop := range order {
		out.Fields = append(out.Fields, FieldError{Property: prop, Constraints: byField[prop]})
	}
	return out
}

// property strips the root struct name from the namespace so nested failures
// read "address.city" instead of "CreateUserRequest.Address.City".
func property(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	return strings.ToLower(ns)
}

func constraint(fe validator.FieldError) string {
	if fe.Param() != "" {
		return fmt.Sprintf("%s failed '%s=%s' validation", strings.ToLower(fe.Field()), fe.Tag(), fe.Param())
	}
	return fmt.Sprintf("%s failed '%s' validation", strings.ToLower(fe.Field()), fe.Tag())
}
