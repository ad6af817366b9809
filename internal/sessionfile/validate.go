package sessionfile

import (
	_ "embed"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cueyaml "cuelang.org/go/encoding/yaml"
)

//go:embed schema.cue
var schemaSource string

// Validation error codes (S100-S199)
const (
	ErrMalformedYAML   = "S100" // document is not parseable YAML
	ErrSchemaViolation = "S101" // document violates the session schema
	ErrSchemaInternal  = "S102" // embedded schema failed to compile
)

// ValidationError represents a session schema validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Validate checks raw YAML against the embedded session schema.
// Returns all errors found (does not fail-fast).
func Validate(data []byte) []ValidationError {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSource).LookupPath(cue.ParsePath("#Session"))
	if err := schema.Err(); err != nil {
		return []ValidationError{{
			Field:   "schema",
			Message: err.Error(),
			Code:    ErrSchemaInternal,
		}}
	}

	file, err := cueyaml.Extract("session.yaml", data)
	if err != nil {
		return []ValidationError{{
			Message: err.Error(),
			Code:    ErrMalformedYAML,
		}}
	}
	doc := ctx.BuildFile(file)
	if err := doc.Err(); err != nil {
		return []ValidationError{{
			Message: err.Error(),
			Code:    ErrMalformedYAML,
		}}
	}

	if err := schema.Unify(doc).Validate(cue.Concrete(true)); err != nil {
		var errs []ValidationError
		for _, e := range cueerrors.Errors(err) {
			errs = append(errs, ValidationError{
				Field:   strings.Join(e.Path(), "."),
				Message: e.Error(),
				Code:    ErrSchemaViolation,
			})
		}
		return errs
	}
	return nil
}
