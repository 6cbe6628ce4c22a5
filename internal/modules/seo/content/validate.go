// Package content holds the structured contracts of generated page content:
// strict decoding and validation of LLM JSON, deterministic SEO metadata and
// schema.org markup.
package content

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/yungbote/seobrain/internal/platform/llm"
)

// ValidationError reports generated content that breaks its contract.
type ValidationError struct {
	Contract string
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: invalid content: %s", e.Contract, strings.Join(e.Problems, "; "))
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// Check runs struct validation and converts failures into a ValidationError.
func Check(contract string, v any) error {
	err := structValidator().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &ValidationError{Contract: contract, Problems: []string{err.Error()}}
	}
	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		p := fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag())
		if fe.Param() != "" {
			p += "=" + fe.Param()
		}
		problems = append(problems, p)
	}
	return &ValidationError{Contract: contract, Problems: problems}
}

// DecodeStrict unfences raw and decodes exactly one JSON value into out,
// rejecting unknown fields and trailing data.
func DecodeStrict(contract, raw string, out any) error {
	text := llm.SanitizeJSONText(raw)
	if text == "" {
		return &ValidationError{Contract: contract, Problems: []string{"empty response"}}
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(text)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return &ValidationError{Contract: contract, Problems: []string{"decode: " + err.Error()}}
	}
	if _, err := dec.Token(); err != io.EOF {
		return &ValidationError{Contract: contract, Problems: []string{"trailing data after JSON value"}}
	}
	return nil
}
