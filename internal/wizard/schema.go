package wizard

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/internal/domain"
)

var (
	hhmmPattern   = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
	moneyPattern  = regexp.MustCompile(`^\d{1,10}([.,]\d{1,2})?$`)
	posintPattern = regexp.MustCompile(`^[1-9]\d*$`)
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func schema() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("hhmm", matches(hhmmPattern))
		_ = v.RegisterValidation("money", matches(moneyPattern))
		_ = v.RegisterValidation("posint", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			if !posintPattern.MatchString(s) {
				return false
			}
			_, err := strconv.ParseInt(s, 10, 32)
			return err == nil
		})
		_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
			_, err := ParseDate(fl.Field().String())
			return err == nil
		})
		validate = v
	})
	return validate
}

func matches(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

// ParseDate accepts yyyy-MM-dd or an RFC 3339 timestamp and returns the
// calendar date at UTC midnight
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(domain.DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", domain.ErrInvalidDate, s)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// FieldError is a single failed constraint
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Step    Step   `json:"step"`

	cause error
}

// FieldErrors is the ordered aggregate returned by Validate
type FieldErrors []FieldError

func (fe FieldErrors) Error() string {
	if len(fe) == 0 {
		return "validation passed"
	}
	if len(fe) == 1 {
		return fe[0].Message
	}
	return fmt.Sprintf("%s (and %d more)", fe[0].Message, len(fe)-1)
}

// First returns the error to show as the notice
func (fe FieldErrors) First() FieldError {
	if len(fe) == 0 {
		return FieldError{}
	}
	return fe[0]
}

// Err returns fe as an error, or nil when empty
func (fe FieldErrors) Err() error {
	if len(fe) == 0 {
		return nil
	}
	return fe
}

// Unwrap exposes the parse errors behind conversion failures
func (fe FieldErrors) Unwrap() []error {
	var causes []error
	for _, e := range fe {
		if e.cause != nil {
			causes = append(causes, e.cause)
		}
	}
	return causes
}

// invalidField reports a value that passed the schema but failed conversion
func invalidField(field string, err error) FieldErrors {
	return FieldErrors{{
		Field:   field,
		Message: fmt.Sprintf("%s is invalid", strings.ReplaceAll(field, "_", " ")),
		Step:    stepOf(field),
		cause:   err,
	}}
}

// AsFieldErrors extracts FieldErrors from err
func AsFieldErrors(err error) (FieldErrors, bool) {
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// fieldSteps places each field on the wizard stage that edits it
var fieldSteps = map[string]Step{
	"title":             StepDetails,
	"description":       StepDetails,
	"date":              StepDetails,
	"time":              StepDetails,
	"location":          StepDetails,
	"address":           StepDetails,
	"category":          StepDetails,
	"min_age":           StepDetails,
	"capacity":          StepDetails,
	"duration":          StepDetails,
	"image_url_1":       StepMedia,
	"image_url_2":       StepMedia,
	"image_url_3":       StepMedia,
	"is_paid":           StepPricing,
	"ticket_price":      StepPricing,
	"number_of_batches": StepPricing,
	"batches":           StepPricing,
	"contract_id":       StepContract,
	"contract_accepted": StepContract,
}

func stepOf(field string) Step {
	root, _, _ := strings.Cut(field, "[")
	root, _, _ = strings.Cut(root, ".")
	if s, ok := fieldSteps[root]; ok {
		return s
	}
	return StepDetails
}

// Validate checks every field constraint of the form. Batch rows are only
// checked for paid events. The batch count is not compared with the rows,
// but neither may exceed MaxBatches.
func Validate(f *Form) FieldErrors {
	v := schema()
	normalized := f.normalized()

	var out FieldErrors
	out = append(out, collect(v.Struct(normalized), "")...)

	if len(normalized.Batches) > MaxBatches {
		return append(out, FieldError{
			Field:   "batches",
			Message: fmt.Sprintf("batches must have at most %d entries", MaxBatches),
			Step:    StepPricing,
		})
	}
	if normalized.IsPaid {
		for i, row := range normalized.Batches {
			out = append(out, collect(v.Struct(row), fmt.Sprintf("batches[%d].", i))...)
		}
	}
	return out
}

func collect(err error, prefix string) FieldErrors {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	out := make(FieldErrors, 0, len(verrs))
	for _, fe := range verrs {
		field := prefix + fe.Field()
		out = append(out, FieldError{
			Field:   field,
			Message: message(field, fe),
			Step:    stepOf(field),
		})
	}
	return out
}

func message(field string, fe validator.FieldError) string {
	label := strings.ReplaceAll(field, "_", " ")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", label)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", label, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", label, fe.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", label)
	case "hhmm":
		return fmt.Sprintf("%s must use the 24-hour HH:MM format", label)
	case "money":
		return fmt.Sprintf("%s must be a decimal amount such as 10,00", label)
	case "posint":
		return fmt.Sprintf("%s must be a whole number between 1 and 2147483647", label)
	case "isodate":
		return fmt.Sprintf("%s must be a valid date", label)
	case "uuid":
		return fmt.Sprintf("%s must be a valid identifier", label)
	}
	return fmt.Sprintf("%s is invalid", label)
}
