package catalog

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const (
	MaxProductName  = 255
	MaxImagePath    = 500
	MaxReviewerName = 100
	MaxComment      = 1000
)

var MaxPrice = decimal.RequireFromString("9999999.99")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// decimal dibandingkan sebagai float untuk tag min/max
	v.RegisterCustomTypeFunc(func(f reflect.Value) any {
		d, ok := f.Interface().(decimal.Decimal)
		if !ok {
			return nil
		}
		return d.InexactFloat64()
	}, decimal.Decimal{})
	return v
}

// Trimmed membuang spasi di tepi string; teks opsional yang kosong jadi nil (NULL).
func (in ProductInput) Trimmed() ProductInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = blankToNil(in.Description)
	in.Image = blankToNil(in.Image)
	return in
}

func (in ReviewInput) Trimmed() ReviewInput {
	in.ReviewerName = strings.TrimSpace(in.ReviewerName)
	in.Comment = blankToNil(in.Comment)
	return in
}

func (p ProductPatch) Trimmed() ProductPatch {
	p.Name = trimField(p.Name, false)
	p.Description = trimField(p.Description, true)
	p.Image = trimField(p.Image, true)
	return p
}

func (p ReviewPatch) Trimmed() ReviewPatch {
	p.ReviewerName = trimField(p.ReviewerName, false)
	p.Comment = trimField(p.Comment, true)
	return p
}

func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func trimField(f Field[string], nullable bool) Field[string] {
	if !f.Set || f.Null {
		return f
	}
	f.Value = strings.TrimSpace(f.Value)
	if nullable && f.Value == "" {
		return Null[string]()
	}
	return f
}

// Validate selalu memeriksa versi yang sudah di-trim, jadi "   " gagal required.
func (in ProductInput) Validate() error {
	return structErrors(validate.Struct(in.Trimmed()))
}

func (in ReviewInput) Validate() error {
	return structErrors(validate.Struct(in.Trimmed()))
}

func (p ProductPatch) Validate() error {
	p = p.Trimmed()
	ve := &ValidationError{}
	checkField(ve, "name", p.Name, true, fmt.Sprintf("required,max=%d", MaxProductName))
	checkField(ve, "description", p.Description, false, "")
	checkField(ve, "price", p.Price, true, "min=0,max=9999999.99")
	checkField(ve, "image", p.Image, false, fmt.Sprintf("max=%d", MaxImagePath))
	return ve.OrNil()
}

func (p ReviewPatch) Validate() error {
	p = p.Trimmed()
	ve := &ValidationError{}
	checkField(ve, "reviewer_name", p.ReviewerName, true, fmt.Sprintf("required,max=%d", MaxReviewerName))
	checkField(ve, "rating", p.Rating, true, "min=1,max=5")
	checkField(ve, "comment", p.Comment, false, fmt.Sprintf("max=%d", MaxComment))
	return ve.OrNil()
}

// checkField: field yang tidak dikirim dilewati; null hanya boleh untuk field nullable.
func checkField[T any](ve *ValidationError, name string, f Field[T], required bool, tag string) {
	if !f.Set {
		return
	}
	if f.Null {
		if required {
			ve.Add(name, message(name, "required", "", reflect.String))
		}
		return
	}
	if tag == "" {
		return
	}
	err := validate.Var(f.Value, tag)
	var errs validator.ValidationErrors
	if errors.As(err, &errs) {
		for _, fe := range errs {
			ve.Add(name, message(name, fe.Tag(), fe.Param(), fe.Kind()))
		}
	}
}

func structErrors(err error) error {
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return err
	}
	ve := &ValidationError{}
	for _, fe := range errs {
		ve.Add(fe.Field(), message(fe.Field(), fe.Tag(), fe.Param(), fe.Kind()))
	}
	return ve
}

func message(field, tag, param string, kind reflect.Kind) string {
	label := strings.ReplaceAll(field, "_", " ")
	switch tag {
	case "required":
		return fmt.Sprintf("The %s field is required.", label)
	case "max":
		if kind == reflect.String {
			return fmt.Sprintf("The %s field must not be greater than %s characters.", label, param)
		}
		return fmt.Sprintf("The %s field must not be greater than %s.", label, param)
	case "min":
		if kind == reflect.String {
			return fmt.Sprintf("The %s field must be at least %s characters.", label, param)
		}
		return fmt.Sprintf("The %s field must be at least %s.", label, param)
	}
	return fmt.Sprintf("The %s field is invalid.", label)
}
