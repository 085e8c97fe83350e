package card

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Tones offered to the sender.
const (
	ToneWarm      = "Warm"
	ToneFunny     = "Funny"
	ToneFormal    = "Formal"
	ToneHeartfelt = "Heartfelt"
)

// DefaultHobbies replaces a blank hobbies field.
const DefaultHobbies = "their favorite activities"

// Input keys supplied to the pipeline.
const (
	KeyName       = "name"
	KeyRelation   = "relation"
	KeyHobbies    = "hobbies"
	KeyTone       = "tone"
	KeySenderName = "sender_name"
	KeyRegion     = "region"
)

// Tones lists the accepted tone values in display order.
var Tones = []string{ToneWarm, ToneFunny, ToneFormal, ToneHeartfelt}

// ErrInvalidForm is wrapped by every form validation failure.
var ErrInvalidForm = errors.New("invalid card form")

var validate = validator.New()

// Form holds the sender's answers.
type Form struct {
	SenderName string `json:"sender_name" validate:"required"`
	Name       string `json:"name" validate:"required"`
	Relation   string `json:"relation" validate:"required"`
	Hobbies    string `json:"hobbies"`
	Tone       string `json:"tone" validate:"required,oneof=Warm Funny Formal Heartfelt"`
	Region     string `json:"region" validate:"required"`
}

// FieldError describes one invalid form field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every invalid field of a Form.
type ValidationError struct {
	Fields []FieldError
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+" "+f.Message)
	}
	return fmt.Sprintf("%s: %s", ErrInvalidForm, strings.Join(parts, "; "))
}

// Unwrap allows errors.Is(err, ErrInvalidForm).
func (e *ValidationError) Unwrap() error {
	return ErrInvalidForm
}

// Normalized returns a copy with surrounding whitespace removed and blank
// hobbies replaced by DefaultHobbies.
func (f Form) Normalized() Form {
	out := Form{
		SenderName: strings.TrimSpace(f.SenderName),
		Name:       strings.TrimSpace(f.Name),
		Relation:   strings.TrimSpace(f.Relation),
		Hobbies:    strings.TrimSpace(f.Hobbies),
		Tone:       strings.TrimSpace(f.Tone),
		Region:     strings.TrimSpace(f.Region),
	}
	if out.Hobbies == "" {
		out.Hobbies = DefaultHobbies
	}
	return out
}

// Validate checks the normalized form and reports every invalid field.
func (f Form) Validate() error {
	err := validate.Struct(f.Normalized())
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrInvalidForm, err)
	}

	verr := &ValidationError{}
	for _, fe := range fieldErrs {
		verr.Fields = append(verr.Fields, FieldError{
			Field:   jsonName(fe.Field()),
			Message: tagMessage(fe.Tag()),
		})
	}
	return verr
}

// Values returns the normalized form as pipeline input.
func (f Form) Values() map[string]string {
	n := f.Normalized()
	return map[string]string{
		KeyName:       n.Name,
		KeyRelation:   n.Relation,
		KeyHobbies:    n.Hobbies,
		KeyTone:       n.Tone,
		KeySenderName: n.SenderName,
		KeyRegion:     n.Region,
	}
}

// InputKeys lists the keys produced by Values.
func InputKeys() []string {
	return []string{KeyName, KeyRelation, KeyHobbies, KeyTone, KeySenderName, KeyRegion}
}

func jsonName(field string) string {
	switch field {
	case "SenderName":
		return KeySenderName
	default:
		return strings.ToLower(field)
	}
}

func tagMessage(tag string) string {
	switch tag {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of " + strings.Join(Tones, ", ")
	default:
		return "is invalid"
	}
}
