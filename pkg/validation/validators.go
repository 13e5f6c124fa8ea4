package validation

import (
	"regexp"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var (
	// Letters, spaces and the punctuation seen in Indian names: . ' - /
	nameRegex = regexp.MustCompile(`^[\p{L}\p{M} .'/-]+$`)

	// Optional +, then 7-15 digits once spaces and dashes are removed
	phoneRegex = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
	phoneStrip = regexp.MustCompile(`[\s-]`)
)

// RegisterValidators registers the custom tags used by the profile forms.
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("valid_name", ValidName)
	_ = v.RegisterValidation("valid_phone", ValidPhone)
	_ = v.RegisterValidation("no_emoji", NoEmoji)
}

// New returns a validator with the custom tags registered.
func New() *validator.Validate {
	v := validator.New()
	RegisterValidators(v)
	return v
}

func ValidName(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	return nameRegex.MatchString(val)
}

func ValidPhone(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	return phoneRegex.MatchString(phoneStrip.ReplaceAllString(val, ""))
}

// NoEmoji rejects supplementary-plane runes and symbol categories.
func NoEmoji(fl validator.FieldLevel) bool {
	for _, r := range fl.Field().String() {
		if r > 0x1F000 {
			return false
		}
		if unicode.In(r, unicode.So, unicode.Sk) {
			return false
		}
	}
	return true
}
