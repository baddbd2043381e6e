package validator

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// validateISOWeekday checks a single int is an ISO weekday, 1 (Monday)
// through 7 (Sunday).
func (v *Validator) validateISOWeekday(fl validator.FieldLevel) bool {
	day := fl.Field().Int()
	return day >= 1 && day <= 7
}

// validateWeekdaySet checks every element of a []int is a distinct ISO
// weekday 1-7, backing Habit.exempt_weekdays.
func (v *Validator) validateWeekdaySet(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind().String() != "slice" {
		return false
	}
	seen := make(map[int64]bool, field.Len())
	for i := 0; i < field.Len(); i++ {
		d := field.Index(i).Int()
		if d < 1 || d > 7 || seen[d] {
			return false
		}
		seen[d] = true
	}
	return true
}

// validateLangCode checks membership in the supported language set after
// lowercasing, per spec §6's language-code normalisation rule.
func (v *Validator) validateLangCode(fl validator.FieldLevel) bool {
	switch strings.ToLower(fl.Field().String()) {
	case "en", "ru", "kk":
		return true
	default:
		return false
	}
}
