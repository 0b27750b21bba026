package validation

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"task-approvals/internal/config"
)

// Limits bounds the length of a task name, counted in characters
type Limits struct {
	MinNameLength int
	MaxNameLength int
}

// DefaultLimits matches the defaults of config.NewConfig
func DefaultLimits() Limits {
	return Limits{MinNameLength: 1, MaxNameLength: 255}
}

// Validator holds the field checks shared by record validators
type Validator struct {
	limits Limits
}

// NewValidator creates a validator with DefaultLimits
func NewValidator() *Validator {
	return &Validator{limits: DefaultLimits()}
}

// NewValidatorWithConfig takes its limits from cfg. A nil cfg gives the defaults.
func NewValidatorWithConfig(cfg *config.Config) *Validator {
	v := NewValidator()
	if cfg != nil {
		v.limits = Limits{
			MinNameLength: cfg.Validation.TaskNameMinLength,
			MaxNameLength: cfg.Validation.TaskNameMaxLength,
		}
	}
	return v
}

// Limits returns the name length bounds in force
func (v *Validator) Limits() Limits {
	return v.limits
}

// IsBlank reports whether s holds nothing but whitespace
func (v *Validator) IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// HasLengthWithin counts characters, not bytes
func (v *Validator) HasLengthWithin(s string, min, max int) bool {
	n := utf8.RuneCountInString(s)
	return min <= n && n <= max
}

// HasNameLength checks name against the configured bounds
func (v *Validator) HasNameLength(name string) bool {
	return v.HasLengthWithin(name, v.limits.MinNameLength, v.limits.MaxNameLength)
}

// IsPrintable accepts valid UTF-8 without control characters.
// Path separators and the like are fine; each backend escapes what it must.
func (v *Validator) IsPrintable(s string) bool {
	if !utf8.ValidString(s) {
		return false
	}
	return strings.IndexFunc(s, unicode.IsControl) < 0
}
