package essences

import (
	"fmt"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	goerrors "github.com/goliatone/go-errors"
)

// Format names understood by Rules.Format. Any other value is compiled as a
// regular expression.
const (
	FormatURL   = "url"
	FormatEmail = "email"
)

// Rules are the validations declared for a content in its element definition.
type Rules struct {
	Presence  bool
	Format    string
	MinLength int
	MaxLength int
	Options   []string
}

// IsZero reports whether no rule is declared.
func (r Rules) IsZero() bool {
	return !r.Presence && r.Format == "" && r.MinLength == 0 && r.MaxLength == 0 && len(r.Options) == 0
}

// Validate checks the ingredient of e against rules. It returns nil when the
// essence is valid.
func (e *Essence) Validate(rules Rules) goerrors.ValidationErrors {
	if e == nil || rules.IsZero() {
		return nil
	}
	constraints, err := rules.constraints(e.Kind)
	if err != nil {
		return goerrors.ValidationErrors{{Field: ParamIngredient, Message: err.Error(), Value: rules.Format}}
	}
	value := e.Ingredient()
	if err := validation.Validate(value, constraints...); err != nil {
		return goerrors.ValidationErrors{{Field: ParamIngredient, Message: err.Error(), Value: value}}
	}
	return nil
}

func (r Rules) constraints(kind Kind) ([]validation.Rule, error) {
	var rules []validation.Rule
	if r.Presence {
		rules = append(rules, validation.Required)
	}
	if !textual(kind) {
		return rules, nil
	}

	switch format := strings.TrimSpace(r.Format); format {
	case "":
	case FormatURL:
		rules = append(rules, is.URL)
	case FormatEmail:
		rules = append(rules, is.EmailFormat)
	default:
		pattern, err := regexp.Compile(format)
		if err != nil {
			return nil, fmt.Errorf("invalid format %q", format)
		}
		rules = append(rules, validation.Match(pattern).Error("is invalid"))
	}
	if r.MinLength > 0 || r.MaxLength > 0 {
		rules = append(rules, validation.RuneLength(r.MinLength, r.MaxLength))
	}
	if len(r.Options) > 0 {
		options := make([]any, 0, len(r.Options))
		for _, option := range r.Options {
			options = append(options, option)
		}
		rules = append(rules, validation.In(options...).Error("is not an allowed option"))
	}
	return rules, nil
}

func textual(kind Kind) bool {
	switch kind {
	case KindText, KindRichtext, KindHTML, KindSelect, KindLink:
		return true
	default:
		return false
	}
}
