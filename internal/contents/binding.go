package contents

import (
	"time"

	"github.com/goliatone/go-cms-elements/internal/domain"
	"github.com/goliatone/go-cms-elements/internal/essences"
)

// Value returns the ingredient of the bound essence, or the empty value of
// the content kind when no essence is bound. It never fails.
func Value(c *Content) any {
	if c == nil {
		return nil
	}
	if c.Essence == nil {
		return essences.EmptyIngredient(c.EssenceKind)
	}
	return c.Essence.Ingredient()
}

// SetValue writes value as the ingredient of the bound essence.
func SetValue(c *Content, value any, rules essences.Rules, now time.Time) (bool, error) {
	return UpdateEssence(c, essences.Params{essences.ParamIngredient: value}, rules, now)
}

// UpdateEssence applies params to the bound essence. A content without an
// essence fails with an EssenceMissing error. Validation failures are recorded
// on c.Errors and reported as false; the stored essence is left unchanged.
// On success c.UpdatedAt is set to now, which callers propagate to the owning
// element.
func UpdateEssence(c *Content, params essences.Params, rules essences.Rules, now time.Time) (bool, error) {
	if c == nil || c.Essence == nil {
		name := ""
		if c != nil {
			name = c.Name
		}
		return false, domain.EssenceMissing(name)
	}
	updated, issues := c.Essence.Apply(params, rules, now)
	if len(issues) > 0 {
		c.Errors = issues
		return false, nil
	}
	c.Essence = updated
	c.Errors = nil
	c.UpdatedAt = now
	return true, nil
}

// Serialize renders c as {name, value, link}, dropping blank fields. false
// counts as blank.
func Serialize(c *Content) map[string]any {
	if c == nil {
		return nil
	}
	out := map[string]any{}
	put(out, "name", c.Name)
	if c.Essence != nil {
		put(out, "value", c.Essence.SerializedIngredient())
		if c.EssenceKind.Linkable() {
			put(out, "link", c.Essence.Link)
		}
	}
	return out
}

func put(target map[string]any, key string, value any) {
	if blank(value) {
		return
	}
	target[key] = value
}

func blank(value any) bool {
	switch typed := value.(type) {
	case nil:
		return true
	case string:
		return typed == ""
	case bool:
		return !typed
	case time.Time:
		return typed.IsZero()
	default:
		return false
	}
}
