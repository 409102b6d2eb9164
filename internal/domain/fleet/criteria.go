package fleet

import (
	"fmt"

	"github.com/fleetrent/service-reservation/internal/domain"
	"github.com/fleetrent/service-reservation/internal/domain/vehicle"
)

// Criterion constrains one vehicle attribute. It is either a literal, matched
// for equality or for membership when the attribute is a list, or a numeric
// range whose bounds are optional and inclusive.
type Criterion struct {
	value   any
	min     *float64
	max     *float64
	isRange bool
}

// Criteria maps attribute names to constraints. An empty Criteria matches
// every vehicle.
type Criteria map[string]Criterion

// Exact matches an attribute equal to v, or a list attribute containing v.
func Exact(v any) Criterion {
	return Criterion{value: v}
}

// Range matches a numeric attribute within [min, max]. Either bound may be
// nil. With both nil it only requires the attribute to exist.
func Range(min, max *float64) Criterion {
	return Criterion{min: min, max: max, isRange: true}
}

// AtLeast matches a numeric attribute greater than or equal to min.
func AtLeast(min float64) Criterion { return Range(&min, nil) }

// AtMost matches a numeric attribute less than or equal to max.
func AtMost(max float64) Criterion { return Range(nil, &max) }

// CriteriaFromMap builds Criteria from decoded JSON. An object becomes a
// range from its optional "min" and "max" keys, so {} matches any value the
// vehicle has. Anything else is a literal.
func CriteriaFromMap(raw map[string]any) (Criteria, error) {
	criteria := make(Criteria, len(raw))
	for name, value := range raw {
		obj, ok := value.(map[string]any)
		if !ok {
			criteria[name] = Exact(value)
			continue
		}
		c := Criterion{isRange: true}
		for key, bound := range obj {
			n, ok := toFloat(bound)
			if !ok {
				return nil, domain.NewValidationError(fmt.Sprintf("criterion %q: %s must be a number", name, key))
			}
			switch key {
			case "min":
				c.min = &n
			case "max":
				c.max = &n
			default:
				return nil, domain.NewValidationError(fmt.Sprintf("criterion %q: unknown key %q", name, key))
			}
		}
		criteria[name] = c
	}
	return criteria, nil
}

// MatchesCriteria reports whether v satisfies every criterion. A criterion
// naming an attribute the vehicle does not have never matches.
func MatchesCriteria(v *vehicle.Vehicle, criteria Criteria) bool {
	for name, c := range criteria {
		attr, ok := v.Attribute(name)
		if !ok || !c.matches(attr) {
			return false
		}
	}
	return true
}

func (c Criterion) matches(attr any) bool {
	if c.isRange {
		if c.min == nil && c.max == nil {
			return true
		}
		n, ok := toFloat(attr)
		if !ok {
			return false
		}
		if c.min != nil && n < *c.min {
			return false
		}
		if c.max != nil && n > *c.max {
			return false
		}
		return true
	}

	if list, ok := attr.([]string); ok {
		want, ok := c.value.(string)
		if !ok {
			return false
		}
		for _, item := range list {
			if item == want {
				return true
			}
		}
		return false
	}
	return literalEqual(attr, c.value)
}

func literalEqual(a, b any) bool {
	if x, ok := toFloat(a); ok {
		y, ok := toFloat(b)
		return ok && x == y
	}
	switch x := a.(type) {
	case string:
		y, ok := b.(string)
		return ok && x == y
	case bool:
		y, ok := b.(bool)
		return ok && x == y
	}
	return false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
