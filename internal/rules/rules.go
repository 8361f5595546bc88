// Package rules interprets attribute validation-rule blobs.
//
// Attribute definitions carry a loosely-typed JSON blob that has gone
// through several authoring generations: a top-level
// type/suggest/enum/depends_on shape and an older nested dropdown shape.
// Parse is the single normalization boundary; downstream code works only
// with the normalized Options value and must never re-inspect the raw
// blob.
package rules

import (
	"encoding/json"
	"strings"
)

// Kind classifies the option behavior of an attribute.
type Kind string

const (
	// KindNone means the attribute has no configured option list.
	KindNone Kind = "none"
	// KindSuggest offers options but accepts free text.
	KindSuggest Kind = "suggest"
	// KindEnum restricts input to the configured options.
	KindEnum Kind = "enum"
)

// Dependency makes an attribute's option list depend on a sibling
// attribute's current value. OptionsMap keys are sibling values; the
// key "*" is a wildcard fallback.
type Dependency struct {
	AttributeSlug string              `json:"attribute_slug"`
	OptionsMap    map[string][]string `json:"options_map"`
}

// Options is the normalized form of a validation-rules blob.
type Options struct {
	Kind       Kind        `json:"kind"`
	Options    []string    `json:"options"`
	AllowOther bool        `json:"allow_other"`
	DependsOn  *Dependency `json:"depends_on,omitempty"`
}

// zero is what every malformed or empty blob degrades to: no options,
// free text allowed. Attribute entry must never become impossible due
// to bad configuration.
func zero() Options {
	return Options{Kind: KindNone, Options: []string{}, AllowOther: true}
}

// Parse normalizes a raw validation-rules blob. The input may be empty,
// a JSON document, or anything else; malformed input fails soft to the
// zero value and never returns an error.
func Parse(raw []byte) Options {
	if len(raw) == 0 {
		return zero()
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return zero()
	}
	return ParseMap(m)
}

// ParseValue normalizes a blob that may arrive as a string, byte slice,
// or an already-decoded map, all of which must parse identically.
func ParseValue(v any) Options {
	switch t := v.(type) {
	case nil:
		return zero()
	case string:
		return Parse([]byte(t))
	case []byte:
		return Parse(t)
	case map[string]any:
		return ParseMap(t)
	default:
		return zero()
	}
}

// ParseMap normalizes a decoded rules document. The top-level shape is
// applied first and the nested dropdown shape second, so dropdown fields
// overwrite on conflict. The precedence is arbitrary but deterministic.
func ParseMap(m map[string]any) Options {
	result := zero()
	if m == nil {
		return result
	}

	applyTopLevel(&result, m)

	if d, ok := m["dropdown"].(map[string]any); ok {
		applyDropdown(&result, d)
	}

	return result
}

// applyTopLevel handles the type/suggest/enum/depends_on/allow_other shape.
func applyTopLevel(result *Options, m map[string]any) {
	// Kind is set even when the option array is missing: dependency-only
	// attributes have no default options of their own.
	switch m["type"] {
	case "suggest":
		result.Kind = KindSuggest
		if opts := stringSlice(m["suggest"]); opts != nil {
			result.Options = opts
		}
	case "enum":
		result.Kind = KindEnum
		if opts := stringSlice(m["enum"]); opts != nil {
			result.Options = opts
		}
		result.AllowOther = false
	}

	if dep, ok := m["depends_on"].(map[string]any); ok {
		slug, _ := dep["attribute_slug"].(string)
		optionsMap := optionsMapOf(dep["options_map"])
		if slug != "" && optionsMap != nil {
			result.DependsOn = &Dependency{AttributeSlug: slug, OptionsMap: optionsMap}
		}
	}

	if allow, ok := m["allow_other"].(bool); ok {
		result.AllowOther = allow
	}
}

// applyDropdown handles the nested dropdown{...} shape.
func applyDropdown(result *Options, d map[string]any) {
	switch d["type"] {
	case "static", "lookup", "dynamic_lookup":
		result.Kind = KindSuggest
	}
	if opts := stringSlice(d["options"]); opts != nil {
		result.Options = opts
	}
	if allow, ok := d["allow_custom"].(bool); ok {
		result.AllowOther = allow
	}

	dep, ok := d["depends_on"].(map[string]any)
	if !ok {
		return
	}
	slug, _ := dep["field"].(string)
	if slug == "" {
		return
	}
	if optionsMap := optionsMapOf(dep["options_map"]); optionsMap != nil {
		result.DependsOn = &Dependency{AttributeSlug: slug, OptionsMap: optionsMap}
	}
	// The oldest exports carry a string-to-string "mapping" instead of an
	// options_map. There is nothing usable in it for option resolution,
	// so it is ignored rather than guessed at.
}

// OptionsFor resolves the effective option list given the dependency
// attribute's current value. Lookup is verbatim: the value key first,
// then the "*" wildcard, then the attribute's own options. No partial
// or fuzzy matching.
func (o Options) OptionsFor(dependencyValue *string) []string {
	if o.DependsOn == nil || dependencyValue == nil {
		return o.Options
	}
	if opts, ok := o.DependsOn.OptionsMap[*dependencyValue]; ok {
		return opts
	}
	if opts, ok := o.DependsOn.OptionsMap["*"]; ok {
		return opts
	}
	return o.Options
}

// NormalizeSlug lowercases a slug and collapses '-' and '_' separators
// to '_', tolerating authoring inconsistency ("Strength_type" vs
// "strength-type").
func NormalizeSlug(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), "-", "_")
}

// FindBySlug locates want within slugs: exact match first, then
// normalized-vs-normalized. Returns the index of the first match in
// slice order, which is also the tiebreak for duplicate slugs.
func FindBySlug(slugs []string, want string) (int, bool) {
	for i, s := range slugs {
		if s == want {
			return i, true
		}
	}
	normWant := NormalizeSlug(want)
	for i, s := range slugs {
		if NormalizeSlug(s) == normWant {
			return i, true
		}
	}
	return 0, false
}

// stringSlice coerces a decoded JSON array into []string, dropping
// non-string elements. Returns nil when v is not an array.
func stringSlice(v any) []string {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, e := range arr {
		if s, ok := e.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// optionsMapOf coerces a decoded JSON object into map[string][]string.
func optionsMapOf(v any) map[string][]string {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string][]string, len(m))
	for k, e := range m {
		if opts := stringSlice(e); opts != nil {
			out[k] = opts
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
