package rules

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func strPtr(s string) *string { return &s }

func TestParse(t *testing.T) {
	t.Run("top_level_suggest", func(t *testing.T) {
		got := Parse([]byte(`{"type":"suggest","suggest":["squat","bench"],"allow_other":true}`))

		want := Options{Kind: KindSuggest, Options: []string{"squat", "bench"}, AllowOther: true}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("parsed options mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("top_level_enum_disallows_other", func(t *testing.T) {
		got := Parse([]byte(`{"type":"enum","enum":["yes","no"]}`))

		if got.Kind != KindEnum {
			t.Errorf("expected enum kind, got %s", got.Kind)
		}
		if got.AllowOther {
			t.Error("enum must not allow free text by default")
		}
	})

	t.Run("enum_allow_other_override", func(t *testing.T) {
		got := Parse([]byte(`{"type":"enum","enum":["a"],"allow_other":true}`))
		if !got.AllowOther {
			t.Error("explicit allow_other must override the enum default")
		}
	})

	t.Run("dependency_only_attribute_keeps_kind", func(t *testing.T) {
		// Dependency-only attributes may carry no default option array.
		got := Parse([]byte(`{"type":"suggest","depends_on":{"attribute_slug":"equipment","options_map":{"barbell":["squat"]}}}`))

		if got.Kind != KindSuggest {
			t.Errorf("expected suggest kind, got %s", got.Kind)
		}
		if got.DependsOn == nil || got.DependsOn.AttributeSlug != "equipment" {
			t.Fatalf("expected depends_on equipment, got %+v", got.DependsOn)
		}
		if len(got.Options) != 0 {
			t.Errorf("expected no default options, got %v", got.Options)
		}
	})

	t.Run("dropdown_shape", func(t *testing.T) {
		got := Parse([]byte(`{"dropdown":{"type":"static","options":["red","green"],"allow_custom":false}}`))

		want := Options{Kind: KindSuggest, Options: []string{"red", "green"}, AllowOther: false}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("parsed options mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("dropdown_depends_on_options_map", func(t *testing.T) {
		got := Parse([]byte(`{"dropdown":{"type":"lookup","depends_on":{"field":"machine","options_map":{"*":["generic"]}}}}`))

		if got.DependsOn == nil || got.DependsOn.AttributeSlug != "machine" {
			t.Fatalf("expected depends_on machine, got %+v", got.DependsOn)
		}
	})

	t.Run("dropdown_overwrites_top_level", func(t *testing.T) {
		// Both shapes present: top-level applied first, dropdown second.
		got := Parse([]byte(`{"type":"suggest","suggest":["old"],"dropdown":{"type":"static","options":["new"]}}`))

		if diff := cmp.Diff([]string{"new"}, got.Options); diff != "" {
			t.Errorf("dropdown options must win (-want +got):\n%s", diff)
		}
	})

	t.Run("legacy_mapping_ignored", func(t *testing.T) {
		got := Parse([]byte(`{"dropdown":{"type":"static","options":["a"],"depends_on":{"field":"x","mapping":{"k":"v"}}}}`))

		if got.DependsOn != nil {
			t.Errorf("string-to-string mapping should not produce a dependency, got %+v", got.DependsOn)
		}
	})

	t.Run("malformed_json_fails_soft", func(t *testing.T) {
		got := Parse([]byte(`{not json`))

		want := Options{Kind: KindNone, Options: []string{}, AllowOther: true}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("malformed blob must degrade to the zero value (-want +got):\n%s", diff)
		}
	})

	t.Run("empty_input", func(t *testing.T) {
		got := Parse(nil)
		if got.Kind != KindNone || !got.AllowOther {
			t.Errorf("empty blob must parse to the zero value, got %+v", got)
		}
	})
}

func TestParseValue(t *testing.T) {
	// A JSON string and an already-decoded object must parse identically.
	raw := `{"type":"enum","enum":["a","b"]}`
	decoded := map[string]any{"type": "enum", "enum": []any{"a", "b"}}

	fromString := ParseValue(raw)
	fromMap := ParseValue(decoded)

	if diff := cmp.Diff(fromString, fromMap); diff != "" {
		t.Errorf("string and object inputs must normalize identically (-string +map):\n%s", diff)
	}

	if got := ParseValue(42); got.Kind != KindNone {
		t.Errorf("unsupported input type must degrade to the zero value, got %+v", got)
	}
}

func TestOptionsFor(t *testing.T) {
	parsed := Options{
		Kind:       KindSuggest,
		Options:    []string{"default"},
		AllowOther: true,
		DependsOn: &Dependency{
			AttributeSlug: "equipment",
			OptionsMap: map[string][]string{
				"barbell": {"squat", "bench"},
				"*":       {"generic"},
			},
		},
	}

	t.Run("exact_key", func(t *testing.T) {
		got := parsed.OptionsFor(strPtr("barbell"))
		if diff := cmp.Diff([]string{"squat", "bench"}, got); diff != "" {
			t.Errorf("(-want +got):\n%s", diff)
		}
	})

	t.Run("wildcard_fallback", func(t *testing.T) {
		got := parsed.OptionsFor(strPtr("dumbbell"))
		if diff := cmp.Diff([]string{"generic"}, got); diff != "" {
			t.Errorf("(-want +got):\n%s", diff)
		}
	})

	t.Run("nil_dependency_value", func(t *testing.T) {
		got := parsed.OptionsFor(nil)
		if diff := cmp.Diff([]string{"default"}, got); diff != "" {
			t.Errorf("(-want +got):\n%s", diff)
		}
	})

	t.Run("no_wildcard_falls_back_to_defaults", func(t *testing.T) {
		noWild := parsed
		noWild.DependsOn = &Dependency{
			AttributeSlug: "equipment",
			OptionsMap:    map[string][]string{"barbell": {"squat"}},
		}
		got := noWild.OptionsFor(strPtr("kettlebell"))
		if diff := cmp.Diff([]string{"default"}, got); diff != "" {
			t.Errorf("(-want +got):\n%s", diff)
		}
	})

	t.Run("no_dependency", func(t *testing.T) {
		plain := Options{Kind: KindSuggest, Options: []string{"a"}}
		got := plain.OptionsFor(strPtr("anything"))
		if diff := cmp.Diff([]string{"a"}, got); diff != "" {
			t.Errorf("(-want +got):\n%s", diff)
		}
	})
}

func TestNormalizeSlug(t *testing.T) {
	cases := map[string]string{
		"Strength_type": "strength_type",
		"strength-type": "strength_type",
		"EXERCISE-NAME": "exercise_name",
		"simple":        "simple",
	}
	for in, want := range cases {
		if got := NormalizeSlug(in); got != want {
			t.Errorf("NormalizeSlug(%q) = %q, want %q", in, got, want)
		}
	}

	// The two observed spellings of the same slug must collide.
	if NormalizeSlug("Strength_type") != NormalizeSlug("strength-type") {
		t.Error("normalized forms of equivalent slugs must be equal")
	}
}

func TestFindBySlug(t *testing.T) {
	slugs := []string{"weight", "strength-type", "Strength_type", "reps"}

	t.Run("exact_match_wins", func(t *testing.T) {
		i, ok := FindBySlug(slugs, "Strength_type")
		if !ok || i != 2 {
			t.Errorf("expected exact match at index 2, got %d ok=%v", i, ok)
		}
	})

	t.Run("normalized_match_first_wins", func(t *testing.T) {
		i, ok := FindBySlug(slugs, "STRENGTH-TYPE")
		if !ok || i != 1 {
			t.Errorf("expected first normalized match at index 1, got %d ok=%v", i, ok)
		}
	})

	t.Run("no_match", func(t *testing.T) {
		if _, ok := FindBySlug(slugs, "missing"); ok {
			t.Error("expected no match")
		}
	})
}
