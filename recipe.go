package recipe2pdf

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Recipe is one record from the recipe service. Fields the renderer does not
// know about are kept in Raw and end up unchanged in the archive.
type Recipe struct {
	Identifier        string       `json:"identifier,omitempty"`
	Name              string       `json:"name,omitempty"`
	CreationTimestamp float64      `json:"creationTimestamp,omitempty"` // seconds since the Unix epoch
	PhotoIDs          []string     `json:"photoIds,omitempty"`
	SourceName        string       `json:"sourceName,omitempty"`
	SourceURL         string       `json:"sourceUrl,omitempty"`
	Servings          FlexString   `json:"servings,omitempty"`
	Rating            *float64     `json:"rating,omitempty"`
	PrepTime          *float64     `json:"prepTime,omitempty"` // seconds
	CookTime          *float64     `json:"cookTime,omitempty"` // seconds
	Categories        []string     `json:"categories,omitempty"`
	Notes             string       `json:"notes,omitempty"`
	Note              string       `json:"note,omitempty"`
	Ingredients       []Ingredient `json:"ingredients,omitempty"`
	Instructions      string       `json:"instructions,omitempty"`
	PreparationSteps  []string     `json:"preparationSteps,omitempty"`
	NutritionalInfo   string       `json:"nutritionalInfo,omitempty"`

	// Raw holds the record exactly as received.
	Raw json.RawMessage `json:"-"`
}

// Ingredient is one ingredient line, rendered verbatim.
type Ingredient struct {
	RawIngredient string `json:"rawIngredient"`
}

// UnmarshalJSON decodes the known fields and keeps a copy of the input in Raw.
func (r *Recipe) UnmarshalJSON(data []byte) error {
	type plain Recipe
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = Recipe(p)
	r.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// PhotoID returns the first photo identifier, or "" when there is none.
func (r *Recipe) PhotoID() string {
	if len(r.PhotoIDs) == 0 {
		return ""
	}
	return r.PhotoIDs[0]
}

// FlexString is a JSON value that may be sent as a string or a number.
// Numbers keep their literal text, so 4 and "4" both decode to "4".
type FlexString string

// UnmarshalJSON accepts strings, numbers and null.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*f = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("expected string or number, got %s", data)
		}
		*f = FlexString(n.String())
	}
	return nil
}

// DecodeRecipes decodes a JSON array of recipes, or an object holding the
// array under "recipes".
func DecodeRecipes(data []byte) ([]Recipe, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidRecipes)
	}

	if trimmed[0] == '{' {
		var wrapped struct {
			Recipes *[]Recipe `json:"recipes"`
		}
		if err := json.Unmarshal(trimmed, &wrapped); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRecipes, err)
		}
		if wrapped.Recipes == nil {
			return nil, fmt.Errorf("%w: object has no \"recipes\" array", ErrInvalidRecipes)
		}
		return *wrapped.Recipes, nil
	}

	var recipes []Recipe
	if err := json.Unmarshal(trimmed, &recipes); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecipes, err)
	}
	if recipes == nil {
		recipes = []Recipe{}
	}
	return recipes, nil
}

// MarshalArchive encodes recipes as a JSON array indented by two spaces.
// Records decoded from JSON are written from Raw, so unknown fields survive.
func MarshalArchive(recipes []Recipe) ([]byte, error) {
	records := make([]json.RawMessage, len(recipes))
	for i := range recipes {
		if len(recipes[i].Raw) > 0 {
			records[i] = recipes[i].Raw
			continue
		}
		b, err := json.Marshal(&recipes[i])
		if err != nil {
			return nil, fmt.Errorf("encoding recipe %d: %w", i, err)
		}
		records[i] = b
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Minutes converts seconds to minutes without rounding.
func Minutes(seconds float64) float64 {
	return seconds / 60
}

// FormatNumber prints v with the fewest digits that represent it exactly:
// 10 -> "10", 7.5 -> "7.5", 1.0/3 -> "0.3333333333333333".
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// hasValue reports whether an optional number is set and non-zero.
func hasValue(v *float64) bool {
	return v != nil && *v != 0
}

// hasText reports whether s holds anything besides whitespace.
func hasText(s string) bool {
	return strings.TrimSpace(s) != ""
}
