// Package mappings builds, persists and queries the offline ATC and NDC
// lookup tables. The ATC table covers all five hierarchy levels (RxClass
// levels 1-4 plus a curated substance list); the NDC tables come from the
// openFDA product registry in two shapes, a simple code to description map
// and a full product-detail map.
package mappings

import (
	"github.com/tayyibgondal/atc-ndc-bidirectional-conversion/codes"
)

// ATCEntry is one code in the flat ATC table, with its reconstructed
// hierarchy.
type ATCEntry struct {
	Code      string             `json:"code"`
	Name      string             `json:"name"`
	Level     int                `json:"level"`
	Hierarchy codes.ATCHierarchy `json:"hierarchy"`
	RxCUI     string             `json:"rxcui,omitempty"`
}

// Ingredient is an active ingredient with its strength as reported by the
// product registry.
type Ingredient struct {
	Name     string `json:"name"`
	Strength string `json:"strength,omitempty"`
}

// NDCProduct is the full product record behind an NDC code.
type NDCProduct struct {
	Description       string       `json:"description"`
	BrandName         string       `json:"brand_name,omitempty"`
	GenericName       string       `json:"generic_name,omitempty"`
	DosageForm        string       `json:"dosage_form,omitempty"`
	Route             string       `json:"route,omitempty"`
	ActiveIngredients []Ingredient `json:"active_ingredients,omitempty"`
	Labeler           string       `json:"labeler,omitempty"`
	ProductType       string       `json:"product_type,omitempty"`
}

// Dataset bundles the three lookup tables that make up one build.
type Dataset struct {
	ATC       map[string]ATCEntry
	NDCSimple map[string]string
	NDCFull   map[string]NDCProduct
}

// ATCNames flattens the ATC table to a plain code->name map, the shape the
// hierarchy builder consumes.
func (ds Dataset) ATCNames() map[string]string {
	names := make(map[string]string, len(ds.ATC))
	for code, entry := range ds.ATC {
		names[code] = entry.Name
	}
	return names
}
