package mappings

import (
	"strings"

	"github.com/tayyibgondal/atc-ndc-bidirectional-conversion/codes"
)

// NDCMatch is the outcome of an NDC table lookup: the variant of the code
// that matched and the product behind it.
type NDCMatch struct {
	Code        string      `json:"code"`
	Formatted   string      `json:"formatted"`
	Description string      `json:"description"`
	Product     *NDCProduct `json:"product,omitempty"`
}

// LookupResult is the outcome of an offline code lookup.
type LookupResult struct {
	Query  string       `json:"query"`
	System codes.System `json:"system"`
	Found  bool         `json:"found"`
	ATC    *ATCEntry    `json:"atc,omitempty"`
	NDC    *NDCMatch    `json:"ndc,omitempty"`
}

// Lookup classifies the code and resolves it against the offline tables.
// An unclassifiable code returns codes.ErrIndeterminate; a classifiable
// code that is simply absent returns Found=false and no error.
func (ds Dataset) Lookup(code string) (LookupResult, error) {
	system, err := codes.Detect(code)
	if err != nil {
		return LookupResult{}, err
	}

	result := LookupResult{Query: code, System: system}
	switch system {
	case codes.SystemATC:
		atc := codes.NormalizeATC(code)
		if entry, ok := ds.ATC[atc]; ok {
			result.Found = true
			result.ATC = &entry
		}
	case codes.SystemNDC:
		if match, ok := ds.lookupNDC(code); ok {
			result.Found = true
			result.NDC = &match
		}
	}
	return result, nil
}

// lookupNDC tries the code as given, with separators stripped, and in the
// standard hyphenated layout, since the registry stores codes in mixed
// formats.
func (ds Dataset) lookupNDC(code string) (NDCMatch, bool) {
	for _, variant := range ndcVariants(code) {
		desc, ok := ds.NDCSimple[variant]
		if !ok {
			continue
		}
		match := NDCMatch{
			Code:        variant,
			Formatted:   codes.FormatNDC(variant),
			Description: desc,
		}
		if product, ok := ds.NDCFull[variant]; ok {
			match.Product = &product
		}
		return match, true
	}
	return NDCMatch{}, false
}

func ndcVariants(code string) []string {
	var variants []string
	seen := make(map[string]bool)
	add := func(v string) {
		if v != "" && !seen[v] {
			seen[v] = true
			variants = append(variants, v)
		}
	}

	trimmed := strings.TrimSpace(code)
	add(trimmed)

	stripped := strings.NewReplacer("-", "", " ", "").Replace(trimmed)
	add(stripped)

	if segments := codes.SplitNDC(trimmed); segments.Labeler.Code != "" {
		add(segments.Formatted)
	}
	add(codes.NormalizeNDC(trimmed))
	return variants
}
