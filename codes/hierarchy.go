package codes

import "strings"

// The five ATC hierarchy levels and their fixed role descriptions. The
// description depends only on the level, never on the looked-up code.
const (
	descAnatomical      = "Anatomical main group"
	descTherapeutic     = "Therapeutic subgroup"
	descPharmacological = "Pharmacological subgroup"
	descChemical        = "Chemical subgroup"
	descSubstance       = "Chemical substance"
)

// HierarchyLevel is one level of a reconstructed ATC hierarchy.
type HierarchyLevel struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ATCHierarchy holds the up-to-five levels implied by an ATC code's prefixes.
// Levels beyond the code's own length are left nil.
type ATCHierarchy struct {
	Level1 *HierarchyLevel `json:"level1,omitempty"`
	Level2 *HierarchyLevel `json:"level2,omitempty"`
	Level3 *HierarchyLevel `json:"level3,omitempty"`
	Level4 *HierarchyLevel `json:"level4,omitempty"`
	Level5 *HierarchyLevel `json:"level5,omitempty"`
}

// ATCLevel reports the hierarchy level (1-5) encoded by the code's length,
// or 0 for lengths that are not valid ATC lengths.
func ATCLevel(code string) int {
	switch len(code) {
	case 1:
		return 1
	case 3:
		return 2
	case 4:
		return 3
	case 5:
		return 4
	case 7:
		return 5
	default:
		return 0
	}
}

// BuildATCHierarchy reconstructs the full hierarchy for an ATC code from a
// flat code->name table using fixed-length prefixes (1/3/4/5/7 characters).
// Parents missing from the table render as "Unknown" rather than failing.
// The name argument supplies the level-5 substance name, since substance
// codes are not always present in the flat table.
func BuildATCHierarchy(code, name string, table map[string]string) ATCHierarchy {
	var h ATCHierarchy

	lookup := func(prefix string) string {
		if n, ok := table[prefix]; ok && n != "" {
			return n
		}
		return "Unknown"
	}

	if len(code) >= 1 {
		h.Level1 = &HierarchyLevel{Code: code[:1], Name: lookup(code[:1]), Description: descAnatomical}
	}
	if len(code) >= 3 {
		h.Level2 = &HierarchyLevel{Code: code[:3], Name: lookup(code[:3]), Description: descTherapeutic}
	}
	if len(code) >= 4 {
		h.Level3 = &HierarchyLevel{Code: code[:4], Name: lookup(code[:4]), Description: descPharmacological}
	}
	if len(code) >= 5 {
		h.Level4 = &HierarchyLevel{Code: code[:5], Name: lookup(code[:5]), Description: descChemical}
	}
	if len(code) == 7 {
		h.Level5 = &HierarchyLevel{Code: code, Name: name, Description: descSubstance}
	}

	return h
}

// NDCSegment is one of the three segments of an NDC code.
type NDCSegment struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// NDCSegments is the labeler/product/package breakdown of an NDC code. The
// descriptions are static role explanations, independent of the values.
type NDCSegments struct {
	Labeler   NDCSegment `json:"labeler"`
	Product   NDCSegment `json:"product"`
	Package   NDCSegment `json:"package"`
	Formatted string     `json:"formatted"`
}

const (
	descLabeler = "Manufacturer/Labeler identifier"
	descProduct = "Product identifier (drug, strength, dosage form)"
	descPackage = "Package size and type identifier"
)

// SplitNDC breaks an NDC code into its three segments. Hyphenated three-part
// codes split on the hyphens; bare 11-digit codes are read as 5-4-2 and bare
// 10-digit codes as 4-4-2. Codes with an unexpected hyphen count fall back to
// 5-4-2 (11 digits) or 5-3-2 (10 digits). Unparseable codes yield empty
// segments with the input echoed in Formatted.
func SplitNDC(ndc string) NDCSegments {
	clean := strings.ReplaceAll(ndc, "-", "")

	var labeler, product, pkg string

	if strings.Contains(ndc, "-") {
		parts := strings.Split(ndc, "-")
		if len(parts) == 3 {
			labeler, product, pkg = parts[0], parts[1], parts[2]
		} else {
			switch len(clean) {
			case 11:
				labeler, product, pkg = clean[:5], clean[5:9], clean[9:]
			case 10:
				labeler, product, pkg = clean[:5], clean[5:8], clean[8:]
			}
		}
	} else {
		switch len(clean) {
		case 11:
			labeler, product, pkg = clean[:5], clean[5:9], clean[9:]
		case 10:
			labeler, product, pkg = clean[:4], clean[4:8], clean[8:]
		}
	}

	formatted := ndc
	if labeler != "" && product != "" && pkg != "" {
		formatted = labeler + "-" + product + "-" + pkg
	}

	return NDCSegments{
		Labeler:   NDCSegment{Code: labeler, Description: descLabeler},
		Product:   NDCSegment{Code: product, Description: descProduct},
		Package:   NDCSegment{Code: pkg, Description: descPackage},
		Formatted: formatted,
	}
}
