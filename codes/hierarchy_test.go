package codes

import "testing"

var statinTable = map[string]string{
	"C":     "Cardiovascular system",
	"C10":   "Lipid modifying agents",
	"C10A":  "Lipid modifying agents, plain",
	"C10AA": "HMG CoA reductase inhibitors",
}

func TestBuildATCHierarchyFullDepth(t *testing.T) {
	h := BuildATCHierarchy("C10AA07", "rosuvastatin", statinTable)

	expected := []struct {
		level *HierarchyLevel
		code  string
		name  string
		desc  string
	}{
		{h.Level1, "C", "Cardiovascular system", "Anatomical main group"},
		{h.Level2, "C10", "Lipid modifying agents", "Therapeutic subgroup"},
		{h.Level3, "C10A", "Lipid modifying agents, plain", "Pharmacological subgroup"},
		{h.Level4, "C10AA", "HMG CoA reductase inhibitors", "Chemical subgroup"},
		{h.Level5, "C10AA07", "rosuvastatin", "Chemical substance"},
	}

	for i, e := range expected {
		if e.level == nil {
			t.Fatalf("Level %d is nil", i+1)
		}
		if e.level.Code != e.code {
			t.Errorf("Level %d code = %q, expected %q", i+1, e.level.Code, e.code)
		}
		if e.level.Name != e.name {
			t.Errorf("Level %d name = %q, expected %q", i+1, e.level.Name, e.name)
		}
		if e.level.Description != e.desc {
			t.Errorf("Level %d description = %q, expected %q", i+1, e.level.Description, e.desc)
		}
	}
}

func TestBuildATCHierarchyPartialDepth(t *testing.T) {
	h := BuildATCHierarchy("C10", "Lipid modifying agents", statinTable)

	if h.Level1 == nil || h.Level2 == nil {
		t.Fatal("Expected levels 1 and 2 to be set")
	}
	if h.Level3 != nil || h.Level4 != nil || h.Level5 != nil {
		t.Error("Expected levels 3-5 to be nil for a level 2 code")
	}
}

func TestBuildATCHierarchyMissingParents(t *testing.T) {
	h := BuildATCHierarchy("X99XX99", "mystery substance", statinTable)

	for i, level := range []*HierarchyLevel{h.Level1, h.Level2, h.Level3, h.Level4} {
		if level == nil {
			t.Fatalf("Level %d is nil", i+1)
		}
		if level.Name != "Unknown" {
			t.Errorf("Level %d name = %q, expected Unknown", i+1, level.Name)
		}
	}

	// The substance name comes from the caller, not the table
	if h.Level5 == nil || h.Level5.Name != "mystery substance" {
		t.Errorf("Level 5 = %+v, expected mystery substance", h.Level5)
	}
}

func TestATCLevel(t *testing.T) {
	testCases := []struct {
		code     string
		expected int
	}{
		{"C", 1},
		{"C10", 2},
		{"C10A", 3},
		{"C10AA", 4},
		{"C10AA07", 5},
		{"C10AA0", 0},
		{"", 0},
	}

	for _, tc := range testCases {
		if got := ATCLevel(tc.code); got != tc.expected {
			t.Errorf("ATCLevel(%q) = %d, expected %d", tc.code, got, tc.expected)
		}
	}
}

func TestSplitNDCHyphenated(t *testing.T) {
	s := SplitNDC("47335-0985-60")

	if s.Labeler.Code != "47335" {
		t.Errorf("Labeler = %q, expected 47335", s.Labeler.Code)
	}
	if s.Product.Code != "0985" {
		t.Errorf("Product = %q, expected 0985", s.Product.Code)
	}
	if s.Package.Code != "60" {
		t.Errorf("Package = %q, expected 60", s.Package.Code)
	}
	if s.Formatted != "47335-0985-60" {
		t.Errorf("Formatted = %q, expected 47335-0985-60", s.Formatted)
	}
}

func TestSplitNDCBareDigits(t *testing.T) {
	testCases := []struct {
		input   string
		labeler string
		product string
		pkg     string
	}{
		{"47335098560", "47335", "0985", "60"}, // 11 digits: 5-4-2
		{"0093757098", "0093", "7570", "98"},   // 10 digits: 4-4-2
	}

	for _, tc := range testCases {
		s := SplitNDC(tc.input)
		if s.Labeler.Code != tc.labeler || s.Product.Code != tc.product || s.Package.Code != tc.pkg {
			t.Errorf("SplitNDC(%q) = %s/%s/%s, expected %s/%s/%s",
				tc.input, s.Labeler.Code, s.Product.Code, s.Package.Code,
				tc.labeler, tc.product, tc.pkg)
		}
	}
}

func TestSplitNDCSegmentDescriptionsAreStatic(t *testing.T) {
	s := SplitNDC("47335-0985-60")

	if s.Labeler.Description != "Manufacturer/Labeler identifier" {
		t.Errorf("Unexpected labeler description: %q", s.Labeler.Description)
	}
	if s.Product.Description != "Product identifier (drug, strength, dosage form)" {
		t.Errorf("Unexpected product description: %q", s.Product.Description)
	}
	if s.Package.Description != "Package size and type identifier" {
		t.Errorf("Unexpected package description: %q", s.Package.Description)
	}
}

func TestSplitNDCUnparseable(t *testing.T) {
	s := SplitNDC("12345")

	if s.Labeler.Code != "" || s.Product.Code != "" || s.Package.Code != "" {
		t.Errorf("Expected empty segments, got %+v", s)
	}
	if s.Formatted != "12345" {
		t.Errorf("Formatted = %q, expected input passthrough", s.Formatted)
	}
}
