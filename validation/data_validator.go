// Package validation provides input validation and dataset quality
// reporting for the conversion API.
package validation

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/tayyibgondal/atc-ndc-bidirectional-conversion/mappings"
)

// codeRegex accepts the characters that can appear in ATC and NDC codes:
// letters, digits, hyphens and spaces.
var codeRegex = regexp.MustCompile(`^[A-Za-z0-9\- ]+$`)

// MaxCodeLength bounds user-supplied code input. The longest legitimate
// code is a hyphenated 11-digit NDC (13 characters).
const MaxCodeLength = 32

// ValidateCodeInput rejects input that cannot be a pharmaceutical code
// before it reaches any lookup or upstream call.
func ValidateCodeInput(code string) error {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return fmt.Errorf("code cannot be empty")
	}
	if len(trimmed) > MaxCodeLength {
		return fmt.Errorf("code too long: %d characters (max %d)", len(trimmed), MaxCodeLength)
	}
	if !codeRegex.MatchString(trimmed) {
		return fmt.Errorf("code contains invalid characters")
	}
	return nil
}

// Report summarizes the quality of a built dataset.
type Report struct {
	ATCCodes          int
	NDCCodes          int
	LevelCounts       map[int]int
	UnknownParents    []string // ATC codes whose hierarchy has a missing parent
	NDCMissingDetails int      // NDC codes present in the simple table only
}

// ReportDataQuality inspects a dataset for gaps worth logging: hierarchy
// entries with unresolvable parents and NDC codes without full product
// records.
func ReportDataQuality(ds mappings.Dataset) Report {
	report := Report{
		ATCCodes:    len(ds.ATC),
		NDCCodes:    len(ds.NDCSimple),
		LevelCounts: make(map[int]int),
	}

	for code, entry := range ds.ATC {
		report.LevelCounts[entry.Level]++
		if hierarchyHasUnknownParent(entry) {
			report.UnknownParents = append(report.UnknownParents, code)
		}
	}
	sort.Strings(report.UnknownParents)

	for ndc := range ds.NDCSimple {
		if _, ok := ds.NDCFull[ndc]; !ok {
			report.NDCMissingDetails++
		}
	}

	return report
}

func hierarchyHasUnknownParent(entry mappings.ATCEntry) bool {
	h := entry.Hierarchy
	if h.Level1 != nil && h.Level1.Name == "Unknown" {
		return true
	}
	if h.Level2 != nil && h.Level2.Name == "Unknown" {
		return true
	}
	if h.Level3 != nil && h.Level3.Name == "Unknown" {
		return true
	}
	if h.Level4 != nil && h.Level4.Name == "Unknown" {
		return true
	}
	return false
}
