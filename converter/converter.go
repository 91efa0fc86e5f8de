// Package converter implements the two conversion pipelines between ATC
// codes and NDC identifiers. Both directions share the same shape: normalize
// the source code, resolve it to RxNorm concept identifiers, expand across
// related concepts where the direct mapping is sparse, then aggregate with
// order-preserving deduplication.
//
// Upstream failures are soft: a failed call degrades that record to "not
// found" and the batch continues. A batch always yields exactly one record
// per input.
package converter

import (
	"context"

	"github.com/tayyibgondal/atc-ndc-bidirectional-conversion/interfaces"
	"github.com/tayyibgondal/atc-ndc-bidirectional-conversion/logging"
	"github.com/tayyibgondal/atc-ndc-bidirectional-conversion/rxnav"
)

// relatedLimit caps how many related concepts are expanded per conversion.
// Concepts with many sibling formulations would otherwise trigger an
// unbounded number of follow-up requests.
const relatedLimit = 10

// ATCRecord is the result of one ATC to NDC conversion. RxCUI and DrugName
// are empty when the code could not be resolved; NDCCodes is the
// order-preserving deduplicated union across all reached concepts.
type ATCRecord struct {
	ATCCode  string   `json:"atc_code"`
	RxCUI    string   `json:"rxcui,omitempty"`
	DrugName string   `json:"drug_name,omitempty"`
	NDCCodes []string `json:"ndc_codes"`
}

// NDCRecord is the result of one NDC to ATC conversion.
type NDCRecord struct {
	NDCCode  string           `json:"ndc_code"`
	RxCUI    string           `json:"rxcui,omitempty"`
	DrugName string           `json:"drug_name,omitempty"`
	ATCCodes []rxnav.ATCClass `json:"atc_codes"`
}

// Converter runs conversions against an injected terminology client.
type Converter struct {
	client interfaces.Terminology
}

// New creates a converter backed by the given terminology client.
func New(client interfaces.Terminology) *Converter {
	return &Converter{client: client}
}

// dedupeStrings removes duplicates while preserving first-seen order.
func dedupeStrings(values []string) []string {
	seen := make(map[string]bool, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			result = append(result, v)
		}
	}
	return result
}

// dedupeClasses collapses classification entries by ATC code, keeping the
// first-seen entry's class name and type.
func dedupeClasses(classes []rxnav.ATCClass) []rxnav.ATCClass {
	seen := make(map[string]bool, len(classes))
	result := make([]rxnav.ATCClass, 0, len(classes))
	for _, class := range classes {
		if !seen[class.Code] {
			seen[class.Code] = true
			result = append(result, class)
		}
	}
	return result
}

// conceptName fetches the drug name for a concept, softening failures to an
// empty name.
func (c *Converter) conceptName(ctx context.Context, rxcui string) string {
	name, err := c.client.ConceptName(ctx, rxcui)
	if err != nil {
		logging.Warn("Failed to fetch concept name", "rxcui", rxcui, "error", err)
		return ""
	}
	return name
}
