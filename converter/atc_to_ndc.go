package converter

import (
	"context"

	"github.com/tayyibgondal/atc-ndc-bidirectional-conversion/codes"
	"github.com/tayyibgondal/atc-ndc-bidirectional-conversion/logging"
	"github.com/tayyibgondal/atc-ndc-bidirectional-conversion/rxnav"
)

// ATCToNDC converts one ATC code to its NDC package codes.
//
// Resolution is one-to-many: an ATC code can map to several RxNorm concepts
// (different formulations), and each concept carries its own NDC list. When
// includeRelated is set, the walk also covers trade and package level
// concepts (SCD, SBD, GPCK, BPCK) related to the primary concept, capped at
// relatedLimit, because marketed packages often hang off dose-form siblings
// rather than the concept the ATC code resolves to.
func (c *Converter) ATCToNDC(ctx context.Context, atcCode string, includeRelated bool) ATCRecord {
	atcCode = codes.NormalizeATC(atcCode)

	record := ATCRecord{
		ATCCode:  atcCode,
		NDCCodes: []string{},
	}

	rxcuis, err := c.client.RxCUIsByATC(ctx, atcCode)
	if err != nil {
		logging.Warn("Failed to resolve ATC code", "atc_code", atcCode, "error", err)
		return record
	}
	if len(rxcuis) == 0 {
		logging.Debug("No concept found for ATC code", "atc_code", atcCode)
		return record
	}

	record.RxCUI = rxcuis[0]
	record.DrugName = c.conceptName(ctx, record.RxCUI)

	var allNDCs []string
	for _, rxcui := range rxcuis {
		allNDCs = append(allNDCs, c.ndcsFor(ctx, rxcui)...)
	}

	if includeRelated {
		related, err := c.client.Related(ctx, record.RxCUI, rxnav.PackTTYs)
		if err != nil {
			logging.Warn("Failed to fetch related concepts", "rxcui", record.RxCUI, "error", err)
		}
		if len(related) > relatedLimit {
			related = related[:relatedLimit]
		}
		for _, rxcui := range related {
			allNDCs = append(allNDCs, c.ndcsFor(ctx, rxcui)...)
		}
	}

	record.NDCCodes = dedupeStrings(allNDCs)
	return record
}

// ATCToNDCBatch converts codes sequentially, one record per input.
func (c *Converter) ATCToNDCBatch(ctx context.Context, atcCodes []string, includeRelated bool) []ATCRecord {
	records := make([]ATCRecord, 0, len(atcCodes))
	for i, code := range atcCodes {
		logging.Debug("Converting ATC code", "index", i+1, "total", len(atcCodes), "atc_code", code)
		records = append(records, c.ATCToNDC(ctx, code, includeRelated))
	}
	return records
}

func (c *Converter) ndcsFor(ctx context.Context, rxcui string) []string {
	ndcs, err := c.client.NDCs(ctx, rxcui)
	if err != nil {
		logging.Warn("Failed to fetch NDC list", "rxcui", rxcui, "error", err)
		return nil
	}
	return ndcs
}
