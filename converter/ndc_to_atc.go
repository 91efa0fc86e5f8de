package converter

import (
	"context"

	"github.com/tayyibgondal/atc-ndc-bidirectional-conversion/codes"
	"github.com/tayyibgondal/atc-ndc-bidirectional-conversion/logging"
	"github.com/tayyibgondal/atc-ndc-bidirectional-conversion/rxnav"
)

// NDCToATC converts one NDC code to its ATC classifications.
//
// The classification lookup runs first at the product concept. That is empty
// surprisingly often: ATC classifications usually attach to the active
// ingredient, not the packaged product. In that case the walk moves to
// related ingredient concepts (IN) and retries the classification lookup on
// each, unioning the results.
func (c *Converter) NDCToATC(ctx context.Context, ndcCode string) NDCRecord {
	ndcCode = codes.NormalizeNDC(ndcCode)

	record := NDCRecord{
		NDCCode:  ndcCode,
		ATCCodes: []rxnav.ATCClass{},
	}

	rxcui, err := c.client.RxCUIByNDC(ctx, ndcCode)
	if err != nil {
		logging.Warn("Failed to resolve NDC code", "ndc_code", ndcCode, "error", err)
		return record
	}
	if rxcui == "" {
		logging.Debug("No concept found for NDC code", "ndc_code", ndcCode)
		return record
	}

	record.RxCUI = rxcui
	record.DrugName = c.conceptName(ctx, rxcui)

	classes := c.classesFor(ctx, rxcui)

	// Fall back to ingredient-level concepts when the product carries no
	// classification of its own.
	if len(classes) == 0 {
		logging.Debug("No ATC classes at product level, walking ingredients", "rxcui", rxcui)
		ingredients, err := c.client.Related(ctx, rxcui, rxnav.IngredientTTYs)
		if err != nil {
			logging.Warn("Failed to fetch related ingredients", "rxcui", rxcui, "error", err)
		}
		for _, ingredient := range ingredients {
			classes = append(classes, c.classesFor(ctx, ingredient)...)
		}
	}

	record.ATCCodes = dedupeClasses(classes)
	return record
}

// NDCToATCBatch converts codes sequentially, one record per input.
func (c *Converter) NDCToATCBatch(ctx context.Context, ndcCodes []string) []NDCRecord {
	records := make([]NDCRecord, 0, len(ndcCodes))
	for i, code := range ndcCodes {
		logging.Debug("Converting NDC code", "index", i+1, "total", len(ndcCodes), "ndc_code", code)
		records = append(records, c.NDCToATC(ctx, code))
	}
	return records
}

func (c *Converter) classesFor(ctx context.Context, rxcui string) []rxnav.ATCClass {
	classes, err := c.client.ATCClasses(ctx, rxcui)
	if err != nil {
		logging.Warn("Failed to fetch ATC classes", "rxcui", rxcui, "error", err)
		return nil
	}
	return classes
}
