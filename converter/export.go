package converter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/tayyibgondal/atc-ndc-bidirectional-conversion/codes"
	"github.com/tayyibgondal/atc-ndc-bidirectional-conversion/rxnav"
)

type atcRecordExport struct {
	ATCCode  string   `json:"atc_code"`
	RxCUI    string   `json:"rxcui,omitempty"`
	DrugName string   `json:"drug_name,omitempty"`
	NDCCodes []string `json:"ndc_codes"`
	NDCCount int      `json:"ndc_count"`
}

type ndcRecordExport struct {
	NDCCode      string           `json:"ndc_code"`
	NDCFormatted string           `json:"ndc_formatted"`
	RxCUI        string           `json:"rxcui,omitempty"`
	DrugName     string           `json:"drug_name,omitempty"`
	ATCCodes     []rxnav.ATCClass `json:"atc_codes"`
	ATCCount     int              `json:"atc_count"`
}

// WriteATCRecordsJSON serializes ATC conversion results as an indented JSON
// document list.
func WriteATCRecordsJSON(w io.Writer, records []ATCRecord) error {
	out := make([]atcRecordExport, 0, len(records))
	for _, r := range records {
		out = append(out, atcRecordExport{
			ATCCode:  r.ATCCode,
			RxCUI:    r.RxCUI,
			DrugName: r.DrugName,
			NDCCodes: r.NDCCodes,
			NDCCount: len(r.NDCCodes),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to encode ATC records: %w", err)
	}
	return nil
}

// WriteATCRecordsCSV serializes ATC conversion results as CSV, one row per
// NDC code, or one row with empty target fields when none were found.
func WriteATCRecordsCSV(w io.Writer, records []ATCRecord) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"ATC_Code", "RxCUI", "Drug_Name", "NDC_Code", "NDC_Formatted"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, r := range records {
		if len(r.NDCCodes) == 0 {
			if err := cw.Write([]string{r.ATCCode, r.RxCUI, r.DrugName, "", ""}); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
			continue
		}
		for _, ndc := range r.NDCCodes {
			if err := cw.Write([]string{r.ATCCode, r.RxCUI, r.DrugName, ndc, codes.FormatNDC(ndc)}); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteNDCRecordsJSON serializes NDC conversion results as an indented JSON
// document list.
func WriteNDCRecordsJSON(w io.Writer, records []NDCRecord) error {
	out := make([]ndcRecordExport, 0, len(records))
	for _, r := range records {
		out = append(out, ndcRecordExport{
			NDCCode:      r.NDCCode,
			NDCFormatted: codes.FormatNDC(r.NDCCode),
			RxCUI:        r.RxCUI,
			DrugName:     r.DrugName,
			ATCCodes:     r.ATCCodes,
			ATCCount:     len(r.ATCCodes),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to encode NDC records: %w", err)
	}
	return nil
}

// WriteNDCRecordsCSV serializes NDC conversion results as CSV, one row per
// ATC classification, or one empty-target row when none were found.
func WriteNDCRecordsCSV(w io.Writer, records []NDCRecord) error {
	cw := csv.NewWriter(w)

	header := []string{"NDC_Code", "NDC_Formatted", "RxCUI", "Drug_Name", "ATC_Code", "ATC_Class_Name", "ATC_Class_Type"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, r := range records {
		formatted := codes.FormatNDC(r.NDCCode)
		if len(r.ATCCodes) == 0 {
			if err := cw.Write([]string{r.NDCCode, formatted, r.RxCUI, r.DrugName, "", "", ""}); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
			continue
		}
		for _, atc := range r.ATCCodes {
			row := []string{r.NDCCode, formatted, r.RxCUI, r.DrugName, atc.Code, atc.ClassName, atc.ClassType}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
	}

	cw.Flush()
	return cw.Error()
}
