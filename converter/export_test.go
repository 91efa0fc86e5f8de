package converter

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/tayyibgondal/atc-ndc-bidirectional-conversion/rxnav"
)

func TestWriteATCRecordsCSVOneRowPerNDC(t *testing.T) {
	records := []ATCRecord{
		{ATCCode: "C10AA07", RxCUI: "R1", DrugName: "rosuvastatin", NDCCodes: []string{"00093757098", "00093757198"}},
		{ATCCode: "Z99ZZ99", NDCCodes: []string{}},
	}

	var buf bytes.Buffer
	if err := WriteATCRecordsCSV(&buf, records); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	// header + 2 NDC rows + 1 empty-target row
	if len(lines) != 4 {
		t.Fatalf("Expected 4 lines, got %d: %v", len(lines), lines)
	}
	if lines[0] != "ATC_Code,RxCUI,Drug_Name,NDC_Code,NDC_Formatted" {
		t.Errorf("Unexpected header: %q", lines[0])
	}
	if !strings.Contains(lines[1], "00093-7570-98") {
		t.Errorf("Expected formatted NDC in row, got %q", lines[1])
	}
	if lines[3] != "Z99ZZ99,,,," {
		t.Errorf("Expected empty-target row, got %q", lines[3])
	}
}

func TestWriteATCRecordsJSONIncludesCount(t *testing.T) {
	records := []ATCRecord{
		{ATCCode: "C10AA07", RxCUI: "R1", NDCCodes: []string{"a", "b"}},
	}

	var buf bytes.Buffer
	if err := WriteATCRecordsJSON(&buf, records); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var decoded []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if decoded[0]["ndc_count"].(float64) != 2 {
		t.Errorf("Expected ndc_count 2, got %v", decoded[0]["ndc_count"])
	}
}

func TestWriteNDCRecordsCSV(t *testing.T) {
	records := []NDCRecord{
		{
			NDCCode:  "00093757098",
			RxCUI:    "R9",
			DrugName: "rosuvastatin",
			ATCCodes: []rxnav.ATCClass{
				{Code: "C10AA07", ClassName: "rosuvastatin", ClassType: "ATC1-4"},
			},
		},
	}

	var buf bytes.Buffer
	if err := WriteNDCRecordsCSV(&buf, records); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "00093-7570-98") {
		t.Errorf("Expected formatted NDC column, got %q", out)
	}
	if !strings.Contains(out, "C10AA07") {
		t.Errorf("Expected ATC code column, got %q", out)
	}
}

func TestWriteNDCRecordsJSONFormatsNDC(t *testing.T) {
	records := []NDCRecord{
		{NDCCode: "00093757098", ATCCodes: []rxnav.ATCClass{}},
	}

	var buf bytes.Buffer
	if err := WriteNDCRecordsJSON(&buf, records); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var decoded []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if decoded[0]["ndc_formatted"] != "00093-7570-98" {
		t.Errorf("Expected formatted NDC, got %v", decoded[0]["ndc_formatted"])
	}
}
