package rxnav

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	return NewClient(server.URL), server
}

func TestRxCUIsByATC(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rxcui.json" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("idtype") != "ATC" {
			t.Errorf("Expected idtype=ATC, got %s", r.URL.Query().Get("idtype"))
		}
		if r.URL.Query().Get("id") != "C10AA07" {
			t.Errorf("Expected id=C10AA07, got %s", r.URL.Query().Get("id"))
		}
		w.Write([]byte(`{"idGroup":{"rxnormId":["301542","859749"]}}`))
	})
	defer server.Close()

	rxcuis, err := client.RxCUIsByATC(context.Background(), "C10AA07")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(rxcuis) != 2 || rxcuis[0] != "301542" || rxcuis[1] != "859749" {
		t.Errorf("Unexpected rxcuis: %v", rxcuis)
	}
}

func TestRxCUIsByATCEmptyGroup(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"idGroup":{"idType":"ATC","id":"Z99ZZ99"}}`))
	})
	defer server.Close()

	rxcuis, err := client.RxCUIsByATC(context.Background(), "Z99ZZ99")
	if err != nil {
		t.Fatalf("Expected no error for missing field, got %v", err)
	}
	if len(rxcuis) != 0 {
		t.Errorf("Expected empty result, got %v", rxcuis)
	}
}

func TestRxCUIByNDCTakesFirst(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("idtype") != "NDC" {
			t.Errorf("Expected idtype=NDC, got %s", r.URL.Query().Get("idtype"))
		}
		w.Write([]byte(`{"idGroup":{"rxnormId":["862873","999999"]}}`))
	})
	defer server.Close()

	rxcui, err := client.RxCUIByNDC(context.Background(), "00093757098")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rxcui != "862873" {
		t.Errorf("Expected 862873, got %q", rxcui)
	}
}

func TestConceptName(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rxcui/862873/properties.json" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`{"properties":{"rxcui":"862873","name":"rosuvastatin calcium 5 MG Oral Tablet"}}`))
	})
	defer server.Close()

	name, err := client.ConceptName(context.Background(), "862873")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if name != "rosuvastatin calcium 5 MG Oral Tablet" {
		t.Errorf("Unexpected name: %q", name)
	}
}

func TestNDCs(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rxcui/862873/ndcs.json" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`{"ndcGroup":{"ndcList":{"ndc":["00093757098","00093757198"]}}}`))
	})
	defer server.Close()

	ndcs, err := client.NDCs(context.Background(), "862873")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(ndcs) != 2 {
		t.Errorf("Expected 2 NDCs, got %v", ndcs)
	}
}

func TestRelatedFiltersTTYAndSelf(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"relatedGroup":{"conceptGroup":[
			{"tty":"IN","conceptProperties":[{"rxcui":"301542"},{"rxcui":"seed"}]},
			{"tty":"SCD","conceptProperties":[{"rxcui":"999"}]}
		]}}`))
	})
	defer server.Close()

	related, err := client.Related(context.Background(), "seed", IngredientTTYs)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// The SCD group is outside the requested term types and the seed rxcui
	// must never appear in its own related set.
	if len(related) != 1 || related[0] != "301542" {
		t.Errorf("Expected [301542], got %v", related)
	}
}

func TestATCClasses(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("relaSource") != "ATC" {
			t.Errorf("Expected relaSource=ATC, got %s", r.URL.Query().Get("relaSource"))
		}
		w.Write([]byte(`{"rxclassDrugInfoList":{"rxclassDrugInfo":[
			{"rxclassMinConceptItem":{"classId":"C10AA07","className":"rosuvastatin","classType":"ATC1-4"}},
			{"rxclassMinConceptItem":{"classId":"","className":"skipped","classType":"ATC1-4"}}
		]}}`))
	})
	defer server.Close()

	classes, err := client.ATCClasses(context.Background(), "301542")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(classes) != 1 {
		t.Fatalf("Expected 1 class (empty classId dropped), got %d", len(classes))
	}
	if classes[0].Code != "C10AA07" || classes[0].ClassName != "rosuvastatin" {
		t.Errorf("Unexpected class: %+v", classes[0])
	}
}

func TestAllATCClasses(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("classTypes") != "ATC1-4" {
			t.Errorf("Expected classTypes=ATC1-4, got %s", r.URL.Query().Get("classTypes"))
		}
		w.Write([]byte(`{"rxclassMinConceptList":{"rxclassMinConcept":[
			{"classId":"C","className":"CARDIOVASCULAR SYSTEM"},
			{"classId":"C10","className":"LIPID MODIFYING AGENTS"},
			{"classId":" ","className":"dropped"}
		]}}`))
	})
	defer server.Close()

	classes, err := client.AllATCClasses(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(classes) != 2 {
		t.Errorf("Expected 2 classes, got %d", len(classes))
	}
	if classes["C"] != "CARDIOVASCULAR SYSTEM" {
		t.Errorf("Unexpected name for C: %q", classes["C"])
	}
}

func TestGetReturnsErrorOnServerFailure(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	})
	defer server.Close()

	if _, err := client.RxCUIsByATC(context.Background(), "C10AA07"); err == nil {
		t.Error("Expected error on 500 response, got nil")
	}
}
