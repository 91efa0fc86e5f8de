package mappings

import (
	"context"
	"errors"
	"testing"

	"github.com/tayyibgondal/atc-ndc-bidirectional-conversion/openfda"
)

type fakeClasses struct {
	names map[string]string
	err   error
}

func (f *fakeClasses) AllATCClasses(ctx context.Context) (map[string]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	// Copy so the builder's curated merge does not mutate the fixture.
	out := make(map[string]string, len(f.names))
	for k, v := range f.names {
		out[k] = v
	}
	return out, nil
}

type fakeProducts struct {
	products []openfda.Product
	total    int
	calls    int
	err      error
}

func (f *fakeProducts) Products(ctx context.Context, skip, limit int) ([]openfda.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.calls++
	if skip >= len(f.products) {
		return nil, nil
	}
	end := skip + limit
	if end > len(f.products) {
		end = len(f.products)
	}
	return f.products[skip:end], nil
}

func (f *fakeProducts) Total(ctx context.Context) (int, error) {
	return f.total, nil
}

func statinClasses() map[string]string {
	return map[string]string{
		"C":     "Cardiovascular system",
		"C10":   "Lipid modifying agents",
		"C10A":  "Lipid modifying agents, plain",
		"C10AA": "HMG CoA reductase inhibitors",
	}
}

func TestBuildATCIncludesCuratedSubstances(t *testing.T) {
	builder := NewBuilder(&fakeClasses{names: statinClasses()}, &fakeProducts{}, t.TempDir())

	table, err := builder.BuildATC(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	entry, ok := table["C10AA07"]
	if !ok {
		t.Fatal("Expected curated substance C10AA07 in the ATC table")
	}
	if entry.Name != "rosuvastatin" {
		t.Errorf("Expected name rosuvastatin, got %s", entry.Name)
	}
	if entry.Level != 5 {
		t.Errorf("Expected level 5, got %d", entry.Level)
	}
	if entry.Hierarchy.Level4 == nil || entry.Hierarchy.Level4.Name != "HMG CoA reductase inhibitors" {
		t.Error("Expected level 4 parent HMG CoA reductase inhibitors in hierarchy")
	}
	if entry.Hierarchy.Level5 == nil || entry.Hierarchy.Level5.Code != "C10AA07" {
		t.Error("Expected level 5 to carry the full substance code")
	}
}

func TestBuildATCKeepsFetchedClasses(t *testing.T) {
	builder := NewBuilder(&fakeClasses{names: statinClasses()}, &fakeProducts{}, t.TempDir())

	table, err := builder.BuildATC(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	entry, ok := table["C10"]
	if !ok {
		t.Fatal("Expected fetched class C10 in the ATC table")
	}
	if entry.Level != 2 {
		t.Errorf("Expected level 2, got %d", entry.Level)
	}
}

func TestBuildATCError(t *testing.T) {
	builder := NewBuilder(&fakeClasses{err: errors.New("service down")}, &fakeProducts{}, t.TempDir())

	if _, err := builder.BuildATC(context.Background()); err == nil {
		t.Error("Expected error when the class index fetch fails")
	}
}

func TestBuildNDCTables(t *testing.T) {
	products := []openfda.Product{
		{
			ProductNDC:  "0000-1111",
			BrandName:   "Testol",
			GenericName: "testostol",
			DosageForm:  "TABLET",
			Route:       []string{"ORAL"},
			LabelerName: "Test Labs",
			Packaging:   []openfda.Packaging{{PackageNDC: "0000-1111-22"}},
			ActiveIngredients: []openfda.ActiveIngredient{
				{Name: "TESTOSTOL", Strength: "10 mg/1"},
			},
		},
		{Packaging: []openfda.Packaging{{PackageNDC: "3333-4444-55"}}},
		{}, // no NDC at all, skipped
	}
	source := &fakeProducts{products: products}
	builder := NewBuilder(&fakeClasses{}, source, t.TempDir())
	builder.pause = 0

	simple, full, err := builder.BuildNDC(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(simple) != 3 {
		t.Errorf("Expected 3 simple entries, got %d", len(simple))
	}
	if desc := simple["0000-1111"]; desc != "Testol - TABLET (ORAL)" {
		t.Errorf("Expected product description, got %q", desc)
	}
	if _, ok := simple["0000-1111-22"]; !ok {
		t.Error("Expected package NDC entry alongside the product NDC")
	}

	record, ok := full["0000-1111"]
	if !ok {
		t.Fatal("Expected full record for 0000-1111")
	}
	if record.Labeler != "Test Labs" {
		t.Errorf("Expected labeler Test Labs, got %s", record.Labeler)
	}
	if len(record.ActiveIngredients) != 1 || record.ActiveIngredients[0].Name != "TESTOSTOL" {
		t.Error("Expected the active ingredient to be carried over")
	}
}

func TestBuildNDCStopsOnShortPage(t *testing.T) {
	source := &fakeProducts{products: []openfda.Product{{ProductNDC: "0000-1111"}}}
	builder := NewBuilder(&fakeClasses{}, source, t.TempDir())
	builder.pause = 0
	builder.ndcLimit = 5000

	if _, _, err := builder.BuildNDC(context.Background()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if source.calls != 1 {
		t.Errorf("Expected a single page fetch, got %d", source.calls)
	}
}

func TestBuildNDCRespectsLimit(t *testing.T) {
	products := make([]openfda.Product, 30)
	for i := range products {
		products[i].ProductNDC = "0000-" + string(rune('a'+i))
	}
	source := &fakeProducts{products: products}
	builder := NewBuilder(&fakeClasses{}, source, t.TempDir())
	builder.pause = 0
	builder.pageSize = 10
	builder.ndcLimit = 20

	simple, _, err := builder.BuildNDC(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(simple) != 20 {
		t.Errorf("Expected 20 entries, got %d", len(simple))
	}
	if source.calls != 2 {
		t.Errorf("Expected 2 page fetches, got %d", source.calls)
	}
}
