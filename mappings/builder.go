package mappings

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tayyibgondal/atc-ndc-bidirectional-conversion/codes"
	"github.com/tayyibgondal/atc-ndc-bidirectional-conversion/logging"
	"github.com/tayyibgondal/atc-ndc-bidirectional-conversion/openfda"
)

// ClassSource yields the full ATC class index from the terminology service.
type ClassSource interface {
	AllATCClasses(ctx context.Context) (map[string]string, error)
}

// ProductSource yields pages of NDC product records from the drug registry.
type ProductSource interface {
	Products(ctx context.Context, skip, limit int) ([]openfda.Product, error)
	Total(ctx context.Context) (int, error)
}

// pagePause spaces out registry page requests to stay well under the
// unauthenticated openFDA rate limit.
const pagePause = 500 * time.Millisecond

// DefaultNDCLimit bounds a build to a manageable slice of the registry;
// the full directory is over 100k products.
const DefaultNDCLimit = 5000

// Builder assembles the offline dataset from the two upstream services and
// persists it through its store.
type Builder struct {
	classes  ClassSource
	products ProductSource
	store    *Store
	ndcLimit int
	pageSize int
	pause    time.Duration
}

// NewBuilder creates a Builder that saves to and loads from dataDir, with
// the default page size and NDC limit.
func NewBuilder(classes ClassSource, products ProductSource, dataDir string) *Builder {
	return &Builder{
		classes:  classes,
		products: products,
		store:    NewStore(dataDir),
		ndcLimit: DefaultNDCLimit,
		pageSize: openfda.MaxPageSize,
		pause:    pagePause,
	}
}

// Load reads the most recently saved dataset from the data directory.
func (b *Builder) Load() (Dataset, error) {
	return b.store.Load()
}

// Save writes the dataset to the data directory.
func (b *Builder) Save(ds Dataset) error {
	return b.store.Save(ds)
}

// SetNDCLimit caps how many product records a build fetches. A limit of 0
// or less means fetch everything the registry reports.
func (b *Builder) SetNDCLimit(limit int) {
	b.ndcLimit = limit
}

// Build produces a complete dataset: the five-level ATC table and both NDC
// tables.
func (b *Builder) Build(ctx context.Context) (Dataset, error) {
	atc, err := b.BuildATC(ctx)
	if err != nil {
		return Dataset{}, err
	}
	simple, full, err := b.BuildNDC(ctx)
	if err != nil {
		return Dataset{}, err
	}
	return Dataset{ATC: atc, NDCSimple: simple, NDCFull: full}, nil
}

// BuildATC fetches the RxClass ATC index (levels 1-4), merges in the
// curated substance list and reconstructs the hierarchy for every code.
func (b *Builder) BuildATC(ctx context.Context) (map[string]ATCEntry, error) {
	names, err := b.classes.AllATCClasses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ATC class index: %w", err)
	}
	logging.Info(fmt.Sprintf("Fetched %d ATC classes from RxClass", len(names)))

	for _, sub := range curatedSubstances {
		if _, ok := names[sub.Code]; !ok {
			names[sub.Code] = sub.Name
		}
	}

	table := make(map[string]ATCEntry, len(names))
	for code, name := range names {
		code = codes.NormalizeATC(code)
		if code == "" {
			continue
		}
		table[code] = ATCEntry{
			Code:      code,
			Name:      name,
			Level:     codes.ATCLevel(code),
			Hierarchy: codes.BuildATCHierarchy(code, name, names),
		}
	}
	return table, nil
}

// BuildNDC pages through the product registry and fills both NDC tables,
// keyed by product NDC and by every package NDC under it.
func (b *Builder) BuildNDC(ctx context.Context) (map[string]string, map[string]NDCProduct, error) {
	simple := make(map[string]string)
	full := make(map[string]NDCProduct)

	limit := b.ndcLimit
	if limit <= 0 {
		total, err := b.products.Total(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to fetch NDC directory size: %w", err)
		}
		limit = total
	}

	fetched := 0
	for fetched < limit {
		pageSize := b.pageSize
		if remaining := limit - fetched; remaining < pageSize {
			pageSize = remaining
		}

		page, err := b.products.Products(ctx, fetched, pageSize)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to fetch NDC directory page at %d: %w", fetched, err)
		}
		for _, p := range page {
			b.addProduct(simple, full, p)
		}
		fetched += len(page)

		if len(page) < pageSize {
			break
		}
		if err := pause(ctx, b.pause); err != nil {
			return nil, nil, err
		}
	}

	logging.Info(fmt.Sprintf("Built NDC tables: %d codes from %d products", len(simple), fetched))
	return simple, full, nil
}

func (b *Builder) addProduct(simple map[string]string, full map[string]NDCProduct, p openfda.Product) {
	primary := p.NDC()
	if primary == "" {
		return
	}

	record := NDCProduct{
		Description: p.Description(),
		BrandName:   p.BrandName,
		GenericName: p.GenericName,
		DosageForm:  p.DosageForm,
		Route:       strings.Join(p.Route, ", "),
		Labeler:     p.LabelerName,
		ProductType: p.ProductType,
	}
	for _, ing := range p.ActiveIngredients {
		record.ActiveIngredients = append(record.ActiveIngredients, Ingredient{
			Name:     ing.Name,
			Strength: ing.Strength,
		})
	}

	keys := []string{primary}
	for _, pkg := range p.Packaging {
		if ndc := strings.TrimSpace(pkg.PackageNDC); ndc != "" && ndc != primary {
			keys = append(keys, ndc)
		}
	}
	for _, key := range keys {
		if _, ok := simple[key]; !ok {
			simple[key] = record.Description
			full[key] = record
		}
	}
}

func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
