// Package interfaces defines the service contracts of the conversion API
// to keep the pipelines, dataset store and scheduler testable and decoupled.
package interfaces

import (
	"context"
	"time"

	"github.com/tayyibgondal/atc-ndc-bidirectional-conversion/mappings"
	"github.com/tayyibgondal/atc-ndc-bidirectional-conversion/rxnav"
)

// Terminology is the slice of the RxNav client the conversion pipelines
// depend on. Implementations return empty results for "no data" and errors
// only for transport or service failures.
type Terminology interface {
	RxCUIsByATC(ctx context.Context, atcCode string) ([]string, error)
	RxCUIByNDC(ctx context.Context, ndc string) (string, error)
	ConceptName(ctx context.Context, rxcui string) (string, error)
	NDCs(ctx context.Context, rxcui string) ([]string, error)
	Related(ctx context.Context, rxcui string, ttys []string) ([]string, error)
	ATCClasses(ctx context.Context, rxcui string) ([]rxnav.ATCClass, error)
}

// DataStore provides thread-safe access to the offline lookup tables with
// atomic swaps for zero-downtime rebuilds.
type DataStore interface {
	GetATCTable() map[string]mappings.ATCEntry
	GetATCNames() map[string]string
	GetNDCSimple() map[string]string
	GetNDCFull() map[string]mappings.NDCProduct
	GetLastUpdated() time.Time
	IsUpdating() bool

	UpdateData(ds mappings.Dataset)
	BeginUpdate() bool
	EndUpdate()
}

// DatasetBuilder produces the offline mapping dataset, either by fetching it
// from the upstream services or by loading a previously saved copy.
type DatasetBuilder interface {
	Build(ctx context.Context) (mappings.Dataset, error)
	Load() (mappings.Dataset, error)
	Save(ds mappings.Dataset) error
}

// Scheduler manages the periodic dataset rebuild and health monitoring.
type Scheduler interface {
	Start() error
	Stop()
}
