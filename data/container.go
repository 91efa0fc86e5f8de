// Package data provides thread-safe storage for the offline lookup tables.
// The DataContainer holds the ATC and NDC maps behind atomic pointers so a
// dataset rebuild can swap everything in with zero downtime for readers.
package data

import (
	"sync/atomic"
	"time"

	"github.com/tayyibgondal/atc-ndc-bidirectional-conversion/interfaces"
	"github.com/tayyibgondal/atc-ndc-bidirectional-conversion/logging"
	"github.com/tayyibgondal/atc-ndc-bidirectional-conversion/mappings"
)

// Compile-time check to ensure DataContainer implements DataStore
var _ interfaces.DataStore = (*DataContainer)(nil)

// DataContainer holds all the lookup tables with atomic pointers for
// zero-downtime updates
type DataContainer struct {
	atcTable        atomic.Value // map[string]mappings.ATCEntry
	atcNames        atomic.Value // map[string]string
	ndcSimple       atomic.Value // map[string]string
	ndcFull         atomic.Value // map[string]mappings.NDCProduct
	lastUpdated     atomic.Value // time.Time
	updating        atomic.Bool
	serverStartTime atomic.Value // time.Time
}

// NewDataContainer creates a new DataContainer with empty tables
func NewDataContainer() *DataContainer {
	dc := &DataContainer{}
	dc.atcTable.Store(make(map[string]mappings.ATCEntry))
	dc.atcNames.Store(make(map[string]string))
	dc.ndcSimple.Store(make(map[string]string))
	dc.ndcFull.Store(make(map[string]mappings.NDCProduct))
	dc.lastUpdated.Store(time.Time{})
	dc.serverStartTime.Store(time.Time{})
	return dc
}

// Thread-safe getters with type check

// GetATCTable returns the full ATC table with hierarchies
func (dc *DataContainer) GetATCTable() map[string]mappings.ATCEntry {
	if v := dc.atcTable.Load(); v != nil {
		if table, ok := v.(map[string]mappings.ATCEntry); ok {
			return table
		}
	}

	logging.Warn("ATC table is empty or invalid")
	return make(map[string]mappings.ATCEntry)
}

// GetATCNames returns the flat ATC code to name map
func (dc *DataContainer) GetATCNames() map[string]string {
	if v := dc.atcNames.Load(); v != nil {
		if names, ok := v.(map[string]string); ok {
			return names
		}
	}

	logging.Warn("ATC names map is empty or invalid")
	return make(map[string]string)
}

// GetNDCSimple returns the NDC code to description map
func (dc *DataContainer) GetNDCSimple() map[string]string {
	if v := dc.ndcSimple.Load(); v != nil {
		if simple, ok := v.(map[string]string); ok {
			return simple
		}
	}

	logging.Warn("NDC simple map is empty or invalid")
	return make(map[string]string)
}

// GetNDCFull returns the NDC code to full product record map
func (dc *DataContainer) GetNDCFull() map[string]mappings.NDCProduct {
	if v := dc.ndcFull.Load(); v != nil {
		if full, ok := v.(map[string]mappings.NDCProduct); ok {
			return full
		}
	}

	logging.Warn("NDC full map is empty or invalid")
	return make(map[string]mappings.NDCProduct)
}

// Dataset bundles the current tables into a mappings.Dataset for the
// offline lookup path
func (dc *DataContainer) Dataset() mappings.Dataset {
	return mappings.Dataset{
		ATC:       dc.GetATCTable(),
		NDCSimple: dc.GetNDCSimple(),
		NDCFull:   dc.GetNDCFull(),
	}
}

// GetLastUpdated returns the timestamp of the last data update
func (dc *DataContainer) GetLastUpdated() time.Time {
	if v := dc.lastUpdated.Load(); v != nil {
		if lastUpdated, ok := v.(time.Time); ok {
			return lastUpdated
		}
	}

	logging.Warn("Could not get the last updated value")
	return time.Time{}
}

// IsUpdating returns true if a data update is currently in progress
func (dc *DataContainer) IsUpdating() bool {
	return dc.updating.Load()
}

// SetServerStartTime sets the server start time
func (dc *DataContainer) SetServerStartTime(startTime time.Time) {
	dc.serverStartTime.Store(startTime)
}

// GetServerStartTime returns the server start time
func (dc *DataContainer) GetServerStartTime() time.Time {
	if v := dc.serverStartTime.Load(); v != nil {
		if startTime, ok := v.(time.Time); ok {
			return startTime
		}
	}

	logging.Warn("Could not get the server start time value")
	return time.Time{}
}

// UpdateData atomically swaps in a freshly built dataset
func (dc *DataContainer) UpdateData(ds mappings.Dataset) {
	// Atomic swap (zero downtime replacement)
	dc.atcTable.Store(ds.ATC)
	dc.atcNames.Store(ds.ATCNames())
	dc.ndcSimple.Store(ds.NDCSimple)
	dc.ndcFull.Store(ds.NDCFull)
	dc.lastUpdated.Store(time.Now())
}

// BeginUpdate marks the start of a data update operation
// Returns true if update can proceed, false if another update is in progress
func (dc *DataContainer) BeginUpdate() bool {
	return dc.updating.CompareAndSwap(false, true)
}

// EndUpdate marks the end of a data update operation
func (dc *DataContainer) EndUpdate() {
	dc.updating.Store(false)
}
