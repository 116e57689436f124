// Package iostore persists report history across runs.
package iostore

import (
	"sync"

	"github.com/okrpulse/okrpulse/internal/contract"
)

// ReportStoreManager manages the ReportStore instance.
type ReportStoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	report       contract.ReportStore
}

var _ contract.StoreManager = &ReportStoreManager{} // Compile-time check

// GetReportStore returns the report history ReportStore.
func (mgr *ReportStoreManager) GetReportStore() contract.ReportStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.report
}
