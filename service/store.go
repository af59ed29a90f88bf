package service

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/soorajhamirani/ContractGuard-AI/config"
	"github.com/soorajhamirani/ContractGuard-AI/model"
)

// AnalysisStore is an in-memory store for contract analyses. Results live
// for the process lifetime only; nothing is persisted across restarts.
//
// Records are copied on the way in and out: handlers hold their snapshot
// while the analysis goroutine updates the stored record, so the two must
// never share a struct. The Result pointer is shared by the copies, but it
// is written once by SetResult and read-only afterwards.
type AnalysisStore struct {
	analyses    map[string]*model.Analysis
	mu          sync.RWMutex
	maxAnalyses int // maximum records to keep, 0 = unlimited
}

var (
	globalStore *AnalysisStore
	storeOnce   sync.Once
)

// InitAnalysisStore initializes the global analysis store with configuration
func InitAnalysisStore(cfg *config.StoreConfig) {
	storeOnce.Do(func() {
		maxAnalyses := cfg.MaxAnalyses
		if maxAnalyses < 0 {
			maxAnalyses = 0
		}
		globalStore = &AnalysisStore{
			analyses:    make(map[string]*model.Analysis),
			maxAnalyses: maxAnalyses,
		}
		slog.Info("analysis store initialized", "max_analyses", maxAnalyses)
	})
}

// GetAnalysisStore returns the global analysis store
func GetAnalysisStore() *AnalysisStore {
	if globalStore == nil {
		// Fallback initialization with default settings
		globalStore = &AnalysisStore{
			analyses:    make(map[string]*model.Analysis),
			maxAnalyses: 100,
		}
	}
	return globalStore
}

func (s *AnalysisStore) Save(analysis *model.Analysis) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record := *analysis
	record.UpdatedAt = time.Now()
	s.analyses[record.ID] = &record

	s.evictIfNeeded()
}

// Get returns a snapshot of the analysis, or nil if it is unknown.
func (s *AnalysisStore) Get(id string) *model.Analysis {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.analyses[id]
	if !ok {
		return nil
	}
	snapshot := *a
	return &snapshot
}

// GetByTenant returns snapshots of the tenant's analyses.
func (s *AnalysisStore) GetByTenant(tenant string) []*model.Analysis {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*model.Analysis
	for _, a := range s.analyses {
		if a.Tenant == tenant {
			snapshot := *a
			result = append(result, &snapshot)
		}
	}
	return result
}

func (s *AnalysisStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.analyses, id)
}

func (s *AnalysisStore) UpdateStatus(id, status string, errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.analyses[id]; ok {
		a.Status = status
		a.ErrorMsg = errMsg
		a.UpdatedAt = time.Now()
	}
}

// SetTextChars records how many characters the loader extracted.
func (s *AnalysisStore) SetTextChars(id string, chars int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.analyses[id]; ok {
		a.TextChars = chars
		a.UpdatedAt = time.Now()
	}
}

// SetResult stores the computed result and marks the analysis completed.
func (s *AnalysisStore) SetResult(id string, result *model.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.analyses[id]; ok {
		a.Result = result
		a.Status = model.StatusCompleted
		a.ErrorMsg = ""
		a.UpdatedAt = time.Now()
	}
}

// evictIfNeeded removes oldest analyses if the store exceeds maxAnalyses.
// Must be called with lock held.
func (s *AnalysisStore) evictIfNeeded() {
	if s.maxAnalyses <= 0 {
		return // unlimited
	}

	if len(s.analyses) <= s.maxAnalyses {
		return
	}

	all := make([]*model.Analysis, 0, len(s.analyses))
	for _, a := range s.analyses {
		all = append(all, a)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.Before(all[j].CreatedAt)
	})

	removeCount := len(all) - s.maxAnalyses
	for i := 0; i < removeCount; i++ {
		slog.Info("evicting old analysis",
			"analysis_id", all[i].ID,
			"created_at", all[i].CreatedAt,
		)
		delete(s.analyses, all[i].ID)
	}
}

// Count returns the number of analyses in the store
func (s *AnalysisStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.analyses)
}
