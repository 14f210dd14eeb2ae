package watchlist

import (
	"fmt"
	"log"
	"slices"
	"sync"

	"ReportDog/internal/model"
)

// GradeChange is emitted when a code's grade letter differs from the last observation.
type GradeChange struct {
	Code      string
	From      model.Grade
	To        model.Grade
	FromScore int
	ToScore   int
}

// Improved reports whether the score went up.
func (g GradeChange) Improved() bool { return g.ToScore > g.FromScore }

// Manager tracks the watched codes and their last grades with concurrency safety.
type Manager struct {
	mu       sync.Mutex
	state    *State
	filePath string
}

// NewManager creates a Manager, loading state from disk and adding any seed codes.
func NewManager(filePath string, seed []string) (*Manager, error) {
	state, err := LoadState(filePath)
	if err != nil {
		return nil, fmt.Errorf("load watchlist: %w", err)
	}
	for _, code := range seed {
		if code != "" && !slices.Contains(state.Codes, code) {
			state.Codes = append(state.Codes, code)
		}
	}

	m := &Manager{state: state, filePath: filePath}
	if err := m.save(); err != nil {
		return nil, err
	}
	return m, nil
}

// Codes returns the watched codes in insertion order.
func (m *Manager) Codes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.state.Codes)
}

// Add starts watching code. It reports false if the code was already watched.
func (m *Manager) Add(code string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if slices.Contains(m.state.Codes, code) {
		return false
	}
	m.state.Codes = append(m.state.Codes, code)
	if err := m.save(); err != nil {
		log.Printf("[ERROR] failed to save watchlist: %v", err)
	}
	return true
}

// Remove stops watching code and forgets its last grade.
func (m *Manager) Remove(code string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := slices.Index(m.state.Codes, code)
	if i < 0 {
		return false
	}
	m.state.Codes = slices.Delete(m.state.Codes, i, i+1)
	delete(m.state.Entries, code)
	if err := m.save(); err != nil {
		log.Printf("[ERROR] failed to save watchlist: %v", err)
	}
	return true
}

// Entry returns a copy of the last observation of code.
func (m *Manager) Entry(code string) (Entry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.state.Entries[code]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// Observe records the credit outcome of report and returns the grade change,
// or nil on the first observation or when the grade letter is unchanged.
func (m *Manager) Observe(code string, report *model.Report) *GradeChange {
	if report == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	next := &Entry{
		Code:      code,
		Grade:     report.Credit.Grade,
		Score:     report.Credit.TotalScore,
		ZZone:     report.Credit.ZStatus.Zone,
		Period:    report.Latest().Period,
		CheckedAt: report.GeneratedAt,
	}
	prev, seen := m.state.Entries[code]
	m.state.Entries[code] = next
	if err := m.save(); err != nil {
		log.Printf("[ERROR] failed to save watchlist: %v", err)
	}

	if !seen || prev.Grade.Letter == next.Grade.Letter {
		return nil
	}
	return &GradeChange{
		Code:      code,
		From:      prev.Grade,
		To:        next.Grade,
		FromScore: prev.Score,
		ToScore:   next.Score,
	}
}

func (m *Manager) save() error {
	return SaveState(m.filePath, m.state)
}
