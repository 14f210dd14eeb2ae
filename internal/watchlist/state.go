package watchlist

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"ReportDog/internal/model"
)

// Entry is the last observed credit outcome of one code.
type Entry struct {
	Code      string      `json:"code"`
	Grade     model.Grade `json:"grade"`
	Score     int         `json:"score"`
	ZZone     model.ZZone `json:"z_zone"`
	Period    string      `json:"period"`
	CheckedAt time.Time   `json:"checked_at"`
}

// State is persisted between restarts.
type State struct {
	Codes     []string          `json:"codes"`
	Entries   map[string]*Entry `json:"entries"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// LoadState reads the watchlist state from a JSON file. Returns an empty state if the file doesn't exist.
func LoadState(filePath string) (*State, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &State{Entries: map[string]*Entry{}}, nil
		}
		return nil, err
	}
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	if state.Entries == nil {
		state.Entries = map[string]*Entry{}
	}
	return &state, nil
}

// SaveState writes the watchlist state to a JSON file, creating its directory if needed.
func SaveState(filePath string, state *State) error {
	state.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(filePath, data, 0644)
}
