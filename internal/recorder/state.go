// Package recorder manages solve recording sessions.
package recorder

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// AppState represents the persistent application state.
type AppState struct {
	DBPath        string `json:"db_path,omitempty"`
	ConfigPath    string `json:"config_path,omitempty"`
	ActiveSolveID string `json:"active_solve_id,omitempty"`
	LastSize      int    `json:"last_size,omitempty"`
}

// StateFile manages the application state file.
type StateFile struct {
	path  string
	state AppState
}

// DefaultStatePath returns the default state file path.
func DefaultStatePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".nxncube", "state.json"), nil
}

// NewStateFile creates a state file manager, loading any existing state.
func NewStateFile(path string) (*StateFile, error) {
	sf := &StateFile{path: path}

	if err := sf.Load(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	return sf, nil
}

// NewDefaultStateFile creates a state file manager with the default path.
func NewDefaultStateFile() (*StateFile, error) {
	path, err := DefaultStatePath()
	if err != nil {
		return nil, err
	}
	return NewStateFile(path)
}

// Load loads the state from disk.
func (sf *StateFile) Load() error {
	data, err := os.ReadFile(sf.path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, &sf.state); err != nil {
		return fmt.Errorf("failed to parse state file: %w", err)
	}
	return nil
}

// Save saves the state to disk.
func (sf *StateFile) Save() error {
	data, err := json.MarshalIndent(sf.state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(sf.path), 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	if err := os.WriteFile(sf.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}

	return nil
}

// State returns the current state.
func (sf *StateFile) State() AppState {
	return sf.state
}

// SetDBPath sets the database path.
func (sf *StateFile) SetDBPath(path string) error {
	sf.state.DBPath = path
	return sf.Save()
}

// SetConfigPath remembers the last configuration file used.
func (sf *StateFile) SetConfigPath(path string) error {
	sf.state.ConfigPath = path
	return sf.Save()
}

// SetActiveSolve sets the active solve ID and its puzzle size.
func (sf *StateFile) SetActiveSolve(solveID string, size int) error {
	sf.state.ActiveSolveID = solveID
	sf.state.LastSize = size
	return sf.Save()
}

// ClearActiveSolve clears the active solve ID.
func (sf *StateFile) ClearActiveSolve() error {
	sf.state.ActiveSolveID = ""
	return sf.Save()
}

// HasActiveSolve returns true if there is an active solve.
func (sf *StateFile) HasActiveSolve() bool {
	return sf.state.ActiveSolveID != ""
}

// ActiveSolveID returns the active solve ID.
func (sf *StateFile) ActiveSolveID() string {
	return sf.state.ActiveSolveID
}

// DBPath returns the database path.
func (sf *StateFile) DBPath() string {
	return sf.state.DBPath
}
