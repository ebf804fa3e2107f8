// Package app provides save-state slot management for the main
// application, layered on top of console.Console's binary SaveState /
// LoadState codec.
package app

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gosnes/internal/console"
)

// StateManager manages numbered save-state slots on disk, one JSON file
// per slot holding metadata alongside the console's base64-encoded
// binary state blob.
type StateManager struct {
	saveDirectory string
	maxSlots      int
}

// SaveState is the on-disk representation of one save-state slot.
type SaveState struct {
	Version     string    `json:"version"`
	Timestamp   time.Time `json:"timestamp"`
	ROMPath     string    `json:"rom_path"`
	SlotNumber  int       `json:"slot_number"`
	Description string    `json:"description"`
	FrameCount  uint64     `json:"frame_count"`

	// StateData is console.SaveState's binary blob (magic/version/length
	// header plus positional component state), base64-encoded for JSON.
	StateData string `json:"state_data"`
}

// StateSlotInfo describes one save-state slot without loading its full
// binary payload.
type StateSlotInfo struct {
	SlotNumber  int       `json:"slot_number"`
	Used        bool      `json:"used"`
	Timestamp   time.Time `json:"timestamp"`
	Description string    `json:"description"`
	FilePath    string    `json:"file_path"`
	FileSize    int64     `json:"file_size"`
}

// NewStateManager creates a StateManager rooted at saveDirectory, creating
// it if necessary.
func NewStateManager(saveDirectory string) *StateManager {
	os.MkdirAll(saveDirectory, 0755)
	return &StateManager{saveDirectory: saveDirectory, maxSlots: 10}
}

// SaveState serializes c's current state into slot for romPath.
func (sm *StateManager) SaveState(c *console.Console, slot int, romPath string) error {
	if slot < 0 || slot >= sm.maxSlots {
		return fmt.Errorf("invalid save slot: %d (must be 0-%d)", slot, sm.maxSlots-1)
	}

	size := c.SaveState(nil)
	buf := make([]byte, size)
	c.SaveState(buf)

	state := &SaveState{
		Version:     "1",
		Timestamp:   time.Now(),
		ROMPath:     romPath,
		SlotNumber:  slot,
		Description: fmt.Sprintf("Save %s", time.Now().Format("2006-01-02 15:04:05")),
		StateData:   base64.StdEncoding.EncodeToString(buf),
	}

	return sm.saveToFile(state, sm.slotFilePath(slot, romPath))
}

// LoadState restores c's state from slot for romPath.
func (sm *StateManager) LoadState(c *console.Console, slot int, romPath string) error {
	if slot < 0 || slot >= sm.maxSlots {
		return fmt.Errorf("invalid save slot: %d (must be 0-%d)", slot, sm.maxSlots-1)
	}

	path := sm.slotFilePath(slot, romPath)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("save state not found in slot %d", slot)
	}

	state, err := sm.loadFromFile(path)
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}
	if state.ROMPath != romPath {
		return fmt.Errorf("save state in slot %d is for a different ROM", slot)
	}

	buf, err := base64.StdEncoding.DecodeString(state.StateData)
	if err != nil {
		return fmt.Errorf("corrupt save state: %w", err)
	}
	return c.LoadState(buf)
}

func (sm *StateManager) saveToFile(state *SaveState, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (sm *StateManager) loadFromFile(path string) (*SaveState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var state SaveState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (sm *StateManager) slotFilePath(slot int, romPath string) string {
	romName := filepath.Base(romPath)
	romName = romName[:len(romName)-len(filepath.Ext(romName))]
	return filepath.Join(sm.saveDirectory, fmt.Sprintf("%s_slot_%d.state.json", romName, slot))
}

// SlotInfo returns information about every slot for romPath.
func (sm *StateManager) SlotInfo(romPath string) []StateSlotInfo {
	slots := make([]StateSlotInfo, sm.maxSlots)
	for i := range slots {
		slots[i] = StateSlotInfo{SlotNumber: i}
		path := sm.slotFilePath(i, romPath)
		stat, err := os.Stat(path)
		if err != nil {
			continue
		}
		slots[i].Used = true
		slots[i].FilePath = path
		slots[i].FileSize = stat.Size()
		slots[i].Timestamp = stat.ModTime()
		if state, err := sm.loadFromFile(path); err == nil {
			slots[i].Description = state.Description
			slots[i].Timestamp = state.Timestamp
		}
	}
	return slots
}

// HasSaveState reports whether slot has a saved state for romPath.
func (sm *StateManager) HasSaveState(slot int, romPath string) bool {
	if slot < 0 || slot >= sm.maxSlots {
		return false
	}
	_, err := os.Stat(sm.slotFilePath(slot, romPath))
	return err == nil
}

// DeleteState removes the save state in slot for romPath.
func (sm *StateManager) DeleteState(slot int, romPath string) error {
	path := sm.slotFilePath(slot, romPath)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("save state not found in slot %d", slot)
	}
	return os.Remove(path)
}

// MaxSlots returns the number of available save-state slots.
func (sm *StateManager) MaxSlots() int {
	return sm.maxSlots
}
