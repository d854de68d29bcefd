package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// PanelID uniquely identifies a toggleable panel.
type PanelID string

// Standard panel IDs.
const (
	PanelHUD      PanelID = "hud"
	PanelPerf     PanelID = "perf"
	PanelControls PanelID = "controls"
	PanelHelp     PanelID = "help"
)

// PanelDescriptor defines a panel that can be toggled from the keyboard.
type PanelDescriptor struct {
	ID        PanelID
	Name      string
	Key       int32 // 0 = no key
	KeyLabel  string
	Enabled   bool // initial state
	Exclusive []PanelID
}

// PanelRegistry manages panel visibility and key bindings.
type PanelRegistry struct {
	descriptors []PanelDescriptor
	byID        map[PanelID]PanelDescriptor
	enabled     map[PanelID]bool
}

// NewPanelRegistry creates a registry with the default panels.
func NewPanelRegistry() *PanelRegistry {
	reg := &PanelRegistry{
		byID:    make(map[PanelID]PanelDescriptor),
		enabled: make(map[PanelID]bool),
	}
	reg.registerDefaults()
	return reg
}

func (r *PanelRegistry) registerDefaults() {
	r.Register(PanelDescriptor{ID: PanelHUD, Name: "HUD", Key: rl.KeyH, KeyLabel: "H", Enabled: true})
	r.Register(PanelDescriptor{ID: PanelPerf, Name: "Frame Phases", Key: rl.KeyP, KeyLabel: "P"})
	r.Register(PanelDescriptor{ID: PanelControls, Name: "Theme Controls", Key: rl.KeyC, KeyLabel: "C", Enabled: true,
		Exclusive: []PanelID{PanelHelp}})
	r.Register(PanelDescriptor{ID: PanelHelp, Name: "Help", Key: rl.KeyF1, KeyLabel: "F1",
		Exclusive: []PanelID{PanelControls}})
}

// Register adds a panel, replacing any with the same ID.
func (r *PanelRegistry) Register(desc PanelDescriptor) {
	if _, ok := r.byID[desc.ID]; ok {
		for i := range r.descriptors {
			if r.descriptors[i].ID == desc.ID {
				r.descriptors[i] = desc
			}
		}
	} else {
		r.descriptors = append(r.descriptors, desc)
	}
	r.byID[desc.ID] = desc
	r.enabled[desc.ID] = desc.Enabled
}

// Toggle switches a panel and returns its new state.
func (r *PanelRegistry) Toggle(id PanelID) bool {
	if _, ok := r.byID[id]; !ok {
		return false
	}
	r.SetEnabled(id, !r.enabled[id])
	return r.enabled[id]
}

// SetEnabled sets a panel's state. Enabling hides its exclusive panels.
func (r *PanelRegistry) SetEnabled(id PanelID, enabled bool) {
	desc, ok := r.byID[id]
	if !ok {
		return
	}
	r.enabled[id] = enabled
	if enabled {
		for _, excl := range desc.Exclusive {
			r.enabled[excl] = false
		}
	}
}

// IsEnabled returns whether a panel is shown.
func (r *PanelRegistry) IsEnabled(id PanelID) bool {
	return r.enabled[id]
}

// All returns all panels in registration order.
func (r *PanelRegistry) All() []PanelDescriptor {
	return r.descriptors
}

// HandleKeyPress toggles the panel bound to key.
// Returns the panel ID, its new state, and whether a toggle occurred.
func (r *PanelRegistry) HandleKeyPress(key int32) (PanelID, bool, bool) {
	if key == 0 {
		return "", false, false
	}
	for _, desc := range r.descriptors {
		if desc.Key == key {
			return desc.ID, r.Toggle(desc.ID), true
		}
	}
	return "", false, false
}
