package domain

import (
	"fmt"
	"strings"
)

// Panel is one of the mutually exclusive side panels.
type Panel int

const (
	PanelNone Panel = iota
	PanelQueue
	PanelLyrics
	PanelPlaylists
)

// String returns the panel name.
func (p Panel) String() string {
	switch p {
	case PanelQueue:
		return "queue"
	case PanelLyrics:
		return "lyrics"
	case PanelPlaylists:
		return "playlists"
	default:
		return "none"
	}
}

// ParsePanel converts a panel name to a Panel.
func ParsePanel(name string) (Panel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "queue":
		return PanelQueue, nil
	case "lyrics":
		return PanelLyrics, nil
	case "playlists":
		return PanelPlaylists, nil
	default:
		return PanelNone, fmt.Errorf("%w: %q", ErrUnknownPanel, name)
	}
}

// PanelCoordinator enforces that at most one panel is open.
type PanelCoordinator struct {
	open Panel
}

// NewPanelCoordinator creates a coordinator with every panel closed.
func NewPanelCoordinator() *PanelCoordinator {
	return &PanelCoordinator{open: PanelNone}
}

// Current returns the open panel, or PanelNone.
func (c *PanelCoordinator) Current() Panel {
	return c.open
}

// IsOpen reports whether p is the open panel.
func (c *PanelCoordinator) IsOpen(p Panel) bool {
	return p != PanelNone && c.open == p
}

// Open opens p, closing any other panel. The lyrics panel needs a loaded
// track. It returns true if the open panel changed.
func (c *PanelCoordinator) Open(p Panel, trackLoaded bool) (bool, error) {
	if p == PanelNone {
		return false, ErrUnknownPanel
	}
	if p == PanelLyrics && !trackLoaded {
		return false, ErrNothingPlaying
	}
	if c.open == p {
		return false, nil
	}
	c.open = p
	return true, nil
}

// Close closes p if it is open. It returns true if it was open.
func (c *PanelCoordinator) Close(p Panel) bool {
	if !c.IsOpen(p) {
		return false
	}
	c.open = PanelNone
	return true
}
