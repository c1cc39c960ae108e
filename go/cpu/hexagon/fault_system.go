//go:build hexagon_system
// +build hexagon_system

package hexagon

// Supervisor-mode address translation does not exist for Hexagon cores.
var _ = systemModeNotImplementedForHexagon
