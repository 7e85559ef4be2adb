package domain

import (
	"fmt"
	"time"
)

// VersionInfo is what the binding inspector learned about installed versions.
type VersionInfo struct {
	// Package is the engine package version per the host package manager,
	// "unknown" when no record matched.
	Package       string `json:"package" yaml:"package"`
	PackageSource string `json:"package_source" yaml:"package_source"`
	BindingAPI    string `json:"binding_api" yaml:"binding_api"`
	Engine        string `json:"engine" yaml:"engine"`
	LibraryPath   string `json:"library_path,omitempty" yaml:"library_path,omitempty"`
}

// UnknownVersion is reported when a version could not be determined.
const UnknownVersion = "unknown"

// EngineVersion formats the three components returned by the engine.
func EngineVersion(major, minor, micro int) string {
	return fmt.Sprintf("%d.%d.%d", major, minor, micro)
}

// Report is the collected outcome of one verification run.
type Report struct {
	RunID     string       `json:"run_id" yaml:"run_id"`
	OS        OS           `json:"os" yaml:"os"`
	StartedAt time.Time    `json:"started_at" yaml:"started_at"`
	EndedAt   time.Time    `json:"ended_at" yaml:"ended_at"`
	Findings  []Finding    `json:"findings" yaml:"findings"`
	Versions  *VersionInfo `json:"versions,omitempty" yaml:"versions,omitempty"`
	Playback  []State      `json:"playback,omitempty" yaml:"playback,omitempty"`
}
