package domain

import "strings"

// OS identifies one of the supported host platforms.
type OS string

const (
	OSMacOS OS = "darwin"
	OSLinux OS = "linux"
)

// DefaultSoundfont is the well-known soundfont filename looked up in every
// soundfont directory.
const DefaultSoundfont = "default.sf2"

// Profile holds every platform-specific path and command used by the probes
// and the reporter. It is resolved once at startup and passed by value.
type Profile struct {
	OS OS

	// EngineRoot is scanned for versioned install dirs on macOS and is the
	// install dir itself on Linux.
	EngineRoot string
	// EngineExecutable is relative to an install dir.
	EngineExecutable string
	// SoundfontDir is a suffix appended to every install dir on macOS and an
	// absolute directory on Linux.
	SoundfontDir     string
	TargetLibrary    string
	LibraryExt       string
	DefaultSoundfont string

	// PackageName is the host package manager's name for the engine.
	PackageName    string
	InstallCommand string
	// Sonames are passed to the dynamic loader after every discovered path.
	Sonames []string
}

// ScansEngineRoot reports whether install dirs are discovered under
// EngineRoot rather than EngineRoot being the install dir itself.
func (p Profile) ScansEngineRoot() bool {
	return p.OS == OSMacOS
}

// MkdirCommand is the suggested command to create a missing directory.
func (p Profile) MkdirCommand(dir string) string {
	if p.OS == OSLinux {
		return "sudo mkdir -p " + dir
	}
	return "mkdir -p " + dir
}

// SymlinkCommand is the suggested command to point the target library at lib.
func (p Profile) SymlinkCommand(lib string) string {
	return "sudo ln -sf " + lib + " " + p.TargetLibrary
}

// DisplayName is the human name of the platform used in diagnostics.
func (p Profile) DisplayName() string {
	switch p.OS {
	case OSMacOS:
		return "macOS"
	case OSLinux:
		return "Linux"
	default:
		return strings.TrimSpace(string(p.OS))
	}
}
