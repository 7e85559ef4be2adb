package ports

import "github.com/aalvaropc/fluidcheck/internal/domain"

// Prober discovers FluidSynth artifacts on the host. Every method only reads;
// absence is an empty, non-nil result, never an error.
type Prober interface {
	FindEngine() []string
	FindSoundfontDirs(engineDirs []string) []string
	FindEngineLibraries(engineDirs []string) []string
	FindTargetLibraries(target string) []string

	InspectSoundfontDir(dir, name string) domain.SoundfontStatus
	IsFile(path string) bool
	// Readlink returns the link destination and true if path is a symlink.
	Readlink(path string) (string, bool)
}
