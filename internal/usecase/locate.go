package usecase

import (
	"path/filepath"

	"github.com/aalvaropc/fluidcheck/internal/domain"
	"github.com/aalvaropc/fluidcheck/internal/ports"
)

// LocateLibraries probes for library files without reporting and returns
// the loader candidates in the same order the full check uses.
func LocateLibraries(p domain.Profile, pr ports.Prober) []string {
	var targetLibs, engineLibs []string
	if p.ScansEngineRoot() {
		engineLibs = pr.FindEngineLibraries(pr.FindEngine())
	} else {
		targetLibs = pr.FindTargetLibraries(p.TargetLibrary)
	}
	return libraryCandidates(p, targetLibs, engineLibs)
}

// LocateSoundfont returns the last default soundfont found, or "".
func LocateSoundfont(p domain.Profile, pr ports.Prober) string {
	found := ""
	for _, d := range pr.FindSoundfontDirs(pr.FindEngine()) {
		if pr.InspectSoundfontDir(d, p.DefaultSoundfont) == domain.SoundfontFound {
			found = filepath.Join(d, p.DefaultSoundfont)
		}
	}
	return found
}

// libraryCandidates orders the libraries handed to the dynamic loader: the
// target, discovered files (newest guess first), then bare sonames.
func libraryCandidates(p domain.Profile, targetLibs, engineLibs []string) []string {
	out := []string{p.TargetLibrary}
	out = append(out, targetLibs...)
	for i := len(engineLibs) - 1; i >= 0; i-- {
		out = append(out, engineLibs[i])
	}
	return append(out, p.Sonames...)
}
