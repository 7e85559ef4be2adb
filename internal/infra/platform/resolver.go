// Package platform resolves the host platform to a fixed Profile.
package platform

import (
	"fmt"

	"github.com/aalvaropc/fluidcheck/internal/domain"
)

// MacOS is the Homebrew layout: versioned install dirs under the Cellar.
func MacOS() domain.Profile {
	return domain.Profile{
		OS:               domain.OSMacOS,
		EngineRoot:       "/opt/homebrew/Cellar/fluid-synth",
		EngineExecutable: "bin/fluidsynth",
		SoundfontDir:     "/share/soundfonts",
		TargetLibrary:    "/usr/local/lib/libfluidsynth.dylib",
		LibraryExt:       ".dylib",
		DefaultSoundfont: domain.DefaultSoundfont,
		PackageName:      "fluid-synth",
		InstallCommand:   "brew install fluid-synth",
		Sonames:          []string{"libfluidsynth.dylib", "libfluidsynth.3.dylib"},
	}
}

// Linux is the distribution-packaged layout.
func Linux() domain.Profile {
	return domain.Profile{
		OS:               domain.OSLinux,
		EngineRoot:       "/usr/bin",
		EngineExecutable: "fluidsynth",
		SoundfontDir:     "/usr/share/soundfonts",
		TargetLibrary:    "/usr/lib/libfluidsynth.so",
		LibraryExt:       ".so",
		DefaultSoundfont: domain.DefaultSoundfont,
		PackageName:      "fluidsynth",
		InstallCommand:   "sudo apt install fluidsynth",
		Sonames:          []string{"libfluidsynth.so.3", "libfluidsynth.so.2", "libfluidsynth.so"},
	}
}

// Resolve maps a GOOS value to its profile.
func Resolve(goos string) (domain.Profile, error) {
	switch domain.OS(goos) {
	case domain.OSMacOS:
		return MacOS(), nil
	case domain.OSLinux:
		return Linux(), nil
	default:
		return domain.Profile{}, &domain.OpError{
			Op:   "platform.resolve",
			Kind: domain.KindUnsupportedPlatform,
			Err:  fmt.Errorf("%w: %q", domain.ErrUnsupportedPlatform, goos),
		}
	}
}
