package ports

import "context"

// BindingLoader probes for the native FluidSynth binding. A nil error means
// every required symbol was resolved.
type BindingLoader interface {
	Load(candidates []string) (Binding, error)
}

// Binding is a loaded FluidSynth library.
type Binding interface {
	// APIVersion is the binding's self-reported interface version.
	APIVersion() string
	// EngineVersion never fails; unknown components are zero.
	EngineVersion() (major, minor, micro int)
	// Path is the library path the loader opened.
	Path() string
	NewSynth(sampleRate float64) (Synth, error)
	Close() error
}

// Synth is one synthesizer instance. Delete must be called exactly once to
// release the audio device.
type Synth interface {
	LoadSoundfont(path string) (int, error)
	ProgramSelect(channel uint8, sfontID, bank, preset int) error
	Start() error
	NoteOn(channel, key, velocity uint8) error
	NoteOff(channel, key uint8) error
	Delete() error
}

// PackageQuery asks the host package manager for an installed version.
type PackageQuery interface {
	// InstalledVersion returns ok=false when no record matched.
	InstalledVersion(ctx context.Context, name string) (version string, ok bool, err error)
	// Source names the package manager for display.
	Source() string
}
