//go:build darwin || linux

package fluidsynth

import (
	"fmt"

	"github.com/ebitengine/purego"
)

func openLibrary(path string) (*symbols, func() error, error) {
	handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() error { return purego.Dlclose(handle) }

	s := &symbols{}
	table := []struct {
		name string
		fptr any
	}{
		{"fluid_version", &s.version},
		{"new_fluid_settings", &s.newSettings},
		{"delete_fluid_settings", &s.deleteSettings},
		{"fluid_settings_setnum", &s.settingsSetnum},
		{"new_fluid_synth", &s.newSynth},
		{"delete_fluid_synth", &s.deleteSynth},
		{"fluid_synth_sfload", &s.sfload},
		{"fluid_synth_program_select", &s.programSelect},
		{"fluid_synth_noteon", &s.noteOn},
		{"fluid_synth_noteoff", &s.noteOff},
		{"new_fluid_audio_driver", &s.newAudioDriver},
		{"delete_fluid_audio_driver", &s.deleteAudioDriver},
	}
	for _, sym := range table {
		addr, err := purego.Dlsym(handle, sym.name)
		if err != nil {
			_ = closeFn()
			return nil, nil, fmt.Errorf("missing symbol %s: %w", sym.name, err)
		}
		purego.RegisterFunc(sym.fptr, addr)
	}
	return s, closeFn, nil
}
