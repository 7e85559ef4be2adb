package domain

// State is a step of the playback demonstrator's lifecycle.
type State string

const (
	StateIdle            State = "idle"
	StateSynthCreated    State = "synth_created"
	StateSoundfontLoaded State = "soundfont_loaded"
	StateProgramSelected State = "program_selected"
	StateStarted         State = "started"
	StatePlaying         State = "playing"
	StateDeleted         State = "deleted"
)

// SampleRate is the synthesizer sample rate in Hz.
const SampleRate = 44100.0

// Program binds a MIDI channel and bank to a preset of a loaded soundfont.
type Program struct {
	Channel uint8
	Bank    int
	Preset  int
}

// DefaultProgram is channel 0, bank 0, preset 0.
var DefaultProgram = Program{}

var transitions = map[State]State{
	StateIdle:            StateSynthCreated,
	StateSynthCreated:    StateSoundfontLoaded,
	StateSoundfontLoaded: StateProgramSelected,
	StateProgramSelected: StateStarted,
	StateStarted:         StatePlaying,
	StatePlaying:         StateDeleted,
}

// CanTransition reports whether to is a legal next state of from. Any state
// after synth creation may jump to StateDeleted.
func CanTransition(from, to State) bool {
	if to == StateDeleted {
		return from != StateIdle && from != StateDeleted
	}
	return transitions[from] == to
}
