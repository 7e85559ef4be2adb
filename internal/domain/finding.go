package domain

// Stage names one step of the verification pipeline.
type Stage string

const (
	StagePlatform  Stage = "platform"
	StageEngine    Stage = "engine"
	StageSoundfont Stage = "soundfont"
	StageLibrary   Stage = "library"
	StageBinding   Stage = "binding"
	StagePlayback  Stage = "playback"
)

// Level is the severity of a finding and selects its display color.
type Level string

const (
	LevelOK    Level = "ok"
	LevelWarn  Level = "warn"
	LevelFail  Level = "fail"
	LevelInfo  Level = "info"
	LevelPlain Level = "plain"
)

// Finding is one reported diagnostic line with optional remediation lines
// printed right after it.
type Finding struct {
	Stage   Stage    `json:"stage" yaml:"stage"`
	Level   Level    `json:"level" yaml:"level"`
	Message string   `json:"message" yaml:"message"`
	Remedy  []string `json:"remedy,omitempty" yaml:"remedy,omitempty"`
}

// Tally counts findings per level.
type Tally struct {
	OK   int
	Warn int
	Fail int
}

// Count returns the tally of ok, warn and fail findings.
func Count(findings []Finding) Tally {
	var t Tally
	for _, f := range findings {
		switch f.Level {
		case LevelOK:
			t.OK++
		case LevelWarn:
			t.Warn++
		case LevelFail:
			t.Fail++
		}
	}
	return t
}
