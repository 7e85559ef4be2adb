package domain

// SoundfontStatus classifies a soundfont directory.
type SoundfontStatus int

const (
	SoundfontDirMissing SoundfontStatus = iota
	SoundfontFileMissing
	SoundfontFound
)

func (s SoundfontStatus) String() string {
	switch s {
	case SoundfontDirMissing:
		return "dir_missing"
	case SoundfontFileMissing:
		return "file_missing"
	case SoundfontFound:
		return "found"
	default:
		return "unknown"
	}
}
