//go:build !(darwin || linux)

package fluidsynth

import "github.com/aalvaropc/fluidcheck/internal/domain"

func openLibrary(string) (*symbols, func() error, error) {
	return nil, nil, domain.ErrUnsupportedPlatform
}
