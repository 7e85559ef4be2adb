package ports

import "github.com/aalvaropc/fluidcheck/internal/domain"

// Reporter receives findings in the order they are produced.
type Reporter interface {
	Report(f domain.Finding)
	Blank()
}
