package pkgquery

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PaesslerAG/jsonpath"

	"github.com/aalvaropc/fluidcheck/internal/domain"
	"github.com/aalvaropc/fluidcheck/internal/ports"
)

// ForProfile picks the package manager for the profile's platform. When no
// known manager is on PATH the returned query never matches.
func ForProfile(p domain.Profile, e *Executor) ports.PackageQuery {
	switch p.OS {
	case domain.OSMacOS:
		if e.Available("brew") {
			return &Brew{exec: e}
		}
	case domain.OSLinux:
		if e.Available("dpkg-query") {
			return &LineScan{exec: e, name: "dpkg-query", args: []string{"-W", "-f", "${Package}\t${Version}\n"}}
		}
		if e.Available("pacman") {
			return &LineScan{exec: e, name: "pacman", args: []string{"-Q"}}
		}
	}
	return Unavailable{}
}

// Brew queries Homebrew's JSON metadata.
type Brew struct {
	exec *Executor
}

var _ ports.PackageQuery = (*Brew)(nil)

func (b *Brew) Source() string { return "Homebrew" }

func (b *Brew) InstalledVersion(ctx context.Context, name string) (string, bool, error) {
	out, err := b.exec.Output(ctx, "brew", "info", "--json=v2", "--installed", name)
	if err != nil {
		return "", false, err
	}
	return BrewVersion(out, name)
}

// BrewVersion extracts the newest installed version of formula name from
// `brew info --json=v2` output.
func BrewVersion(body []byte, name string) (string, bool, error) {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return "", false, &domain.OpError{
			Op:   "pkgquery.brew",
			Kind: domain.KindInvalidConfig,
			Err:  err,
		}
	}

	expr := fmt.Sprintf(`$.formulae[?(@.name == %q)].installed[*].version`, name)
	val, err := jsonpath.Get(expr, doc)
	if err != nil {
		// Missing keys surface as lookup errors: nothing installed.
		return "", false, nil
	}

	versions := flattenStrings(val)
	if len(versions) == 0 {
		return "", false, nil
	}
	return versions[len(versions)-1], true, nil
}

// flattenStrings flattens the jsonpath result into its non-empty strings.
func flattenStrings(v any) []string {
	switch t := v.(type) {
	case string:
		if t == "" {
			return nil
		}
		return []string{t}
	case []any:
		var out []string
		for _, e := range t {
			out = append(out, flattenStrings(e)...)
		}
		return out
	default:
		return nil
	}
}

// LineScan runs a "list installed packages" command and looks for a line
// whose first field is the package name.
type LineScan struct {
	exec *Executor
	name string
	args []string
}

var _ ports.PackageQuery = (*LineScan)(nil)

func (l *LineScan) Source() string { return l.name }

func (l *LineScan) InstalledVersion(ctx context.Context, name string) (string, bool, error) {
	out, err := l.exec.Output(ctx, l.name, l.args...)
	if err != nil {
		return "", false, err
	}
	v, ok := ScanVersion(out, name)
	return v, ok, nil
}

// ScanVersion finds "name<space or tab>version" in a package listing.
func ScanVersion(listing []byte, name string) (string, bool) {
	sc := bufio.NewScanner(bytes.NewReader(listing))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) >= 2 && fields[0] == name {
			return fields[1], true
		}
	}
	return "", false
}

// Unavailable is used when no supported package manager was found.
type Unavailable struct{}

func (Unavailable) Source() string { return "package manager" }

func (Unavailable) InstalledVersion(context.Context, string) (string, bool, error) {
	return "", false, nil
}
