package types

import (
	"io"
	"os"

	"github.com/spf13/afero"
)

// DefaultVersion is the fallback version when AppContext is nil
const DefaultVersion = "dev"

// AppContext holds application-wide context information passed to commands
type AppContext struct {
	Version string

	// Fs is the filesystem commands scan and delete from
	Fs afero.Fs

	Stdout io.Writer
	Stderr io.Writer
}

// NewAppContext returns a context bound to the real filesystem and standard streams
func NewAppContext(version string) *AppContext {
	return &AppContext{
		Version: version,
		Fs:      afero.NewOsFs(),
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}
}

// Resolve returns a copy of c with every empty field filled in. A nil c yields the defaults.
func (c *AppContext) Resolve() *AppContext {
	if c == nil {
		return NewAppContext(DefaultVersion)
	}
	out := *c
	if out.Version == "" {
		out.Version = DefaultVersion
	}
	if out.Fs == nil {
		out.Fs = afero.NewOsFs()
	}
	if out.Stdout == nil {
		out.Stdout = os.Stdout
	}
	if out.Stderr == nil {
		out.Stderr = os.Stderr
	}
	return &out
}
