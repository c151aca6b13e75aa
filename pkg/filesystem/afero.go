package filesystem

import (
	"github.com/spf13/afero"
)

// NewAfero creates a Globber over an afero filesystem
func NewAfero(afs afero.Fs) Globber {
	return NewFS(afero.NewIOFS(afs))
}
