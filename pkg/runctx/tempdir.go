package runctx

import (
	"os"
	"path/filepath"

	dferrors "github.com/matzehuels/dotfilter/pkg/errors"
)

// ResolveTempDir returns the absolute directory for artifacts: the value of
// DOTFILTER_TMPDIR when set, otherwise the system temp dir. An override must
// name an existing directory; it is never created.
func ResolveTempDir(getenv func(string) string) (string, error) {
	dir := getenv(EnvTempDir)
	if dir == "" {
		return filepath.Abs(os.TempDir())
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", dferrors.Wrap(dferrors.ErrCodeTempDir, err, "%s=%q", EnvTempDir, dir)
	}
	fi, err := os.Stat(abs)
	if err != nil {
		return "", dferrors.Wrap(dferrors.ErrCodeTempDir, err, "%s=%q is not usable", EnvTempDir, dir)
	}
	if !fi.IsDir() {
		return "", dferrors.New(dferrors.ErrCodeTempDir, "%s=%q is not a directory", EnvTempDir, dir)
	}
	return abs, nil
}
