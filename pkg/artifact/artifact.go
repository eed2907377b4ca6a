// Package artifact writes rendered diagrams to files that a pandoc writer
// reads after the filter has exited.
//
// Artifacts are never deleted by this package or anything else in the
// process. Their lifetime is owned by the downstream writer.
package artifact

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"

	dferrors "github.com/matzehuels/dotfilter/pkg/errors"
)

// Prefix starts every artifact file name.
const Prefix = "dotfilter"

// Format is an artifact file format.
type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

// Artifact is a file written for one diagram.
type Artifact struct {
	Path   string // absolute
	Format Format
}

// Base returns the artifact path without its extension. Converted artifacts
// share it with their source.
func (a Artifact) Base() string {
	return strings.TrimSuffix(a.Path, filepath.Ext(a.Path))
}

// WithFormat returns the sibling artifact for format f.
func (a Artifact) WithFormat(f Format) Artifact {
	return Artifact{Path: a.Base() + "." + string(f), Format: f}
}

// Materializer names and writes the artifacts of one run.
type Materializer struct {
	dir   string
	runID string
	seq   atomic.Uint64
}

// NewRunID returns a short random id used to keep artifact names from
// different runs apart.
func NewRunID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// New returns a materializer writing into dir. dir is made absolute; it must
// already exist. An empty runID gets a fresh one from [NewRunID].
func New(dir, runID string) (*Materializer, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, dferrors.Wrap(dferrors.ErrCodeTempDir, err, "resolve artifact dir %q", dir)
	}
	if runID == "" {
		runID = NewRunID()
	}
	return &Materializer{dir: abs, runID: runID}, nil
}

// next returns the next unused file name. Names are distinct within a run
// regardless of content.
func (m *Materializer) next(f Format) string {
	n := m.seq.Add(1)
	return filepath.Join(m.dir, fmt.Sprintf("%s-%s-%d.%s", Prefix, m.runID, n, f))
}

// WriteVector writes svg to a new file and returns it. The file is created
// exclusively and closed before returning. Existing files are never
// overwritten; a name collision moves on to the next sequence number.
func (m *Materializer) WriteVector(svg []byte) (Artifact, error) {
	const maxAttempts = 8
	for range maxAttempts {
		path := m.next(FormatSVG)
		err := writeExclusive(path, svg)
		if err == nil {
			return Artifact{Path: path, Format: FormatSVG}, nil
		}
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		return Artifact{}, dferrors.Wrap(dferrors.ErrCodeArtifactWrite, err, "write artifact %s", path)
	}
	return Artifact{}, dferrors.New(dferrors.ErrCodeArtifactWrite, "no free artifact name in %s after %d attempts", m.dir, maxAttempts)
}

func writeExclusive(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
