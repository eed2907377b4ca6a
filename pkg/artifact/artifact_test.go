package artifact

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	dferrors "github.com/matzehuels/dotfilter/pkg/errors"
)

func TestWriteVector(t *testing.T) {
	dir := t.TempDir()
	m, err := New(dir, "run1")
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	a, err := m.WriteVector([]byte("<svg/>"))
	if err != nil {
		t.Fatalf("WriteVector() error: %v", err)
	}
	if !filepath.IsAbs(a.Path) {
		t.Errorf("Path = %q, want absolute", a.Path)
	}
	if got := filepath.Base(a.Path); got != "dotfilter-run1-1.svg" {
		t.Errorf("name = %q, want dotfilter-run1-1.svg", got)
	}
	if a.Format != FormatSVG {
		t.Errorf("Format = %q, want svg", a.Format)
	}
	data, err := os.ReadFile(a.Path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if string(data) != "<svg/>" {
		t.Errorf("content = %q", data)
	}
}

func TestWriteVectorIdenticalSourcesGetDistinctNames(t *testing.T) {
	m, err := New(t.TempDir(), "")
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	seen := make(map[string]bool)
	for i := 0; i < 5; i++ {
		a, err := m.WriteVector([]byte("<svg>same</svg>"))
		if err != nil {
			t.Fatalf("WriteVector() #%d error: %v", i, err)
		}
		if seen[a.Path] {
			t.Fatalf("duplicate artifact path %q", a.Path)
		}
		seen[a.Path] = true
	}
}

func TestWriteVectorSkipsExistingFiles(t *testing.T) {
	dir := t.TempDir()
	taken := filepath.Join(dir, "dotfilter-fixed-1.svg")
	if err := os.WriteFile(taken, []byte("keep"), 0o644); err != nil {
		t.Fatal(err)
	}

	m, _ := New(dir, "fixed")
	a, err := m.WriteVector([]byte("<svg/>"))
	if err != nil {
		t.Fatalf("WriteVector() error: %v", err)
	}
	if a.Path == taken {
		t.Fatal("WriteVector() reused an existing file")
	}
	if data, _ := os.ReadFile(taken); string(data) != "keep" {
		t.Errorf("existing file overwritten: %q", data)
	}
}

func TestWriteVectorMissingDir(t *testing.T) {
	m, _ := New(filepath.Join(t.TempDir(), "gone"), "x")
	_, err := m.WriteVector([]byte("<svg/>"))
	if !dferrors.Is(err, dferrors.ErrCodeArtifactWrite) {
		t.Fatalf("WriteVector() error = %v, want ARTIFACT_WRITE", err)
	}
}

func TestWithFormat(t *testing.T) {
	a := Artifact{Path: "/tmp/dotfilter-ab-3.svg", Format: FormatSVG}
	png := a.WithFormat(FormatPNG)
	if png.Path != "/tmp/dotfilter-ab-3.png" || png.Format != FormatPNG {
		t.Errorf("WithFormat() = %+v", png)
	}
}

func TestNewRunID(t *testing.T) {
	a, b := NewRunID(), NewRunID()
	if a == b {
		t.Error("NewRunID() returned the same id twice")
	}
	if len(a) != 12 || strings.Contains(a, "-") {
		t.Errorf("NewRunID() = %q", a)
	}
}
