package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	dferrors "github.com/matzehuels/dotfilter/pkg/errors"
)

// Registry maps fence tags to engines.
type Registry struct {
	engines map[string]Renderer
	tags    []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{engines: make(map[string]Renderer)}
}

// Register binds r to each tag. A later registration for the same tag
// replaces the earlier one.
func (r *Registry) Register(e Renderer, tags ...string) {
	for _, tag := range tags {
		if _, ok := r.engines[tag]; !ok {
			r.tags = append(r.tags, tag)
		}
		r.engines[tag] = e
	}
}

// Has reports whether tag is a recognized diagram tag.
func (r *Registry) Has(tag string) bool {
	_, ok := r.engines[tag]
	return ok
}

// Tags returns the registered tags in registration order.
func (r *Registry) Tags() []string {
	return slices.Clone(r.tags)
}

// Render renders source with the engine registered for tag.
//
// path is the JSON pointer of the block and ends up in the span of syntax
// errors. The returned error carries code DIAGRAM_SYNTAX when the source was
// rejected, UNSUPPORTED for an unknown tag, and RENDER_INTERNAL otherwise
// (including engine panics).
func (r *Registry) Render(ctx context.Context, tag, source string, attrs Attributes, path string) (img *Image, err error) {
	e, ok := r.engines[tag]
	if !ok {
		return nil, dferrors.New(dferrors.ErrCodeUnsupported, "no diagram engine for tag %q", tag)
	}

	if strings.TrimSpace(source) == "" {
		se := NewSyntaxError(e.Name(), "empty diagram source")
		se.Span.Path = path
		return nil, dferrors.Wrap(dferrors.ErrCodeDiagramSyntax, se, "render %s", path)
	}

	defer func() {
		if p := recover(); p != nil {
			img = nil
			err = dferrors.New(dferrors.ErrCodeRenderInternal, "%s engine panicked at %s: %v", e.Name(), path, p)
		}
	}()

	img, err = e.Render(ctx, source, attrs)
	if err == nil {
		if img == nil || len(img.SVG) == 0 {
			return nil, dferrors.New(dferrors.ErrCodeRenderInternal, "%s engine returned no image for %s", e.Name(), path)
		}
		return img, nil
	}

	var se *SyntaxError
	if errors.As(err, &se) {
		se.Span.Path = path
		return nil, dferrors.Wrap(dferrors.ErrCodeDiagramSyntax, se, "render %s", path)
	}
	if dferrors.GetCode(err) != "" {
		return nil, err
	}
	return nil, dferrors.Wrap(dferrors.ErrCodeRenderInternal, err, "%s engine failed at %s", e.Name(), path)
}

// Close releases engines that hold resources. Each engine is closed once,
// even when registered under several tags.
func (r *Registry) Close() error {
	closed := make(map[Renderer]bool)
	var errs []error
	for _, tag := range r.tags {
		e := r.engines[tag]
		if closed[e] {
			continue
		}
		closed[e] = true
		if c, ok := e.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close %s: %w", e.Name(), err))
			}
		}
	}
	return errors.Join(errs...)
}
