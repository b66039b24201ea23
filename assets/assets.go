// Package assets decodes example inputs (images, meshes) concurrently before
// any Vulkan object is created, so start-up is bounded by the slowest file
// rather than their sum.
package assets

import (
	"context"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"os"

	"github.com/cockroachdb/errors"
	_ "golang.org/x/image/bmp"
	"golang.org/x/sync/errgroup"
)

// Loader decodes one asset. It should return promptly once ctx is done.
type Loader func(ctx context.Context) error

// LoadAll runs every loader in its own goroutine and returns the first
// error. The context passed to the loaders is cancelled on that error.
func LoadAll(ctx context.Context, loaders ...Loader) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, load := range loaders {
		load := load
		g.Go(func() error {
			return load(ctx)
		})
	}
	return g.Wait()
}

// Image returns a Loader decoding the image at path into *dst. An empty path
// falls back to generate.
func Image(path string, generate func() image.Image, dst *image.Image) Loader {
	return func(ctx context.Context) error {
		if path == "" {
			*dst = generate()
			return nil
		}

		f, err := os.Open(path)
		if err != nil {
			return errors.Wrapf(err, "opening image %s", path)
		}
		defer f.Close()

		if err := ctx.Err(); err != nil {
			return err
		}

		img, _, err := image.Decode(f)
		if err != nil {
			return errors.Wrapf(err, "decoding image %s", path)
		}
		*dst = img
		return nil
	}
}

// ImageFS is Image reading from an fs.FS, used for embedded assets.
func ImageFS(fsys fs.FS, name string, dst *image.Image) Loader {
	return func(ctx context.Context) error {
		f, err := fsys.Open(name)
		if err != nil {
			return errors.Wrapf(err, "opening image %s", name)
		}
		defer f.Close()

		img, _, err := image.Decode(f)
		if err != nil {
			return errors.Wrapf(err, "decoding image %s", name)
		}
		*dst = img
		return nil
	}
}
