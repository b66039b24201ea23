package assets

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"testing/fstest"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(1, 1, color.NRGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestLoadAllRunsEveryLoader(t *testing.T) {
	var calls atomic.Int32
	loader := func(ctx context.Context) error {
		calls.Add(1)
		return nil
	}

	require.NoError(t, LoadAll(context.Background(), loader, loader, loader))
	require.Equal(t, int32(3), calls.Load())
}

func TestLoadAllCancelsOnError(t *testing.T) {
	boom := errors.New("corrupt file")
	started := make(chan struct{})

	err := LoadAll(context.Background(),
		func(ctx context.Context) error {
			<-started
			return boom
		},
		func(ctx context.Context) error {
			close(started)
			<-ctx.Done()
			return ctx.Err()
		},
	)
	require.True(t, errors.Is(err, boom))
}

func TestImageFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tex.png")
	require.NoError(t, os.WriteFile(path, encodePNG(t), 0o644))

	var img image.Image
	require.NoError(t, Image(path, nil, &img)(context.Background()))
	require.Equal(t, image.Rect(0, 0, 2, 2), img.Bounds())
}

func TestImageFallsBackToGenerator(t *testing.T) {
	want := image.NewRGBA(image.Rect(0, 0, 4, 4))

	var img image.Image
	require.NoError(t, Image("", func() image.Image { return want }, &img)(context.Background()))
	require.Same(t, want, img)
}

func TestImageMissingFile(t *testing.T) {
	var img image.Image
	err := Image(filepath.Join(t.TempDir(), "nope.png"), nil, &img)(context.Background())
	require.Error(t, err)
	require.Nil(t, img)
}

func TestImageFS(t *testing.T) {
	fsys := fstest.MapFS{"images/tex.png": {Data: encodePNG(t)}}

	var img image.Image
	require.NoError(t, ImageFS(fsys, "images/tex.png", &img)(context.Background()))
	r, _, _, a := img.At(1, 1).RGBA()
	require.Equal(t, uint32(0xffff), r)
	require.Equal(t, uint32(0xffff), a)
}
