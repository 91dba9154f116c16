package recipe2pdf

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// fakeSource
// ---------------------------------------------------------------------------

type fakeSource struct {
	recipes     []Recipe
	loginErr    error
	recipesErr  error
	teardownErr error

	loginCalled    bool
	recipesCalled  bool
	teardownCalled int
}

func (f *fakeSource) Login(context.Context) error {
	f.loginCalled = true
	return f.loginErr
}

func (f *fakeSource) Recipes(context.Context) ([]Recipe, error) {
	f.recipesCalled = true
	if f.recipesErr != nil {
		return nil, f.recipesErr
	}
	return f.recipes, nil
}

func (f *fakeSource) Teardown(context.Context) error {
	f.teardownCalled++
	return f.teardownErr
}

// ---------------------------------------------------------------------------
// fakeFetcher
// ---------------------------------------------------------------------------

type fakeFetcher struct {
	mu    sync.Mutex
	blobs map[string][]byte
	err   error
	urls  []string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.urls = append(f.urls, url)
	if f.err != nil {
		return nil, f.err
	}
	data, ok := f.blobs[url]
	if !ok {
		return nil, errors.New("HTTP status 404")
	}
	return data, nil
}

// ---------------------------------------------------------------------------
// memSink
// ---------------------------------------------------------------------------

type memSink struct {
	files     map[string][]byte
	failNames map[string]error
	mkdirErr  error
	mkdirs    int
	order     []string
}

func newMemSink() *memSink {
	return &memSink{files: make(map[string][]byte), failNames: make(map[string]error)}
}

func (s *memSink) MkdirAll() error {
	s.mkdirs++
	return s.mkdirErr
}

func (s *memSink) WriteFile(name string, data []byte) (string, error) {
	if err := s.failNames[name]; err != nil {
		return "", err
	}
	s.files[name] = append([]byte(nil), data...)
	s.order = append(s.order, name)
	return "out/" + name, nil
}

func (s *memSink) names(suffix string) []string {
	var names []string
	for name := range s.files {
		if strings.HasSuffix(name, suffix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// ---------------------------------------------------------------------------
// Encoded test images
// ---------------------------------------------------------------------------

func testPicture(w, h int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 120, A: 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testPicture(w, h)))
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, testPicture(w, h), nil))
	return buf.Bytes()
}

func encodeGIF(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, gif.Encode(&buf, testPicture(w, h), nil))
	return buf.Bytes()
}
