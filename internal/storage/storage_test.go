// PressGate - Multi-Tenant Publishing Platform Backend
// Copyright 2026 PressGate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pressgate/pressgate

package storage

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pressgate/pressgate/internal/apperr"
	"github.com/pressgate/pressgate/internal/config"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc, err := NewService(&config.StorageConfig{
		Dir:           t.TempDir(),
		BaseURL:       "http://localhost:5000/images",
		ImageWidths:   []int{320, 640},
		MaxFetchBytes: 1 << 20,
		FetchTimeout:  5 * time.Second,
	})
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	return svc
}

// testJPEG renders a small solid image so Save has real bytes to decode.
func testJPEG(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode test image: %v", err)
	}
	return buf.Bytes()
}

func TestSaveWritesOriginalAndSizes(t *testing.T) {
	svc := newTestService(t)

	name, err := svc.Save(context.Background(), testJPEG(t, 1280, 720))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if !strings.HasSuffix(name, ".jpg") {
		t.Errorf("stored name = %q, want .jpg suffix", name)
	}

	base := strings.TrimSuffix(name, ".jpg")
	for _, want := range []string{name, base + "_w320.jpg", base + "_w640.jpg"} {
		if _, err := os.Stat(filepath.Join(svc.dir, want)); err != nil {
			t.Errorf("expected stored file %q: %v", want, err)
		}
	}

	for _, width := range []int{320, 640} {
		f, _, err := svc.Open(sizedName(base, width))
		if err != nil {
			t.Fatalf("Open resized %d: %v", width, err)
		}
		cfg, _, err := image.DecodeConfig(f)
		f.Close()
		if err != nil {
			t.Fatalf("decode resized %d: %v", width, err)
		}
		if cfg.Width != width {
			t.Errorf("resized width = %d, want %d", cfg.Width, width)
		}
	}
}

func TestSaveFailsWhenResizeFails(t *testing.T) {
	svc := newTestService(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Save(ctx, testJPEG(t, 64, 64))
	if !apperr.IsCode(err, apperr.CodeFileResizeError) {
		t.Errorf("Save() with failed resize error = %v, want %s", err, apperr.CodeFileResizeError)
	}
}

func TestSaveRejectsNonImage(t *testing.T) {
	svc := newTestService(t)
	if _, err := svc.Save(context.Background(), []byte("not an image")); err == nil {
		t.Error("Save() accepted non-image bytes")
	}
}

func TestFetchStoresRemotePhoto(t *testing.T) {
	svc := newTestService(t)
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(testJPEG(t, 64, 64))
	}))
	defer origin.Close()

	name, err := svc.Fetch(context.Background(), origin.URL+"/photo.jpg")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if _, _, err := svc.Open(name); err != nil {
		t.Errorf("Open(%q) after fetch: %v", name, err)
	}
}

func TestFetchRejectsOversizedBody(t *testing.T) {
	svc := newTestService(t)
	svc.maxFetchBytes = 128
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(make([]byte, 4096))
	}))
	defer origin.Close()

	if _, err := svc.Fetch(context.Background(), origin.URL); err == nil {
		t.Error("Fetch() accepted body over the byte limit")
	}
}

func TestFetchRejectsErrorStatus(t *testing.T) {
	svc := newTestService(t)
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer origin.Close()

	if _, err := svc.Fetch(context.Background(), origin.URL); err == nil {
		t.Error("Fetch() accepted a 404 origin response")
	}
}

func TestOpenRejectsTraversal(t *testing.T) {
	svc := newTestService(t)
	for _, name := range []string{"", "../secret.txt", "a/../b", "sub/photo.jpg", ".."} {
		if _, _, err := svc.Open(name); err == nil {
			t.Errorf("Open(%q) did not reject traversal", name)
		}
	}
}

func TestURLFor(t *testing.T) {
	svc := newTestService(t)
	if got := svc.URLFor("abc.jpg"); got != "http://localhost:5000/images/abc.jpg" {
		t.Errorf("URLFor() = %q", got)
	}
	if got := svc.URLFor(""); got != "" {
		t.Errorf("URLFor(\"\") = %q, want empty", got)
	}
}
