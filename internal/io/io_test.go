package ioutils

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestAudioMIMEType(t *testing.T) {
	dir := t.TempDir()

	sniffed := filepath.Join(dir, "track")
	if err := os.WriteFile(sniffed, append([]byte("ID3\x03\x00\x00\x00\x00\x00\x00"), make([]byte, 64)...), 0644); err != nil {
		t.Fatal(err)
	}
	text := filepath.Join(dir, "notes.unknownext")
	if err := os.WriteFile(text, []byte("just some notes"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		path string
		want bool
	}{
		{"/music/song.mp3", true},
		{"/music/SONG.FLAC", true},
		{"/music/song.wav", true},
		{"/music/song.ogg", true},
		{"/music/cover.jpg", false},
		{"/music/readme.txt", false},
		{sniffed, true},
		{text, false},
	}

	for _, tt := range tests {
		t.Run(filepath.Base(tt.path), func(t *testing.T) {
			if got := IsAudioFile(tt.path); got != tt.want {
				t.Errorf("IsAudioFile(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestExpandPaths(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "album")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"b.mp3", "a.mp3"} {
		if err := os.WriteFile(filepath.Join(sub, name), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}
	single := filepath.Join(dir, "single.wav")
	if err := os.WriteFile(single, nil, 0644); err != nil {
		t.Fatal(err)
	}

	got, err := ExpandPaths([]string{single, sub})
	if err != nil {
		t.Fatalf("ExpandPaths() error = %v", err)
	}
	want := []string{single, filepath.Join(sub, "a.mp3"), filepath.Join(sub, "b.mp3")}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExpandPaths() = %v, want %v", got, want)
	}

	if _, err := ExpandPaths([]string{filepath.Join(dir, "missing")}); err == nil {
		t.Error("expected error for missing path")
	}
}

func TestSplitDroppedPaths(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"single", "/music/a.mp3", []string{"/music/a.mp3"}},
		{"escaped spaces", `/music/my\ song.mp3 /music/b.mp3`, []string{"/music/my song.mp3", "/music/b.mp3"}},
		{"single quotes", `'/music/my song.mp3'`, []string{"/music/my song.mp3"}},
		{"double quotes", "\"/music/a b.mp3\"\n\"/music/c.mp3\"", []string{"/music/a b.mp3", "/music/c.mp3"}},
		{"file scheme", "file:///music/a.mp3", []string{"/music/a.mp3"}},
		{"blank", "  \n ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitDroppedPaths(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitDroppedPaths(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestImageService_Thumbnail(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			src.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatal(err)
	}

	svc := NewImageService()
	thumb, err := svc.Thumbnail(context.Background(), buf.Bytes(), 8, 4)
	if err != nil {
		t.Fatalf("Thumbnail() error = %v", err)
	}
	if b := thumb.Bounds(); b.Dx() != 8 || b.Dy() != 4 {
		t.Errorf("bounds = %v, want 8x4", b)
	}
	r, _, _, _ := thumb.At(4, 2).RGBA()
	if r>>8 < 190 {
		t.Errorf("red channel = %d, want about 200", r>>8)
	}

	if _, err := svc.Thumbnail(context.Background(), []byte("not an image"), 8, 8); err == nil {
		t.Error("expected decode error")
	}
}

func TestImageService_Placeholder(t *testing.T) {
	img := NewImageService().Placeholder(12, 12)
	if b := img.Bounds(); b.Dx() != 12 || b.Dy() != 12 {
		t.Fatalf("bounds = %v", b)
	}
	if img.At(0, 0) == img.At(11, 11) {
		t.Error("placeholder corners should differ")
	}
}
