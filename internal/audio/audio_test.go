package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bogem/id3v2"
	httpclient "github.com/handiism/waveplayer/internal/http"
	"github.com/handiism/waveplayer/internal/model"
)

// writeWAV writes a 16-bit mono PCM file of the given length.
func writeWAV(t *testing.T, path string, sampleRate, samples int) {
	t.Helper()

	dataLen := samples * 2
	buf := make([]byte, 0, 44+dataLen)
	buf = append(buf, "RIFF"...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(36+dataLen))
	buf = append(buf, "WAVE"...)
	buf = append(buf, "fmt "...)
	buf = binary.LittleEndian.AppendUint32(buf, 16)
	buf = binary.LittleEndian.AppendUint16(buf, 1) // PCM
	buf = binary.LittleEndian.AppendUint16(buf, 1) // mono
	buf = binary.LittleEndian.AppendUint32(buf, uint32(sampleRate))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(sampleRate*2))
	buf = binary.LittleEndian.AppendUint16(buf, 2)
	buf = binary.LittleEndian.AppendUint16(buf, 16)
	buf = append(buf, "data"...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(dataLen))
	for i := 0; i < samples; i++ {
		v := int16(8000 * math.Sin(2*math.Pi*440*float64(i)/float64(sampleRate)))
		buf = binary.LittleEndian.AppendUint16(buf, uint16(v))
	}

	if err := os.WriteFile(path, buf, 0644); err != nil {
		t.Fatal(err)
	}
}

type fixedSamples []float64

func (f fixedSamples) Samples(n int) []float64 {
	if n > len(f) {
		n = len(f)
	}
	return f[len(f)-n:]
}

type sliceStreamer struct {
	data [][2]float64
}

func (s *sliceStreamer) Stream(samples [][2]float64) (int, bool) {
	if len(s.data) == 0 {
		return 0, false
	}
	n := copy(samples, s.data)
	s.data = s.data[n:]
	return n, true
}

func (s *sliceStreamer) Err() error { return nil }

func TestAnalyser_Silence(t *testing.T) {
	a := NewAnalyser(fixedSamples(make([]float64, 256)), DefaultAnalyserConfig())
	if a.BinCount() != 128 {
		t.Fatalf("BinCount() = %d, want 128", a.BinCount())
	}

	bins := make([]byte, a.BinCount())
	a.ByteFrequencyData(bins)
	for i, b := range bins {
		if b != 0 {
			t.Fatalf("bin %d = %d, want 0 for silence", i, b)
		}
	}
}

func TestAnalyser_SinePeak(t *testing.T) {
	samples := make([]float64, 256)
	for i := range samples {
		samples[i] = math.Sin(2 * math.Pi * 16 * float64(i) / 256)
	}
	a := NewAnalyser(fixedSamples(samples), DefaultAnalyserConfig())

	bins := make([]byte, a.BinCount())
	a.ByteFrequencyData(bins)

	if bins[16] < 200 {
		t.Errorf("bin 16 = %d, want a strong peak", bins[16])
	}
	if bins[100] >= bins[16] {
		t.Errorf("bin 100 = %d should be below the peak %d", bins[100], bins[16])
	}
}

func TestAnalyser_ShortSourceAndShortDst(t *testing.T) {
	a := NewAnalyser(fixedSamples([]float64{0.5, -0.5}), DefaultAnalyserConfig())
	dst := make([]byte, 4)
	a.ByteFrequencyData(dst) // must not panic
}

func TestAnalyser_FFTSizeRounding(t *testing.T) {
	cfg := DefaultAnalyserConfig()
	cfg.FFTSize = 300
	if got := NewAnalyser(fixedSamples(nil), cfg).BinCount(); got != 256 {
		t.Errorf("BinCount() = %d, want 256", got)
	}
}

func TestTap_SamplesInOrder(t *testing.T) {
	src := &sliceStreamer{}
	for i := 1; i <= 6; i++ {
		v := float64(i)
		src.data = append(src.data, [2]float64{v, v})
	}
	tap := NewTap(src, 4)

	buf := make([][2]float64, 6)
	n, ok := tap.Stream(buf)
	if n != 6 || !ok {
		t.Fatalf("Stream() = %d, %v", n, ok)
	}
	if buf[5][0] != 6 {
		t.Errorf("samples not passed through: %v", buf)
	}

	got := tap.Samples(3)
	want := []float64{4, 5, 6}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Samples(3) = %v, want %v", got, want)
		}
	}
	if len(tap.Samples(10)) != 4 {
		t.Error("Samples should be capped at the history size")
	}
}

func TestTap_MonoMixAndFill(t *testing.T) {
	src := &sliceStreamer{data: [][2]float64{{1, 0}, {0.5, -0.5}}}
	tap := NewTap(src, 5) // rounded up to 8

	if got := tap.Samples(8); len(got) != 0 {
		t.Fatalf("Samples() before streaming = %v, want none", got)
	}

	tap.Stream(make([][2]float64, 2))
	got := tap.Samples(8)
	if len(got) != 2 || got[0] != 0.5 || got[1] != 0 {
		t.Errorf("Samples(8) = %v, want [0.5 0]", got)
	}

	tap.Reset()
	if got := tap.Samples(8); len(got) != 0 {
		t.Errorf("Samples() after Reset = %v, want none", got)
	}
}

func TestFormatDetection(t *testing.T) {
	paths := []struct {
		in   string
		want string
	}{
		{"/music/a.MP3", FormatMP3},
		{"/music/a.wav", FormatWAV},
		{"/music/a.flac", FormatFLAC},
		{"/music/a.ogg", FormatVorbis},
		{"https://example.com/song.mp3?token=abc", FormatMP3},
		{"https://example.com/stream", ""},
		{"/music/a.txt", ""},
	}
	for _, tt := range paths {
		if got := FormatFromPath(tt.in); got != tt.want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	types := []struct {
		in   string
		want string
	}{
		{"audio/mpeg", FormatMP3},
		{"audio/ogg; codecs=vorbis", FormatVorbis},
		{"audio/x-wav", FormatWAV},
		{"text/html; charset=utf-8", ""},
	}
	for _, tt := range types {
		if got := FormatFromContentType(tt.in); got != tt.want {
			t.Errorf("FormatFromContentType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDecode_Unsupported(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "x")
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := Decode(f, "aiff"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Decode() error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestProber_WAVFallbacks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "My Song.wav")
	writeWAV(t, path, 8000, 8000)

	track, err := NewProber().Probe(context.Background(), path)
	if err != nil {
		t.Fatalf("Probe() error = %v", err)
	}
	if track.Name != "My Song" {
		t.Errorf("Name = %q, want %q", track.Name, "My Song")
	}
	if track.Artist != model.LocalArtist {
		t.Errorf("Artist = %q, want %q", track.Artist, model.LocalArtist)
	}
	if track.Duration != time.Second {
		t.Errorf("Duration = %v, want 1s", track.Duration)
	}
	if track.Provenance != model.Local || track.SourceURI != path {
		t.Errorf("unexpected track %+v", track)
	}
}

func TestProber_NotAudio(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("hello"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewProber().Probe(context.Background(), path); !errors.Is(err, ErrNotAudio) {
		t.Errorf("Probe() error = %v, want ErrNotAudio", err)
	}
}

func TestProber_CorruptAudio(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.wav")
	if err := os.WriteFile(path, []byte("not really a wave file"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := NewProber().Probe(context.Background(), path)
	if err == nil || errors.Is(err, ErrNotAudio) {
		t.Errorf("Probe() error = %v, want a decode error", err)
	}
}

func TestReadTags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tagged.mp3")

	tag := id3v2.NewEmptyTag()
	tag.SetTitle("Tagged Title")
	tag.SetArtist("Tagged Artist")
	tag.AddAttachedPicture(id3v2.PictureFrame{
		Encoding:    id3v2.EncodingUTF8,
		MimeType:    "image/png",
		PictureType: id3v2.PTFrontCover,
		Description: "Cover",
		Picture:     []byte{0x89, 'P', 'N', 'G'},
	})
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tag.WriteTo(f); err != nil {
		t.Fatal(err)
	}
	f.Close()

	title, artist, hasCover := readTags(path)
	if title != "Tagged Title" || artist != "Tagged Artist" || !hasCover {
		t.Errorf("readTags() = %q, %q, %v", title, artist, hasCover)
	}

	pic, err := ReadEmbeddedCover(path)
	if err != nil {
		t.Fatalf("ReadEmbeddedCover() error = %v", err)
	}
	if len(pic) != 4 {
		t.Errorf("picture = %v", pic)
	}
}

func TestReadEmbeddedCover_NoTag(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"shorter than a tag header", []byte{0xFF, 0xFB, 0x90, 0x00}},
		{"empty", nil},
		{"untagged frames", append([]byte{0xFF, 0xFB, 0x90, 0x00}, make([]byte, 60)...)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "plain.mp3")
			if err := os.WriteFile(path, tt.data, 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := ReadEmbeddedCover(path); !errors.Is(err, ErrNoCover) {
				t.Errorf("ReadEmbeddedCover() error = %v, want ErrNoCover", err)
			}
		})
	}
}

func TestReadEmbeddedCover_Missing(t *testing.T) {
	_, err := ReadEmbeddedCover(filepath.Join(t.TempDir(), "gone.mp3"))
	if err == nil || errors.Is(err, ErrNoCover) {
		t.Errorf("ReadEmbeddedCover() error = %v, want a not-exist error", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error %v should wrap os.ErrNotExist", err)
	}
}

func TestSourceOpener_RemoteSeek(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	writeWAV(t, path, 8000, 800)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		handler  http.HandlerFunc
		seekable bool
	}{
		{
			name: "byte ranges",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.ServeContent(w, r, "tone.wav", time.Time{}, bytes.NewReader(data))
			},
			seekable: true,
		},
		{
			name: "plain body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "audio/wav")
				w.Write(data)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			opener := NewSourceOpener(httpclient.NewClient(""))
			stream, format, err := opener.Open(context.Background(), srv.URL+"/tone.wav")
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			defer stream.Close()

			if format.SampleRate != 8000 || stream.Len() != 800 {
				t.Errorf("format = %+v, len = %d", format, stream.Len())
			}
			err = stream.Seek(400)
			if tt.seekable && err != nil {
				t.Errorf("Seek() error = %v", err)
			}
			if !tt.seekable && !errors.Is(err, errNotSeekable) {
				t.Errorf("Seek() error = %v, want errNotSeekable", err)
			}
		})
	}
}

func TestBeepMedia_LoadSeekAndEnd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	writeWAV(t, path, 44100, 44100*2)

	m := newBeepMedia(DefaultMediaConfig(), nil)
	if m.Seek(time.Second) {
		t.Error("Seek should fail with nothing loaded")
	}

	m.Load(path)
	deadline := time.Now().Add(5 * time.Second)
	for m.Duration() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("source never opened")
		}
		time.Sleep(10 * time.Millisecond)
	}
	if m.Duration() != 2*time.Second {
		t.Errorf("Duration() = %v, want 2s", m.Duration())
	}
	if !m.Seek(time.Second) || m.Position() != time.Second {
		t.Errorf("Position() after seek = %v", m.Position())
	}

	m.finished(m.gen.Load() - 1)
	select {
	case <-m.Ended():
		t.Fatal("stale end signal delivered")
	default:
	}

	m.finished(m.gen.Load())
	select {
	case <-m.Ended():
	default:
		t.Fatal("end signal not delivered")
	}

	m.Unload()
	if m.Duration() != 0 {
		t.Error("Unload should release the source")
	}
}

func TestBeepMedia_VolumeAndTap(t *testing.T) {
	m := newBeepMedia(DefaultMediaConfig(), nil)

	m.SetVolume(0)
	if !m.volume.Silent {
		t.Error("volume 0 should silence output")
	}
	m.SetVolume(0.5)
	if m.volume.Silent || m.volume.Volume != -1 {
		t.Errorf("volume = %+v, want gain 2^-1", m.volume)
	}

	a, err := m.EstablishTap()
	if err != nil {
		t.Fatal(err)
	}
	b, _ := m.EstablishTap()
	if a != b {
		t.Error("EstablishTap should return the same source every time")
	}
	if a.BinCount() != 128 {
		t.Errorf("BinCount() = %d", a.BinCount())
	}
}
