package audio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	httpclient "github.com/handiism/waveplayer/internal/http"
)

// PlaylistFormat represents supported playlist file formats.
//
//   - M3U: Simple text format, optionally extended with #EXTINF lines
//   - PLS: INI-style format, used by Winamp and SHOUTcast
type PlaylistFormat int

const (
	// FormatM3U reads .m3u and .m3u8 files.
	FormatM3U PlaylistFormat = iota

	// FormatPLS reads .pls files.
	FormatPLS
)

// PlaylistFormatFromPath returns the format of a playlist file, or false if
// path is not a playlist.
func PlaylistFormatFromPath(path string) (PlaylistFormat, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".m3u", ".m3u8":
		return FormatM3U, true
	case ".pls":
		return FormatPLS, true
	}
	return FormatM3U, false
}

// IsPlaylistFile reports whether path names an M3U or PLS playlist.
func IsPlaylistFile(path string) bool {
	_, ok := PlaylistFormatFromPath(path)
	return ok
}

// PlaylistEntry is one item of a playlist file.
type PlaylistEntry struct {
	// Location is an absolute file path or an http(s) URL.
	Location string

	// Title is the display title from #EXTINF or TitleN, if any.
	Title string

	// Duration is the advertised length; zero when absent or unknown.
	Duration time.Duration
}

// Remote reports whether the entry is an online URL.
func (e PlaylistEntry) Remote() bool {
	return httpclient.IsRemote(e.Location)
}

// PlaylistReader parses playlist files.
//
// Relative locations are resolved against baseDir, which is normally the
// directory holding the playlist.
//
// Example:
//
//	reader := NewPlaylistReader(FormatM3U, "/music/Album")
//	entries, err := reader.Read(f)
//
//	// #EXTM3U
//	// #EXTINF:180,Artist - Song Title
//	// 01 Song Title.mp3
//	// -> {Location: "/music/Album/01 Song Title.mp3", Title: "Artist - Song Title", Duration: 3m}
type PlaylistReader struct {
	format  PlaylistFormat
	baseDir string
}

// NewPlaylistReader creates a new PlaylistReader.
func NewPlaylistReader(format PlaylistFormat, baseDir string) *PlaylistReader {
	return &PlaylistReader{
		format:  format,
		baseDir: baseDir,
	}
}

// ReadPlaylist opens and parses the playlist file at path.
func ReadPlaylist(path string) ([]PlaylistEntry, error) {
	format, ok := PlaylistFormatFromPath(path)
	if !ok {
		return nil, fmt.Errorf("%s: not a playlist file", path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return NewPlaylistReader(format, filepath.Dir(path)).Read(f)
}

// Read parses playlist content from r.
func (p *PlaylistReader) Read(r io.Reader) ([]PlaylistEntry, error) {
	switch p.format {
	case FormatPLS:
		return p.readPLS(r)
	default:
		return p.readM3U(r)
	}
}

// readM3U parses plain and extended M3U.
//
//	#EXTM3U
//	#EXTINF:180,Artist - Title
//	filename1.mp3
func (p *PlaylistReader) readM3U(r io.Reader) ([]PlaylistEntry, error) {
	var (
		entries []PlaylistEntry
		pending PlaylistEntry
	)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(strings.TrimPrefix(scanner.Text(), "\ufeff"))
		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, "#EXTINF:"):
			info := strings.TrimPrefix(line, "#EXTINF:")
			length, title, _ := strings.Cut(info, ",")
			pending.Title = strings.TrimSpace(title)
			pending.Duration = parseSeconds(length)
		case strings.HasPrefix(line, "#"):
			continue
		default:
			pending.Location = p.resolve(line)
			entries = append(entries, pending)
			pending = PlaylistEntry{}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// readPLS parses PLS playlists. Entries are ordered by their index.
//
//	[playlist]
//	File1=filename1.mp3
//	Title1=Song Title
//	Length1=180
//	NumberOfEntries=1
//	Version=2
func (p *PlaylistReader) readPLS(r io.Reader) ([]PlaylistEntry, error) {
	byIndex := make(map[int]*PlaylistEntry)
	entry := func(i int) *PlaylistEntry {
		e, ok := byIndex[i]
		if !ok {
			e = &PlaylistEntry{}
			byIndex[i] = e
		}
		return e
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		key, value, ok := strings.Cut(strings.TrimSpace(scanner.Text()), "=")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		field, i, ok := splitPLSKey(key)
		if !ok {
			continue
		}
		e := entry(i)
		switch field {
		case "file":
			e.Location = p.resolve(value)
		case "title":
			e.Title = value
		case "length":
			e.Duration = parseSeconds(value)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	indexes := make([]int, 0, len(byIndex))
	for i, e := range byIndex {
		if e.Location != "" {
			indexes = append(indexes, i)
		}
	}
	sort.Ints(indexes)

	entries := make([]PlaylistEntry, 0, len(indexes))
	for _, i := range indexes {
		entries = append(entries, *byIndex[i])
	}
	return entries, nil
}

// splitPLSKey splits a key such as "title3" into ("title", 3).
func splitPLSKey(key string) (string, int, bool) {
	for _, field := range []string{"file", "title", "length"} {
		if !strings.HasPrefix(key, field) {
			continue
		}
		i, err := strconv.Atoi(strings.TrimPrefix(key, field))
		if err != nil {
			return "", 0, false
		}
		return field, i, true
	}
	return "", 0, false
}

func (p *PlaylistReader) resolve(location string) string {
	location = strings.TrimPrefix(location, "file://")
	if httpclient.IsRemote(location) || filepath.IsAbs(location) || p.baseDir == "" {
		return location
	}
	return filepath.Join(p.baseDir, location)
}

// parseSeconds parses a length in seconds. Negative values (unknown length
// in both formats) and malformed values yield 0.
func parseSeconds(s string) time.Duration {
	secs, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs * float64(time.Second))
}
