package ioutils

import (
	"io"
	"io/fs"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// audioExtensions lists extensions treated as audio when the system MIME
// table does not know them.
var audioExtensions = map[string]string{
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".flac": "audio/flac",
	".ogg":  "audio/ogg",
	".oga":  "audio/ogg",
}

// AudioMIMEType returns the audio MIME type of the file at path, or "" if it
// is not audio.
//
// The extension is checked first. Files with an unknown extension are sniffed
// with http.DetectContentType on their first 512 bytes.
//
// Example:
//
//	AudioMIMEType("/music/song.mp3") // "audio/mpeg"
//	AudioMIMEType("/music/cover.jpg") // ""
func AudioMIMEType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if t, ok := audioExtensions[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		if strings.HasPrefix(t, "audio/") {
			return t
		}
		return ""
	}
	return sniffAudio(path)
}

// IsAudioFile reports whether path names an audio file.
func IsAudioFile(path string) bool {
	return AudioMIMEType(path) != ""
}

func sniffAudio(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF {
		return ""
	}
	t := http.DetectContentType(head[:n])
	if strings.HasPrefix(t, "audio/") || t == "application/ogg" {
		return t
	}
	return ""
}

// ExpandPaths turns a list of files and directories into a flat list of
// files. Directories are walked recursively and their files are returned in
// lexical order; plain files are passed through untouched so that callers can
// decide what to skip.
func ExpandPaths(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}

		var found []string
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		sort.Strings(found)
		files = append(files, found...)
	}
	return files, nil
}

// SplitDroppedPaths parses text pasted into a terminal by dragging files onto
// it. Terminals separate paths with newlines or spaces and either quote them
// or escape spaces with a backslash.
//
// Example:
//
//	SplitDroppedPaths(`'/a b.mp3' /c\ d.mp3`) // ["/a b.mp3", "/c d.mp3"]
func SplitDroppedPaths(text string) []string {
	var (
		paths   []string
		current strings.Builder
		quote   rune
		escaped bool
	)

	flush := func() {
		if current.Len() > 0 {
			paths = append(paths, current.String())
			current.Reset()
		}
	}

	for _, r := range text {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case r == '\\' && quote != '\'':
			escaped = true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '\'' || r == '"':
			quote = r
		case r == ' ' || r == '\n' || r == '\r' || r == '\t':
			flush()
		default:
			current.WriteRune(r)
		}
	}
	flush()

	for i, p := range paths {
		paths[i] = strings.TrimPrefix(p, "file://")
	}
	return paths
}
