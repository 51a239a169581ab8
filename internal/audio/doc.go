// Package audio provides the media primitive behind waveplayer: decoding,
// playback, metadata probing, playlist files and frequency analysis.
//
// # Playback
//
// Media is the element the player controller drives. BeepMedia implements
// it on top of the faiface/beep speaker:
//
//	media, err := audio.NewBeepMedia(audio.DefaultMediaConfig(), client)
//	media.Load("/music/song.mp3") // opens in the background
//	media.Play()
//	<-media.Ended()
//
// Load never blocks. Local files and online URLs are opened on a background
// goroutine; a later Load or Unload discards a stream that is still opening.
//
// Supported formats:
//   - MP3
//   - WAV
//   - FLAC
//   - Ogg Vorbis
//
// # Frequency Analysis
//
// Media that can be analysed implement Tapper. The returned FrequencySource
// behaves like a WebAudio AnalyserNode with fftSize 256:
//
//	src, err := media.EstablishTap()
//	bins := make([]byte, src.BinCount()) // 128
//	src.ByteFrequencyData(bins)
//
// # Probing
//
// The Prober reads duration, title, artist and cover presence from a local
// file before it is added to a playlist:
//
//	prober := audio.NewProber()
//	track, err := prober.Probe(ctx, "/music/song.mp3")
//	if errors.Is(err, audio.ErrNotAudio) {
//	    // skip
//	}
//
// # Playlist Files
//
// M3U and PLS playlists can be read into entries:
//
//	entries, err := audio.ReadPlaylist("/music/mix.m3u")
package audio
