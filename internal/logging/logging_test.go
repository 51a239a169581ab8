package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/handiism/waveplayer/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestSetup_File(t *testing.T) {
	settings := config.DefaultSettings()
	settings.LogFile = filepath.Join(t.TempDir(), "logs", "player.log")
	settings.LogLevel = "warn"

	closer, err := Setup(settings, false, false)
	if err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	t.Cleanup(func() { log.Logger = zerolog.Nop() })

	log.Info().Msg("hidden")
	log.Warn().Msg("shown")
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(settings.LogFile)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "hidden") || !strings.Contains(string(data), "shown") {
		t.Errorf("log file = %q", data)
	}
}

func TestSetup_Verbose(t *testing.T) {
	settings := config.DefaultSettings()
	settings.LogFile = ""

	if _, err := Setup(settings, false, true); err != nil {
		t.Fatal(err)
	}
	if zerolog.GlobalLevel() != zerolog.DebugLevel {
		t.Errorf("GlobalLevel() = %v, want debug", zerolog.GlobalLevel())
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}
