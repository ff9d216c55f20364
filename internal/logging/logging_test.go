package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New("debug", "json", &buf)
	log.Debug().Str("file", "edo.pdf").Msg("ok")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("line=%q err=%v", buf.String(), err)
	}
	if entry["file"] != "edo.pdf" || entry["level"] != "debug" || entry["message"] != "ok" {
		t.Fatalf("entry=%v", entry)
	}
}

func TestNewLevelFallback(t *testing.T) {
	var buf bytes.Buffer
	log := New("chatty", "json", &buf)
	log.Debug().Msg("hidden")
	if buf.Len() != 0 {
		t.Fatalf("got %q", buf.String())
	}
	log.Info().Msg("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Fatalf("got %q", buf.String())
	}
}

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	log := New("info", "console", &buf)
	log.Info().Str("strategy", "ANL").Msg("ok")
	if out := buf.String(); !strings.Contains(out, "strategy") || !strings.Contains(out, "ANL") {
		t.Fatalf("got %q", buf.String())
	}
}
