package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "debug", "json")
	log.Info().Str("paper_id", "p-1").Msg("paper submitted")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if entry["paper_id"] != "p-1" || entry["service"] != "college-erp" {
		t.Errorf("unexpected entry: %v", entry)
	}
	if zerolog.GlobalLevel() != zerolog.DebugLevel {
		t.Errorf("global level = %s, want debug", zerolog.GlobalLevel())
	}
}

func TestNew_InvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "loud", "json")
	if zerolog.GlobalLevel() != zerolog.InfoLevel {
		t.Errorf("global level = %s, want info", zerolog.GlobalLevel())
	}
}
