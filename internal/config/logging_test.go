package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/apex/log"
)

func TestLogApplyJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := (LogConfig{Level: "info", Format: "json"}).Apply(&buf); err != nil {
		t.Fatal(err)
	}

	log.Debug("hidden")
	log.WithField("game", "g1").Info("player joined")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d log lines, want 1: %q", len(lines), buf.String())
	}
	var entry struct {
		Fields  map[string]interface{} `json:"fields"`
		Message string                 `json:"message"`
	}
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatal(err)
	}
	if entry.Message != "player joined" || entry.Fields["game"] != "g1" {
		t.Errorf("entry = %+v", entry)
	}
}

func TestLogApplyText(t *testing.T) {
	var buf bytes.Buffer
	if err := (LogConfig{Level: "debug", Format: "text"}).Apply(&buf); err != nil {
		t.Fatal(err)
	}
	log.Debug("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("output = %q, want the debug line", buf.String())
	}
}

func TestLogApplyRejects(t *testing.T) {
	for _, l := range []LogConfig{{Level: "loud", Format: "text"}, {Level: "info", Format: "xml"}} {
		if err := l.Apply(&bytes.Buffer{}); !errors.Is(err, ErrInvalid) {
			t.Errorf("Apply(%+v) error = %v, want ErrInvalid", l, err)
		}
	}
}
