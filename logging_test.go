package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		cfg     LogConfig
		level   logrus.Level
		json    bool
		wantErr bool
	}{
		{name: "defaults", cfg: LogConfig{Level: "info"}, level: logrus.InfoLevel},
		{name: "debug text", cfg: LogConfig{Level: "debug", Format: "text"}, level: logrus.DebugLevel},
		{name: "json", cfg: LogConfig{Level: "warn", Format: "json"}, level: logrus.WarnLevel, json: true},
		{name: "bad level", cfg: LogConfig{Level: "loud"}, wantErr: true},
		{name: "bad format", cfg: LogConfig{Level: "info", Format: "xml"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger, err := newLogger(tt.cfg, &buf)

			if tt.wantErr {
				if err == nil {
					t.Error("Expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("newLogger failed: %v", err)
			}

			if logger.GetLevel() != tt.level {
				t.Errorf("Expected level %s, got %s", tt.level, logger.GetLevel())
			}

			logger.WithField("org", "acme").Error("boom")
			line := strings.TrimSpace(buf.String())

			if tt.json {
				var entry map[string]any
				if err := json.Unmarshal([]byte(line), &entry); err != nil {
					t.Fatalf("Expected JSON log line, got %q", line)
				}
				if entry["org"] != "acme" {
					t.Errorf("Expected org field, got %v", entry)
				}
				return
			}

			if !strings.Contains(line, "org=acme") || !strings.Contains(line, "msg=boom") {
				t.Errorf("Unexpected text log line %q", line)
			}
		})
	}
}
