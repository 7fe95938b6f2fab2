package logger

import (
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emimontesdeoca/poc-dgt-cameras-scraper/pkg/config"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    zerolog.Level
		wantErr bool
	}{
		{"debug", zerolog.DebugLevel, false},
		{"info", zerolog.InfoLevel, false},
		{"", zerolog.InfoLevel, false},
		{"WARN", zerolog.WarnLevel, false},
		{"warning", zerolog.WarnLevel, false},
		{"error", zerolog.ErrorLevel, false},
		{"fatal", zerolog.FatalLevel, false},
		{"disabled", zerolog.Disabled, false},
		{"nonsense", zerolog.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("level %q", tt.input), func(t *testing.T) {
			got, err := parseLogLevel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewRejectsInvalidLevel(t *testing.T) {
	_, err := New(&config.LoggingConfig{Level: "loud"})
	assert.Error(t, err)
}

func TestTestLoggerCapturesMessages(t *testing.T) {
	log := NewTestLogger()

	log.Info("plain message")
	log.ErrorWithFields("something broke", map[string]interface{}{
		"source": "../cam.html",
	})

	messages := log.Messages()
	require.Len(t, messages, 2)
	assert.Equal(t, "INFO", messages[0].Level)
	assert.Equal(t, "plain message", messages[0].Message)
	assert.Equal(t, "../cam.html", messages[1].Fields["source"])

	errs := log.MessagesByLevel("ERROR")
	require.Len(t, errs, 1)
	assert.True(t, log.HasMessageContaining("broke"))
}

func TestTestLoggerWithFieldsRecordsIntoParent(t *testing.T) {
	log := NewTestLogger()

	derived := log.WithField("url", "https://x/cam1.jpg").WithError(fmt.Errorf("boom"))
	derived.Error("download failed")

	messages := log.MessagesByLevel("ERROR")
	require.Len(t, messages, 1)
	assert.Equal(t, "https://x/cam1.jpg", messages[0].Fields["url"])
	assert.Equal(t, "boom", messages[0].Fields["error"])
}

func TestNopLoggerDiscardsEverything(t *testing.T) {
	log := NewNopLogger()

	// None of these should panic or emit
	log.Debug("a")
	log.WithField("k", "v").Info("b")
	log.WithError(fmt.Errorf("x")).Error("c")
	log.ErrorWithFields("d", map[string]interface{}{"k": 1})
	assert.Nil(t, log.GetZerolog())
}
