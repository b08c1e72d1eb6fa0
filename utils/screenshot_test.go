package utils

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestScreenShotDebugger_Path(t *testing.T) {
	s := NewScreenShotDebugger("shots", zap.NewNop())
	s.now = func() time.Time { return time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC) }

	tests := []struct {
		name     string
		expected string
	}{
		{"amazon-unavailable", "amazon-unavailable_2025-03-04_05-06-07.png"},
		{"P&G Careers / no listings", "p-g-careers-no-listings_2025-03-04_05-06-07.png"},
		{"???", "page_2025-03-04_05-06-07.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, filepath.Join("shots", tt.expected), s.Path(tt.name))
		})
	}
}

func TestScreenShotDebugger_NilIsNoop(t *testing.T) {
	var s *ScreenShotDebugger
	assert.NoError(t, s.CaptureAndLog(nil, "x", "y"))
}
