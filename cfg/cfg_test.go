package cfg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockLoaderProvidesValidAnalysis(t *testing.T) {
	l, err := NewMockLoader()
	require.NoError(t, err)

	config, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", config.Database.Driver)
	assert.Equal(t, 7, config.Analysis.HorizontalWindow)
	assert.Equal(t, 100, config.Analysis.RecurrenceWindow)
	assert.Equal(t, int64(42), config.Analysis.RandomSeed)
	assert.NoError(t, config.Analysis.Validate())
}

func TestAnalysisValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(a *Analysis)
		wantErr bool
	}{
		{"defaults", func(a *Analysis) {}, false},
		{"zero window", func(a *Analysis) { a.CrossWindow = 0 }, true},
		{"negative top", func(a *Analysis) { a.TopK = -1 }, true},
		{"negative buffer", func(a *Analysis) { a.CrossBuffer = -1 }, true},
		{"no buffer", func(a *Analysis) { a.CrossBuffer = 0 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := DefaultAnalysis()
			tt.mutate(&a)
			err := a.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoaderForRejectsUnknown(t *testing.T) {
	_, err := LoaderFor("toml")
	assert.Error(t, err)
}

func TestNewLoaderRejectsNil(t *testing.T) {
	_, err := NewLoader(nil)
	assert.Error(t, err)
}
