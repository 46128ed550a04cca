package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	content := `{
		"photos_dir": "/photos",
		"age": 29,
		"occupation": "software engineer",
		"style": "balanced",
		"max_photos": 5,
		"verbose": true
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/photos", cfg.PhotosDir)
	assert.Equal(t, 29, cfg.Age)
	assert.Equal(t, "software engineer", cfg.Occupation)
	assert.Equal(t, "balanced", cfg.Style)
	assert.Equal(t, 5, cfg.MaxPhotos)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig("")
	assert.Error(t, err)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))
	_, err = LoadConfig(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	photosDir := t.TempDir()

	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "empty config is valid", cfg: Config{}},
		{name: "photos dir exists", cfg: Config{PhotosDir: photosDir}},
		{
			name:    "photos dir and facebook export are exclusive",
			cfg:     Config{PhotosDir: photosDir, FacebookExport: "export.zip"},
			wantErr: "mutually exclusive",
		},
		{
			name:    "negative max photos",
			cfg:     Config{MaxPhotos: -1},
			wantErr: "max_photos",
		},
		{
			name:    "negative concurrency",
			cfg:     Config{Concurrency: -2},
			wantErr: "concurrency",
		},
		{
			name:    "negative age",
			cfg:     Config{Age: -5},
			wantErr: "age",
		},
		{
			name:    "missing photos dir",
			cfg:     Config{PhotosDir: filepath.Join(photosDir, "absent")},
			wantErr: "photos directory not found",
		},
		{
			name:    "missing facebook export",
			cfg:     Config{FacebookExport: filepath.Join(photosDir, "absent.zip")},
			wantErr: "facebook export not found",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
			}
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{
		PhotosDir: "/mine",
		Age:       29,
	}
	defaults := Config{
		PhotosDir:   "/theirs",
		Age:         40,
		Occupation:  "teacher",
		Style:       "humorous",
		MaxPhotos:   5,
		Concurrency: 4,
		OutputDir:   "out",
		APIKey:      "key",
		DatabaseURL: "postgres://localhost/opt",
	}

	merged := cfg.MergeWithDefaults(defaults)

	// Explicit values win
	assert.Equal(t, "/mine", merged.PhotosDir)
	assert.Equal(t, 29, merged.Age)

	// Unset values are filled from defaults
	assert.Equal(t, "teacher", merged.Occupation)
	assert.Equal(t, "humorous", merged.Style)
	assert.Equal(t, 5, merged.MaxPhotos)
	assert.Equal(t, 4, merged.Concurrency)
	assert.Equal(t, "out", merged.OutputDir)
	assert.Equal(t, "key", merged.APIKey)
	assert.Equal(t, "postgres://localhost/opt", merged.DatabaseURL)

	// The receiver is not mutated
	assert.Empty(t, cfg.Occupation)
}
