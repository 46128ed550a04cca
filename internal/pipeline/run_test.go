package pipeline

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marek-bazler/dating-profile-optimizer/internal/gateway"
	"github.com/marek-bazler/dating-profile-optimizer/internal/types"
)

func writeTestPNG(t *testing.T, path string) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.RGBA{R: 200, G: 120, B: 80, A: 255})

	f, err := os.Create(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	require.NoError(t, png.Encode(f, img))
}

func photosDir(t *testing.T, count int) string {
	t.Helper()
	dir := t.TempDir()
	for i := 0; i < count; i++ {
		writeTestPNG(t, filepath.Join(dir, fmt.Sprintf("photo_%d.png", i)))
	}
	return dir
}

func scriptedMock() *gateway.Mock {
	return &gateway.Mock{
		Default:       &gateway.PhotoAnalysis{Caption: "smiling outdoors", Score: 0.8},
		GeneratedText: "Engineer who loves trails, good coffee and better conversation.",
		Sentiment:     types.Sentiment{Label: types.SentimentPositive, Score: 0.9},
	}
}

func validFacts() types.ProfileFacts {
	return types.ProfileFacts{
		Age:        29,
		Occupation: "software engineer",
		Location:   "Denver",
		Style:      types.StyleBalanced,
	}
}

func TestRun_FullPipeline(t *testing.T) {
	dir := photosDir(t, 7)
	outDir := filepath.Join(t.TempDir(), "out")
	mock := scriptedMock()

	var steps []string
	result, err := Run(context.Background(), RunOptions{
		PhotosDir: dir,
		Facts:     validFacts(),
		OutputDir: outDir,
		Gateway:   mock,
		OnProgress: func(event ProgressEvent) {
			steps = append(steps, event.Step)
		},
	})
	require.NoError(t, err)
	require.NotNil(t, result.Profile)

	assert.Len(t, result.Profile.SelectedPhotos, 5)
	assert.Len(t, result.Report.Records, 7)
	assert.Empty(t, result.Report.Failures)
	require.NotNil(t, result.Profile.Description)
	assert.Contains(t, result.Profile.Description.Text, "Engineer")

	// Selection is ordered by rank
	for i, photo := range result.Profile.SelectedPhotos {
		assert.Equal(t, i+1, photo.RankPosition)
	}

	// Export files were written
	require.NotNil(t, result.Exported)
	for _, path := range []string{
		result.Exported.DescriptionPath,
		result.Exported.RecommendationsPath,
		result.Exported.ResultPath,
	} {
		_, statErr := os.Stat(path)
		assert.NoError(t, statErr)
	}

	assert.Equal(t, 7, mock.CaptionCalls)
	assert.Contains(t, steps, "collect_photos")
	assert.Contains(t, steps, "analysis_report")
	assert.Contains(t, steps, "profile_result")
}

func TestRun_MaxPhotosLimit(t *testing.T) {
	dir := photosDir(t, 4)

	result, err := Run(context.Background(), RunOptions{
		PhotosDir: dir,
		Facts:     validFacts(),
		MaxPhotos: 2,
		Gateway:   scriptedMock(),
	})
	require.NoError(t, err)

	assert.Len(t, result.Profile.SelectedPhotos, 2)
	// No output dir: nothing exported
	assert.Nil(t, result.Exported)
}

func TestRun_MaxPhotosCapped(t *testing.T) {
	dir := photosDir(t, 7)
	outDir := filepath.Join(t.TempDir(), "out")

	// Asking for more photos than a profile can carry caps at the limit
	// instead of producing an oversized result.
	result, err := Run(context.Background(), RunOptions{
		PhotosDir: dir,
		Facts:     validFacts(),
		MaxPhotos: 7,
		OutputDir: outDir,
		Gateway:   scriptedMock(),
	})
	require.NoError(t, err)

	assert.Len(t, result.Profile.SelectedPhotos, 5)
	require.NotNil(t, result.Exported)
	_, statErr := os.Stat(result.Exported.ResultPath)
	assert.NoError(t, statErr)
}

func TestRun_InvalidFactsBeforeGateway(t *testing.T) {
	dir := photosDir(t, 2)
	mock := scriptedMock()

	facts := validFacts()
	facts.Age = 0

	_, err := Run(context.Background(), RunOptions{
		PhotosDir: dir,
		Facts:     facts,
		Gateway:   mock,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrEmptyFacts)

	// The gateway must not have been touched
	assert.Zero(t, mock.CaptionCalls)
	assert.Zero(t, mock.GenerateCalls)
	assert.Zero(t, mock.SentimentCalls)
}

func TestRun_NoPhotos(t *testing.T) {
	_, err := Run(context.Background(), RunOptions{
		PhotosDir: t.TempDir(),
		Facts:     validFacts(),
		Gateway:   scriptedMock(),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no photos")
}

func TestRun_BadPhotoIsolated(t *testing.T) {
	dir := photosDir(t, 3)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "corrupt.png"), []byte("not a png"), 0644))

	result, err := Run(context.Background(), RunOptions{
		PhotosDir: dir,
		Facts:     validFacts(),
		Gateway:   scriptedMock(),
	})
	require.NoError(t, err)

	assert.Len(t, result.Report.Records, 3)
	assert.Len(t, result.Report.Failures, 1)
	assert.Contains(t, result.Report.Failures[0].Path, "corrupt.png")
}

func TestRun_FacebookImport(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "media"), 0755))
	writeTestPNG(t, filepath.Join(dir, "media", "profile.png"))
	exportPath := filepath.Join(dir, "export.json")
	require.NoError(t, os.WriteFile(exportPath, []byte(`{
		"profile_v2": {
			"name": {"full_name": "Alex Rivera"},
			"birthday": {"year": 1996, "month": 2, "day": 1},
			"current_city": {"name": "Denver"}
		},
		"work_v2": [
			{"employer": "Acme", "position": "Engineer", "start_timestamp": 1600000000}
		],
		"page_likes_v2": [{"name": "Hiking Club", "timestamp": 1}],
		"other_photos_v2": [{"uri": "media/profile.png", "creation_timestamp": 1700000000}]
	}`), 0644))

	result, err := Run(context.Background(), RunOptions{
		FacebookExport: exportPath,
		Gateway:        scriptedMock(),
	})
	require.NoError(t, err)

	// Facts were filled from the import
	assert.Equal(t, "Engineer at Acme", result.Profile.Facts.Occupation)
	assert.Equal(t, "Denver", result.Profile.Facts.Location)
	assert.Equal(t, "Hiking Club", result.Profile.Facts.Interests)
	assert.Positive(t, result.Profile.Facts.Age)

	require.Len(t, result.Profile.SelectedPhotos, 1)
	assert.Contains(t, result.Profile.SelectedPhotos[0].Path, "profile.png")
}

func TestRun_DatabaseUnavailableDegrades(t *testing.T) {
	dir := photosDir(t, 1)

	result, err := Run(context.Background(), RunOptions{
		PhotosDir:   dir,
		Facts:       validFacts(),
		Gateway:     scriptedMock(),
		DatabaseURL: "postgres://127.0.0.1:1/none?connect_timeout=1",
	})
	require.NoError(t, err)
	assert.Len(t, result.Profile.SelectedPhotos, 1)
}
