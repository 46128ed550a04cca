package analysis

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marek-bazler/dating-profile-optimizer/internal/gateway"
	"github.com/marek-bazler/dating-profile-optimizer/internal/types"
)

// writeTestPNG writes a tiny valid PNG to dir and returns its path.
func writeTestPNG(t *testing.T, dir, name string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 1, 1))))
	return path
}

func TestAnalyzePhoto_Success(t *testing.T) {
	dir := t.TempDir()
	path := writeTestPNG(t, dir, "photo.png")

	gw := &gateway.Mock{
		Analyses: map[string]gateway.PhotoAnalysis{
			path: {Caption: "a person smiling", Score: 0.8},
		},
		Sentiment: types.Sentiment{Label: types.SentimentPositive, Score: 0.9},
	}

	record, err := AnalyzePhoto(context.Background(), gw, path, 2)
	require.NoError(t, err)

	assert.Equal(t, path, record.Path)
	assert.Equal(t, 2, record.UploadIndex)
	assert.Equal(t, "a person smiling", record.Caption)
	assert.Equal(t, 0.8, record.AttractivenessScore)
	assert.Equal(t, types.SentimentPositive, record.Sentiment.Label)
	assert.NotEqual(t, record.ID.String(), "00000000-0000-0000-0000-000000000000")
}

func TestAnalyzePhoto_CorruptImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.jpg")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0644))

	gw := &gateway.Mock{Default: &gateway.PhotoAnalysis{Caption: "x", Score: 0.5}}

	_, err := AnalyzePhoto(context.Background(), gw, path, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrInvalidImage)
	assert.Zero(t, gw.CaptionCalls, "gateway should not be called for undecodable files")
}

func TestAnalyzePhoto_UnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0644))

	gw := &gateway.Mock{Default: &gateway.PhotoAnalysis{Caption: "x", Score: 0.5}}

	_, err := AnalyzePhoto(context.Background(), gw, path, 0)
	assert.ErrorIs(t, err, types.ErrInvalidImage)
}

func TestAnalyzePhoto_GatewayNotReady(t *testing.T) {
	dir := t.TempDir()
	path := writeTestPNG(t, dir, "photo.png")

	gw := &gateway.Mock{NotReady: true}

	_, err := AnalyzePhoto(context.Background(), gw, path, 0)
	assert.ErrorIs(t, err, types.ErrModelUnavailable)
}

func TestAnalyzePhoto_SentimentFailureDegradesToNeutral(t *testing.T) {
	dir := t.TempDir()
	path := writeTestPNG(t, dir, "photo.png")

	gw := &gateway.Mock{
		Analyses: map[string]gateway.PhotoAnalysis{
			path: {Caption: "a person hiking", Score: 0.7},
		},
		SentimentErr: fmt.Errorf("%w: classifier hiccup", types.ErrGenerationFailed),
	}

	record, err := AnalyzePhoto(context.Background(), gw, path, 0)
	require.NoError(t, err)
	assert.Equal(t, types.SentimentNeutral, record.Sentiment.Label)
}

func TestAnalyzePhoto_SentimentModelUnavailableAborts(t *testing.T) {
	dir := t.TempDir()
	path := writeTestPNG(t, dir, "photo.png")

	// An unavailable model is not a degradable failure
	gw := &gateway.Mock{
		Analyses: map[string]gateway.PhotoAnalysis{
			path: {Caption: "a person hiking", Score: 0.7},
		},
		SentimentErr: fmt.Errorf("%w: quota exhausted", types.ErrModelUnavailable),
	}

	_, err := AnalyzePhoto(context.Background(), gw, path, 0)
	assert.ErrorIs(t, err, types.ErrModelUnavailable)
}

func TestAnalyzeBatch_IsolatesPerPhotoFailures(t *testing.T) {
	// Five photos; the gateway raises on #3. Expect four records and one
	// recorded failure, ranking input intact.
	dir := t.TempDir()

	paths := make([]string, 5)
	for i := range paths {
		paths[i] = writeTestPNG(t, dir, fmt.Sprintf("photo_%d.png", i))
	}

	gw := &gateway.Mock{
		Default:   &gateway.PhotoAnalysis{Caption: "a person smiling", Score: 0.6},
		Sentiment: types.Sentiment{Label: types.SentimentNeutral, Score: 0.5},
		AnalysisErrs: map[string]error{
			paths[2]: fmt.Errorf("%w: corrupted tensor", types.ErrGenerationFailed),
		},
	}

	report, err := AnalyzeBatch(context.Background(), gw, paths, 2)
	require.NoError(t, err)

	assert.Len(t, report.Records, 4)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, paths[2], report.Failures[0].Path)
	assert.Equal(t, 2, report.Failures[0].UploadIndex)
}

func TestAnalyzeBatch_RecordsInUploadOrder(t *testing.T) {
	dir := t.TempDir()

	paths := make([]string, 6)
	for i := range paths {
		paths[i] = writeTestPNG(t, dir, fmt.Sprintf("photo_%d.png", i))
	}

	gw := &gateway.Mock{
		Default:   &gateway.PhotoAnalysis{Caption: "a person", Score: 0.5},
		Sentiment: types.Sentiment{Label: types.SentimentNeutral, Score: 0.5},
	}

	report, err := AnalyzeBatch(context.Background(), gw, paths, 3)
	require.NoError(t, err)
	require.Len(t, report.Records, 6)

	for i, rec := range report.Records {
		assert.Equal(t, i, rec.UploadIndex)
		assert.Equal(t, paths[i], rec.Path)
	}
}

func TestAnalyzeBatch_AbortsWhenGatewayUnavailable(t *testing.T) {
	dir := t.TempDir()
	path := writeTestPNG(t, dir, "photo.png")

	gw := &gateway.Mock{NotReady: true}

	_, err := AnalyzeBatch(context.Background(), gw, []string{path}, 1)
	assert.ErrorIs(t, err, types.ErrModelUnavailable)
}

func TestCollectPhotos_FiltersUnsupportedFiles(t *testing.T) {
	dir := t.TempDir()
	writeTestPNG(t, dir, "b.png")
	writeTestPNG(t, dir, "a.jpg")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))

	paths, err := CollectPhotos(dir)
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Equal(t, filepath.Join(dir, "a.jpg"), paths[0])
	assert.Equal(t, filepath.Join(dir, "b.png"), paths[1])
}
