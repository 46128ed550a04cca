// Package analysis runs the per-photo scoring pass: each photo is decoded,
// sent through the model gateway once, and turned into an immutable
// PhotoRecord.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	// Register decoders for the formats the pipeline accepts.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/marek-bazler/dating-profile-optimizer/internal/gateway"
	"github.com/marek-bazler/dating-profile-optimizer/internal/types"
)

// DefaultConcurrency bounds how many photos are scored at once.
const DefaultConcurrency = 4

// supportedExtensions are the image formats accepted for analysis.
var supportedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// AnalyzePhoto scores a single photo through the gateway. uploadIndex is the
// photo's position in the original upload order. Fails with
// types.ErrModelUnavailable when the gateway is not ready and
// types.ErrInvalidImage when the file cannot be decoded.
func AnalyzePhoto(ctx context.Context, gw gateway.Gateway, path string, uploadIndex int) (*types.PhotoRecord, error) {
	if err := gw.Ready(); err != nil {
		return nil, err
	}
	if err := checkDecodable(path); err != nil {
		return nil, err
	}

	result, err := gw.CaptionAndScore(ctx, path)
	if err != nil {
		return nil, err
	}

	sentiment, err := gw.ClassifySentiment(ctx, result.Caption)
	if err != nil {
		if errors.Is(err, types.ErrModelUnavailable) {
			return nil, err
		}
		// Caption sentiment is a secondary signal; degrade to neutral
		// rather than discarding the photo.
		sentiment = types.Sentiment{Label: types.SentimentNeutral, Score: 0.5}
	}

	return &types.PhotoRecord{
		ID:                  uuid.New(),
		Path:                path,
		UploadIndex:         uploadIndex,
		Caption:             result.Caption,
		AttractivenessScore: result.Score,
		Sentiment:           sentiment,
	}, nil
}

// AnalyzeBatch scores a set of photos, dispatching up to concurrency photos at
// a time. Per-photo failures are isolated into the report's failure list; the
// batch only aborts when the gateway itself is unavailable. Records come back
// in upload order. concurrency <= 0 falls back to DefaultConcurrency.
func AnalyzeBatch(ctx context.Context, gw gateway.Gateway, paths []string, concurrency int) (*types.AnalysisReport, error) {
	if err := gw.Ready(); err != nil {
		return nil, err
	}
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	// One slot per photo; each task writes exactly its own slot.
	results := make([]*types.PhotoRecord, len(paths))
	failures := make([]*types.PhotoFailure, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, path := range paths {
		g.Go(func() error {
			record, err := AnalyzePhoto(gctx, gw, path, i)
			if err != nil {
				if errors.Is(err, types.ErrModelUnavailable) {
					// Gateway gone: abort the whole batch.
					return err
				}
				failures[i] = &types.PhotoFailure{
					Path:        path,
					UploadIndex: i,
					Reason:      err.Error(),
				}
				return nil
			}
			results[i] = record
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &types.AnalysisReport{}
	for i := range paths {
		if results[i] != nil {
			report.Records = append(report.Records, *results[i])
		}
		if failures[i] != nil {
			report.Failures = append(report.Failures, *failures[i])
		}
	}
	return report, nil
}

// CollectPhotos walks a directory and returns supported image paths in a
// stable order, which becomes the upload order.
func CollectPhotos(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read photo directory %s: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if supportedExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	return paths, nil
}

// checkDecodable verifies the file exists and its header decodes as an image.
// WebP is accepted on extension alone; the standard library has no decoder
// for it.
func checkDecodable(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if !supportedExtensions[ext] {
		return fmt.Errorf("%w: unsupported format %s", types.ErrInvalidImage, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: cannot open %s: %v", types.ErrInvalidImage, path, err)
	}
	defer func() { _ = f.Close() }()

	if ext == ".webp" {
		return nil
	}

	if _, _, err := image.DecodeConfig(f); err != nil {
		return fmt.Errorf("%w: cannot decode %s: %v", types.ErrInvalidImage, path, err)
	}
	return nil
}
