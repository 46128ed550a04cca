package facebook

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Parser reads Facebook data-export files (.zip, .json or the alternate HTML
// format inside a ZIP).
type Parser struct {
	// ExtractDir is where ZIP archives are unpacked. Defaults to a
	// "facebook_export" directory next to the archive.
	ExtractDir string
}

// mojibakeFixer repairs the UTF-8-as-Latin-1 damage Facebook exports carry in
// page names.
var mojibakeFixer = strings.NewReplacer(
	"Ã½", "ý", "Ã¡", "á", "Ã©", "é", "Ã­", "í", "Ã³", "ó", "Ãº", "ú",
	"Ã¤", "ä", "Ã¶", "ö", "Ã¼", "ü", "Ã±", "ñ", "Ã¨", "è",
)

// ParseExport parses a Facebook export from a .zip or .json file.
func (p *Parser) ParseExport(path string) (*Export, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("export file not found: %w", err)
	}
	if info.IsDir() {
		return p.parseExtracted(path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".zip":
		return p.parseZip(path)
	case ".json":
		return p.parseJSONFile(path)
	default:
		return nil, fmt.Errorf("unsupported export format %s (want .zip or .json)", filepath.Ext(path))
	}
}

// parseZip unpacks the archive and parses the extracted tree.
func (p *Parser) parseZip(zipPath string) (*Export, error) {
	extractDir := p.ExtractDir
	if extractDir == "" {
		extractDir = filepath.Join(filepath.Dir(zipPath), "facebook_export")
	}

	// Start from a clean extraction
	if err := os.RemoveAll(extractDir); err != nil {
		return nil, fmt.Errorf("failed to clean extraction dir: %w", err)
	}
	if err := os.MkdirAll(extractDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create extraction dir: %w", err)
	}

	if err := unzip(zipPath, extractDir); err != nil {
		_ = os.RemoveAll(extractDir)
		return nil, fmt.Errorf("failed to extract %s: %w", zipPath, err)
	}

	export, err := p.parseExtracted(extractDir)
	if err != nil {
		return nil, err
	}
	export.ExtractDir = extractDir
	return export, nil
}

// parseExtracted walks an unpacked export tree and collects everything it
// recognizes, JSON and HTML files alike.
func (p *Parser) parseExtracted(root string) (*Export, error) {
	export := &Export{}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		name := strings.ToLower(d.Name())
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		relLower := strings.ToLower(filepath.ToSlash(rel))

		switch {
		case strings.HasSuffix(name, ".json"):
			// Per-file failures are tolerated: one odd file should not
			// sink the whole import.
			_ = p.parseJSONInto(export, path, root, name, relLower)
		case strings.HasSuffix(name, ".html") || strings.HasSuffix(name, ".htm"):
			_ = p.parseHTMLInto(export, path, root, name)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk export tree: %w", err)
	}

	return export, nil
}

// parseJSONInto routes one JSON file to the right section parser based on its
// name, mirroring the layout of current Facebook exports.
func (p *Parser) parseJSONInto(export *Export, path, root, name, relLower string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	switch {
	case strings.Contains(name, "your_posts") || strings.Contains(name, "check_ins"):
		export.Posts = append(export.Posts, parsePosts(data)...)
	case strings.Contains(name, "your_uncategorized_photos") || strings.Contains(relLower, "album"):
		export.Photos = append(export.Photos, parsePhotos(data, root)...)
	case strings.Contains(name, "pages_you"):
		export.Interests = append(export.Interests, parseInterests(data)...)
	case strings.Contains(name, "profile_information"):
		mergeProfile(&export.Profile, parseProfile(data))
		export.WorkEducation = append(export.WorkEducation, parseWorkEducation(data)...)
	}
	return nil
}

// parseJSONFile handles a standalone export file that may mix sections.
func (p *Parser) parseJSONFile(path string) (*Export, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read export file: %w", err)
	}

	root := filepath.Dir(path)
	export := &Export{
		Photos:        parsePhotos(data, root),
		Posts:         parsePosts(data),
		Interests:     parseInterests(data),
		WorkEducation: parseWorkEducation(data),
	}
	mergeProfile(&export.Profile, parseProfile(data))
	return export, nil
}

// Raw JSON shapes of the export files. Facebook has shipped several layouts;
// the parsers below accept both the v2 keys and the newer ones.

type rawPhotoFile struct {
	OtherPhotos []rawPhoto `json:"other_photos_v2"`
	PhotosV2    []rawPhoto `json:"photos_v2"`
	AlbumName   string     `json:"name"`
	Photos      []rawPhoto `json:"photos"`
}

type rawPhoto struct {
	Title             string `json:"title"`
	Description       string `json:"description"`
	URI               string `json:"uri"`
	CreationTimestamp int64  `json:"creation_timestamp"`
}

func parsePhotos(data []byte, root string) []Photo {
	var file rawPhotoFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil
	}

	var photos []Photo
	appendAll := func(raws []rawPhoto, defaultTitle string) {
		for _, raw := range raws {
			title := raw.Title
			if title == "" {
				title = defaultTitle
			}
			photos = append(photos, Photo{
				Title:       title,
				Description: raw.Description,
				URI:         raw.URI,
				CreatedAt:   fromUnix(raw.CreationTimestamp),
				LocalPath:   findPhotoFile(raw.URI, root),
			})
		}
	}

	appendAll(file.OtherPhotos, "Uncategorized Photo")
	appendAll(file.PhotosV2, "")
	albumTitle := file.AlbumName
	if albumTitle == "" {
		albumTitle = "Unknown Album"
	}
	appendAll(file.Photos, albumTitle)
	return photos
}

type rawPost struct {
	Title     string `json:"title"`
	Timestamp int64  `json:"timestamp"`
}

func parsePosts(data []byte) []Post {
	// Posts files are a bare JSON array
	var raws []rawPost
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil
	}

	var posts []Post
	for _, raw := range raws {
		posts = append(posts, Post{Title: raw.Title, CreatedAt: fromUnix(raw.Timestamp)})
	}
	return posts
}

type rawLikesFile struct {
	PageLikes []rawLike `json:"page_likes_v2"`
}

type rawLike struct {
	Name      string `json:"name"`
	URL       string `json:"url"`
	Timestamp int64  `json:"timestamp"`
}

func parseInterests(data []byte) []Interest {
	var file rawLikesFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil
	}

	var interests []Interest
	for _, raw := range file.PageLikes {
		name := mojibakeFixer.Replace(raw.Name)
		if name == "" {
			continue
		}
		interests = append(interests, Interest{
			Name:      name,
			Category:  "Page",
			URL:       raw.URL,
			CreatedAt: fromUnix(raw.Timestamp),
		})
	}
	return interests
}

type rawProfileFile struct {
	Profile *rawProfile `json:"profile_v2"`
}

type rawProfile struct {
	Name struct {
		FullName string `json:"full_name"`
	} `json:"name"`
	Birthday *struct {
		Year  int `json:"year"`
		Month int `json:"month"`
		Day   int `json:"day"`
	} `json:"birthday"`
	CurrentCity *struct {
		Name string `json:"name"`
	} `json:"current_city"`
	Hometown *struct {
		Name string `json:"name"`
	} `json:"hometown"`
	Relationship *struct {
		Status string `json:"status"`
	} `json:"relationship"`
	Bio *struct {
		Text string `json:"text"`
	} `json:"bio"`
}

func parseProfile(data []byte) ProfileInfo {
	var file rawProfileFile
	if err := json.Unmarshal(data, &file); err != nil || file.Profile == nil {
		return ProfileInfo{}
	}

	raw := file.Profile
	info := ProfileInfo{Name: raw.Name.FullName}
	if raw.Birthday != nil && raw.Birthday.Year > 0 {
		info.Birthday = fmt.Sprintf("%04d-%02d-%02d", raw.Birthday.Year, raw.Birthday.Month, raw.Birthday.Day)
	}
	if raw.CurrentCity != nil {
		info.Location = raw.CurrentCity.Name
	}
	if raw.Hometown != nil {
		info.Hometown = raw.Hometown.Name
	}
	if raw.Relationship != nil {
		info.RelationshipStatus = raw.Relationship.Status
	}
	if raw.Bio != nil {
		info.Bio = raw.Bio.Text
	}
	return info
}

type rawHistoryFile struct {
	Work      []rawWork      `json:"work_v2"`
	Education []rawEducation `json:"education_v2"`
}

type rawWork struct {
	Employer       string `json:"employer"`
	Position       string `json:"position"`
	Location       string `json:"location"`
	StartTimestamp int64  `json:"start_timestamp"`
	EndTimestamp   int64  `json:"end_timestamp"`
}

type rawEducation struct {
	School         string `json:"school"`
	Degree         string `json:"degree"`
	StartTimestamp int64  `json:"start_timestamp"`
	EndTimestamp   int64  `json:"end_timestamp"`
}

func parseWorkEducation(data []byte) []WorkEducation {
	var file rawHistoryFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil
	}

	var entries []WorkEducation
	for _, raw := range file.Work {
		entries = append(entries, WorkEducation{
			Kind:     "work",
			Name:     raw.Employer,
			Position: raw.Position,
			Location: raw.Location,
			Start:    formatUnixDate(raw.StartTimestamp),
			End:      formatUnixDate(raw.EndTimestamp),
		})
	}
	for _, raw := range file.Education {
		entries = append(entries, WorkEducation{
			Kind:     "education",
			Name:     raw.School,
			Position: raw.Degree,
			Start:    formatUnixDate(raw.StartTimestamp),
			End:      formatUnixDate(raw.EndTimestamp),
		})
	}
	return entries
}

// findPhotoFile resolves an export-relative photo URI to a file on disk. It
// tries the exact path, then progressively shorter trailing path fragments,
// then a filename search, matching the loose way real exports reference media.
func findPhotoFile(uri, root string) string {
	if uri == "" {
		return ""
	}

	candidate := filepath.Join(root, filepath.FromSlash(uri))
	if fileExists(candidate) {
		return candidate
	}

	parts := strings.Split(uri, "/")
	for keep := len(parts) - 1; keep >= 1 && keep >= len(parts)-3; keep-- {
		candidate = filepath.Join(root, filepath.Join(parts[len(parts)-keep:]...))
		if fileExists(candidate) {
			return candidate
		}
	}

	// Last resort: search for the bare filename anywhere under root
	filename := parts[len(parts)-1]
	var found string
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || found != "" || d.IsDir() {
			return nil
		}
		if d.Name() == filename {
			found = path
			return fs.SkipAll
		}
		return nil
	})
	return found
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func mergeProfile(dst *ProfileInfo, src ProfileInfo) {
	if dst.Name == "" {
		dst.Name = src.Name
	}
	if dst.Birthday == "" {
		dst.Birthday = src.Birthday
	}
	if dst.Location == "" {
		dst.Location = src.Location
	}
	if dst.Hometown == "" {
		dst.Hometown = src.Hometown
	}
	if dst.RelationshipStatus == "" {
		dst.RelationshipStatus = src.RelationshipStatus
	}
	if dst.Bio == "" {
		dst.Bio = src.Bio
	}
}

func fromUnix(ts int64) time.Time {
	if ts <= 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}

func formatUnixDate(ts int64) string {
	if ts <= 0 {
		return ""
	}
	return time.Unix(ts, 0).UTC().Format("2006-01-02")
}

// unzip extracts an archive into dest, refusing entries that escape it.
func unzip(zipPath, dest string) error {
	reader, err := zip.OpenReader(zipPath)
	if err != nil {
		return err
	}
	defer func() { _ = reader.Close() }()

	for _, file := range reader.File {
		target := filepath.Join(dest, filepath.FromSlash(file.Name))
		if !strings.HasPrefix(target, filepath.Clean(dest)+string(os.PathSeparator)) {
			return fmt.Errorf("archive entry escapes extraction dir: %s", file.Name)
		}

		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return err
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return err
		}
		if err := extractFile(file, target); err != nil {
			return err
		}
	}
	return nil
}

func extractFile(file *zip.File, target string) error {
	src, err := file.Open()
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	dst, err := os.Create(target)
	if err != nil {
		return err
	}
	defer func() { _ = dst.Close() }()

	_, err = io.Copy(dst, src)
	return err
}
