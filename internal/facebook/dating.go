package facebook

import (
	"sort"
	"strings"
	"time"

	"github.com/marek-bazler/dating-profile-optimizer/internal/types"
)

// maxImportedInterests bounds how many liked pages become interests.
const maxImportedInterests = 15

// ImportResult is a Facebook export reshaped for the optimization pipeline.
type ImportResult struct {
	Facts      types.ProfileFacts `json:"facts"`
	Name       string             `json:"name,omitempty"`
	PhotoPaths []string           `json:"photo_paths"`

	// Import statistics for user feedback
	TotalPhotosFound     int `json:"total_photos_found"`
	AvailablePhotosCount int `json:"available_photos_count"`
	InterestsFound       int `json:"interests_found"`
	PostsAnalyzed        int `json:"posts_analyzed"`
}

// ToImportResult maps a parsed export to profile facts and candidate photo
// paths: age from the birthday, occupation from the open-ended work entry,
// top interests from page likes, and photos with resolvable files sorted
// newest first.
func ToImportResult(export *Export, now time.Time) *ImportResult {
	result := &ImportResult{
		Name:             resolveName(export),
		TotalPhotosFound: len(export.Photos),
		InterestsFound:   len(export.Interests),
		PostsAnalyzed:    len(export.Posts),
	}

	result.Facts = types.ProfileFacts{
		Age:        ageFromBirthday(export.Profile.Birthday, now),
		Occupation: currentOccupation(export.WorkEducation),
		Location:   export.Profile.Location,
		Interests:  topInterests(export.Interests),
	}
	if export.Profile.Bio != "" {
		result.Facts.Personality = export.Profile.Bio
	}

	// Keep only photos whose files were actually found, newest first.
	available := make([]Photo, 0, len(export.Photos))
	for _, photo := range export.Photos {
		if photo.LocalPath != "" {
			available = append(available, photo)
		}
	}
	sort.SliceStable(available, func(i, j int) bool {
		return available[i].CreatedAt.After(available[j].CreatedAt)
	})

	for _, photo := range available {
		result.PhotoPaths = append(result.PhotoPaths, photo.LocalPath)
	}
	result.AvailablePhotosCount = len(result.PhotoPaths)

	return result
}

// resolveName prefers the profile block, falling back to names recovered from
// post titles ("Jane Doe shared a link").
func resolveName(export *Export) string {
	if export.Profile.Name != "" {
		return export.Profile.Name
	}

	for _, post := range export.Posts {
		title := post.Title
		if !strings.Contains(title, "shared") && !strings.Contains(title, "posted") {
			continue
		}
		words := strings.Fields(title)
		if len(words) < 2 {
			continue
		}
		candidate := words[0] + " " + words[1]
		lower := strings.ToLower(candidate)
		if strings.Contains(lower, "shared") || strings.Contains(lower, "posted") || strings.Contains(lower, "updated") {
			continue
		}
		return candidate
	}
	return ""
}

// ageFromBirthday computes whole years between the export birthday and now.
// Returns 0 (meaning unknown) when the birthday is absent or malformed.
func ageFromBirthday(birthday string, now time.Time) int {
	if birthday == "" {
		return 0
	}
	born, err := time.Parse("2006-01-02", birthday)
	if err != nil {
		return 0
	}

	age := now.Year() - born.Year()
	if now.YearDay() < born.YearDay() {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}

// currentOccupation builds "Position at Employer" from the first work entry
// without an end date.
func currentOccupation(entries []WorkEducation) string {
	for _, entry := range entries {
		if entry.Kind != "work" || entry.End != "" {
			continue
		}
		if entry.Position != "" && entry.Name != "" {
			return entry.Position + " at " + entry.Name
		}
		if entry.Position != "" {
			return entry.Position
		}
		if entry.Name != "" {
			return entry.Name
		}
	}
	return ""
}

// topInterests joins the first interests into a comma-separated list.
func topInterests(interests []Interest) string {
	var names []string
	for _, interest := range interests {
		if interest.Name == "" {
			continue
		}
		names = append(names, interest.Name)
		if len(names) == maxImportedInterests {
			break
		}
	}
	return strings.Join(names, ", ")
}
