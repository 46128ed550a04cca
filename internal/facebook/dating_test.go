package facebook

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var importNow = time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)

func TestToImportResult(t *testing.T) {
	export := &Export{
		Profile: ProfileInfo{
			Name:     "Alex Rivera",
			Birthday: "1995-06-15",
			Location: "Denver, Colorado",
			Bio:      "Coffee and mountains.",
		},
		WorkEducation: []WorkEducation{
			{Kind: "work", Name: "Old Shop", Position: "Intern", End: "2017-07-14"},
			{Kind: "work", Name: "Acme Corp", Position: "Software Engineer"},
			{Kind: "education", Name: "State University", Position: "BSc"},
		},
		Interests: []Interest{
			{Name: "Hiking Club"},
			{Name: "Board Games"},
		},
		Photos: []Photo{
			{URI: "a.jpg", LocalPath: "/tmp/a.jpg", CreatedAt: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)},
			{URI: "b.jpg", CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
			{URI: "c.jpg", LocalPath: "/tmp/c.jpg", CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
		},
		Posts: []Post{{Title: "Alex Rivera shared a link."}},
	}

	result := ToImportResult(export, importNow)

	assert.Equal(t, "Alex Rivera", result.Name)
	assert.Equal(t, 30, result.Facts.Age)
	assert.Equal(t, "Software Engineer at Acme Corp", result.Facts.Occupation)
	assert.Equal(t, "Denver, Colorado", result.Facts.Location)
	assert.Equal(t, "Hiking Club, Board Games", result.Facts.Interests)
	assert.Equal(t, "Coffee and mountains.", result.Facts.Personality)

	// Only photos with a resolved file, newest first
	assert.Equal(t, []string{"/tmp/c.jpg", "/tmp/a.jpg"}, result.PhotoPaths)
	assert.Equal(t, 3, result.TotalPhotosFound)
	assert.Equal(t, 2, result.AvailablePhotosCount)
	assert.Equal(t, 2, result.InterestsFound)
	assert.Equal(t, 1, result.PostsAnalyzed)
}

func TestToImportResultNameFallbackFromPosts(t *testing.T) {
	export := &Export{
		Posts: []Post{
			{Title: "updated their profile picture"},
			{Title: "Jamie Park shared a memory."},
		},
	}

	result := ToImportResult(export, importNow)
	assert.Equal(t, "Jamie Park", result.Name)
}

func TestToImportResultEmptyExport(t *testing.T) {
	result := ToImportResult(&Export{}, importNow)

	assert.Empty(t, result.Name)
	assert.Zero(t, result.Facts.Age)
	assert.Empty(t, result.Facts.Occupation)
	assert.Empty(t, result.PhotoPaths)
	assert.Zero(t, result.AvailablePhotosCount)
}

func TestToImportResultInterestCap(t *testing.T) {
	export := &Export{}
	for i := 0; i < 25; i++ {
		export.Interests = append(export.Interests, Interest{Name: fmt.Sprintf("Page %02d", i)})
	}

	result := ToImportResult(export, importNow)

	assert.Equal(t, 25, result.InterestsFound)
	assert.Contains(t, result.Facts.Interests, "Page 14")
	assert.NotContains(t, result.Facts.Interests, "Page 15")
}

func TestAgeFromBirthday(t *testing.T) {
	now := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 30, ageFromBirthday("1995-06-15", now))
	// Birthday later this year has not happened yet
	assert.Equal(t, 29, ageFromBirthday("1995-12-31", now))
	assert.Equal(t, 0, ageFromBirthday("", now))
	assert.Equal(t, 0, ageFromBirthday("not-a-date", now))
	assert.Equal(t, 0, ageFromBirthday("2030-01-01", now))
}

func TestCurrentOccupation(t *testing.T) {
	tests := []struct {
		name    string
		entries []WorkEducation
		want    string
	}{
		{
			name: "position and employer",
			entries: []WorkEducation{
				{Kind: "work", Name: "Acme", Position: "Engineer"},
			},
			want: "Engineer at Acme",
		},
		{
			name: "skips ended jobs",
			entries: []WorkEducation{
				{Kind: "work", Name: "Old", Position: "Intern", End: "2019-01-01"},
				{Kind: "work", Name: "New", Position: "Manager"},
			},
			want: "Manager at New",
		},
		{
			name: "skips education entries",
			entries: []WorkEducation{
				{Kind: "education", Name: "University", Position: "BSc"},
			},
			want: "",
		},
		{
			name: "employer only",
			entries: []WorkEducation{
				{Kind: "work", Name: "Acme"},
			},
			want: "Acme",
		},
		{
			name: "none",
			want: "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, currentOccupation(tc.entries))
		})
	}
}
