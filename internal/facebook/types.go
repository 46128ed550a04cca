// Package facebook imports Facebook data-export archives and maps them into
// profile facts and candidate photos for the optimization pipeline.
package facebook

import "time"

// Export holds the data extracted from one Facebook data export.
type Export struct {
	Profile       ProfileInfo     `json:"profile_info"`
	Photos        []Photo         `json:"photos"`
	Posts         []Post          `json:"posts"`
	Interests     []Interest      `json:"interests"`
	WorkEducation []WorkEducation `json:"work_education"`
	// ExtractDir is where a ZIP export was unpacked; empty for single-file
	// exports.
	ExtractDir string `json:"extract_dir,omitempty"`
}

// ProfileInfo is the basic profile block of an export.
type ProfileInfo struct {
	Name               string `json:"name,omitempty"`
	Birthday           string `json:"birthday,omitempty"` // YYYY-MM-DD
	Location           string `json:"location,omitempty"`
	Hometown           string `json:"hometown,omitempty"`
	RelationshipStatus string `json:"relationship_status,omitempty"`
	Bio                string `json:"bio,omitempty"`
}

// Photo is one photo entry from an export. LocalPath is the resolved on-disk
// file, empty when the referenced file is missing from the archive.
type Photo struct {
	Title       string    `json:"title,omitempty"`
	Description string    `json:"description,omitempty"`
	URI         string    `json:"uri"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
	LocalPath   string    `json:"local_path,omitempty"`
}

// Post is a timeline entry; only used to recover the profile name when the
// profile block is absent.
type Post struct {
	Title     string    `json:"title,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Interest is a liked page mapped to an interest.
type Interest struct {
	Name      string    `json:"name"`
	Category  string    `json:"category,omitempty"`
	URL       string    `json:"url,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// WorkEducation is a work or education history entry.
type WorkEducation struct {
	Kind     string `json:"kind"` // "work" or "education"
	Name     string `json:"name"` // employer or school
	Position string `json:"position,omitempty"`
	Location string `json:"location,omitempty"`
	Start    string `json:"start,omitempty"`
	End      string `json:"end,omitempty"` // empty means current
}
