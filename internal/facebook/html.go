package facebook

import (
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Facebook's alternate download format ships the same data as HTML pages.
// The parsers below pull out what the pipeline can use: liked pages and photo
// references.

// parseHTMLInto routes one HTML file to the right section parser.
func (p *Parser) parseHTMLInto(export *Export, path, root, name string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(data)))
	if err != nil {
		return err
	}

	switch {
	case strings.Contains(name, "pages_you") || strings.Contains(name, "liked"):
		export.Interests = append(export.Interests, parseHTMLInterests(doc)...)
	case strings.Contains(name, "photos") || strings.Contains(name, "album"):
		export.Photos = append(export.Photos, parseHTMLPhotos(doc, root)...)
	}
	return nil
}

// parseHTMLInterests extracts liked-page names from a likes page. The export
// renders each like as a list item or a leaf div; both are tried.
func parseHTMLInterests(doc *goquery.Document) []Interest {
	seen := make(map[string]bool)
	var interests []Interest

	add := func(_ int, s *goquery.Selection) {
		// Leaf nodes only; container divs repeat the same text
		if s.Children().Length() > 0 {
			return
		}
		name := mojibakeFixer.Replace(strings.TrimSpace(s.Text()))
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		interests = append(interests, Interest{Name: name, Category: "Page"})
	}

	if items := doc.Find("li"); items.Length() > 0 {
		items.Each(add)
		return interests
	}
	doc.Find("div").Each(add)
	return interests
}

// parseHTMLPhotos extracts image references and resolves them to files in the
// extracted tree.
func parseHTMLPhotos(doc *goquery.Document, root string) []Photo {
	var photos []Photo
	doc.Find("img[src]").Each(func(_ int, s *goquery.Selection) {
		src, exists := s.Attr("src")
		if !exists || src == "" || strings.HasPrefix(src, "http") || strings.HasPrefix(src, "data:") {
			return
		}
		photos = append(photos, Photo{
			Title:     strings.TrimSpace(s.AttrOr("alt", "")),
			URI:       src,
			LocalPath: findPhotoFile(src, root),
		})
	})
	return photos
}
