// Package asura parses series pages of Asura Scans.
package asura

import (
	"fmt"

	"github.com/andybalholm/cascadia"
	"github.com/brogergvhs/mangatrack/internal/manga"
	"github.com/brogergvhs/mangatrack/internal/providers/extract"
)

var (
	chapterHeading = cascadia.MustCompile("#chapterlist > ul")
	seriesTitle    = cascadia.MustCompile("h1")
	coverImage     = cascadia.MustCompile("img.attachment-.size-.wp-post-image")
)

type Parser struct{}

func New() Parser {
	return Parser{}
}

// Parse extracts the latest chapter from a series page. The page is parsed
// once; a missing cover image only adds a note to the result.
func (Parser) Parse(html, sourceURL string) (*manga.Result, error) {
	doc, err := extract.Parse(html)
	if err != nil {
		return nil, err
	}

	heading, err := extract.FirstMatchingText(doc, chapterHeading)
	if err != nil {
		return nil, fmt.Errorf("chapter heading: %w", err)
	}

	title, err := extract.FirstMatchingText(doc, seriesTitle)
	if err != nil {
		return nil, fmt.Errorf("title: %w", err)
	}

	chapter, err := extract.ParseChapterNumber(heading)
	if err != nil {
		return nil, fmt.Errorf("chapter number: %w", err)
	}

	res := &manga.Result{
		Record: manga.Record{
			Title:      title,
			SourceURLs: []string{sourceURL},
			Chapter:    chapter,
		},
	}

	if ct, ok := extract.TextAfterSeparator(heading, ':'); ok {
		res.Record.ChapterTitle = &ct
	}

	img, err := extract.FirstMatchingAttribute(doc, coverImage, "src")
	if err != nil {
		res.Notes = append(res.Notes, manga.Note{
			Field: "image",
			Err:   fmt.Errorf("error getting the image for %s: %w", title, err),
		})
	} else {
		res.Record.ImageURL = &img
	}

	return res, nil
}
