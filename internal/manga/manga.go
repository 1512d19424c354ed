// Package manga holds the record produced by the site parsers and consumed
// by the store.
package manga

import (
	"fmt"
	"strings"
)

// Record is the latest-chapter snapshot of one manga.
type Record struct {
	// ID is zero until the record has been persisted.
	ID           int64
	Title        string
	ImageURL     *string
	SourceURLs   []string
	Chapter      int
	ChapterTitle *string
}

// Headline renders "<title> - Chapter N" with the chapter title appended
// when the page provided one.
func (r Record) Headline() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s - Chapter %d", r.Title, r.Chapter)
	if r.ChapterTitle != nil {
		b.WriteString(": ")
		b.WriteString(*r.ChapterTitle)
	}

	return b.String()
}

// Note is a non-fatal extraction problem. The field it concerns is left unset
// on the record.
type Note struct {
	Field string
	Err   error
}

func (n Note) String() string {
	return fmt.Sprintf("%s: %v", n.Field, n.Err)
}

// Result is a successfully extracted record plus any non-fatal notes.
type Result struct {
	Record Record
	Notes  []Note
}

func (r *Result) HasNotes() bool {
	return len(r.Notes) > 0
}
