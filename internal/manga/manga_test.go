package manga

import (
	"errors"
	"testing"
)

func TestRecordHeadline(t *testing.T) {
	title := "Into the Fire"

	tests := []struct {
		name string
		rec  Record
		want string
	}{
		{
			name: "with chapter title",
			rec:  Record{Title: "Return of the Mount Hua Sect", Chapter: 45, ChapterTitle: &title},
			want: "Return of the Mount Hua Sect - Chapter 45: Into the Fire",
		},
		{
			name: "without chapter title",
			rec:  Record{Title: "Solo Leveling", Chapter: 0},
			want: "Solo Leveling - Chapter 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rec.Headline(); got != tt.want {
				t.Errorf("Headline() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNoteString(t *testing.T) {
	n := Note{Field: "image", Err: errors.New("DOM element not found")}
	if got := n.String(); got != "image: DOM element not found" {
		t.Fatalf("unexpected note string %q", got)
	}

	res := &Result{}
	if res.HasNotes() {
		t.Fatalf("empty result should have no notes")
	}
	res.Notes = append(res.Notes, n)
	if !res.HasNotes() {
		t.Fatalf("expected notes after append")
	}
}
