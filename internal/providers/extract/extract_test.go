package extract

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

const page = `<!doctype html>
<html>
  <head><title>Series</title></head>
  <body>
    <h1>  Return of the <em>Mount Hua</em> Sect  </h1>
    <div id="chapterlist">
      <ul>
        <li><span>Chapter 123</span>: <b>The Return</b></li>
      </ul>
    </div>
    <img class="cover" src="/covers/mount-hua.webp?w=300">
    <img class="no-src" alt="placeholder">
  </body>
</html>`

func mustParse(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := Parse(html)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return doc
}

func TestFirstMatchingText(t *testing.T) {
	doc := mustParse(t, page)

	got, err := FirstMatchingText(doc, cascadia.MustCompile("h1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Return of the Mount Hua Sect" {
		t.Fatalf("expected concatenated trimmed text, got %q", got)
	}

	heading, err := FirstMatchingText(doc, cascadia.MustCompile("#chapterlist > ul"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if heading != "Chapter 123: The Return" {
		t.Fatalf("unexpected heading %q", heading)
	}
}

func TestFirstMatchingText_NoMatch(t *testing.T) {
	doc := mustParse(t, page)

	_, err := FirstMatchingText(doc, cascadia.MustCompile("h2.missing"))
	if !errors.Is(err, ErrElementNotFound) {
		t.Fatalf("expected ErrElementNotFound, got %v", err)
	}
}

func TestFirstMatchingAttribute(t *testing.T) {
	doc := mustParse(t, page)

	tests := []struct {
		name     string
		selector string
		attr     string
		want     string
		wantErr  error
	}{
		{name: "raw value", selector: "img.cover", attr: "src", want: "/covers/mount-hua.webp?w=300"},
		{name: "first of many", selector: "img", attr: "src", want: "/covers/mount-hua.webp?w=300"},
		{name: "missing element", selector: "img.attachment-", attr: "src", wantErr: ErrElementNotFound},
		{name: "missing attribute", selector: "img.no-src", attr: "src", wantErr: ErrAttributeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FirstMatchingAttribute(doc, cascadia.MustCompile(tt.selector), tt.attr)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFirstDigitRun(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Chapter 123: The Return", "123"},
		{"no numbers here", ""},
		{"", ""},
		{"Chapter 45.5: Into the Fire", "45"},
		{"42", "42"},
		{"ch.007 vol 2", "007"},
		{"Chapter ١٢ then 9", "9"},
		{"end with digits 88", "88"},
	}

	for _, tt := range tests {
		if got := FirstDigitRun(tt.in); got != tt.want {
			t.Errorf("FirstDigitRun(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTextAfterSeparator(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"Chapter 123: The Return", "The Return", true},
		{"Chapter 123", "", false},
		{"Chapter 123:   ", "", false},
		{"Chapter 1: Part: Two", "Part: Two", true},
		{":lead", "lead", true},
	}

	for _, tt := range tests {
		got, ok := TextAfterSeparator(tt.in, ':')
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("TextAfterSeparator(%q) = (%q, %t), want (%q, %t)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestParseChapterNumber(t *testing.T) {
	n, err := ParseChapterNumber("Chapter 45.5: Into the Fire")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 45 {
		t.Fatalf("expected 45, got %d", n)
	}

	if _, err := ParseChapterNumber("Prologue"); !errors.Is(err, ErrNumberFormat) {
		t.Fatalf("expected ErrNumberFormat for text without digits, got %v", err)
	}

	huge := "Chapter " + strings.Repeat("9", 40)
	if _, err := ParseChapterNumber(huge); !errors.Is(err, ErrNumberFormat) {
		t.Fatalf("expected ErrNumberFormat on overflow, got %v", err)
	}
}

func TestHelpersConcurrentUse(t *testing.T) {
	doc := mustParse(t, page)
	m := cascadia.MustCompile("#chapterlist > ul")

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			text, err := FirstMatchingText(doc, m)
			if err != nil {
				errs <- err
				return
			}
			if FirstDigitRun(text) != "123" {
				errs <- errors.New("unexpected digit run " + FirstDigitRun(text))
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}
