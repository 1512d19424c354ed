package extract

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

var (
	ErrElementNotFound   = errors.New("DOM element not found")
	ErrAttributeNotFound = errors.New("attribute of element not found")
	ErrNumberFormat      = errors.New("no chapter number in text")
)

// Parse builds a document from raw page markup.
func Parse(html string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	return doc, nil
}

func first(doc *goquery.Document, m goquery.Matcher) (*goquery.Selection, error) {
	sel := doc.FindMatcher(m).First()
	if sel.Length() == 0 {
		return nil, ErrElementNotFound
	}

	return sel, nil
}

// FirstMatchingText returns the trimmed text of the first element matching m.
// Descendant text nodes are joined in document order without a separator.
func FirstMatchingText(doc *goquery.Document, m goquery.Matcher) (string, error) {
	sel, err := first(doc, m)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(sel.Text()), nil
}

// FirstMatchingAttribute returns the raw value of attribute name on the first
// element matching m.
func FirstMatchingAttribute(doc *goquery.Document, m goquery.Matcher, name string) (string, error) {
	sel, err := first(doc, m)
	if err != nil {
		return "", err
	}

	v, ok := sel.Attr(name)
	if !ok {
		return "", ErrAttributeNotFound
	}

	return v, nil
}

// FirstDigitRun returns the leftmost run of ASCII digits in s, or "" when s
// has none.
func FirstDigitRun(s string) string {
	start := -1
	for i := 0; i < len(s); i++ {
		isDigit := s[i] >= '0' && s[i] <= '9'
		switch {
		case isDigit && start < 0:
			start = i
		case !isDigit && start >= 0:
			return s[start:i]
		}
	}

	if start < 0 {
		return ""
	}

	return s[start:]
}

// TextAfterSeparator returns the trimmed text following the first sep in s.
// It reports false when sep is missing or nothing but whitespace follows it.
func TextAfterSeparator(s string, sep rune) (string, bool) {
	idx := strings.IndexRune(s, sep)
	if idx < 0 {
		return "", false
	}

	rest := strings.TrimSpace(s[idx+utf8.RuneLen(sep):])
	if rest == "" {
		return "", false
	}

	return rest, true
}

// ParseChapterNumber reads the first digit run of s as an integer.
func ParseChapterNumber(s string) (int, error) {
	digits := FirstDigitRun(s)
	if digits == "" {
		return 0, fmt.Errorf("%w: %q", ErrNumberFormat, s)
	}

	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrNumberFormat, digits, err)
	}

	return n, nil
}
