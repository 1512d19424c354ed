// Package providers maps a page's host to the parser that understands its
// markup.
package providers

import (
	"errors"
	"net/url"
	"sort"
	"strings"

	"github.com/brogergvhs/mangatrack/internal/manga"
	"github.com/brogergvhs/mangatrack/internal/providers/asura"
)

var ErrHostNotFound = errors.New("host is either not supported or not found")

type Parser interface {
	Parse(html, sourceURL string) (*manga.Result, error)
}

// Site is a supported publishing site.
type Site int

const (
	Unknown Site = iota
	AsuraScans
)

// hosts is read-only after init. Adding a site means a new Site value, an
// entry here and a case in Site.Parser.
var hosts = map[string]Site{
	"asura.gg": AsuraScans,
}

func (s Site) String() string {
	switch s {
	case AsuraScans:
		return "Asura Scans"
	default:
		return "unknown"
	}
}

func (s Site) Parser() (Parser, error) {
	switch s {
	case AsuraScans:
		return asura.New(), nil
	default:
		return nil, ErrHostNotFound
	}
}

// SiteFor looks up the site serving rawURL.
func SiteFor(rawURL string) (Site, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return Unknown, ErrHostNotFound
	}

	host := strings.ToLower(u.Hostname())
	if host == "" {
		return Unknown, ErrHostNotFound
	}

	site, ok := hosts[host]
	if !ok {
		return Unknown, ErrHostNotFound
	}

	return site, nil
}

// Resolve returns the parser for rawURL's host.
func Resolve(rawURL string) (Parser, error) {
	site, err := SiteFor(rawURL)
	if err != nil {
		return nil, err
	}

	return site.Parser()
}

// Parse resolves the parser for rawURL and runs it over html.
func Parse(rawURL, html string) (*manga.Result, error) {
	p, err := Resolve(rawURL)
	if err != nil {
		return nil, err
	}

	return p.Parse(html, rawURL)
}

// Hosts lists the supported hosts in alphabetical order.
func Hosts() []string {
	out := make([]string, 0, len(hosts))
	for h := range hosts {
		out = append(out, h)
	}
	sort.Strings(out)

	return out
}

// HostSite returns the site registered for host, or Unknown.
func HostSite(host string) Site {
	return hosts[strings.ToLower(host)]
}
