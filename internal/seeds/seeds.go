// Package seeds supplies the initial URLs of a crawl.
package seeds

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
)

// Supplier turns a query into an ordered, finite list of seed URLs.
type Supplier interface {
	Seeds(ctx context.Context, query string) ([]string, error)
}

// Static ignores the query and returns its own URLs.
type Static []string

func (s Static) Seeds(context.Context, string) ([]string, error) {
	return dedupe(s, 0), nil
}

// File reads one URL per line; blank lines and lines starting with # are
// skipped.
type File string

func (f File) Seeds(context.Context, string) ([]string, error) {
	fh, err := os.Open(string(f))
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer fh.Close()

	var out []string
	sc := bufio.NewScanner(fh)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return dedupe(out, 0), nil
}

// Search scrapes a search engine results page. URLTemplate contains one %s
// that receives the escaped query; Selector picks the result anchors.
type Search struct {
	Client      *http.Client
	URLTemplate string
	Selector    string
	UserAgent   string
	Limit       int
}

func (s *Search) Seeds(ctx context.Context, query string) ([]string, error) {
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	endpoint := fmt.Sprintf(s.URLTemplate, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("User-Agent", s.UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("search %q: status %d", query, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse search results: %w", err)
	}

	var found []string
	doc.Find(s.Selector).Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok {
			return
		}
		if u := resultURL(endpoint, href); u != "" {
			found = append(found, u)
		}
	})
	seeds := dedupe(found, s.Limit)
	logrus.WithFields(logrus.Fields{"query": query, "seeds": len(seeds)}).Info("search seeds")
	return seeds, nil
}

// resultURL resolves href against the results page and unwraps redirect
// links that carry the target in a uddg parameter.
func resultURL(base, href string) string {
	bu, err := url.Parse(base)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	abs := bu.ResolveReference(ref)
	if target := abs.Query().Get("uddg"); target != "" {
		abs, err = url.Parse(target)
		if err != nil {
			return ""
		}
	}
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return ""
	}
	return abs.String()
}

func dedupe(in []string, limit int) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, u := range in {
		if seen[u] {
			continue
		}
		seen[u] = true
		out = append(out, u)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}
