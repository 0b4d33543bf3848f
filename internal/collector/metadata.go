package collector

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"golang.org/x/net/html"
)

const maxFetchBytes = 4 << 20 // cap on fetched document size

// pageMeta holds structured metadata scraped from a document's head.
// OpenGraph properties win over plain meta tags, which win over <title>.
type pageMeta struct {
	Title         string
	Description   string
	Image         string
	OGType        string
	MusicDuration string // music:duration, seconds as a string

	docTitle        string
	metaDescription string
}

// fetchPage performs a GET and returns the raw document alongside its
// parsed head metadata
func fetchPage(ctx context.Context, client *http.Client, userAgent, url string) ([]byte, pageMeta, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, pageMeta{}, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := client.Do(req)
	if err != nil {
		return nil, pageMeta{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, pageMeta{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes))
	if err != nil {
		return nil, pageMeta{}, err
	}

	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, pageMeta{}, err
	}

	return body, extractMeta(doc), nil
}

// extractMeta walks the document collecting og: and plain meta tags
func extractMeta(doc *html.Node) pageMeta {
	var meta pageMeta
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if n.FirstChild != nil && meta.docTitle == "" {
					meta.docTitle = strings.TrimSpace(n.FirstChild.Data)
				}
			case "meta":
				property := attrValue(n, "property")
				name := attrValue(n, "name")
				content := attrValue(n, "content")
				switch {
				case property == "og:title":
					meta.Title = content
				case property == "og:description":
					meta.Description = content
				case property == "og:image":
					meta.Image = content
				case property == "og:type":
					meta.OGType = content
				case property == "music:duration":
					meta.MusicDuration = content
				case name == "description":
					meta.metaDescription = content
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if meta.Title == "" {
		meta.Title = meta.docTitle
	}
	if meta.Description == "" {
		meta.Description = meta.metaDescription
	}
	return meta
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// isTimeout reports whether a fetch error was a timeout or cancellation
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
