package diversity

import (
	"net/url"
	"strings"

	"github.com/vidurdewan/the-digest-sub002/internal/domain"
)

var feedHostPrefixes = []string{"www.", "feeds.", "rss.", "news."}

// NormalizePublication derives a publication key from an article URL by
// stripping common feed subdomains. It returns "" when the URL has no host.
func NormalizePublication(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return ""
	}
	if !strings.Contains(rawURL, "://") {
		rawURL = "https://" + rawURL
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	host := strings.ToLower(parsed.Hostname())
	for _, prefix := range feedHostPrefixes {
		if strings.HasPrefix(host, prefix) {
			host = strings.TrimPrefix(host, prefix)
			break
		}
	}
	return host
}

// PublicationKey identifies the outlet of an article, falling back to the
// source label when the URL carries no host.
func PublicationKey(article domain.Article) string {
	if key := NormalizePublication(article.URL); key != "" {
		return key
	}
	return strings.ToLower(strings.TrimSpace(article.Source))
}
