package blog

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/reelnotes/reelnotes-server/internal/domain"
)

// FeedConfig describes the channel.
type FeedConfig struct {
	SiteURL     string
	Title       string
	Description string
}

// dublinCoreNS declares the dc prefix used for item creators. RSS 2.0
// reserves <author> for email addresses, which posts do not expose.
const dublinCoreNS = "http://purl.org/dc/elements/1.1/"

type rss struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	DCNS    string     `xml:"xmlns:dc,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	LastBuildDate string    `xml:"lastBuildDate,omitempty"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string  `xml:"title"`
	Link        string  `xml:"link"`
	GUID        rssGUID `xml:"guid"`
	PubDate     string  `xml:"pubDate"`
	Creator     string  `xml:"dc:creator,omitempty"`
	Description string  `xml:"description"`
}

type rssGUID struct {
	IsPermaLink bool   `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

// PostURL returns the public URL of a post.
func PostURL(siteURL, slug string) string {
	return strings.TrimRight(siteURL, "/") + "/blog/" + slug
}

// RenderFeed renders public posts as an RSS 2.0 document, newest first as given.
// Item GUIDs are post ids: slugs follow the username and may change.
func RenderFeed(cfg FeedConfig, posts []*domain.BlogPostSummary) ([]byte, error) {
	ch := rssChannel{
		Title:       cfg.Title,
		Link:        strings.TrimRight(cfg.SiteURL, "/") + "/blog",
		Description: cfg.Description,
		Items:       make([]rssItem, 0, len(posts)),
	}
	if len(posts) > 0 {
		ch.LastBuildDate = posts[0].UpdatedAt.UTC().Format(time.RFC1123Z)
	}

	for _, p := range posts {
		ch.Items = append(ch.Items, rssItem{
			Title:       p.Title,
			Link:        PostURL(cfg.SiteURL, p.Slug),
			GUID:        rssGUID{Value: p.ID},
			PubDate:     p.PublishedAt.UTC().Format(time.RFC1123Z),
			Creator:     p.Username,
			Description: p.MetaDescription,
		})
	}

	out, err := xml.MarshalIndent(rss{Version: "2.0", DCNS: dublinCoreNS, Channel: ch}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("render feed: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}
