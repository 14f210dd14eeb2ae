package collector

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"ReportDog/internal/model"
)

const (
	googleNewsURL = "https://news.google.com/rss/search"

	// MaxNewsItems is the number of headlines kept per tone.
	MaxNewsItems = 5
)

type newsKeywords struct {
	Include []string
	Exclude []string
}

// newsTones holds the search keywords per tone and the title words that disqualify a hit.
var newsTones = map[model.NewsTone]newsKeywords{
	model.NewsPositive: {
		Include: []string{"營收新高", "獲利創新高", "成長", "表揚", "得獎", "配息", "殖利率", "優良", "訂單", "擴廠"},
		Exclude: []string{"衰退", "虧損", "弊案", "意外", "裁罰", "重挫"},
	},
	model.NewsNegative: {
		Include: []string{"弊案", "掏空", "工安意外", "判刑", "起訴", "違約", "假帳", "裁罰", "停工", "汙染", "求償", "爭議", "重罰", "違規"},
		Exclude: []string{"表揚", "獲獎", "新高", "成長", "優良", "金質獎"},
	},
}

var nameNoise = []string{"股份有限公司", "有限公司", "（股）公司", "(股)公司", "-KY", "*"}

// CleanCompanyName strips legal suffixes so the name matches headlines.
func CleanCompanyName(full string) string {
	name := full
	for _, n := range nameNoise {
		name = strings.ReplaceAll(name, n, "")
	}
	return strings.TrimSpace(name)
}

type rssFeed struct {
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	PubDate     string `xml:"pubDate"`
	Description string `xml:"description"`
	Source      struct {
		Name string `xml:",chardata"`
	} `xml:"source"`
}

// GoogleNews implements NewsFetcher over the Google News RSS search.
type GoogleNews struct {
	Client  *http.Client
	BaseURL string
}

// NewGoogleNews creates a news radar.
func NewGoogleNews(client *http.Client) *GoogleNews {
	return &GoogleNews{Client: client, BaseURL: googleNewsURL}
}

// FetchNews returns up to MaxNewsItems headlines of the given tone whose title
// mentions the cleaned company name and none of the tone's exclude terms.
func (g *GoogleNews) FetchNews(ctx context.Context, name string, tone model.NewsTone) ([]model.NewsItem, error) {
	target := CleanCompanyName(name)
	if target == "" {
		return nil, nil
	}
	kw, ok := newsTones[tone]
	if !ok {
		return nil, fmt.Errorf("unknown news tone %q", tone)
	}

	query := fmt.Sprintf(`"%s" (%s)`, target, strings.Join(kw.Include, " OR "))
	u := fmt.Sprintf("%s?q=%s&hl=zh-TW&gl=TW&ceid=TW:zh-Hant", g.BaseURL, url.QueryEscape(query))

	body, err := getBody(ctx, g.Client, u)
	if err != nil {
		return nil, fmt.Errorf("google news: %w", err)
	}
	var feed rssFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("google news decode: %w", err)
	}
	return filterNews(feed.Channel.Items, target, kw.Exclude), nil
}

func filterNews(items []rssItem, target string, exclude []string) []model.NewsItem {
	var out []model.NewsItem
	for _, it := range items {
		if !strings.Contains(it.Title, target) || containsAny(it.Title, exclude) {
			continue
		}
		source := strings.TrimSpace(it.Source.Name)
		if source == "" {
			source = "Google News"
		}
		out = append(out, model.NewsItem{
			Title:     it.Title,
			Link:      it.Link,
			Published: it.PubDate,
			Source:    source,
			Summary:   htmlText(it.Description),
		})
		if len(out) >= MaxNewsItems {
			break
		}
	}
	return out
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// htmlText reduces an HTML fragment to its whitespace-normalised text.
func htmlText(fragment string) string {
	if fragment == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
