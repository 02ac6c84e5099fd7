package edgar

import (
	"context"
	"encoding/xml"
	"net/http"
	"regexp"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/net/html/charset"
	"golang.org/x/time/rate"
)

const defaultFeedURL = "https://www.sec.gov/cgi-bin/browse-edgar?action=getcurrent&type=8-K&count=100&output=atom"

// Filing is one raw entry from the EDGAR current-events feed.
type Filing struct {
	Title string `json:"title"`
	Link  string `json:"link"`
}

// Client fetches recent 8-K filings from the SEC EDGAR Atom feed.
type Client struct {
	client  *http.Client
	feedURL string
	limiter *rate.Limiter
	log     zerolog.Logger
}

// Options configures a Client. Zero values fall back to production defaults.
type Options struct {
	FeedURL string
	Timeout time.Duration
}

// NewClient creates a new EDGAR client
func NewClient(opts Options, log zerolog.Logger) *Client {
	if opts.FeedURL == "" {
		opts.FeedURL = defaultFeedURL
	}
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}
	return &Client{
		client:  &http.Client{Timeout: opts.Timeout},
		feedURL: opts.FeedURL,
		// SEC fair-access policy caps request rates per host.
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
		log:     log.With().Str("client", "edgar").Logger(),
	}
}

type atomFeed struct {
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	Title string `xml:"title"`
	Link  struct {
		Href string `xml:"href,attr"`
	} `xml:"link"`
}

// RecentFilings fetches and parses the current 8-K feed.
func (c *Client) RecentFilings(ctx context.Context) ([]Filing, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.feedURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "us-whisperer-pro admin@whisperer.pro")
	req.Header.Set("Accept", "application/atom+xml")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "fetch 8-K feed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("8-K feed returned status %d", resp.StatusCode)
	}

	var feed atomFeed
	dec := xml.NewDecoder(resp.Body)
	// The feed declares ISO-8859-1, which encoding/xml rejects without a
	// charset reader.
	dec.CharsetReader = charset.NewReaderLabel
	if err := dec.Decode(&feed); err != nil {
		return nil, errors.Wrap(err, "parse 8-K feed")
	}

	filings := make([]Filing, 0, len(feed.Entries))
	for _, entry := range feed.Entries {
		if entry.Title == "" {
			continue
		}
		filings = append(filings, Filing{Title: entry.Title, Link: entry.Link.Href})
	}

	c.log.Debug().Int("filings", len(filings)).Msg("Fetched 8-K feed")
	return filings, nil
}

var tickerPattern = regexp.MustCompile(`\(([^)]+)\)`)

// ExtractTicker pulls the first bracketed token out of a filing title,
// e.g. "8-K - Apple Inc. (AAPL) (CIK 0000320193)" yields "AAPL".
// Returns ok=false when the title carries no bracketed token; universe
// membership is the caller's concern.
func ExtractTicker(title string) (string, bool) {
	match := tickerPattern.FindStringSubmatch(title)
	if match == nil {
		return "", false
	}
	return match[1], true
}
