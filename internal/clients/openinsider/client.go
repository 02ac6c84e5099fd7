package openinsider

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

const (
	defaultPageURL = "http://openinsider.com/latest-insider-trading"

	// openMarketPurchase is the only trade type admitted downstream.
	openMarketPurchase = "P - Open market purchase"
)

// Purchase is one raw open-market purchase disclosure before universe
// filtering.
type Purchase struct {
	Symbol      string          `json:"symbol"`
	TradeDate   string          `json:"trade_date"`
	InsiderName string          `json:"insider_name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    decimal.Decimal `json:"quantity"`
	Value       decimal.Decimal `json:"value"`
}

// Client fetches recent insider purchases from the OpenInsider page.
type Client struct {
	client  *http.Client
	pageURL string
	limit   int
	limiter *rate.Limiter
	log     zerolog.Logger
}

// Options configures a Client. Zero values fall back to production defaults.
type Options struct {
	PageURL string
	Timeout time.Duration
	Limit   int // max purchases returned, most recent first
}

// NewClient creates a new OpenInsider client
func NewClient(opts Options, log zerolog.Logger) *Client {
	if opts.PageURL == "" {
		opts.PageURL = defaultPageURL
	}
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Limit == 0 {
		opts.Limit = 10
	}
	return &Client{
		client:  &http.Client{Timeout: opts.Timeout},
		pageURL: opts.PageURL,
		limit:   opts.Limit,
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
		log:     log.With().Str("client", "openinsider").Logger(),
	}
}

// RecentPurchases fetches the latest-insider-trading page and returns the
// open-market purchase rows, capped at the configured limit. Rows of any
// other trade type, and rows with unparseable money fields, are dropped.
func (c *Client) RecentPurchases(ctx context.Context) ([]Purchase, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "fetch insider trading page")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("insider trading page returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "parse insider trading page")
	}

	table := doc.Find("table.tinytable").First()
	if table.Length() == 0 {
		table = doc.Find("table").First()
	}
	if table.Length() == 0 {
		return nil, errors.New("no trades table in insider trading page")
	}

	cols := make(map[string]int)
	table.Find("thead th").Each(func(i int, th *goquery.Selection) {
		cols[strings.TrimSpace(th.Text())] = i
	})
	required := []string{"Ticker", "Trade Date", "Insider Name", "Trade Type", "Price", "Qty", "Value"}
	indices := make(map[string]int, len(required))
	lastCol := 0
	for _, name := range required {
		i, ok := cols[name]
		if !ok {
			return nil, errors.Errorf("insider table is missing column %q", name)
		}
		indices[name] = i
		if i > lastCol {
			lastCol = i
		}
	}

	var purchases []Purchase
	table.Find("tbody tr").EachWithBreak(func(_ int, tr *goquery.Selection) bool {
		cells := tr.Find("td").Map(func(_ int, td *goquery.Selection) string {
			return strings.TrimSpace(td.Text())
		})
		if len(cells) <= lastCol {
			return true
		}
		if cells[indices["Trade Type"]] != openMarketPurchase {
			return true
		}

		price, errPrice := parseMoney(cells[indices["Price"]])
		quantity, errQty := parseMoney(cells[indices["Qty"]])
		value, errValue := parseMoney(cells[indices["Value"]])
		if errPrice != nil || errQty != nil || errValue != nil {
			return true
		}
		if cells[indices["Ticker"]] == "" || cells[indices["Insider Name"]] == "" {
			return true
		}

		purchases = append(purchases, Purchase{
			Symbol:      cells[indices["Ticker"]],
			TradeDate:   cells[indices["Trade Date"]],
			InsiderName: cells[indices["Insider Name"]],
			Price:       price,
			Quantity:    quantity,
			Value:       value,
		})
		return len(purchases) < c.limit
	})

	c.log.Debug().Int("purchases", len(purchases)).Msg("Parsed insider purchases")
	return purchases, nil
}

var moneyReplacer = strings.NewReplacer("$", "", ",", "", "+", "")

// parseMoney parses OpenInsider money cells like "+$1,234,567" or "$12.05".
func parseMoney(cell string) (decimal.Decimal, error) {
	return decimal.NewFromString(moneyReplacer.Replace(strings.TrimSpace(cell)))
}
