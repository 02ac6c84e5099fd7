package yahoo

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	defaultCalendarURL = "https://finance.yahoo.com/calendar/earnings"
	defaultChartURL    = "https://query1.finance.yahoo.com/v8/finance/chart"

	userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"
)

// Client is a Yahoo Finance client for the earnings calendar page and the
// daily-close chart API.
type Client struct {
	client      *http.Client
	calendarURL string
	chartURL    string
	limiter     *rate.Limiter
	log         zerolog.Logger
}

// Options configures a Client. Zero values fall back to production defaults.
type Options struct {
	CalendarURL string
	ChartURL    string
	Timeout     time.Duration
}

// NewClient creates a new Yahoo Finance client
func NewClient(opts Options, log zerolog.Logger) *Client {
	if opts.CalendarURL == "" {
		opts.CalendarURL = defaultCalendarURL
	}
	if opts.ChartURL == "" {
		opts.ChartURL = defaultChartURL
	}
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}
	return &Client{
		client:      &http.Client{Timeout: opts.Timeout},
		calendarURL: opts.CalendarURL,
		chartURL:    opts.ChartURL,
		// Yahoo throttles aggressive scrapers; stay polite.
		limiter: rate.NewLimiter(rate.Every(300*time.Millisecond), 2),
		log:     log.With().Str("client", "yahoo").Logger(),
	}
}

// EarningsToday fetches the earnings-calendar page for the given day and
// parses its table into raw rows. Rows whose EPS fields are missing or
// unparseable are dropped.
func (c *Client) EarningsToday(ctx context.Context, day time.Time) ([]EarningsRow, error) {
	params := url.Values{}
	params.Add("day", day.Format("2006-01-02"))

	body, err := c.get(ctx, c.calendarURL+"?"+params.Encode())
	if err != nil {
		return nil, errors.Wrap(err, "fetch earnings calendar")
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, errors.Wrap(err, "parse earnings calendar page")
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, errors.New("no earnings table in calendar page")
	}

	cols := headerIndex(table)
	symbolCol, okSymbol := cols["Symbol"]
	companyCol, okCompany := cols["Company"]
	estimateCol, okEstimate := cols["EPS Estimate"]
	reportedCol, okReported := cols["Reported EPS"]
	if !okSymbol || !okCompany || !okEstimate || !okReported {
		return nil, errors.Errorf("earnings table is missing expected columns, got %v", headerNames(cols))
	}

	var rows []EarningsRow
	table.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td").Map(func(_ int, td *goquery.Selection) string {
			return strings.TrimSpace(td.Text())
		})
		if len(cells) <= maxIndex(symbolCol, companyCol, estimateCol, reportedCol) {
			return
		}

		estimate, err := parseEPS(cells[estimateCol])
		if err != nil {
			return
		}
		reported, err := parseEPS(cells[reportedCol])
		if err != nil {
			return
		}
		if cells[symbolCol] == "" {
			return
		}

		rows = append(rows, EarningsRow{
			Symbol:       cells[symbolCol],
			Company:      cells[companyCol],
			EstimatedEPS: estimate,
			ReportedEPS:  reported,
		})
	})

	c.log.Debug().Int("rows", len(rows)).Str("day", day.Format("2006-01-02")).Msg("Parsed earnings calendar")
	return rows, nil
}

// LastTwoCloses fetches recent daily closes for a symbol and returns up to
// the last two non-null values, oldest first.
func (c *Client) LastTwoCloses(ctx context.Context, symbol string) ([]float64, error) {
	params := url.Values{}
	params.Add("interval", "1d")
	params.Add("range", "5d")

	body, err := c.get(ctx, c.chartURL+"/"+url.PathEscape(symbol)+"?"+params.Encode())
	if err != nil {
		return nil, errors.Wrapf(err, "fetch chart for %s", symbol)
	}
	defer body.Close()

	var result struct {
		Chart struct {
			Result []struct {
				Indicators struct {
					Quote []struct {
						Close []*float64 `json:"close"`
					} `json:"quote"`
				} `json:"indicators"`
			} `json:"result"`
			Error interface{} `json:"error"`
		} `json:"chart"`
	}
	if err := json.NewDecoder(body).Decode(&result); err != nil {
		return nil, errors.Wrapf(err, "parse chart response for %s", symbol)
	}
	if result.Chart.Error != nil {
		return nil, errors.Errorf("chart API error for %s: %v", symbol, result.Chart.Error)
	}
	if len(result.Chart.Result) == 0 || len(result.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, nil
	}

	var closes []float64
	for _, px := range result.Chart.Result[0].Indicators.Quote[0].Close {
		// Yahoo returns null closes for half-sessions and holidays.
		if px != nil && *px != 0 {
			closes = append(closes, *px)
		}
	}
	if len(closes) > 2 {
		closes = closes[len(closes)-2:]
	}
	return closes, nil
}

// get performs a rate-limited GET and returns the body on HTTP 200.
func (c *Client) get(ctx context.Context, reqURL string) (io.ReadCloser, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, errors.Errorf("unexpected status %d", resp.StatusCode)
	}
	return resp.Body, nil
}

// headerIndex maps header cell text to column index for the table.
func headerIndex(table *goquery.Selection) map[string]int {
	cols := make(map[string]int)
	table.Find("thead th").Each(func(i int, th *goquery.Selection) {
		cols[strings.TrimSpace(th.Text())] = i
	})
	return cols
}

func headerNames(cols map[string]int) []string {
	names := make([]string, 0, len(cols))
	for name := range cols {
		names = append(names, name)
	}
	return names
}

func maxIndex(indices ...int) int {
	max := 0
	for _, i := range indices {
		if i > max {
			max = i
		}
	}
	return max
}

// parseEPS parses an EPS cell, tolerating signs and thousands separators.
func parseEPS(cell string) (float64, error) {
	cell = strings.TrimSpace(strings.ReplaceAll(cell, ",", ""))
	cell = strings.TrimPrefix(cell, "+")
	if cell == "" || cell == "-" || cell == "N/A" {
		return 0, strconv.ErrSyntax
	}
	return strconv.ParseFloat(cell, 64)
}
