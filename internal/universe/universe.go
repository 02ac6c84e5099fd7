package universe

import "sort"

// sp500 is the fixed set of tracked S&P 500 tickers.
var sp500 = []string{
	"AAPL", "MSFT", "GOOGL", "AMZN", "NVDA", "META", "TSLA", "BRK.B", "JPM", "V",
	"JNJ", "PG", "UNH", "HD", "MA", "DIS", "NFLX", "ADBE", "CRM", "PYPL",
	"INTC", "AMD", "CSCO", "PEP", "ABBV", "TMO", "AVGO", "COST", "MCD", "ABT",
	"WMT", "ACN", "LIN", "NEE", "DHR", "TXN", "HON", "ORCL", "NKE", "QCOM",
	"LOW", "SBUX", "IBM", "GE", "CAT", "GS", "BLK", "AXP", "BKNG", "MDT",
	"CVS", "GILD", "ISRG", "SYK", "LRCX", "NOW", "MU", "ADP", "LMT", "BA",
	"PLD", "AMT", "SCHW", "T", "VZ", "CME", "PNC", "USB", "COF", "AON",
	"MMC", "CB", "PGR", "AFL", "MET", "TRV", "ALL", "PRU", "AIG", "BK",
	"SPGI", "MCO", "ICE", "CMG", "KLAC", "SNPS", "CDNS", "FTNT", "PANW",
	"CRWD", "ZS", "DDOG", "NET", "DOCU", "TWLO", "OKTA", "RBLX", "SNOW",
}

// Universe is the fixed set of entity identifiers the system tracks.
// It is built once at startup and never mutated afterwards.
type Universe struct {
	members map[string]struct{}
}

// New builds the tracked universe from the built-in S&P 500 list plus any
// extra identifiers from configuration.
func New(extra ...string) *Universe {
	members := make(map[string]struct{}, len(sp500)+len(extra))
	for _, symbol := range sp500 {
		members[symbol] = struct{}{}
	}
	for _, symbol := range extra {
		if symbol != "" {
			members[symbol] = struct{}{}
		}
	}
	return &Universe{members: members}
}

// Contains reports whether symbol is tracked. The match is exact and
// case-sensitive.
func (u *Universe) Contains(symbol string) bool {
	_, ok := u.members[symbol]
	return ok
}

// Symbols returns a sorted copy of the tracked identifiers.
func (u *Universe) Symbols() []string {
	out := make([]string, 0, len(u.members))
	for symbol := range u.members {
		out = append(out, symbol)
	}
	sort.Strings(out)
	return out
}

// Size returns the number of tracked identifiers.
func (u *Universe) Size() int {
	return len(u.members)
}
