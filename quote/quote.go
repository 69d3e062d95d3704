// Package quote fetches live spot prices over HTTP.
package quote

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/etnz/cryptofolio"
	"github.com/etnz/cryptofolio/internal/logger"
)

const (
	// DefaultURL is the Coinbase spot price endpoint, formatted with the symbol and fiat.
	DefaultURL = "https://api.coinbase.com/v2/prices/%s-%s/spot"
	// DefaultPath extracts the price from the Coinbase response.
	DefaultPath = "$.data.amount"
)

// Client returns spot prices of crypto assets in a fiat currency.
//
// Quotes are cached for a TTL and requests are rate limited. A Client is safe for
// concurrent use.
type Client struct {
	http    *http.Client
	url     string
	path    string
	fiat    string
	cache   *cache.Cache
	limiter *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithURL sets the URL template, formatted with the symbol and the fiat currency.
func WithURL(url string) Option { return func(c *Client) { c.url = url } }

// WithPath sets the jsonpath of the price in the response.
func WithPath(path string) Option { return func(c *Client) { c.path = path } }

// WithFiat sets the currency of the quotes.
func WithFiat(fiat string) Option { return func(c *Client) { c.fiat = fiat } }

// WithTTL sets how long a quote is reused.
func WithTTL(ttl time.Duration) Option {
	return func(c *Client) { c.cache = cache.New(ttl, 2*ttl) }
}

// WithRate limits the number of requests per second.
func WithRate(perSecond float64) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1) }
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http = h } }

// New returns a Client quoting in EUR from Coinbase by default.
func New(opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{Timeout: 10 * time.Second},
		url:     DefaultURL,
		path:    DefaultPath,
		fiat:    "EUR",
		cache:   cache.New(time.Minute, 2*time.Minute),
		limiter: rate.NewLimiter(rate.Limit(3), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Quote returns the current price of one unit of symbol.
func (c *Client) Quote(ctx context.Context, symbol string) (float64, error) {
	if v, ok := c.cache.Get(symbol); ok {
		return v.(float64), nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return math.NaN(), fmt.Errorf("rate limiter for %s: %w", symbol, err)
	}
	addr := fmt.Sprintf(c.url, symbol, c.fiat)
	var jobj any
	if err := jwget(ctx, c.http, addr, &jobj); err != nil {
		return math.NaN(), fmt.Errorf("error retrieving %q: %w", symbol, err)
	}
	val, err := extract(jobj, c.path)
	if err != nil {
		return math.NaN(), fmt.Errorf("error parsing %q: %w", symbol, err)
	}
	log := logger.FromContext(ctx)
	log.Debug().Str("symbol", symbol).Float64("price", val).Msg("live quote")
	c.cache.SetDefault(symbol, val)
	return val, nil
}

// QuoteFunc returns Quote as a cryptofolio.QuoteFunc.
func (c *Client) QuoteFunc() cryptofolio.QuoteFunc { return c.Quote }

// extract reads the price at path, the API returns it either as a number or a string.
func extract(jobj any, path string) (float64, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return math.NaN(), fmt.Errorf("%q: %w", path, err)
	}
	// jsonpath returns a list for filters, keep the first answer.
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}

	var val float64
	switch v := jval.(type) {
	case float64:
		val = v
	case string:
		v = strings.ReplaceAll(v, ",", ".")
		v = strings.ReplaceAll(v, " ", "")
		val, err = strconv.ParseFloat(v, 64)
		if err != nil {
			return math.NaN(), fmt.Errorf("%q: invalid number %q: %w", path, v, err)
		}
	default:
		return math.NaN(), fmt.Errorf("%q: not a number: %v", path, jval)
	}
	if val <= 0 {
		return math.NaN(), fmt.Errorf("%q: no price: %v", path, val)
	}
	return val, nil
}
