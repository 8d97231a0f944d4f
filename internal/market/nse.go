package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/http/cookiejar"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"nifty-condor-bot/internal/models"
)

const (
	vixIndexName = "INDIA VIX"
	warmupMaxAge = 5 * time.Minute
	maxBodyBytes = 8 << 20
)

// NSEClient fetches option-chain data from the NSE public endpoints. The
// exchange gates its JSON APIs behind session cookies issued to browser-like
// clients, so the client keeps a cookie jar, sends browser headers, and warms
// the session up before the first API call.
type NSEClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *logrus.Logger

	mu         sync.Mutex
	warmedUpAt time.Time
}

// NSEOption configures optional NSEClient behavior.
type NSEOption func(*NSEClient)

// WithBaseURL overrides the exchange endpoint, mainly for tests.
func WithBaseURL(url string) NSEOption {
	return func(c *NSEClient) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) NSEOption {
	return func(c *NSEClient) {
		c.httpClient.Timeout = d
	}
}

// WithRateLimit caps outbound requests per minute.
func WithRateLimit(perMinute int) NSEOption {
	return func(c *NSEClient) {
		c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 2)
	}
}

// NewNSEClient creates a client against the public NSE endpoints.
func NewNSEClient(logger *logrus.Logger, opts ...NSEOption) *NSEClient {
	if logger == nil {
		logger = logrus.New()
	}
	jar, _ := cookiejar.New(nil)
	c := &NSEClient{
		baseURL: "https://www.nseindia.com",
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
			Jar:     jar,
		},
		limiter: rate.NewLimiter(rate.Every(6*time.Second), 2),
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// optionChainResponse mirrors the subset of the NSE option-chain payload the
// engine consumes.
type optionChainResponse struct {
	Records struct {
		ExpiryDates     []string `json:"expiryDates"`
		UnderlyingValue float64  `json:"underlyingValue"`
		Data            []struct {
			StrikePrice float64   `json:"strikePrice"`
			ExpiryDate  string    `json:"expiryDate"`
			CE          *legQuote `json:"CE"`
			PE          *legQuote `json:"PE"`
		} `json:"data"`
	} `json:"records"`
}

type legQuote struct {
	LastPrice    float64 `json:"lastPrice"`
	OpenInterest int64   `json:"openInterest"`
}

type allIndicesResponse struct {
	Data []struct {
		Index string  `json:"index"`
		Last  float64 `json:"last"`
	} `json:"data"`
}

// FetchChain implements Provider. The chain and the volatility index come
// from separate endpoints and are fetched concurrently; either failing fails
// the snapshot.
func (c *NSEClient) FetchChain(ctx context.Context, symbol string) (*models.MarketSnapshot, error) {
	if err := c.warmup(ctx); err != nil {
		return nil, err
	}

	var (
		chain *optionChainResponse
		vix   float64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		resp, err := c.fetchOptionChain(gctx, symbol)
		if err != nil {
			return err
		}
		chain = resp
		return nil
	})
	g.Go(func() error {
		v, err := c.fetchVIX(gctx)
		if err != nil {
			return err
		}
		vix = v
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snap, err := buildSnapshot(symbol, chain, vix)
	if err != nil {
		return nil, err
	}

	c.logger.WithFields(logrus.Fields{
		"symbol":  symbol,
		"spot":    snap.Spot,
		"vix":     snap.VIX,
		"expiry":  snap.Expiry,
		"strikes": len(snap.Strikes),
	}).Debug("Fetched option chain")

	return snap, nil
}

// warmup visits the exchange homepage and the option-chain page so the
// session cookies needed by the JSON APIs are set. Sessions expire quickly,
// so a stale warmup is redone.
func (c *NSEClient) warmup(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if time.Since(c.warmedUpAt) < warmupMaxAge {
		return nil
	}

	for _, path := range []string{"/", "/option-chain"} {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return fmt.Errorf("%w: building warmup request: %v", ErrUnavailable, err)
		}
		c.setBrowserHeaders(req)
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("%w: warmup %s: %v", ErrUnavailable, path, err)
		}
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes)) //nolint:errcheck
		resp.Body.Close()                                            //nolint:errcheck
		if resp.StatusCode >= 400 {
			return fmt.Errorf("%w: warmup %s returned %d", ErrUnavailable, path, resp.StatusCode)
		}
	}

	c.warmedUpAt = time.Now()
	return nil
}

func (c *NSEClient) fetchOptionChain(ctx context.Context, symbol string) (*optionChainResponse, error) {
	var out optionChainResponse
	url := fmt.Sprintf("%s/api/option-chain-indices?symbol=%s", c.baseURL, symbol)
	if err := c.getJSON(ctx, url, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *NSEClient) fetchVIX(ctx context.Context) (float64, error) {
	var out allIndicesResponse
	if err := c.getJSON(ctx, c.baseURL+"/api/allIndices", &out); err != nil {
		return 0, err
	}
	for _, idx := range out.Data {
		if strings.EqualFold(idx.Index, vixIndexName) && idx.Last > 0 {
			return idx.Last, nil
		}
	}
	return 0, fmt.Errorf("%w: %s not present in indices feed", ErrUnavailable, vixIndexName)
}

func (c *NSEClient) getJSON(ctx context.Context, url string, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: building request: %v", ErrUnavailable, err)
	}
	c.setBrowserHeaders(req)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		// A 401 means the session cookies went stale; force a rewarm on
		// the next call.
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			c.mu.Lock()
			c.warmedUpAt = time.Time{}
			c.mu.Unlock()
		}
		return fmt.Errorf("%w: %s returned %d", ErrUnavailable, req.URL.Path, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: reading body: %v", ErrUnavailable, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}

func (c *NSEClient) setBrowserHeaders(req *http.Request) {
	req.Header.Set("User-Agent",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Referer", c.baseURL+"/option-chain")
}

// buildSnapshot flattens the nearest-expiry rows of the raw chain into a
// validated snapshot. Rows for other expiries are dropped; a chain with no
// usable rows is malformed.
func buildSnapshot(symbol string, chain *optionChainResponse, vix float64) (*models.MarketSnapshot, error) {
	rec := chain.Records
	if len(rec.ExpiryDates) == 0 {
		return nil, fmt.Errorf("%w: no expiry dates in chain", ErrMalformed)
	}
	if rec.UnderlyingValue <= 0 {
		return nil, fmt.Errorf("%w: non-positive underlying value %.2f", ErrMalformed, rec.UnderlyingValue)
	}
	expiry := rec.ExpiryDates[0]

	strikes := make([]models.StrikeQuote, 0, len(rec.Data))
	for _, row := range rec.Data {
		if row.ExpiryDate != expiry {
			continue
		}
		q := models.StrikeQuote{Strike: row.StrikePrice}
		if row.CE != nil {
			q.CallLTP = row.CE.LastPrice
			q.CallOI = row.CE.OpenInterest
		}
		if row.PE != nil {
			q.PutLTP = row.PE.LastPrice
			q.PutOI = row.PE.OpenInterest
		}
		strikes = append(strikes, q)
	}
	if len(strikes) == 0 {
		return nil, fmt.Errorf("%w: no rows for expiry %s", ErrMalformed, expiry)
	}

	sort.Slice(strikes, func(i, j int) bool { return strikes[i].Strike < strikes[j].Strike })
	strikes = evenWindow(strikes, rec.UnderlyingValue)

	snap := &models.MarketSnapshot{
		Symbol:    symbol,
		Spot:      rec.UnderlyingValue,
		VIX:       vix,
		Expiry:    expiry,
		Strikes:   strikes,
		FetchedAt: time.Now().UTC(),
	}
	if err := snap.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return snap, nil
}

// evenWindow keeps the contiguous evenly-spaced run of strikes around the
// spot price. Exchange chains widen their strike interval away from the
// money; offset arithmetic needs a constant step, so the far tails with a
// different interval are dropped.
func evenWindow(strikes []models.StrikeQuote, spot float64) []models.StrikeQuote {
	if len(strikes) < 3 {
		return strikes
	}

	atm := 0
	for i := 1; i < len(strikes); i++ {
		if math.Abs(strikes[i].Strike-spot) < math.Abs(strikes[atm].Strike-spot) {
			atm = i
		}
	}

	step := strikes[1].Strike - strikes[0].Strike
	if atm > 0 {
		step = strikes[atm].Strike - strikes[atm-1].Strike
	}

	lo, hi := atm, atm
	for lo > 0 && math.Abs(strikes[lo].Strike-strikes[lo-1].Strike-step) < models.StrikeMatchEpsilon {
		lo--
	}
	for hi < len(strikes)-1 && math.Abs(strikes[hi+1].Strike-strikes[hi].Strike-step) < models.StrikeMatchEpsilon {
		hi++
	}
	return strikes[lo : hi+1]
}
