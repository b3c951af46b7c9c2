package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"carteira/internal/ledger"
)

const (
	brapiBaseURL   = "https://brapi.dev"
	cryptoBatchMax = 10
	cryptoParallel = 4
)

// DefaultCoins is the crypto catalog queried by List, since the provider has
// no crypto listing endpoint.
var DefaultCoins = []string{
	"BTC", "ETH", "ADA", "BNB", "USDT", "XRP", "DOGE", "SOL", "USDC", "DOT",
	"UNI", "BCH", "LTC", "LINK", "MATIC", "AVAX", "ETC", "XLM", "VET", "FIL",
	"THETA", "TRX", "XMR", "XTZ", "EOS", "AAVE", "ATOM", "GRT", "CRO", "NEO",
	"BSV", "ALGO", "MKR", "SHIB", "EGLD", "KSM", "HBAR", "DASH", "DCR", "QNT",
	"COMP", "RUNE", "CHZ", "ZEC", "ENJ", "MANA", "XEM", "SUSHI", "AR", "BTG",
	"YFI", "SNX", "ZIL", "QTUM", "RVN", "CELO", "BAT", "ZEN", "BNT", "DGB",
}

type brapiQuoteResponse struct {
	Results []struct {
		Symbol             string   `json:"symbol"`
		LongName           string   `json:"longName"`
		ShortName          string   `json:"shortName"`
		LogoURL            string   `json:"logourl"`
		RegularMarketPrice *float64 `json:"regularMarketPrice"`
	} `json:"results"`
}

type brapiListResponse struct {
	Stocks []struct {
		Stock string   `json:"stock"`
		Name  string   `json:"name"`
		Logo  string   `json:"logo"`
		Close *float64 `json:"close"`
	} `json:"stocks"`
}

type brapiCryptoResponse struct {
	Coins []struct {
		Coin               string   `json:"coin"`
		CoinName           string   `json:"coinName"`
		CoinImageURL       string   `json:"coinImageUrl"`
		RegularMarketPrice *float64 `json:"regularMarketPrice"`
	} `json:"coins"`
}

type brapiPrimeRateResponse struct {
	PrimeRate []struct {
		Date  string `json:"date"`
		Value string `json:"value"`
	} `json:"prime-rate"`
}

// BrapiClient talks to the brapi.dev API for Brazilian stocks, real-estate
// funds, crypto quotes in BRL and the SELIC rate.
type BrapiClient struct {
	httpClient *http.Client
	baseURL    string // overridable for tests
	token      string
	coins      []string
}

// NewBrapiClient creates a brapi.dev client. An empty baseURL selects the
// public API.
func NewBrapiClient(httpClient *http.Client, baseURL, token string) *BrapiClient {
	if baseURL == "" {
		baseURL = brapiBaseURL
	}
	return &BrapiClient{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		coins:      DefaultCoins,
	}
}

// Quote implements Provider.
func (p *BrapiClient) Quote(ctx context.Context, class ledger.AssetClass, ticker string) (*Quote, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return nil, fmt.Errorf("%w: empty ticker", ErrNotFound)
	}

	switch class {
	case ledger.Crypto:
		coins, err := p.fetchCoins(ctx, []string{ticker})
		if err != nil {
			return nil, err
		}
		for _, c := range coins {
			if strings.EqualFold(c.Ticker, ticker) && c.Price != nil {
				return &Quote{Ticker: c.Ticker, Name: c.Name, Price: *c.Price}, nil
			}
		}
		return nil, fmt.Errorf("%w: %s", ErrNotFound, ticker)

	case ledger.Stock, ledger.RealEstateFund:
		var resp brapiQuoteResponse
		if err := p.get(ctx, "/api/quote/"+url.PathEscape(ticker), nil, &resp); err != nil {
			return nil, err
		}
		if len(resp.Results) == 0 || resp.Results[0].RegularMarketPrice == nil {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, ticker)
		}
		r := resp.Results[0]
		name := r.LongName
		if name == "" {
			name = r.ShortName
		}
		return &Quote{
			Ticker: r.Symbol,
			Name:   name,
			Price:  decimal.NewFromFloat(*r.RegularMarketPrice),
			Logo:   r.LogoURL,
		}, nil
	}
	return nil, fmt.Errorf("%w: no quotes for asset class %q", ErrNotFound, class)
}

// List implements Provider.
func (p *BrapiClient) List(ctx context.Context, class ledger.AssetClass) ([]Listing, error) {
	switch class {
	case ledger.Crypto:
		return p.fetchCoins(ctx, p.coins)
	case ledger.Stock, ledger.RealEstateFund:
		kind := "stock"
		if class == ledger.RealEstateFund {
			kind = "fund"
		}
		var resp brapiListResponse
		if err := p.get(ctx, "/api/quote/list", url.Values{"type": {kind}}, &resp); err != nil {
			return nil, err
		}
		out := make([]Listing, 0, len(resp.Stocks))
		for _, s := range resp.Stocks {
			l := Listing{Ticker: s.Stock, Name: s.Name, Logo: s.Logo}
			if s.Close != nil {
				price := decimal.NewFromFloat(*s.Close)
				l.Price = &price
			}
			out = append(out, l)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: no catalog for asset class %q", ErrNotFound, class)
}

// ReferenceRate implements Provider.
func (p *BrapiClient) ReferenceRate(ctx context.Context) (decimal.Decimal, error) {
	var resp brapiPrimeRateResponse
	if err := p.get(ctx, "/api/v2/prime-rate", url.Values{"country": {"brazil"}}, &resp); err != nil {
		return decimal.Zero, err
	}
	if len(resp.PrimeRate) == 0 {
		return decimal.Zero, fmt.Errorf("%w: empty prime-rate response", ErrUnavailable)
	}
	rate, err := decimal.NewFromString(strings.TrimSpace(resp.PrimeRate[0].Value))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: parsing prime rate %q: %v", ErrUnavailable, resp.PrimeRate[0].Value, err)
	}
	return rate, nil
}

// fetchCoins queries coins in concurrent batches, preserving input order.
func (p *BrapiClient) fetchCoins(ctx context.Context, coins []string) ([]Listing, error) {
	var batches [][]string
	for i := 0; i < len(coins); i += cryptoBatchMax {
		batches = append(batches, coins[i:min(i+cryptoBatchMax, len(coins))])
	}

	results := make([][]Listing, len(batches))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cryptoParallel)
	for i, batch := range batches {
		g.Go(func() error {
			var resp brapiCryptoResponse
			params := url.Values{"coin": {strings.Join(batch, ",")}, "currency": {"BRL"}}
			if err := p.get(gctx, "/api/v2/crypto", params, &resp); err != nil {
				return err
			}
			for _, c := range resp.Coins {
				l := Listing{Ticker: c.Coin, Name: c.CoinName, Logo: c.CoinImageURL}
				if c.RegularMarketPrice != nil {
					price := decimal.NewFromFloat(*c.RegularMarketPrice)
					l.Price = &price
				}
				results[i] = append(results[i], l)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []Listing
	for _, r := range results {
		out = append(out, r...)
	}
	return out, nil
}

// get performs a GET request and decodes the JSON body into dst. A 404 maps
// to ErrNotFound; transport failures and other statuses map to ErrUnavailable.
func (p *BrapiClient) get(ctx context.Context, path string, params url.Values, dst any) error {
	if params == nil {
		params = url.Values{}
	}
	if p.token != "" {
		params.Set("token", p.token)
	}
	u := p.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("%w: building request: %v", ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: http request: %v", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("%w: unexpected status %d", ErrUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: decoding response: %v", ErrUnavailable, err)
	}
	return nil
}
