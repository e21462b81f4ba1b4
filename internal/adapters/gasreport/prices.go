package gasreport

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"net/url"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/trebuchet-org/fundme/internal/domain/config"
)

// DefaultCoinMarketCapURL is the quotes endpoint of the CoinMarketCap API
const DefaultCoinMarketCapURL = "https://pro-api.coinmarketcap.com/v1/cryptocurrency/quotes/latest"

// PriceClient fetches token prices from CoinMarketCap
type PriceClient struct {
	client   *http.Client
	apiKey   string
	endpoint string
}

// NewPriceClient creates a client using the configured CoinMarketCap key
func NewPriceClient(cfg *config.RuntimeConfig) *PriceClient {
	return &PriceClient{
		client:   &http.Client{Timeout: 10 * time.Second},
		apiKey:   cfg.Project.GasReporter.CoinMarketCap,
		endpoint: DefaultCoinMarketCapURL,
	}
}

type quotesResponse struct {
	Status struct {
		ErrorCode    int    `json:"error_code"`
		ErrorMessage string `json:"error_message"`
	} `json:"status"`
	Data map[string]struct {
		Quote map[string]struct {
			Price float64 `json:"price"`
		} `json:"quote"`
	} `json:"data"`
}

// TokenPrice returns the latest price of token in currency
func (c *PriceClient) TokenPrice(ctx context.Context, token, currency string) (*big.Float, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("no CoinMarketCap API key configured")
	}

	query := url.Values{}
	query.Set("symbol", token)
	query.Set("convert", currency)

	var price float64
	err := retry.Do(
		func() error {
			var err error
			price, err = c.fetch(ctx, c.endpoint+"?"+query.Encode(), token, currency)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(500*time.Millisecond),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, err
	}
	return big.NewFloat(price), nil
}

func (c *PriceClient) fetch(ctx context.Context, endpoint, token, currency string) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, retry.Unrecoverable(err)
	}
	req.Header.Set("X-CMC_PRO_API_KEY", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req) //nolint:gosec // fixed API endpoint
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	var body quotesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("failed to parse price response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("CoinMarketCap returned HTTP %d: %s", resp.StatusCode, body.Status.ErrorMessage)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return 0, retry.Unrecoverable(err)
		}
		return 0, err
	}

	quote, ok := body.Data[token].Quote[currency]
	if !ok {
		return 0, retry.Unrecoverable(fmt.Errorf("no %s price for %s in response", currency, token))
	}
	return quote.Price, nil
}
