package coingecko

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"priceScope/internal/model"
)

const (
	DefaultBaseURL  = "https://api.coingecko.com/api/v3"
	DefaultPlatform = "ethereum"

	sourceName = "coingecko"
)

// Config holds client settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client queries the CoinGecko simple price endpoints.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient builds a Client. Zero values in cfg fall back to defaults.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// FetchPrice returns the price of one unit of the asset with the given id,
// denominated in currency.
// GET /simple/price?ids={id}&vs_currencies={code}
func (c *Client) FetchPrice(ctx context.Context, id string, currency model.Currency) (float64, error) {
	if id == "" {
		return 0, &model.SourceError{Source: sourceName, Op: "simple price", ID: id, Err: errors.New("empty asset id")}
	}

	query := url.Values{}
	query.Set("ids", id)
	query.Set("vs_currencies", currency.Code())
	endpoint := fmt.Sprintf("%s/simple/price?%s", c.baseURL, query.Encode())

	price, err := c.fetch(ctx, endpoint, id, currency)
	if err != nil {
		return 0, wrapSourceError("simple price", id, err)
	}
	return price, nil
}

// FetchTokenPrice returns the price of a token identified by its contract
// address on the given platform.
// GET /simple/token_price/{platform}?contract_addresses={addr}&vs_currencies={code}
func (c *Client) FetchTokenPrice(ctx context.Context, platform, contract string, currency model.Currency) (float64, error) {
	contract = strings.TrimSpace(contract)
	if !common.IsHexAddress(contract) {
		return 0, fmt.Errorf("%w: %s", model.ErrInvalidAddress, contract)
	}
	if platform == "" {
		platform = DefaultPlatform
	}
	key := strings.ToLower(common.HexToAddress(contract).Hex())

	query := url.Values{}
	query.Set("contract_addresses", key)
	query.Set("vs_currencies", currency.Code())
	endpoint := fmt.Sprintf("%s/simple/token_price/%s?%s", c.baseURL, url.PathEscape(platform), query.Encode())

	price, err := c.fetch(ctx, endpoint, key, currency)
	if err != nil {
		return 0, wrapSourceError("token price", key, err)
	}
	return price, nil
}

type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	if e.body == "" {
		return fmt.Sprintf("unexpected status code: %d", e.code)
	}
	return fmt.Sprintf("unexpected status code: %d: %s", e.code, e.body)
}

func (c *Client) fetch(ctx context.Context, endpoint, key string, currency model.Currency) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("fetch spot price", zap.String("id", key), zap.String("currency", currency.Code()))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, &statusError{code: resp.StatusCode, body: strings.TrimSpace(string(body))}
	}

	var result map[string]map[string]float64
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("decode response: %w", err)
	}

	price, ok := result[key][currency.Code()]
	if !ok {
		return 0, fmt.Errorf("%w in %s", model.ErrPriceNotQuoted, currency.Code())
	}
	return price, nil
}

func wrapSourceError(op, id string, err error) error {
	srcErr := &model.SourceError{Source: sourceName, Op: op, ID: id, Err: err}
	var status *statusError
	if errors.As(err, &status) {
		srcErr.StatusCode = status.code
	}
	return srcErr
}
