package subgraph

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"priceScope/internal/model"
)

const sourceName = "uniswap subgraph"

// Config holds the endpoint per AMM version.
type Config struct {
	V2URL   string
	V3URL   string
	Timeout time.Duration
}

// Client fetches pair data from the Uniswap V2 and V3 subgraphs.
type Client struct {
	endpoints  map[model.AMMVersion]string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient builds a Client. Empty URLs fall back to the hosted subgraphs.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.V2URL == "" {
		cfg.V2URL = model.V2.DefaultEndpoint()
	}
	if cfg.V3URL == "" {
		cfg.V3URL = model.V3.DefaultEndpoint()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	return &Client{
		endpoints: map[model.AMMVersion]string{
			model.V2: cfg.V2URL,
			model.V3: cfg.V3URL,
		},
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

// FetchPair returns the pair (V2) or pool (V3) at pairAddress. The payload
// shape is chosen from version, so the result is the same for both.
func (c *Client) FetchPair(ctx context.Context, pairAddress string, version model.AMMVersion) (model.Pair, error) {
	pairID, err := ParsePairAddress(pairAddress)
	if err != nil {
		return model.Pair{}, err
	}

	endpoint, ok := c.endpoints[version]
	if !ok {
		return model.Pair{}, fmt.Errorf("%w: %d", model.ErrUnknownAMMVersion, int(version))
	}

	c.logger.Debug("fetch pair", zap.String("pair", pairID), zap.Stringer("version", version))

	data, err := c.doQuery(ctx, endpoint, buildPairQuery(version, pairID))
	if err != nil {
		return model.Pair{}, c.sourceError(version, pairID, err)
	}

	raw, ok := data[version.RootField()]
	if !ok || len(raw) == 0 || string(raw) == "null" {
		return model.Pair{}, c.sourceError(version, pairID, fmt.Errorf("%w: no %s in response", model.ErrPairNotFound, version.RootField()))
	}

	var payload pairPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return model.Pair{}, c.sourceError(version, pairID, fmt.Errorf("decode %s: %w", version.RootField(), err))
	}
	if payload.ID == "" || payload.Token0.ID == "" || payload.Token1.ID == "" {
		return model.Pair{}, c.sourceError(version, pairID, fmt.Errorf("incomplete %s payload", version.RootField()))
	}

	return payload.toPair(), nil
}

type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.code, e.body)
}

// doQuery posts a GraphQL query and returns the fields of the "data" object.
func (c *Client) doQuery(ctx context.Context, endpoint, query string) (map[string]json.RawMessage, error) {
	body, err := json.Marshal(graphqlRequest{Query: query})
	if err != nil {
		return nil, fmt.Errorf("marshal graphql request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &statusError{code: resp.StatusCode, body: string(respBody)}
	}

	var gqlResp graphqlResponse
	if err := json.Unmarshal(respBody, &gqlResp); err != nil {
		return nil, fmt.Errorf("decode graphql response: %w", err)
	}
	if len(gqlResp.Errors) > 0 {
		return nil, fmt.Errorf("graphql error: %s", gqlResp.Errors[0].Message)
	}

	return gqlResp.Data, nil
}

func (c *Client) sourceError(version model.AMMVersion, pairID string, err error) error {
	srcErr := &model.SourceError{
		Source: sourceName,
		Op:     version.String() + " " + version.RootField(),
		ID:     pairID,
		Err:    err,
	}
	var status *statusError
	if errors.As(err, &status) {
		srcErr.StatusCode = status.code
	}
	return srcErr
}
