package subgraph

import (
	"encoding/json"
	"fmt"

	"priceScope/internal/model"
)

const pairQueryTemplate = `{ %s(id: %q) {
    id
    token0 {
      id
    }
    token1 {
      id
    }
    token0Price
    token1Price
  } }`

func buildPairQuery(version model.AMMVersion, pairID string) string {
	return fmt.Sprintf(pairQueryTemplate, version.RootField(), pairID)
}

type graphqlRequest struct {
	Query string `json:"query"`
}

type graphqlResponse struct {
	Data   map[string]json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

type tokenRef struct {
	ID string `json:"id"`
}

// pairPayload is the object under data.pair (V2) or data.pool (V3).
type pairPayload struct {
	ID          string   `json:"id"`
	Token0      tokenRef `json:"token0"`
	Token1      tokenRef `json:"token1"`
	Token0Price string   `json:"token0Price"`
	Token1Price string   `json:"token1Price"`
}

func (p pairPayload) toPair() model.Pair {
	return model.Pair{
		ID:          p.ID,
		Token0ID:    p.Token0.ID,
		Token1ID:    p.Token1.ID,
		Token0Price: p.Token0Price,
		Token1Price: p.Token1Price,
	}
}
