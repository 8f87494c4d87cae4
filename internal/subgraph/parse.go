package subgraph

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"priceScope/internal/model"
)

// ParsePairAddress validates a pair or pool address and returns it in the
// lower-case form the subgraph uses as entity id.
func ParsePairAddress(input string) (string, error) {
	input = strings.TrimSpace(input)
	if !common.IsHexAddress(input) {
		return "", fmt.Errorf("%w: %s", model.ErrInvalidAddress, input)
	}
	return strings.ToLower(common.HexToAddress(input).Hex()), nil
}
