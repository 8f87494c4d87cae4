package storage

import (
	"context"

	"priceScope/internal/model"
)

// Storage defines a sink for resolved quotes.
type Storage interface {
	PutQuotes(ctx context.Context, quotes []model.QuoteRecord) error
}

// Multi writes to every sink in order and stops at the first error.
type Multi []Storage

func (m Multi) PutQuotes(ctx context.Context, quotes []model.QuoteRecord) error {
	for _, sink := range m {
		if err := sink.PutQuotes(ctx, quotes); err != nil {
			return err
		}
	}
	return nil
}
