package model

import (
	"errors"
	"fmt"
)

var (
	ErrRegistryLoad          = errors.New("registry load failed")
	ErrAssetNotFound         = errors.New("asset not found")
	ErrUnimplementedCurrency = errors.New("currency conversion not implemented")
	ErrNumericParse          = errors.New("numeric parse failed")
	ErrPriceNotQuoted        = errors.New("price not quoted")
	ErrPairNotFound          = errors.New("pair not found")
	ErrUnknownCurrency       = errors.New("unknown currency")
	ErrUnknownAMMVersion     = errors.New("unknown amm version")
	ErrInvalidAddress        = errors.New("invalid address")
)

// RowError describes a registry row that was skipped.
type RowError struct {
	Row int
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("registry row %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// SourceError is returned when an external price source call fails.
type SourceError struct {
	Source     string
	Op         string
	ID         string
	StatusCode int
	Err        error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s %s %q: %v", e.Source, e.Op, e.ID, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}
