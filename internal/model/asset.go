package model

// AssetRecord is one row of the asset registry.
type AssetRecord struct {
	ID     string `json:"id"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}
