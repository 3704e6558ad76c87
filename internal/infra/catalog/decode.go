package catalog

import (
	"encoding/json"
	"fmt"
	"io"

	"storefront/internal/domain/model"
)

// Decode は {"products": [...]} を読み、最低限の整合性を確認する。
func Decode(r io.Reader) ([]model.Product, error) {
	var doc model.CatalogDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if doc.Products == nil {
		return nil, fmt.Errorf("decode catalog: products is missing")
	}

	seen := make(map[string]bool, len(doc.Products))
	for i, p := range doc.Products {
		if p.ID == "" {
			return nil, fmt.Errorf("decode catalog: product #%d has no id", i)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("decode catalog: duplicate id %q", p.ID)
		}
		if p.Price.IsNegative() {
			return nil, fmt.Errorf("decode catalog: negative price for %q", p.ID)
		}
		seen[p.ID] = true
	}
	return doc.Products, nil
}
