// Package catalog exposes the fixed product assortment of the shop.
package catalog

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cadolab/giftbot/internal/texts"
)

// Currency is the only currency the shop trades in.
const Currency = "MDL"

// Product is a single orderable gift box.
type Product struct {
	ID     string `yaml:"id"`
	NameRO string `yaml:"name_ro"`
	NameRU string `yaml:"name_ru"`
	Price  int    `yaml:"price"`
	DescRO string `yaml:"desc_ro"`
	DescRU string `yaml:"desc_ru"`
}

// Name returns the product name for the given language.
func (p Product) Name(lang texts.Language) string {
	if lang == texts.LangRU && p.NameRU != "" {
		return p.NameRU
	}
	return p.NameRO
}

// Description returns the product description for the given language.
func (p Product) Description(lang texts.Language) string {
	if lang == texts.LangRU && p.DescRU != "" {
		return p.DescRU
	}
	return p.DescRO
}

//go:embed catalog.yaml
var catalogYAML []byte

var products []Product
var byID map[string]Product

func init() {
	if err := yaml.Unmarshal(catalogYAML, &products); err != nil {
		panic(fmt.Sprintf("catalog: embedded assortment is invalid: %v", err))
	}
	byID = make(map[string]Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
}

// All returns the assortment in catalog order.
func All() []Product {
	out := make([]Product, len(products))
	copy(out, products)
	return out
}

// ByID looks a product up by its stable identifier.
func ByID(id string) (Product, bool) {
	p, ok := byID[id]
	return p, ok
}

// Match resolves free text against the assortment: the first product
// whose Romanian or Russian name appears in the text, case-insensitive,
// wins. Returns false when nothing matches; the caller keeps the raw
// text as a custom product request.
func Match(text string) (Product, bool) {
	lowered := strings.ToLower(text)
	for _, p := range products {
		if strings.Contains(lowered, strings.ToLower(p.NameRO)) {
			return p, true
		}
		if p.NameRU != "" && strings.Contains(lowered, strings.ToLower(p.NameRU)) {
			return p, true
		}
	}
	return Product{}, false
}
