/*
 * Copyright 2025 The supermart-insights Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *    https://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */
package loader

// Canonical field names the analytics layer depends on.
const (
	FieldSales    = "sales"
	FieldProfit   = "profit"
	FieldQuantity = "quantity"
	FieldCategory = "category"
	FieldDiscount = "discount"
	FieldRegion   = "region"
)

// CanonicalFields lists the six required fields in their stable order.
var CanonicalFields = []string{
	FieldSales,
	FieldProfit,
	FieldQuantity,
	FieldCategory,
	FieldDiscount,
	FieldRegion,
}

// NumericFields are coerced to numbers on load; TextFields are trimmed.
var (
	NumericFields = []string{FieldSales, FieldProfit, FieldQuantity, FieldDiscount}
	TextFields    = []string{FieldCategory, FieldRegion}
)

// aliasTable maps normalized header variants (English and Portuguese) onto
// canonical field names. It is constructed once and never mutated.
var aliasTable = map[string]string{
	"sales":       FieldSales,
	"sale":        FieldSales,
	"revenue":     FieldSales,
	"vendas":      FieldSales,
	"venda":       FieldSales,
	"valor_venda": FieldSales,
	"faturamento": FieldSales,

	"profit": FieldProfit,
	"lucro":  FieldProfit,
	"lucros": FieldProfit,
	"ganho":  FieldProfit,

	"quantity":   FieldQuantity,
	"qty":        FieldQuantity,
	"units":      FieldQuantity,
	"quantidade": FieldQuantity,
	"qtd":        FieldQuantity,
	"qtde":       FieldQuantity,

	"category":          FieldCategory,
	"product_category":  FieldCategory,
	"categoria":         FieldCategory,
	"categorias":        FieldCategory,
	"categoria_produto": FieldCategory,

	"discount":  FieldDiscount,
	"disc":      FieldDiscount,
	"desconto":  FieldDiscount,
	"descontos": FieldDiscount,

	"region":   FieldRegion,
	"região":   FieldRegion,
	"regiao":   FieldRegion,
	"regiões":  FieldRegion,
	"regioes":  FieldRegion,
	"zona":     FieldRegion,
	"regional": FieldRegion,
}

var canonicalSet = func() map[string]bool {
	s := make(map[string]bool, len(CanonicalFields))
	for _, f := range CanonicalFields {
		s[f] = true
	}
	return s
}()

// numericFieldSet for quick lookups during coercion and export.
var numericFieldSet = func() map[string]bool {
	s := make(map[string]bool, len(NumericFields))
	for _, f := range NumericFields {
		s[f] = true
	}
	return s
}()

// IsCanonical reports whether name is one of the six canonical fields.
func IsCanonical(name string) bool { return canonicalSet[name] }

// IsNumericField reports whether the canonical field carries numeric values.
func IsNumericField(name string) bool { return numericFieldSet[name] }

// ResolveAlias maps a normalized header onto its canonical field name.
// Headers that are already canonical resolve to themselves; headers with no
// mapping are returned unchanged so legitimate extra columns survive.
func ResolveAlias(normalized string) string {
	if canonicalSet[normalized] {
		return normalized
	}
	if canonical, ok := aliasTable[normalized]; ok {
		return canonical
	}
	return normalized
}

// CountRequiredHits returns how many distinct canonical fields are coverable
// by the given raw headers, either directly or through the alias table. Used
// by the dialect detector as the dominant term of the fitness score.
func CountRequiredHits(rawHeaders []string) int {
	seen := make(map[string]bool, len(CanonicalFields))
	for _, h := range rawHeaders {
		resolved := ResolveAlias(NormalizeHeader(h))
		if canonicalSet[resolved] {
			seen[resolved] = true
		}
	}
	return len(seen)
}

// BuildMapping resolves every raw header and returns the rename map
// (raw header -> final column name). Two raw headers resolving to the same
// canonical field are a terminal error, not a silent overwrite.
func BuildMapping(rawHeaders []string) (map[string]string, error) {
	mapping := make(map[string]string, len(rawHeaders))
	byCanonical := make(map[string][]string)
	for _, raw := range rawHeaders {
		resolved := ResolveAlias(NormalizeHeader(raw))
		mapping[raw] = resolved
		if canonicalSet[resolved] {
			byCanonical[resolved] = append(byCanonical[resolved], raw)
		}
	}
	for _, canonical := range CanonicalFields {
		if raws := byCanonical[canonical]; len(raws) > 1 {
			return nil, &ErrAmbiguousColumnMapping{Canonical: canonical, Headers: raws}
		}
	}
	return mapping, nil
}
