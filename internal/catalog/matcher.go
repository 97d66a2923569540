package catalog

import "strings"

// MaxMatches is the Messenger carousel card limit.
const MaxMatches = 10

// Normalize lowercases and trims a message or catalog field so that
// matching is case- and whitespace-insensitive.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Match maps a message and a catalog snapshot to an ordered list of
// matching products. It is a pure function: deterministic, no side effects.
//
// An exact match on product id or name short-circuits to a single result;
// otherwise products whose keywords or name appear as a substring of the
// message are collected in catalog order, deduplicated by id, and capped
// at MaxMatches.
func Match(message string, products []Product) []Product {
	normalized := Normalize(message)
	if normalized == "" || len(products) == 0 {
		return nil
	}

	// Exact pass: first id or name equality wins, catalog order breaks ties.
	for _, p := range products {
		if normalized == Normalize(p.ID) || normalized == Normalize(p.Name) {
			return []Product{p}
		}
	}

	// Fuzzy pass: keyword or name substring of the message.
	var matches []Product
	seen := make(map[string]bool)
	for _, p := range products {
		if seen[p.ID] {
			continue
		}
		if matchesFuzzy(normalized, p) {
			matches = append(matches, p)
			seen[p.ID] = true
			if len(matches) == MaxMatches {
				break
			}
		}
	}

	return matches
}

func matchesFuzzy(normalizedMsg string, p Product) bool {
	for _, kw := range p.Keywords {
		kw = Normalize(kw)
		// An empty keyword is a substring of everything; skip it.
		if kw == "" {
			continue
		}
		if strings.Contains(normalizedMsg, kw) {
			return true
		}
	}

	name := Normalize(p.Name)
	return name != "" && strings.Contains(normalizedMsg, name)
}

// FindByID returns the product with the given id from a snapshot,
// or false if absent. Comparison is normalized like Match.
func FindByID(id string, products []Product) (Product, bool) {
	normalized := Normalize(id)
	for _, p := range products {
		if Normalize(p.ID) == normalized {
			return p, true
		}
	}
	return Product{}, false
}
