package prompt

import (
	"math/rand"
	"strings"

	"github.com/skindev/faqgen/internal/analyze"
	"github.com/skindev/faqgen/internal/catalog"
)

// selectionSize is how many categories go into each prompt.
const selectionSize = 5

// maxPriority caps how many profile-driven categories are forced in,
// so selections stay varied.
const maxPriority = 2

// SelectCategories picks 5 distinct categories for a product: up to 2
// drawn from the profile's priorities, the rest uniformly at random,
// then shuffled.
func SelectCategories(p catalog.Product, profile analyze.Profile, rng *rand.Rand) []Category {
	priorities := priorityCategories(p, profile)

	take := maxPriority
	if len(priorities) < take {
		take = len(priorities)
	}
	rng.Shuffle(len(priorities), func(i, j int) {
		priorities[i], priorities[j] = priorities[j], priorities[i]
	})
	selected := append([]Category{}, priorities[:take]...)

	var rest []Category
	for _, c := range Categories {
		if !containsCategory(selected, c) {
			rest = append(rest, c)
		}
	}
	rng.Shuffle(len(rest), func(i, j int) { rest[i], rest[j] = rest[j], rest[i] })
	selected = append(selected, rest[:selectionSize-len(selected)]...)

	rng.Shuffle(len(selected), func(i, j int) {
		selected[i], selected[j] = selected[j], selected[i]
	})
	return selected
}

// priorityCategories maps profile signals to categories worth asking
// about for this product. Duplicates are collapsed.
func priorityCategories(p catalog.Product, profile analyze.Profile) []Category {
	var out []Category
	add := func(c Category) {
		if !containsCategory(out, c) {
			out = append(out, c)
		}
	}

	if profile.HasActiveIngredients {
		add(CategoryIngredients)
	}
	if profile.IsTreatment {
		add(CategoryResults)
		add(CategoryCombinations)
	}
	if profile.HighPrice {
		add(CategoryDifferentiation)
	}
	text := p.SearchText()
	if strings.Contains(text, "retinol") || strings.Contains(text, "ácido") {
		add(CategoryPrecautions)
	}
	return out
}

func containsCategory(list []Category, c Category) bool {
	for _, v := range list {
		if v == c {
			return true
		}
	}
	return false
}
