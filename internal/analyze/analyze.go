// Package analyze derives a feature profile from a catalog product.
// Profiles bias which question categories the prompt builder favors.
package analyze

import (
	"strings"

	"github.com/skindev/faqgen/internal/catalog"
)

// ProductType is the detected product category.
type ProductType string

const (
	TypeSerum         ProductType = "serum"
	TypeCream         ProductType = "crema"
	TypeCleanser      ProductType = "limpiador"
	TypeMask          ProductType = "mascarilla"
	TypeEyeContour    ProductType = "contorno_ojos"
	TypeTreatment     ProductType = "tratamiento"
	TypeSunProtection ProductType = "protector"
	TypeGeneric       ProductType = "cosmético"
)

// Profile holds the derived signals for one product.
type Profile struct {
	HasActiveIngredients bool
	IsTreatment          bool
	MentionsAging        bool
	Type                 ProductType
	HighPrice            bool
	PremiumBrand         bool
}

// highPriceThreshold is in the catalog's currency unit.
const highPriceThreshold = 50

var (
	activeIngredientWords = []string{"ácido", "retinol", "vitamina", "colágeno", "hialurónico"}
	treatmentWords        = []string{"tratamiento", "serum", "intensivo", "concentrado"}
	agingWords            = []string{"antiedad", "arrugas", "firmeza", "madur"}

	premiumBrands = map[string]bool{
		"Natura Bissé": true,
		"La Mer":       true,
		"Sisley":       true,
		"La Prairie":   true,
	}
)

// typeKeywords is scanned in order; the first matching group wins.
var typeKeywords = []struct {
	Type  ProductType
	Words []string
}{
	{TypeSerum, []string{"serum", "sérum", "suero"}},
	{TypeCream, []string{"crema", "cream", "moisturizer"}},
	{TypeCleanser, []string{"limpiador", "cleanser", "jabón", "gel limpiador"}},
	{TypeMask, []string{"mascarilla", "mask", "máscara"}},
	{TypeEyeContour, []string{"ojos", "eye", "contorno", "ojeras"}},
	{TypeTreatment, []string{"tratamiento", "treatment", "ampolla"}},
	{TypeSunProtection, []string{"spf", "protector", "solar", "sunscreen"}},
}

// Analyze derives a profile from a product. Pure function: the same
// product always yields the same profile.
func Analyze(p catalog.Product) Profile {
	desc, _ := p.Description()
	lower := strings.ToLower(desc)

	price, ok := p.PriceValue()

	return Profile{
		HasActiveIngredients: containsAny(lower, activeIngredientWords),
		IsTreatment:          containsAny(lower, treatmentWords),
		MentionsAging:        containsAny(lower, agingWords),
		Type:                 DetectType(p.Title, desc),
		HighPrice:            ok && price > highPriceThreshold,
		PremiumBrand:         premiumBrands[p.Vendor],
	}
}

// DetectType classifies a product by scanning title and description.
func DetectType(title, description string) ProductType {
	text := strings.ToLower(title + " " + description)
	for _, group := range typeKeywords {
		if containsAny(text, group.Words) {
			return group.Type
		}
	}
	return TypeGeneric
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
