// Package menu maps spoken menu item names to the visual assets the frontend
// can display. Matching is deliberately fuzzy and best-effort; it is not a
// menu-validity check.
package menu

import (
	"regexp"
	"strings"
)

const (
	margheritaImage = "/images/margherita-pizza.jpg"
	cokeImage       = "/images/coke.jpg"
)

// Only items with assets actually shipped by the frontend are listed.
// Margherita and cheese pizza share one image.
var menuImageMap = map[string]string{
	"margherita":       margheritaImage,
	"margherita pizza": margheritaImage,
	"cheese":           margheritaImage,
	"cheese pizza":     margheritaImage,

	"coke":      cokeImage,
	"coca cola": cokeImage,
	"coca-cola": cokeImage,
}

var spaceRun = regexp.MustCompile(`\s+`)

// NormalizeItemName lower-cases, collapses whitespace and strips leading
// articles so spoken variants of the same item compare equal.
func NormalizeItemName(itemName string) string {
	normalized := strings.ToLower(strings.TrimSpace(itemName))
	normalized = spaceRun.ReplaceAllString(normalized, " ")
	normalized = strings.ReplaceAll(normalized, "the ", "")
	normalized = strings.ReplaceAll(normalized, "a ", "")
	normalized = strings.ReplaceAll(normalized, "an ", "")
	return normalized
}

// ImagePath resolves a spoken item name to an asset path. Lookup order, first
// match wins: exact normalized match, domain synonym rules, substring
// containment either direction, then word overlap. Returns false when nothing
// matches.
func ImagePath(itemName string) (string, bool) {
	if itemName == "" {
		return "", false
	}

	normalized := NormalizeItemName(itemName)

	if path, ok := menuImageMap[normalized]; ok {
		return path, true
	}

	// Cheese and margherita are interchangeable on this menu.
	if strings.Contains(normalized, "cheese") && strings.Contains(normalized, "pizza") {
		return margheritaImage, true
	}
	if normalized == "cheese" {
		return margheritaImage, true
	}
	if strings.Contains(normalized, "margherita") {
		return margheritaImage, true
	}

	if strings.Contains(normalized, "coke") || strings.Contains(normalized, "coca") || strings.Contains(normalized, "cola") {
		return cokeImage, true
	}

	for key, path := range menuImageMap {
		if strings.Contains(key, normalized) || strings.Contains(normalized, key) {
			return path, true
		}
	}

	normalizedWords := wordSet(normalized)
	for key, path := range menuImageMap {
		common := 0
		for word := range wordSet(key) {
			if _, ok := normalizedWords[word]; ok {
				common++
			}
		}
		if common >= 2 || (common == 1 && len(normalizedWords) <= 2) {
			return path, true
		}
	}

	return "", false
}

func wordSet(s string) map[string]struct{} {
	words := strings.Fields(s)
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
