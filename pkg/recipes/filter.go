package recipes

import "strings"

// FilterRecipesByName keeps the recipes whose name contains query, ignoring
// case. A blank query keeps everything. The input slice is not modified.
func FilterRecipesByName(recipes []Recipe, query string) []Recipe {
	query = strings.TrimSpace(query)

	filtered := make([]Recipe, 0, len(recipes))
	if query == "" {
		return append(filtered, recipes...)
	}

	needle := strings.ToLower(query)
	for _, r := range recipes {
		if strings.Contains(strings.ToLower(r.Name), needle) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// SplitIngredients turns "2 eggs, flour,, milk " into ["2 eggs", "flour", "milk"].
func SplitIngredients(ingredients string) []string {
	items := []string{}
	for _, piece := range strings.Split(ingredients, ",") {
		piece = strings.TrimSpace(piece)
		if piece != "" {
			items = append(items, piece)
		}
	}
	return items
}
