package models

// Item is a catalog entry from XIVAPI. Only the fields this bot reads are
// mapped; the upstream document is much larger.
type Item struct {
	ID      int         `json:"ID"`
	Name    string      `json:"Name"`
	Recipes []RecipeRef `json:"Recipes"`
}

// RecipeRef links an item to one of the recipes that produces it.
type RecipeRef struct {
	ID         int `json:"ID"`
	Level      int `json:"Level"`
	ClassJobID int `json:"ClassJobID"`
}

// Recipe is a crafting recipe with its resolved ingredient list.
type Recipe struct {
	ID          int          `json:"ID"`
	Ingredients []Ingredient `json:"Ingredients"`
}

// Ingredient is one input line of a recipe.
type Ingredient struct {
	ID     int    `json:"ID"`
	Name   string `json:"Name"`
	Amount int    `json:"Amount"`
}

// SearchResult is one hit from a catalog name search.
type SearchResult struct {
	ID   int    `json:"ID"`
	Name string `json:"Name"`
}

// SearchResponse is the paged result set of a catalog name search.
type SearchResponse struct {
	Results []SearchResult `json:"Results"`
}
