package model

import (
	"bytes"
	"encoding/json"
)

// ServingInfo is one serving option of a provider food. Every nutrient is an
// optional decimal string, exactly as the provider sends it.
type ServingInfo struct {
	ServingDescription string `json:"serving_description,omitempty"`
	Calories           string `json:"calories,omitempty"`
	Protein            string `json:"protein,omitempty"`
	Fat                string `json:"fat,omitempty"`
	Sodium             string `json:"sodium,omitempty"`
	Sugar              string `json:"sugar,omitempty"`
}

// ServingList decodes the provider's "serving" field, which is an array when
// a food has several servings and a bare object when it has exactly one.
type ServingList []ServingInfo

// UnmarshalJSON accepts a single serving object or an array of them.
func (l *ServingList) UnmarshalJSON(data []byte) error {
	return decodeOneOrMany(data, (*[]ServingInfo)(l))
}

// Servings wraps the serving list the way the provider nests it.
type Servings struct {
	Serving ServingList `json:"serving"`
}

// ProviderID accepts a provider identifier sent either as a JSON string or a
// JSON number and keeps it as a string.
type ProviderID string

// UnmarshalJSON accepts a JSON string or number.
func (id *ProviderID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ProviderID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ProviderID(n.String())
	return nil
}

// FoodSearchResult is one food returned by the nutrition provider.
type FoodSearchResult struct {
	FoodID   ProviderID `json:"food_id"`
	FoodName string     `json:"food_name"`
	Servings Servings   `json:"servings"`
}

// FoodList decodes the provider's "food" field (array, or bare object for a
// single hit).
type FoodList []FoodSearchResult

// UnmarshalJSON accepts a single food object or an array of them.
func (l *FoodList) UnmarshalJSON(data []byte) error {
	return decodeOneOrMany(data, (*[]FoodSearchResult)(l))
}

// FoodSearchResults is the payload of the provider's foods_search object.
type FoodSearchResults struct {
	Food FoodList `json:"food"`
}

// FoodsSearch mirrors the provider's foods.search.v3 response body.
type FoodsSearch struct {
	MaxResults   string            `json:"max_results,omitempty"`
	TotalResults string            `json:"total_results,omitempty"`
	PageNumber   string            `json:"page_number,omitempty"`
	Results      FoodSearchResults `json:"results"`
}

// FoodSearchData is the provider-shaped body forwarded to callers.
type FoodSearchData struct {
	FoodsSearch FoodsSearch `json:"foods_search"`
}

// FoodSearchResponse is the envelope returned by GET /api/foodSearch.
type FoodSearchResponse struct {
	FoodSearchData FoodSearchData `json:"foodSearchData"`
}

// decodeOneOrMany decodes either a JSON array or a single JSON object into a
// slice. null decodes to an empty slice.
func decodeOneOrMany[T any](data []byte, out *[]T) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*out = []T{}
		return nil
	case data[0] == '[':
		var many []T
		if err := json.Unmarshal(data, &many); err != nil {
			return err
		}
		if many == nil {
			many = []T{}
		}
		*out = many
		return nil
	default:
		var one T
		if err := json.Unmarshal(data, &one); err != nil {
			return err
		}
		*out = []T{one}
		return nil
	}
}
