package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"golang.org/x/oauth2"

	"github.com/sakif/food-journal/internal/apperror"
	"github.com/sakif/food-journal/internal/model"
	"github.com/sakif/food-journal/internal/nutrition"
)

// MaxSearchExpressionLength is the longest search expression accepted, in characters.
const MaxSearchExpressionLength = 100

// FoodSearcher is the nutrition provider as the services see it.
// *fatsecret.Client implements it.
type FoodSearcher interface {
	Search(ctx context.Context, expression string) (*model.FoodSearchData, error)
	Token(ctx context.Context) (*oauth2.Token, error)
}

// SearchService proxies food searches and turns a chosen result into a log
// entry.
type SearchService struct {
	provider FoodSearcher
	journal  *JournalService
	logger   *slog.Logger
}

// NewSearchService returns a SearchService that queries provider and logs
// confirmed results through journal.
func NewSearchService(provider FoodSearcher, journal *JournalService, logger *slog.Logger) *SearchService {
	return &SearchService{
		provider: provider,
		journal:  journal,
		logger:   logger,
	}
}

// Search looks up foods matching expression. A search with no hits returns
// an empty, non-nil food list.
func (s *SearchService) Search(ctx context.Context, expression string) (*model.FoodSearchData, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, apperror.ValidationFailed("search_expression", "search expression is required")
	}
	if utf8.RuneCountInString(expression) > MaxSearchExpressionLength {
		return nil, apperror.ValidationFailed("search_expression",
			fmt.Sprintf("search expression must be %d characters or less", MaxSearchExpressionLength))
	}

	data, err := s.provider.Search(ctx, expression)
	if err != nil {
		s.logger.Warn("food search failed",
			slog.String("expression", expression),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	if data == nil {
		data = &model.FoodSearchData{}
	}
	if data.FoodsSearch.Results.Food == nil {
		data.FoodsSearch.Results.Food = model.FoodList{}
	}
	return data, nil
}

// Token returns the provider access token.
func (s *SearchService) Token(ctx context.Context) (*oauth2.Token, error) {
	return s.provider.Token(ctx)
}

// LogSearchResult logs servings of the serving at servingIndex of result on
// date. The stored macros are the serving's values times servings, rounded
// to two decimals.
func (s *SearchService) LogSearchResult(ctx context.Context, date string, result model.FoodSearchResult, servingIndex int, servings float64) (*model.FoodLogEntry, error) {
	options := result.Servings.Serving
	if len(options) == 0 {
		return nil, apperror.ValidationFailed("serving", "the selected food has no serving information")
	}
	if servingIndex < 0 || servingIndex >= len(options) {
		return nil, apperror.ValidationFailed("serving",
			fmt.Sprintf("serving must be between 0 and %d", len(options)-1))
	}
	if err := validateServings(servings); err != nil {
		return nil, err
	}

	entry := model.FoodLogEntry{
		FoodID:   string(result.FoodID),
		FoodName: result.FoodName,
		Servings: servings,
		Macros:   nutrition.ScaleServing(options[servingIndex], servings),
	}
	return s.journal.LogFood(ctx, date, entry)
}
