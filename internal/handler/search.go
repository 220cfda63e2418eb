package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/sakif/food-journal/internal/model"
	"github.com/sakif/food-journal/internal/service"
)

// SearchHandler proxies the nutrition provider so its credentials stay on
// the server.
type SearchHandler struct {
	search  *service.SearchService
	journal *service.JournalService
	logger  *slog.Logger
}

// NewSearchHandler returns a handler for the search and token endpoints.
func NewSearchHandler(search *service.SearchService, journal *service.JournalService, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{search: search, journal: journal, logger: logger}
}

// TokenResponse mirrors the provider's token payload.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// HandleToken returns a provider access token.
//
// HTTP: GET /api/token
// 500 when credentials are not configured, 502 when the provider refuses.
func (h *SearchHandler) HandleToken(w http.ResponseWriter, r *http.Request) {
	tok, err := h.search.Token(r.Context())
	if err != nil {
		h.logger.Warn("token request failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	var expiresIn int64
	if !tok.Expiry.IsZero() {
		expiresIn = int64(time.Until(tok.Expiry).Seconds())
		if expiresIn < 0 {
			expiresIn = 0
		}
	}

	writeJSON(w, http.StatusOK, TokenResponse{
		AccessToken: tok.AccessToken,
		TokenType:   tok.TokenType,
		ExpiresIn:   expiresIn,
	})
}

// HandleFoodSearch searches the provider.
//
// HTTP: GET /api/foodSearch?search_expression=apple
// RESPONSE: {"foodSearchData": {"foods_search": {"results": {"food": [...]}}}}
func (h *SearchHandler) HandleFoodSearch(w http.ResponseWriter, r *http.Request) {
	data, err := h.search.Search(r.Context(), r.URL.Query().Get("search_expression"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.FoodSearchResponse{FoodSearchData: *data})
}

type logSearchResultRequest struct {
	Date         string                 `json:"date"`
	Food         model.FoodSearchResult `json:"food"`
	ServingIndex int                    `json:"servingIndex"`
	Servings     float64                `json:"servings"`
}

// HandleLogSearchResult confirms a search hit into the log.
//
// HTTP: POST /api/foodSearch/log
// BODY: {"date":"2024-01-01","food":{...one search result...},"servingIndex":0,"servings":1.5}
func (h *SearchHandler) HandleLogSearchResult(w http.ResponseWriter, r *http.Request) {
	var req logSearchResultRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Date == "" {
		req.Date = h.journal.Today()
	}

	entry, err := h.search.LogSearchResult(r.Context(), req.Date, req.Food, req.ServingIndex, req.Servings)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}
