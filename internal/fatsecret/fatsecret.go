// Package fatsecret talks to the FatSecret Platform API on behalf of the
// journal: it obtains an OAuth 2.0 client-credentials token and runs
// foods.search.v3 queries with it.
//
// TOKEN FLOW:
//
//	POST {TokenURL}   basic auth (client id/secret), grant_type=client_credentials, scope
//	← {access_token, token_type, expires_in}
//
// The token is cached on the Client and only fetched again once it has
// expired. A fetch runs under the caller's context, so cancelling the
// request that triggered it aborts it.
//
// SEARCH FLOW:
//
//	POST {APIURL}     Authorization: Bearer <token>
//	                  method=foods.search.v3&search_expression=...&format=json
//	← {"foods_search": {"results": {"food": [...]}}}
//
// Credentials never leave this process; callers only ever see tokens and
// search results.
package fatsecret

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/go-resty/resty/v2"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/sakif/food-journal/internal/apperror"
	"github.com/sakif/food-journal/internal/config"
	"github.com/sakif/food-journal/internal/model"
)

const searchMethod = "foods.search.v3"

// Client is safe for concurrent use.
type Client struct {
	http       *resty.Client
	creds      *clientcredentials.Config // nil when credentials are not configured
	apiURL     string
	maxResults int
	logger     *slog.Logger

	mu    sync.Mutex // guards token and serializes fetches
	token *oauth2.Token
}

// New builds a client from cfg. Missing credentials are not an error here:
// every call reports apperror.ErrMissingCredentials instead, so the rest of
// the journal keeps working offline.
func New(cfg config.FatSecret, logger *slog.Logger) *Client {
	rc := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		SetLogger(restyLogger{logger})

	c := &Client{
		http:       rc,
		apiURL:     cfg.APIURL,
		maxResults: cfg.MaxResults,
		logger:     logger,
	}

	if cfg.HasCredentials() {
		c.creds = &clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
			Scopes:       []string{cfg.Scope},
			AuthStyle:    oauth2.AuthStyleInHeader,
		}
	} else {
		logger.Warn("fatsecret credentials not set; food search is disabled")
	}

	return c
}

// Token returns a valid access token, fetching a new one only when the
// cached token has expired. The fetch is bound to ctx.
func (c *Client) Token(ctx context.Context) (*oauth2.Token, error) {
	if c.creds == nil {
		return nil, apperror.MissingCredentials("FatSecret client credentials are not configured")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token.Valid() {
		return c.token, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, apperror.TokenAcquisitionFailed(err)
	}

	// Token requests share resty's http.Client and therefore its timeout.
	tok, err := c.creds.Token(context.WithValue(ctx, oauth2.HTTPClient, c.http.GetClient()))
	if err != nil {
		c.logger.Error("fatsecret token request failed", slog.String("error", err.Error()))
		return nil, apperror.TokenAcquisitionFailed(fmt.Errorf("fatsecret: requesting token: %w", err))
	}
	c.token = tok
	return tok, nil
}

// apiError is the body FatSecret sends, sometimes with status 200, when a
// method call is rejected.
type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type searchBody struct {
	model.FoodSearchData
	Error *apiError `json:"error"`
}

// Search runs foods.search.v3 for expression. Every failure, including a
// missing or refused token, is reported as apperror.ErrSearch. The returned
// food list is never nil.
func (c *Client) Search(ctx context.Context, expression string) (*model.FoodSearchData, error) {
	tok, err := c.Token(ctx)
	if err != nil {
		return nil, apperror.SearchFailed(err)
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(tok.AccessToken).
		SetFormData(map[string]string{
			"method":            searchMethod,
			"search_expression": expression,
			"format":            "json",
			"max_results":       strconv.Itoa(c.maxResults),
		}).
		Post(c.apiURL)
	if err != nil {
		return nil, apperror.SearchFailed(fmt.Errorf("fatsecret: search request: %w", err))
	}
	if resp.IsError() {
		return nil, apperror.SearchFailed(fmt.Errorf("fatsecret: search returned status %d: %s", resp.StatusCode(), resp.String()))
	}

	var body searchBody
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, apperror.SearchFailed(fmt.Errorf("fatsecret: decoding search response: %w", err))
	}
	if body.Error != nil {
		return nil, apperror.SearchFailed(fmt.Errorf("fatsecret: error %d: %s", body.Error.Code, body.Error.Message))
	}

	data := body.FoodSearchData
	if data.FoodsSearch.Results.Food == nil {
		data.FoodsSearch.Results.Food = model.FoodList{}
	}

	c.logger.Debug("fatsecret search completed",
		slog.String("expression", expression),
		slog.Int("results", len(data.FoodsSearch.Results.Food)),
	)
	return &data, nil
}

// restyLogger routes resty's internal warnings through slog.
type restyLogger struct {
	l *slog.Logger
}

func (r restyLogger) Errorf(format string, v ...interface{}) { r.l.Error(fmt.Sprintf(format, v...)) }
func (r restyLogger) Warnf(format string, v ...interface{})  { r.l.Warn(fmt.Sprintf(format, v...)) }
func (r restyLogger) Debugf(format string, v ...interface{}) { r.l.Debug(fmt.Sprintf(format, v...)) }
