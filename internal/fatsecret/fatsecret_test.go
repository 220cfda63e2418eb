package fatsecret

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/food-journal/internal/apperror"
	"github.com/sakif/food-journal/internal/config"
)

const twoFoods = `{
  "foods_search": {
    "max_results": "20",
    "total_results": "2",
    "page_number": "0",
    "results": {
      "food": [
        {"food_id": "33691", "food_name": "Apple",
         "servings": {"serving": [
           {"serving_description": "1 medium", "calories": "95", "fat": "0.31", "protein": "0.47", "sodium": "2", "sugar": "18.91"},
           {"serving_description": "100 g", "calories": "52", "fat": "0.17", "protein": "0.26", "sodium": "1", "sugar": "10.39"}
         ]}},
        {"food_id": 4881224, "food_name": "Apple Pie",
         "servings": {"serving": {"serving_description": "1 slice", "calories": "296"}}}
      ]
    }
  }
}`

// fakeProvider stands in for both FatSecret endpoints.
type fakeProvider struct {
	tokenCalls  atomic.Int32
	searchCalls atomic.Int32

	tokenStatus  int
	tokenStall   bool // token endpoint answers only after the client gives up
	searchStatus int
	searchBody   string

	lastForm map[string]string
}

func (f *fakeProvider) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/connect/token", func(w http.ResponseWriter, r *http.Request) {
		f.tokenCalls.Add(1)
		id, secret, ok := r.BasicAuth()
		assert.True(t, ok, "token request must use basic auth")
		assert.Equal(t, "client-id", id)
		assert.Equal(t, "client-secret", secret)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		assert.Equal(t, "premier", r.PostForm.Get("scope"))

		if f.tokenStall {
			select {
			case <-r.Context().Done():
			case <-time.After(5 * time.Second):
			}
			return
		}
		if f.tokenStatus != 0 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(f.tokenStatus)
			fmt.Fprint(w, `{"error":"invalid_client"}`)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"tok-1","token_type":"Bearer","expires_in":86400}`)
	})

	mux.HandleFunc("/rest/server.api", func(w http.ResponseWriter, r *http.Request) {
		f.searchCalls.Add(1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		assert.NoError(t, r.ParseForm())
		f.lastForm = map[string]string{
			"method":            r.PostForm.Get("method"),
			"search_expression": r.PostForm.Get("search_expression"),
			"format":            r.PostForm.Get("format"),
		}

		if f.searchStatus != 0 {
			w.WriteHeader(f.searchStatus)
			fmt.Fprint(w, `upstream broke`)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, f.searchBody)
	})

	return mux
}

func newTestClient(t *testing.T, fake *fakeProvider, withCredentials bool) *Client {
	t.Helper()
	srv := httptest.NewServer(fake.handler(t))
	t.Cleanup(srv.Close)

	cfg := config.FatSecret{
		TokenURL:   srv.URL + "/connect/token",
		APIURL:     srv.URL + "/rest/server.api",
		Scope:      "premier",
		MaxResults: 20,
		Timeout:    5 * time.Second,
	}
	if withCredentials {
		cfg.ClientID = "client-id"
		cfg.ClientSecret = "client-secret"
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	return New(cfg, logger)
}

func TestToken(t *testing.T) {
	fake := &fakeProvider{}
	c := newTestClient(t, fake, true)

	tok, err := c.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", tok.AccessToken)
	assert.Equal(t, "Bearer", tok.TokenType)
	assert.True(t, tok.Expiry.After(time.Now().Add(time.Hour)))
}

func TestToken_CachedUntilExpiry(t *testing.T) {
	fake := &fakeProvider{}
	c := newTestClient(t, fake, true)

	for i := 0; i < 3; i++ {
		_, err := c.Token(context.Background())
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), fake.tokenCalls.Load())
}

func TestToken_MissingCredentials(t *testing.T) {
	fake := &fakeProvider{}
	c := newTestClient(t, fake, false)

	_, err := c.Token(context.Background())
	assert.True(t, errors.Is(err, apperror.ErrMissingCredentials))
	assert.Equal(t, int32(0), fake.tokenCalls.Load(), "no upstream call without credentials")
}

func TestToken_Refused(t *testing.T) {
	fake := &fakeProvider{tokenStatus: http.StatusUnauthorized}
	c := newTestClient(t, fake, true)

	_, err := c.Token(context.Background())
	assert.True(t, errors.Is(err, apperror.ErrTokenAcquisition))
}

func TestSearch(t *testing.T) {
	fake := &fakeProvider{searchBody: twoFoods}
	c := newTestClient(t, fake, true)

	data, err := c.Search(context.Background(), "apple")
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"method":            "foods.search.v3",
		"search_expression": "apple",
		"format":            "json",
	}, fake.lastForm)

	foods := data.FoodsSearch.Results.Food
	require.Len(t, foods, 2)
	assert.Equal(t, "33691", string(foods[0].FoodID))
	assert.Len(t, foods[0].Servings.Serving, 2)
	assert.Equal(t, "4881224", string(foods[1].FoodID), "numeric id kept as string")
	require.Len(t, foods[1].Servings.Serving, 1, "single serving object becomes a list")
	assert.Equal(t, "296", foods[1].Servings.Serving[0].Calories)
}

func TestSearch_NoResultsIsEmptyList(t *testing.T) {
	fake := &fakeProvider{searchBody: `{"foods_search":{"max_results":"20","total_results":"0","page_number":"0"}}`}
	c := newTestClient(t, fake, true)

	data, err := c.Search(context.Background(), "zzzzqqq")
	require.NoError(t, err)
	assert.NotNil(t, data.FoodsSearch.Results.Food)
	assert.Empty(t, data.FoodsSearch.Results.Food)
}

func TestSearch_Failures(t *testing.T) {
	tests := []struct {
		name  string
		fake  *fakeProvider
		creds bool
		also  error
	}{
		{
			name:  "missing credentials",
			fake:  &fakeProvider{},
			creds: false,
			also:  apperror.ErrMissingCredentials,
		},
		{
			name:  "token refused",
			fake:  &fakeProvider{tokenStatus: http.StatusBadRequest},
			creds: true,
			also:  apperror.ErrTokenAcquisition,
		},
		{
			name:  "upstream 500",
			fake:  &fakeProvider{searchStatus: http.StatusInternalServerError},
			creds: true,
		},
		{
			name:  "error object with status 200",
			fake:  &fakeProvider{searchBody: `{"error":{"code":12,"message":"User is performing too many actions"}}`},
			creds: true,
		},
		{
			name:  "malformed body",
			fake:  &fakeProvider{searchBody: `{"foods_search":`},
			creds: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, tt.fake, tt.creds)

			data, err := c.Search(context.Background(), "apple")
			assert.Nil(t, data)
			assert.True(t, errors.Is(err, apperror.ErrSearch), "got %v", err)
			if tt.also != nil {
				assert.True(t, errors.Is(err, tt.also), "got %v", err)
			}
		})
	}
}

func TestToken_FetchFollowsCallerContext(t *testing.T) {
	fake := &fakeProvider{tokenStall: true}
	c := newTestClient(t, fake, true)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := c.Token(ctx)

	assert.True(t, errors.Is(err, apperror.ErrTokenAcquisition), "got %v", err)
	assert.Less(t, time.Since(start), 2*time.Second, "fetch outlived the caller's deadline")
	assert.Equal(t, int32(1), fake.tokenCalls.Load())
}

func TestSearch_CancelledContext(t *testing.T) {
	fake := &fakeProvider{searchBody: twoFoods}
	c := newTestClient(t, fake, true)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Search(ctx, "apple")
	assert.True(t, errors.Is(err, apperror.ErrSearch))
	assert.Equal(t, int32(0), fake.searchCalls.Load())
}
