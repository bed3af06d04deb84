package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sig-0/exilian/config"
	"github.com/sig-0/exilian/dataset"
	"github.com/sig-0/exilian/storage/types"
)

type testRecord struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

func (r testRecord) DisplayName() string {
	return r.Name
}

func (r testRecord) Price() float64 {
	return r.Value
}

func testSnapshot() types.Snapshot[types.Record] {
	updated := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)

	return types.Erase(types.Snapshot[testRecord]{
		Lines: []testRecord{
			{Name: "Chaos Orb", Value: 1},
			{Name: "Divine Orb", Value: 180},
			{Name: "Divine Vessel", Value: 2},
		},
		Updated: &updated,
	})
}

// snapshotLoader serves the given snapshot for every key, recording the last key
func snapshotLoader(snapshot types.Snapshot[types.Record], captured *types.Key) *mockLoader {
	return &mockLoader{
		loadFn: func(_ context.Context, key types.Key) types.Snapshot[types.Record] {
			if captured != nil {
				*captured = key
			}

			return snapshot
		},
	}
}

func newTestServer(t *testing.T, loader Loader) *Server {
	t.Helper()

	s, err := New(loader)
	require.NoError(t, err)

	return s
}

func TestServer_New(t *testing.T) {
	t.Parallel()

	t.Run("invalid configuration", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig().Server
		cfg.ListenAddress = "localhost"

		_, err := New(&mockLoader{}, WithConfig(&cfg))
		assert.ErrorIs(t, err, config.ErrInvalidListenAddress)
	})

	t.Run("health", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t, &mockLoader{})

		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", http.NoBody))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("openapi", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t, &mockLoader{})

		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/openapi.yaml", http.NoBody))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "/v1/prices/{league}/{category}/{type}")
	})

	t.Run("custom routes", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t, &mockLoader{})
		s.Routes(func(r chi.Router) {
			r.Get("/custom", func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusTeapot)
			})
		})

		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/custom", http.NoBody))

		assert.Equal(t, http.StatusTeapot, w.Code)
	})
}

func TestHandlers_Lists(t *testing.T) {
	t.Parallel()

	testTable := []struct {
		name            string
		path            string
		expectedDefault string
		expectedLen     int
	}{
		{"leagues", "/v1/leagues", "Necropolis", len(types.Leagues.Values)},
		{"categories", "/v1/categories", "Currency", 2},
		{"currency types", "/v1/categories/Currency/types", "Currency", 2},
		{"item types", "/v1/categories/Item/types", "Tattoo", len(types.ItemTypes.Values)},
	}

	for _, testCase := range testTable {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			s := newTestServer(t, &mockLoader{})

			w := httptest.NewRecorder()
			s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, testCase.path, http.NoBody))

			require.Equal(t, http.StatusOK, w.Code)

			var resp ListResponse

			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			assert.Equal(t, testCase.expectedDefault, resp.Default)
			assert.Len(t, resp.Results, testCase.expectedLen)
		})
	}

	t.Run("unknown category", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t, &mockLoader{})

		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/categories/Gem/types", http.NoBody))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandlers_Prices(t *testing.T) {
	t.Parallel()

	t.Run("invalid params", func(t *testing.T) {
		t.Parallel()

		testTable := []struct {
			name   string
			params map[string]string
		}{
			{"league", map[string]string{"league": "Sanctum", "category": "Currency", "type": "Currency"}},
			{"category", map[string]string{"league": "Standard", "category": "Gem", "type": "Currency"}},
			{"type", map[string]string{"league": "Standard", "category": "Currency", "type": "Tattoo"}},
		}

		for _, testCase := range testTable {
			t.Run(testCase.name, func(t *testing.T) {
				t.Parallel()

				var (
					called bool

					loader = &mockLoader{
						loadFn: func(context.Context, types.Key) types.Snapshot[types.Record] {
							called = true

							return types.Empty[types.Record]()
						},
					}

					s = &Server{
						loader: loader,
						logger: noopLogger,
					}
				)

				req := httptest.NewRequest(http.MethodGet, "/v1/prices", http.NoBody)
				req = withRouteParams(t, req, testCase.params)

				w := httptest.NewRecorder()
				s.Prices(w, req)

				assert.Equal(t, http.StatusBadRequest, w.Code)
				assert.False(t, called)

				var resp ErrorResponse

				require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
				assert.Contains(t, resp.Error, testCase.name)
			})
		}
	})

	t.Run("search", func(t *testing.T) {
		t.Parallel()

		var (
			captured types.Key
			s        = newTestServer(t, snapshotLoader(testSnapshot(), &captured))
		)

		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(
			w,
			httptest.NewRequest(http.MethodGet, "/v1/prices/Hardcore+Necropolis/Currency/Fragment?search=divine", http.NoBody),
		)

		require.Equal(t, http.StatusOK, w.Code)

		assert.Equal(
			t,
			types.Key{League: types.LeagueNecropolisHC, Category: types.CategoryCurrency, Type: "Fragment"},
			captured,
		)

		var resp PricesResponse

		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))

		assert.Equal(t, dataset.StateFresh, resp.State)
		assert.False(t, resp.Stale)
		require.NotNil(t, resp.Updated)
		assert.Equal(
			t,
			[]PriceEntry{{Name: "Divine Orb", ChaosValue: 180}, {Name: "Divine Vessel", ChaosValue: 2}},
			resp.Results,
		)
	})

	t.Run("escaped league", func(t *testing.T) {
		t.Parallel()

		var (
			captured types.Key
			s        = newTestServer(t, snapshotLoader(testSnapshot(), &captured))
		)

		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(
			w,
			httptest.NewRequest(http.MethodGet, "/v1/prices/Hardcore%2BNecropolis/Currency/Currency?search=chaos", http.NoBody),
		)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, types.LeagueNecropolisHC, captured.League)
	})

	t.Run("stale snapshot", func(t *testing.T) {
		t.Parallel()

		loader := snapshotLoader(testSnapshot(), nil)
		loader.stateFn = func(types.Snapshot[types.Record]) dataset.State {
			return dataset.StateStale
		}

		s := newTestServer(t, loader)

		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/prices/Standard/Currency/Currency", http.NoBody))

		require.Equal(t, http.StatusOK, w.Code)

		var resp PricesResponse

		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))

		assert.True(t, resp.Stale)
		assert.Len(t, resp.Results, 3)
	})

	t.Run("no data", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t, &mockLoader{})

		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/prices/Standard/Item/Omen", http.NoBody))

		require.Equal(t, http.StatusOK, w.Code)

		var resp PricesResponse

		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))

		assert.Nil(t, resp.Updated)
		assert.Equal(t, dataset.StateNoData, resp.State)
		assert.NotNil(t, resp.Results)
		assert.Empty(t, resp.Results)
	})
}

func TestHandlers_Price(t *testing.T) {
	t.Parallel()

	t.Run("found", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t, snapshotLoader(testSnapshot(), nil))

		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(
			w,
			httptest.NewRequest(http.MethodGet, "/v1/prices/Standard/Currency/Currency/Divine%20Orb", http.NoBody),
		)

		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Result PriceEntry `json:"result"`
			Line   testRecord `json:"line"`
		}

		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))

		assert.Equal(t, PriceEntry{Name: "Divine Orb", ChaosValue: 180}, resp.Result)
		assert.Equal(t, testRecord{Name: "Divine Orb", Value: 180}, resp.Line)
	})

	t.Run("escaped path params", func(t *testing.T) {
		t.Parallel()

		updated := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)
		snapshot := types.Erase(types.Snapshot[testRecord]{
			Lines: []testRecord{
				{Name: "Chaos Orb", Value: 1},
				{Name: "Kaom's Heart", Value: 310},
			},
			Updated: &updated,
		})

		testTable := []struct {
			name         string
			target       string
			expectedKey  types.Key
			expectedName string
		}{
			{
				"escaped space",
				"/v1/prices/Necropolis/Item/UniqueArmour/Kaom's%20Heart",
				types.Key{League: types.LeagueNecropolis, Category: types.CategoryItem, Type: "UniqueArmour"},
				"Kaom's Heart",
			},
			{
				"escaped quote and space",
				"/v1/prices/Necropolis/Item/UniqueArmour/Kaom%27s%20Heart",
				types.Key{League: types.LeagueNecropolis, Category: types.CategoryItem, Type: "UniqueArmour"},
				"Kaom's Heart",
			},
			{
				"escaped league separator",
				"/v1/prices/Hardcore%2BNecropolis/Currency/Currency/Chaos%20Orb",
				types.Key{League: types.LeagueNecropolisHC, Category: types.CategoryCurrency, Type: "Currency"},
				"Chaos Orb",
			},
		}

		for _, testCase := range testTable {
			t.Run(testCase.name, func(t *testing.T) {
				t.Parallel()

				var (
					captured types.Key
					s        = newTestServer(t, snapshotLoader(snapshot, &captured))
				)

				w := httptest.NewRecorder()
				s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, testCase.target, http.NoBody))

				require.Equal(t, http.StatusOK, w.Code)

				var resp struct {
					Result PriceEntry `json:"result"`
				}

				require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))

				assert.Equal(t, testCase.expectedKey, captured)
				assert.Equal(t, testCase.expectedName, resp.Result.Name)
			})
		}
	})

	t.Run("invalid escape", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t, snapshotLoader(testSnapshot(), nil))

		req := httptest.NewRequest(http.MethodGet, "/v1/prices/Standard/Currency/Currency/Chaos", http.NoBody)
		req.URL.RawPath = "/v1/prices/Standard/Currency/Currency/Chaos%zzOrb"

		req = withRouteParams(t, req, map[string]string{
			"league":   "Standard",
			"category": "Currency",
			"type":     "Currency",
			"name":     "Chaos%zzOrb",
		})

		w := httptest.NewRecorder()
		s.Price(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("exact match only", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t, snapshotLoader(testSnapshot(), nil))

		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(
			w,
			httptest.NewRequest(http.MethodGet, "/v1/prices/Standard/Currency/Currency/divine", http.NoBody),
		)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("no data", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t, &mockLoader{})

		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(
			w,
			httptest.NewRequest(http.MethodGet, "/v1/prices/Standard/Currency/Currency/Chaos%20Orb", http.NoBody),
		)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("invalid type", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t, snapshotLoader(testSnapshot(), nil))

		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(
			w,
			httptest.NewRequest(http.MethodGet, "/v1/prices/Standard/Item/Fragment/Chaos%20Orb", http.NoBody),
		)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func withRouteParams(t *testing.T, req *http.Request, params map[string]string) *http.Request {
	t.Helper()

	rctx := chi.NewRouteContext()

	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}

	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}
