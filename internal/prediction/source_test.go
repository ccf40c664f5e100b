package prediction

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureJSON = `[
	{"match": "FC Alpha vs FC Beta", "home_team": "FC Alpha", "away_team": "FC Beta", "pick": "1", "label": "Home win", "odds": "2.10"},
	{"match": "FC Gamma vs FC Delta", "home_team": "FC Gamma", "away_team": "FC Delta", "pick": "X", "label": "Draw", "odds": "3.45"}
]`

func TestHTTPSource_GeneratePredictions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, FixturesEndpoint, r.URL.Path)
		assert.Equal(t, "feed-key", r.Header.Get("X-API-Key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(fixtureJSON))
	}))
	defer srv.Close()

	source := NewHTTPSource(srv.URL, "feed-key")

	predictions, err := source.GeneratePredictions(context.Background())
	require.NoError(t, err)
	require.Len(t, predictions, 2)

	assert.Equal(t, "FC Alpha vs FC Beta", predictions[0].MatchName)
	assert.Equal(t, "1", predictions[0].Prediction)
	assert.Equal(t, "2.1", predictions[0].Odds.String())
	assert.Equal(t, "X", predictions[1].Prediction)
}

func TestHTTPSource_FeedErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	source := NewHTTPSource(srv.URL, "")

	_, err := source.GeneratePredictions(context.Background())
	assert.Error(t, err)
}

func TestFileSource_GeneratePredictions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixtures.json")
	require.NoError(t, os.WriteFile(path, []byte(fixtureJSON), 0o644))

	source := NewFileSource(path)

	predictions, err := source.GeneratePredictions(context.Background())
	require.NoError(t, err)
	assert.Len(t, predictions, 2)
}

func TestFileSource_WithSchema(t *testing.T) {
	dir := t.TempDir()

	goodPath := filepath.Join(dir, "fixtures.json")
	require.NoError(t, os.WriteFile(goodPath, []byte(fixtureJSON), 0o644))

	badPath := filepath.Join(dir, "bad.json")
	bad := `[{"match": "A vs B", "pick": "1", "odds": "2.10", "bookmaker": "x"}]`
	require.NoError(t, os.WriteFile(badPath, []byte(bad), 0o644))

	t.Run("valid file passes", func(t *testing.T) {
		source := NewFileSource(goodPath).WithSchema("schemas/fixtures.schema.json")
		predictions, err := source.GeneratePredictions(context.Background())
		require.NoError(t, err)
		assert.Len(t, predictions, 2)
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		source := NewFileSource(badPath).WithSchema("schemas/fixtures.schema.json")
		_, err := source.GeneratePredictions(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "schema")
	})
}

func TestConvertFixtures_RejectsBadOdds(t *testing.T) {
	tests := []struct {
		name string
		odds string
	}{
		{"unparseable", "two-point-one"},
		{"zero", "0"},
		{"negative", "-1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := convertFixtures([]fixture{{Match: "A vs B", Odds: tt.odds}})
			assert.Error(t, err)
		})
	}
}
