package prediction

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/shopspring/decimal"

	"github.com/tombolapay/settlement/internal/domain"
	"github.com/tombolapay/settlement/internal/logger"
	"github.com/tombolapay/settlement/internal/validation"
)

// fixture is the wire shape of one entry in the odds feed
type fixture struct {
	Match    string `json:"match"`
	HomeTeam string `json:"home_team"`
	AwayTeam string `json:"away_team"`
	Pick     string `json:"pick"`
	Label    string `json:"label"`
	Odds     string `json:"odds"`
}

// HTTPSource pulls daily fixtures from an external odds feed
type HTTPSource struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
}

// NewHTTPSource creates a feed-backed prediction source
func NewHTTPSource(baseURL, apiKey string) *HTTPSource {
	return &HTTPSource{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpc:   &http.Client{Timeout: DefaultRequestTimeout},
	}
}

// GeneratePredictions fetches the current fixture list and converts it to
// proposal selections
func (s *HTTPSource) GeneratePredictions(ctx context.Context) ([]domain.Prediction, error) {
	log := logger.FromContext(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+FixturesEndpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToFetchFixtures, err)
	}
	if s.apiKey != "" {
		req.Header.Set("X-API-Key", s.apiKey)
	}

	resp, err := s.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToFetchFixtures, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: feed returned status %d", ErrContextFailedToFetchFixtures, resp.StatusCode)
	}

	var fixtures []fixture
	if err := json.NewDecoder(resp.Body).Decode(&fixtures); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToDecodeFeed, err)
	}

	predictions, err := convertFixtures(fixtures)
	if err != nil {
		return nil, err
	}

	log.Debug(LogMsgFixturesFetched, "count", len(predictions))
	return predictions, nil
}

// FileSource reads fixtures from a local JSON file. Used for development and
// for operators curating proposals by hand.
type FileSource struct {
	path       string
	schemaPath string
	validator  validation.SchemaValidator
}

// NewFileSource creates a file-backed prediction source
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// WithSchema makes the source validate the fixture file against a JSON schema
// before decoding, so a malformed hand-edited file is rejected with a precise
// error instead of producing a broken proposal
func (s *FileSource) WithSchema(schemaPath string) *FileSource {
	s.schemaPath = schemaPath
	s.validator = validation.NewSchemaValidator()
	return s
}

// GeneratePredictions loads and converts the fixture file
func (s *FileSource) GeneratePredictions(ctx context.Context) ([]domain.Prediction, error) {
	log := logger.FromContext(ctx)

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToReadFile, err)
	}

	if s.validator != nil {
		if err := s.validator.ValidateBytes(data, s.schemaPath); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrContextInvalidFeed, err)
		}
	}

	var fixtures []fixture
	if err := json.Unmarshal(data, &fixtures); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToDecodeFeed, err)
	}

	predictions, err := convertFixtures(fixtures)
	if err != nil {
		return nil, err
	}

	log.Debug(LogMsgFixturesLoaded, "path", s.path, "count", len(predictions))
	return predictions, nil
}

// convertFixtures maps feed entries to domain predictions, rejecting
// unparseable or non-positive odds so a bad feed line cannot poison a proposal
func convertFixtures(fixtures []fixture) ([]domain.Prediction, error) {
	predictions := make([]domain.Prediction, 0, len(fixtures))
	for _, f := range fixtures {
		odds, err := decimal.NewFromString(f.Odds)
		if err != nil {
			return nil, fmt.Errorf("%s %q: %w", ErrContextInvalidOdds, f.Match, err)
		}
		if odds.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("%s %q: odds must be positive", ErrContextInvalidOdds, f.Match)
		}

		predictions = append(predictions, domain.Prediction{
			MatchName:       f.Match,
			TeamA:           f.HomeTeam,
			TeamB:           f.AwayTeam,
			Prediction:      f.Pick,
			PredictionLabel: f.Label,
			Odds:            odds,
		})
	}
	return predictions, nil
}
