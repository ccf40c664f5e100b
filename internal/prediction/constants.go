package prediction

import "time"

const (
	// FixturesEndpoint is the odds feed path serving upcoming fixtures
	FixturesEndpoint = "/v1/fixtures"

	// DefaultRequestTimeout bounds a single feed call
	DefaultRequestTimeout = 10 * time.Second
)

// Error message contexts
const (
	ErrContextFailedToFetchFixtures = "failed to fetch fixtures"
	ErrContextFailedToDecodeFeed    = "failed to decode fixtures feed"
	ErrContextFailedToReadFile      = "failed to read fixtures file"
	ErrContextInvalidFeed           = "fixtures file failed schema validation"
	ErrContextInvalidOdds           = "invalid odds in fixture"
)

// Log messages
const (
	LogMsgFixturesFetched = "Fixtures fetched from feed"
	LogMsgFixturesLoaded  = "Fixtures loaded from file"
)
