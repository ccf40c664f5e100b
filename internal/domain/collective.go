package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event types
const (
	EventCollectiveProposed = "CollectiveProposed"
	EventCollectiveSettled  = "CollectiveSettled"
)

// AITicketStatus represents the lifecycle state of a collective ticket
type AITicketStatus string

const (
	AITicketStatusProposed AITicketStatus = "proposed"
	AITicketStatusActive   AITicketStatus = "active"
	AITicketStatusWon      AITicketStatus = "won"
	AITicketStatusLost     AITicketStatus = "lost"
	AITicketStatusRefunded AITicketStatus = "refunded"
)

// PlayStatus represents the settlement state of a single play
type PlayStatus string

const (
	PlayStatusActive   PlayStatus = "active"
	PlayStatusWon      PlayStatus = "won"
	PlayStatusLost     PlayStatus = "lost"
	PlayStatusRefunded PlayStatus = "refunded"
)

// Prediction is one leg of a proposed collective ticket, supplied by the
// external prediction source and treated as opaque data
type Prediction struct {
	MatchName       string          `json:"match_name"`
	TeamA           string          `json:"team_a"`
	TeamB           string          `json:"team_b"`
	Prediction      string          `json:"prediction"`
	PredictionLabel string          `json:"prediction_label"`
	Odds            decimal.Decimal `json:"odds"`
}

// AITicket is a shared prediction ticket multiple users can stake against,
// settled once for all participants. Terminal states are set exactly once.
type AITicket struct {
	ID              uuid.UUID       `json:"id"`
	Predictions     []Prediction    `json:"predictions"`
	TotalOdds       decimal.Decimal `json:"total_odds"`
	Status          AITicketStatus  `json:"status"`
	TotalPlayers    int             `json:"total_players"`
	TotalStake      int64           `json:"total_stake"`
	RefundRuleFired bool            `json:"refund_rule_fired"`
	CreatedAt       time.Time       `json:"created_at"`
	SettledAt       *time.Time      `json:"settled_at,omitempty"`
}

// Play is one user's stake against a collective ticket; at most one per
// (ticket, user). Mutated only by the settlement resolver.
type Play struct {
	ID                  uuid.UUID    `json:"id"`
	AITicketID          uuid.UUID    `json:"ai_ticket_id"`
	UserID              string       `json:"user_id"`
	StakeAmount         int64        `json:"stake_amount"`
	PredictedSelections []Prediction `json:"predicted_selections"`
	IsIdentical         bool         `json:"is_identical_to_proposal"`
	PotentialWin        int64        `json:"potential_win"`
	ActualWin           int64        `json:"actual_win"`
	Status              PlayStatus   `json:"status"`
	CreatedAt           time.Time    `json:"created_at"`
}

// SettlementResult summarizes a SetResult invocation
type SettlementResult struct {
	TicketID       uuid.UUID      `json:"ticket_id"`
	Outcome        AITicketStatus `json:"outcome"`
	TotalPlays     int            `json:"total_plays"`
	IdenticalPlays int            `json:"identical_plays"`
	IdenticalPct   float64        `json:"identical_pct"`
	RefundApplied  bool           `json:"refund_applied"`
	PaidOut        int64          `json:"paid_out"`
	Refunded       int64          `json:"refunded"`
}

// SelectionsIdentical reports whether a play's selections exactly match the
// proposed predictions, leg for leg
func SelectionsIdentical(proposal, selections []Prediction) bool {
	if len(proposal) != len(selections) {
		return false
	}
	for i := range proposal {
		if proposal[i].MatchName != selections[i].MatchName ||
			proposal[i].Prediction != selections[i].Prediction {
			return false
		}
	}
	return true
}
