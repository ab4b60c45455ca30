package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ClientInfo is opaque request metadata captured for audit only. It never
// participates in prize selection.
type ClientInfo struct {
	UserAgent string `bson:"userAgent" json:"userAgent"`
	IP        string `bson:"ip" json:"ip"`
}

// SpinResult records the outcome of one redeemed token. Immutable once
// created; only the redemption engine writes these.
type SpinResult struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Token      primitive.ObjectID `bson:"token" json:"token"`
	PrizeWon   primitive.ObjectID `bson:"prizeWon" json:"prizeWon"`
	ClientInfo ClientInfo         `bson:"clientInfo" json:"clientInfo"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}

// SpinOutcome is what the public spin endpoint returns to the player.
type SpinOutcome struct {
	ResultID primitive.ObjectID `json:"resultId"`
	Prize    WonPrize           `json:"prize"`
	SpunAt   time.Time          `json:"spunAt"`
}

// WonPrize is the subset of a PrizeSlot exposed to the player.
type WonPrize struct {
	ID       primitive.ObjectID `json:"id"`
	Position int                `json:"position"`
	Name     string             `json:"name"`
	Color    string             `json:"color"`
}

// SpinResultEntry is one row of the admin results feed, with the token code
// and prize denormalized for display.
type SpinResultEntry struct {
	ID         primitive.ObjectID `json:"id"`
	TokenCode  string             `json:"tokenCode"`
	Prize      WonPrize           `json:"prize"`
	ClientInfo ClientInfo         `json:"clientInfo"`
	SpunAt     time.Time          `json:"spunAt"`
}

// PrizeDistribution is the per-slot aggregate for the spin stats endpoint.
type PrizeDistribution struct {
	Position            int     `json:"position"`
	PrizeName           string  `json:"prizeName"`
	Count               int64   `json:"count"`
	ExpectedProbability float64 `json:"expectedProbability"`
	ActualPercentage    float64 `json:"actualPercentage"`
}

// SpinStats is the admin spin statistics payload.
type SpinStats struct {
	TotalSpins        int64               `json:"totalSpins"`
	PrizeDistribution []PrizeDistribution `json:"prizeDistribution"`
}
