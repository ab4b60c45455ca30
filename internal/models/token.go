package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TokenStatus is the derived lifecycle state of a token. It is computed from
// IsUsed and ExpiresAt, never stored.
type TokenStatus string

const (
	TokenStatusActive  TokenStatus = "active"
	TokenStatusUsed    TokenStatus = "used"
	TokenStatusExpired TokenStatus = "expired"
)

// Token is a single-use redemption code gating one spin attempt. A token
// transitions unused -> used exactly once; the used transition and the
// creation of its SpinResult are co-created.
type Token struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	Code      string              `bson:"code" json:"code"`
	IsUsed    bool                `bson:"isUsed" json:"isUsed"`
	UsedAt    *time.Time          `bson:"usedAt,omitempty" json:"usedAt,omitempty"`
	ExpiresAt time.Time           `bson:"expiresAt" json:"expiresAt"`
	CreatedBy primitive.ObjectID  `bson:"createdBy" json:"createdBy"`
	Result    *primitive.ObjectID `bson:"result,omitempty" json:"result,omitempty"`
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// Status derives the lifecycle state at the given instant.
func (t *Token) Status(now time.Time) TokenStatus {
	switch {
	case t.IsUsed:
		return TokenStatusUsed
	case !t.ExpiresAt.After(now):
		return TokenStatusExpired
	default:
		return TokenStatusActive
	}
}

// IssuedToken is the per-token payload returned by the bulk issue operation.
type IssuedToken struct {
	ID        primitive.ObjectID `json:"id"`
	Code      string             `json:"code"`
	ExpiresAt time.Time          `json:"expiresAt"`
	CreatedAt time.Time          `json:"createdAt"`
}

// TokenStats summarizes the token population for the admin dashboard.
type TokenStats struct {
	Total   int64 `json:"total"`
	Used    int64 `json:"used"`
	Expired int64 `json:"expired"`
	Active  int64 `json:"active"`
}
