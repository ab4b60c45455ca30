package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WheelSize is the fixed number of slots on the wheel.
const WheelSize = 8

// DefaultPrizeColor is applied when an admin omits a slot color.
const DefaultPrizeColor = "#FFD700"

// ProbabilityTolerance is the accepted drift when checking that slot
// probabilities sum to 100.
const ProbabilityTolerance = 0.01

// PrizeSlot represents one of the 8 configured outcomes on the wheel.
// Position is unique in 1..WheelSize; Probability is a percentage weight.
type PrizeSlot struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Position    int                `bson:"position" json:"position"`
	Name        string             `bson:"name" json:"name"`
	Probability float64            `bson:"probability" json:"probability"`
	Color       string             `bson:"color" json:"color"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// PrizeSlotInput is the admin-facing payload for replacing the prize table.
type PrizeSlotInput struct {
	Name        string  `json:"name"`
	Probability float64 `json:"probability"`
	Color       string  `json:"color"`
}

// DefaultPrizeSlots returns the placeholder table seeded at first startup:
// 8 equal-probability slots.
func DefaultPrizeSlots() []PrizeSlot {
	colors := [2]string{"#FF6B6B", "#FFD700"}
	slots := make([]PrizeSlot, 0, WheelSize)
	for i := 1; i <= WheelSize; i++ {
		slots = append(slots, PrizeSlot{
			Position:    i,
			Name:        fmt.Sprintf("Prize %d", i),
			Probability: 12.5,
			Color:       colors[(i-1)%2],
		})
	}
	return slots
}
