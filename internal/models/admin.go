package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Admin roles. A single superadmin manages regular admins; both can issue
// tokens and edit the prize table.
const (
	RoleSuperAdmin = "superadmin"
	RoleAdmin      = "admin"
)

// Admin represents an administrative account for the backend.
type Admin struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	Username  string              `bson:"username" json:"username"`
	Password  string              `bson:"password" json:"-"` // bcrypt hash, never serialized
	Role      string              `bson:"role" json:"role"`
	CreatedBy *primitive.ObjectID `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time           `bson:"updatedAt" json:"updatedAt"`
}
