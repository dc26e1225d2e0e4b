package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Permission modules a manager can be granted access to.
const (
	ModuleUsers         = "users"
	ModuleDeliveries    = "deliveries"
	ModuleAccounting    = "accounting"
	ModuleAnnouncements = "announcements"
)

var ValidModules = []string{ModuleUsers, ModuleDeliveries, ModuleAccounting, ModuleAnnouncements}

type ModulePermission struct {
	Create bool `bson:"create" json:"create"`
	Read   bool `bson:"read" json:"read"`
	Update bool `bson:"update" json:"update"`
	Delete bool `bson:"delete" json:"delete"`
}

// Permissions is the per-module CRUD matrix keyed by module name.
type Permissions map[string]ModulePermission

// Allows reports whether the matrix grants the given action on module.
// Action is one of "create", "read", "update", "delete".
func (p Permissions) Allows(module, action string) bool {
	mp, ok := p[module]
	if !ok {
		return false
	}
	switch action {
	case "create":
		return mp.Create
	case "read":
		return mp.Read
	case "update":
		return mp.Update
	case "delete":
		return mp.Delete
	}
	return false
}

// Manager is a separate collection mirroring some User financial fields.
type Manager struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username         string             `bson:"username" json:"username"`
	Email            string             `bson:"email" json:"email"`
	Password         string             `bson:"password" json:"-"` // bcrypt hash
	TotalEarnings    float64            `bson:"totalEarnings" json:"totalEarnings"`
	TotalWithdrawals float64            `bson:"totalWithdrawals" json:"totalWithdrawals"`
	CommissionRate   float64            `bson:"commissionRate" json:"commissionRate"`
	Permissions      Permissions        `bson:"permissions" json:"permissions"`
	CreatedBy        primitive.ObjectID `bson:"createdBy" json:"createdBy"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
}
