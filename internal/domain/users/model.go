package users

import (
	"time"
)

// Profile is the entitlement-relevant user record. CurrentPlanID is a cached
// projection of the active subscription's plan; every lifecycle transition
// must write it alongside the subscription row.
type Profile struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	Name          string  `json:"nome"`
	Email         string  `gorm:"not null;uniqueIndex:idx_perfis_email" json:"email"`
	Password      *string `json:"-"`
	IsAdmin       bool    `gorm:"column:is_admin;default:false" json:"is_admin"`
	CurrentPlanID uint    `gorm:"column:plano_atual_id" json:"plano_atual_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Profile) TableName() string { return "perfis_usuario" }
