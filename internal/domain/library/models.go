package library

import "time"

// Prompt is a user-created prompt template. Placeholder syntax in Content
// (the "(campo)" pattern) is opaque to this service and stored verbatim.
type Prompt struct {
	ID      uint     `gorm:"primaryKey" json:"id"`
	UserID  uint     `gorm:"index;not null" json:"user_id"`
	Title   string   `gorm:"column:titulo;not null" json:"titulo"`
	Content string   `gorm:"column:texto;type:text" json:"texto"`
	Public  bool     `gorm:"column:publico;default:false" json:"publico"`
	Tags    []string `gorm:"serializer:json" json:"tags"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Prompt) TableName() string { return "prompts" }

// Modelo is a reusable prompt template with fillable fields.
type Modelo struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	UserID      uint   `gorm:"index;not null" json:"user_id"`
	Title       string `gorm:"column:titulo;not null" json:"titulo"`
	Description string `gorm:"column:descricao" json:"descricao"`
	Structure   string `gorm:"column:estrutura;type:text" json:"estrutura"`
	Public      bool   `gorm:"column:publico;default:false" json:"publico"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Modelo) TableName() string { return "modelos" }
