package stats

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DailyStat is a write-mostly aggregate, one row per calendar day.
type DailyStat struct {
	Date           string  `gorm:"primaryKey;size:10" json:"data"`
	PromptsCreated int64   `gorm:"column:prompts_criados" json:"prompts_criados"`
	ModelsCreated  int64   `gorm:"column:modelos_criados" json:"modelos_criados"`
	RevenueTotal   float64 `gorm:"column:receita_total" json:"receita_total"`
}

func (DailyStat) TableName() string { return "estatisticas" }

func Today() string { return time.Now().Format("2006-01-02") }

// AddRevenue upserts today's row, adding amount to the revenue total.
// Duplicate webhook deliveries therefore add up to the literal sum of the
// delivered amounts, never more.
func AddRevenue(db *gorm.DB, amount float64) error {
	return db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"receita_total": gorm.Expr("receita_total + ?", amount),
		}),
	}).Create(&DailyStat{Date: Today(), RevenueTotal: amount}).Error
}

// IncPromptsCreated bumps today's prompt counter.
func IncPromptsCreated(db *gorm.DB) error {
	return db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"prompts_criados": gorm.Expr("prompts_criados + 1"),
		}),
	}).Create(&DailyStat{Date: Today(), PromptsCreated: 1}).Error
}

// IncModelsCreated bumps today's model counter.
func IncModelsCreated(db *gorm.DB) error {
	return db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"modelos_criados": gorm.Expr("modelos_criados + 1"),
		}),
	}).Create(&DailyStat{Date: Today(), ModelsCreated: 1}).Error
}
