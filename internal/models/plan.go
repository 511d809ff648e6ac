package models

import "time"

// PlanType определяет качество видеопотока тарифного плана.
type PlanType int

const (
	// PlanHD — базовый план, 720p.
	PlanHD PlanType = 1
	// PlanFHD — план с качеством 1080p.
	PlanFHD PlanType = 2
	// PlanUHD4K — план с качеством 4K.
	PlanUHD4K PlanType = 3
)

// Plan представляет тарифный план подписки.
// DurationDays задаёт длительность одного оплаченного периода в целых днях.
type Plan struct {
	ID           int64     `json:"id"`            // Уникальный идентификатор плана
	Name         string    `json:"name"`          // Название плана
	Type         PlanType  `json:"type"`          // Качество потока
	DurationDays int       `json:"duration_days"` // Длительность периода в днях
	Price        float64   `json:"price"`         // Цена за период
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
