package models

import "time"

// Entitlement представляет купленный пользователем период подписки.
//
// У пользователя в любой момент активен не более чем один период.
// Записи никогда не удаляются: истёкшие и заменённые строки остаются
// в базе как история с IsActive = false либо прошедшей EndDate.
// Истечение ленивое — фоновый процесс флаг не снимает, активность
// определяется на чтении как IsActive && EndDate > now.
type Entitlement struct {
	ID        int64     `json:"id"`         // Уникальный идентификатор записи
	UserID    int64     `json:"user_id"`    // Владелец периода
	PlanID    int64     `json:"plan_id"`    // Купленный тарифный план
	StartDate time.Time `json:"start_date"` // Начало оплаченного периода
	EndDate   time.Time `json:"end_date"`   // Конец оплаченного периода
	IsActive  bool      `json:"is_active"`  // Признак текущего периода
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ActiveAt сообщает, действует ли период в момент t.
func (e *Entitlement) ActiveAt(t time.Time) bool {
	return e.IsActive && e.EndDate.After(t)
}

// PurchaseEvent описывает событие покупки подписки, публикуемое в очередь
// после успешного применения периода.
type PurchaseEvent struct {
	EventID       string    `json:"event_id"`
	UserID        int64     `json:"user_id"`
	PlanID        int64     `json:"plan_id"`
	EntitlementID int64     `json:"entitlement_id"`
	EndDate       time.Time `json:"end_date"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// ExpiryReminder описывает напоминание об истекающей завтра подписке,
// публикуемое планировщиком для последующей отправки письма.
type ExpiryReminder struct {
	Email    string    `json:"email"`
	Username string    `json:"username"`
	PlanName string    `json:"plan_name"`
	EndDate  time.Time `json:"end_date"`
}
