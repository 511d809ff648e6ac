package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/movienest/movienest/internal/models"
)

// AcquireEntitlement применяет покупку плана к состоянию подписки пользователя
// одной атомарной транзакцией:
//
//   - активного периода нет — создаётся новая запись от now;
//   - активный период на том же плане — его end_date продлевается на
//     длительность плана (накопительно, неиспользованное время сохраняется);
//   - активный период на другом плане — старая запись деактивируется,
//     создаётся новая от now. Остаток старого периода не кредитуется.
//
// Активность здесь определяется только флагом is_active: просроченная,
// но не снятая запись продлевается как активная, как и в остальной системе
// с ленивым истечением.
//
// Сериализация конкурентных покупок одного пользователя обеспечивается
// блокировкой строки пользователя (SELECT ... FOR UPDATE): два параллельных
// вызова не могут оба увидеть отсутствие активного периода. Блокировка
// пер-пользовательская, покупки разных пользователей не мешают друг другу.
func (s *Storage) AcquireEntitlement(ctx context.Context, userID int64, plan *models.Plan, now time.Time) (*models.Entitlement, error) {
	const op = "storage.AcquireEntitlement"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var lockedID int64
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM users WHERE id = $1 AND is_deleted = false FOR UPDATE`,
		userID).Scan(&lockedID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	current := &models.Entitlement{}
	err = tx.QueryRowContext(ctx,
		`SELECT id, user_id, plan_id, start_date, end_date, is_active, created_at, updated_at
		 FROM entitlements
		 WHERE user_id = $1 AND is_active = true
		 ORDER BY id DESC
		 LIMIT 1
		 FOR UPDATE`,
		userID).Scan(&current.ID, &current.UserID, &current.PlanID, &current.StartDate,
		&current.EndDate, &current.IsActive, &current.CreatedAt, &current.UpdatedAt)

	var result *models.Entitlement
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// Активного периода нет: новый период от now.
		result, err = insertEntitlement(ctx, tx, userID, plan, now)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

	case err != nil:
		return nil, fmt.Errorf("%s: %w", op, err)

	case current.PlanID == plan.ID:
		// Тот же план: продление той же записи, а не сброс к now.
		newEnd := current.EndDate.AddDate(0, 0, plan.DurationDays)
		err = tx.QueryRowContext(ctx,
			`UPDATE entitlements
			 SET end_date = $1, updated_at = now()
			 WHERE id = $2
			 RETURNING updated_at`,
			newEnd, current.ID).Scan(&current.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		current.EndDate = newEnd
		result = current

	default:
		// Другой план: старый период закрывается без пересчёта остатка,
		// новый начинается от now.
		if _, err = tx.ExecContext(ctx,
			`UPDATE entitlements
			 SET is_active = false, updated_at = now()
			 WHERE id = $1`,
			current.ID); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result, err = insertEntitlement(ctx, tx, userID, plan, now)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

func insertEntitlement(ctx context.Context, tx *sql.Tx, userID int64, plan *models.Plan, now time.Time) (*models.Entitlement, error) {
	ent := &models.Entitlement{
		UserID:    userID,
		PlanID:    plan.ID,
		StartDate: now,
		EndDate:   now.AddDate(0, 0, plan.DurationDays),
		IsActive:  true,
	}
	err := tx.QueryRowContext(ctx,
		`INSERT INTO entitlements (user_id, plan_id, start_date, end_date, is_active)
		 VALUES ($1, $2, $3, $4, true)
		 RETURNING id, created_at, updated_at`,
		ent.UserID, ent.PlanID, ent.StartDate, ent.EndDate).
		Scan(&ent.ID, &ent.CreatedAt, &ent.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return ent, nil
}

// GetActiveEntitlementByUser возвращает действующий на момент asOf период
// пользователя или ErrNotFound. Просроченные, но не снятые записи
// действующими не считаются.
func (s *Storage) GetActiveEntitlementByUser(ctx context.Context, userID int64, asOf time.Time) (*models.Entitlement, error) {
	const op = "storage.GetActiveEntitlementByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_id, plan_id, start_date, end_date, is_active, created_at, updated_at
			  FROM entitlements
			  WHERE user_id = $1 AND is_active = true AND end_date > $2
			  ORDER BY id DESC
			  LIMIT 1`
	ent := &models.Entitlement{}
	row := s.DB.QueryRowContext(ctx, query, userID, asOf)
	if err := row.Scan(&ent.ID, &ent.UserID, &ent.PlanID, &ent.StartDate,
		&ent.EndDate, &ent.IsActive, &ent.CreatedAt, &ent.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ent, nil
}

// CountActiveEntitlements считает действующие на момент asOf периоды по всем
// пользователям. Истечение ленивое: запись с is_active = true, но прошедшей
// end_date в счёт не попадает, хотя флаг с неё никто не снимал.
func (s *Storage) CountActiveEntitlements(ctx context.Context, asOf time.Time) (int, error) {
	const op = "storage.CountActiveEntitlements"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var count int
	query := `SELECT COUNT(*) FROM entitlements
			  WHERE is_active = true AND end_date > $1`
	if err := s.DB.QueryRowContext(ctx, query, asOf).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// CountActiveEntitlementsByUser считает действующие периоды одного пользователя.
// Ожидаемый результат — 0 или 1: двух активных периодов у пользователя не бывает.
func (s *Storage) CountActiveEntitlementsByUser(ctx context.Context, userID int64, asOf time.Time) (int, error) {
	const op = "storage.CountActiveEntitlementsByUser"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var count int
	query := `SELECT COUNT(*) FROM entitlements
			  WHERE user_id = $1 AND is_active = true AND end_date > $2`
	if err := s.DB.QueryRowContext(ctx, query, userID, asOf).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// FindEntitlementsExpiringTomorrow находит периоды, истекающие завтра,
// вместе с адресатами напоминаний. Запрос только читает: снятие флага
// is_active по расписанию в системе отсутствует.
func (s *Storage) FindEntitlementsExpiringTomorrow(ctx context.Context) ([]*models.ExpiryReminder, error) {
	const op = "storage.FindEntitlementsExpiringTomorrow"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT u.email, u.username, p.name, e.end_date
			  FROM entitlements e
			  JOIN users u ON u.id = e.user_id
			  JOIN plans p ON p.id = e.plan_id
			  WHERE e.is_active = true
			    AND u.is_deleted = false
			    AND e.end_date::DATE = CURRENT_DATE + INTERVAL '1 day'`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.ExpiryReminder
	for rows.Next() {
		var r models.ExpiryReminder
		if err = rows.Scan(&r.Email, &r.Username, &r.PlanName, &r.EndDate); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &r)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
