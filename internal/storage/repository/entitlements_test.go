package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movienest/movienest/internal/models"
)

func TestAcquireEntitlement_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	planHD := factory.CreatePlan(t, "HD", models.PlanHD, 30, 4.99)
	planFHD := factory.CreatePlan(t, "Full HD", models.PlanFHD, 30, 7.99)

	t.Run("first purchase creates entitlement from now", func(t *testing.T) {
		userID := factory.CreateUser(t, "alice", "alice@example.com", "hash", models.RoleUser)

		ent, err := storage.AcquireEntitlement(ctx, userID, planHD, now)
		require.NoError(t, err)

		assert.Equal(t, userID, ent.UserID)
		assert.Equal(t, planHD.ID, ent.PlanID)
		assert.True(t, ent.IsActive)
		assert.WithinDuration(t, now, ent.StartDate, time.Second)
		assert.WithinDuration(t, now.AddDate(0, 0, 30), ent.EndDate, time.Second)
		assert.Equal(t, 1, factory.CountEntitlementRows(t, userID))
	})

	t.Run("same plan extends existing row", func(t *testing.T) {
		userID := factory.CreateUser(t, "bob", "bob@example.com", "hash", models.RoleUser)

		first, err := storage.AcquireEntitlement(ctx, userID, planHD, now)
		require.NoError(t, err)
		second, err := storage.AcquireEntitlement(ctx, userID, planHD, now.Add(time.Hour))
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.WithinDuration(t, first.EndDate.AddDate(0, 0, 30), second.EndDate, time.Second)
		assert.WithinDuration(t, first.StartDate, second.StartDate, time.Second)
		assert.Equal(t, 1, factory.CountEntitlementRows(t, userID))
	})

	t.Run("same plan extends even after end date passed", func(t *testing.T) {
		// Строка остаётся активной и после конца периода, пока её не заменили:
		// продление прибавляет срок к прошедшей дате, а не начинает заново.
		userID := factory.CreateUser(t, "carol", "carol@example.com", "hash", models.RoleUser)
		lapsedEnd := now.AddDate(0, 0, -10)
		entID := factory.CreateEntitlement(t, userID, planHD.ID, now.AddDate(0, 0, -40), lapsedEnd, true)

		ent, err := storage.AcquireEntitlement(ctx, userID, planHD, now)
		require.NoError(t, err)

		assert.Equal(t, entID, ent.ID)
		assert.WithinDuration(t, lapsedEnd.AddDate(0, 0, 30), ent.EndDate, time.Second)
	})

	t.Run("different plan deactivates old and creates new", func(t *testing.T) {
		userID := factory.CreateUser(t, "dave", "dave@example.com", "hash", models.RoleUser)

		first, err := storage.AcquireEntitlement(ctx, userID, planHD, now)
		require.NoError(t, err)
		second, err := storage.AcquireEntitlement(ctx, userID, planFHD, now.Add(time.Hour))
		require.NoError(t, err)

		assert.NotEqual(t, first.ID, second.ID)
		assert.Equal(t, planFHD.ID, second.PlanID)
		assert.True(t, second.IsActive)
		assert.WithinDuration(t, now.Add(time.Hour), second.StartDate, time.Second)
		assert.Equal(t, 2, factory.CountEntitlementRows(t, userID))

		var oldActive bool
		err = storage.DB.QueryRow("SELECT is_active FROM entitlements WHERE id = $1", first.ID).Scan(&oldActive)
		require.NoError(t, err)
		assert.False(t, oldActive)
	})

	t.Run("deleted user cannot purchase", func(t *testing.T) {
		userID := factory.CreateDeletedUser(t, "ghost", "ghost@example.com")

		_, err := storage.AcquireEntitlement(ctx, userID, planHD, now)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("concurrent purchases are serialized per user", func(t *testing.T) {
		userID := factory.CreateUser(t, "eve", "eve@example.com", "hash", models.RoleUser)

		const workers = 8
		var wg sync.WaitGroup
		errs := make([]error, workers)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = storage.AcquireEntitlement(ctx, userID, planHD, now)
			}(i)
		}
		wg.Wait()

		for _, err := range errs {
			require.NoError(t, err)
		}

		// Все покупки легли в одну строку, срок вырос ровно на workers периодов.
		assert.Equal(t, 1, factory.CountEntitlementRows(t, userID))
		ent, err := storage.GetActiveEntitlementByUser(ctx, userID, now)
		require.NoError(t, err)
		assert.WithinDuration(t, now.AddDate(0, 0, 30*workers), ent.EndDate, time.Second)
	})
}

func TestCountActiveEntitlements_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	ctx := context.Background()
	now := time.Now().UTC()

	plan := factory.CreatePlan(t, "HD", models.PlanHD, 30, 4.99)

	active := factory.CreateUser(t, "active", "active@example.com", "hash", models.RoleUser)
	lapsed := factory.CreateUser(t, "lapsed", "lapsed@example.com", "hash", models.RoleUser)
	replaced := factory.CreateUser(t, "replaced", "replaced@example.com", "hash", models.RoleUser)

	factory.CreateEntitlement(t, active, plan.ID, now.AddDate(0, 0, -1), now.AddDate(0, 0, 29), true)
	// Флаг ещё стоит, но срок вышел: действующим такой период не считается.
	factory.CreateEntitlement(t, lapsed, plan.ID, now.AddDate(0, 0, -40), now.AddDate(0, 0, -10), true)
	factory.CreateEntitlement(t, replaced, plan.ID, now.AddDate(0, 0, -5), now.AddDate(0, 0, 25), false)

	count, err := storage.CountActiveEntitlements(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = storage.GetActiveEntitlementByUser(ctx, lapsed, now)
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := storage.GetActiveEntitlementByUser(ctx, active, now)
	require.NoError(t, err)
	assert.True(t, got.IsActive)
}

func TestUsersRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	ctx := context.Background()

	userID := factory.CreateUser(t, "frank", "frank@example.com", "hash", models.RoleUser)

	t.Run("active user is visible", func(t *testing.T) {
		user, err := storage.GetActiveUserByUsername(ctx, "frank")
		require.NoError(t, err)
		assert.Equal(t, userID, user.ID)
		assert.Equal(t, models.RoleUser, user.Role)
	})

	t.Run("soft delete hides user from active lookups", func(t *testing.T) {
		require.NoError(t, storage.SoftDeleteUser(ctx, userID))

		_, err := storage.GetActiveUserByUsername(ctx, "frank")
		assert.ErrorIs(t, err, ErrNotFound)

		// По ID пользователь остаётся читаемым, флаг удаления выставлен.
		user, err := storage.GetUserByID(ctx, userID)
		require.NoError(t, err)
		assert.True(t, user.IsDeleted)
	})

	t.Run("repeated soft delete fails", func(t *testing.T) {
		err := storage.SoftDeleteUser(ctx, userID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("username is reusable after soft delete", func(t *testing.T) {
		newID := factory.CreateUser(t, "frank", "frank2@example.com", "hash", models.RoleUser)
		assert.NotEqual(t, userID, newID)

		users, total, err := storage.ListUsers(ctx, "frank", 10, 0)
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, users, 1)
		assert.Equal(t, newID, users[0].ID)
	})
}
