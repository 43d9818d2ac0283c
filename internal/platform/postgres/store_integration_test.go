//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/platform/postgres"
	"github.com/phrazzld/taskboard-api/internal/store"
	"github.com/phrazzld/taskboard-api/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func insertUser(ctx context.Context, t *testing.T, tx *sql.Tx, email string) *domain.User {
	t.Helper()

	user, err := domain.NewUser(email, "senha123", "Integração")
	require.NoError(t, err)
	user.HashedPassword = "$2a$10$abcdefghijklmnopqrstuv"
	require.NoError(t, postgres.NewPostgresUserStore(tx, nil).Create(ctx, user))
	return user
}

func TestPostgresUserStore_Integration(t *testing.T) {
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx, cancel := context.WithTimeout(context.Background(), testdb.TestTimeout)
		defer cancel()

		users := postgres.NewPostgresUserStore(tx, nil)
		email := "user-" + uuid.NewString()[:8] + "@example.com"
		created := insertUser(ctx, t, tx, email)

		byID, err := users.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, email, byID.Email)

		byEmail, err := users.GetByEmail(ctx, "  "+email)
		require.NoError(t, err)
		assert.Equal(t, created.ID, byEmail.ID)

		dup, err := domain.NewUser(email, "senha123", "Outro")
		require.NoError(t, err)
		dup.HashedPassword = "hash"
		assert.ErrorIs(t, users.Create(ctx, dup), store.ErrEmailExists)

		_, err = users.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})
}

func TestPostgresTaskStore_Integration(t *testing.T) {
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx, cancel := context.WithTimeout(context.Background(), testdb.TestTimeout)
		defer cancel()

		owner := insertUser(ctx, t, tx, "owner-"+uuid.NewString()[:8]+"@example.com")
		other := insertUser(ctx, t, tx, "other-"+uuid.NewString()[:8]+"@example.com")
		tasks := postgres.NewPostgresTaskStore(tx, nil)

		due := time.Date(2025, 5, 30, 0, 0, 0, 0, time.UTC)
		high := domain.PriorityHigh
		first, err := domain.NewTask(owner.ID, "Primeira", nil, &due, &high)
		require.NoError(t, err)
		require.NoError(t, tasks.Create(ctx, first))

		second, err := domain.NewTask(owner.ID, "Segunda", nil, nil, nil)
		require.NoError(t, err)
		second.CreatedAt = first.CreatedAt.Add(time.Second)
		require.NoError(t, tasks.Create(ctx, second))

		foreign, err := domain.NewTask(other.ID, "Alheia", nil, nil, nil)
		require.NoError(t, err)
		require.NoError(t, tasks.Create(ctx, foreign))

		all, err := tasks.List(ctx, owner.ID, store.TaskFilter{})
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, second.ID, all[0].ID, "newest first")
		assert.Equal(t, first.ID, all[1].ID)

		onlyHigh, err := tasks.List(ctx, owner.ID, store.TaskFilter{Priority: &high})
		require.NoError(t, err)
		require.Len(t, onlyHigh, 1)
		require.NotNil(t, onlyHigh[0].DueDate)
		assert.True(t, due.Equal(*onlyHigh[0].DueDate))

		_, err = tasks.GetByID(ctx, owner.ID, foreign.ID)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)

		second.Completed = true
		second.UpdatedAt = time.Now().UTC()
		require.NoError(t, tasks.Update(ctx, second))

		done := true
		completed, err := tasks.List(ctx, owner.ID, store.TaskFilter{Completed: &done})
		require.NoError(t, err)
		require.Len(t, completed, 1)
		assert.Equal(t, second.ID, completed[0].ID)

		foreign.Title = "Sequestrada"
		foreign.UserID = owner.ID
		assert.ErrorIs(t, tasks.Update(ctx, foreign), store.ErrTaskNotFound)

		assert.ErrorIs(t, tasks.Delete(ctx, other.ID, first.ID), store.ErrTaskNotFound)
		require.NoError(t, tasks.Delete(ctx, owner.ID, first.ID))
		assert.ErrorIs(t, tasks.Delete(ctx, owner.ID, first.ID), store.ErrTaskNotFound)
	})
}
