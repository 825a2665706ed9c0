package persistence

import (
	"context"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"social-hub/domain/model"
)

func TestUserRepository_GetByUserName(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewUserRepository(db)

	createdAt := time.Date(2026, 2, 10, 8, 30, 0, 0, time.UTC)
	updatedAt := createdAt.Add(time.Hour)

	mock.ExpectPrepare(regexp.QuoteMeta(`SELECT u.id, u.name, u.user_name, u.password, u.created_at, u.updated_at
	FROM users AS u
	WHERE u.user_name = $1`)).
		ExpectQuery().WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "user_name", "password", "created_at", "updated_at"}).
			AddRow(1, "Alice", "alice", "$2a$10$hash", createdAt, updatedAt))

	res, err := repository.GetByUserName(context.Background(), "alice")
	require.NoError(t, err)
	require.Equal(t, model.User{
		ID:        1,
		Name:      "Alice",
		UserName:  "alice",
		Password:  "$2a$10$hash",
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, res)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByUserName_PrepareError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewUserRepository(db)

	mock.ExpectPrepare(regexp.QuoteMeta(`SELECT u.id, u.name, u.user_name, u.password, u.created_at, u.updated_at
	FROM users AS u
	WHERE u.user_name = $1`)).
		WillReturnError(fmt.Errorf("prepare error"))

	res, err := repository.GetByUserName(context.Background(), "alice")
	require.Error(t, err)
	require.Equal(t, model.User{}, res)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_CreateUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewUserRepository(db)

	mock.ExpectPrepare(regexp.QuoteMeta(`INSERT INTO users (name, user_name, password, created_at, updated_at) VALUES ($1, $2, $3, $4, $4)`)).
		ExpectExec().WithArgs("Alice", "alice", "$2a$10$hash", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = repository.CreateUser(context.Background(), model.User{
		Name:     "Alice",
		UserName: "alice",
		Password: "$2a$10$hash",
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
