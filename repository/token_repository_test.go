package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRepository_DeleteByTokenHash(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewTokenRepository(db)

	dbMock.ExpectExec(regexp.QuoteMeta(`DELETE FROM refresh_tokens WHERE token_hash = $1`)).
		WithArgs("abc").
		WillReturnResult(sqlmock.NewResult(0, 1))
	dbMock.ExpectExec(regexp.QuoteMeta(`DELETE FROM refresh_tokens WHERE token_hash = $1`)).
		WithArgs("abc").
		WillReturnResult(sqlmock.NewResult(0, 0))

	removed, err := repo.DeleteByTokenHash(context.Background(), "abc")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.DeleteByTokenHash(context.Background(), "abc")
	require.NoError(t, err)
	assert.False(t, removed)

	assert.NoError(t, dbMock.ExpectationsWereMet())
}
