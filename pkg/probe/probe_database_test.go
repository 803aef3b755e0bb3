package probe

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatabaseProbeExecOk(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT 1").WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	result := NewDatabaseProbe(db, time.Second).Exec(context.Background())

	assert.True(t, result.OK)
	assert.Equal(t, "Connected", result.Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabaseProbeExecQueryFailure(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT 1").WillReturnError(errors.New("access denied for user 'app'"))

	result := NewDatabaseProbe(db, time.Second).Exec(context.Background())

	assert.False(t, result.OK)
	assert.Equal(t, KindQuery, result.Kind())
	assert.Contains(t, result.Message, "access denied")
}

func TestDatabaseProbeExecTimeout(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT 1").
		WillDelayFor(time.Second).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	result := NewDatabaseProbe(db, 20*time.Millisecond).Exec(context.Background())

	assert.False(t, result.OK)
	assert.Equal(t, KindConnectivity, result.Kind())
}

func TestDatabaseProbeExecClosedPool(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectClose()
	require.NoError(t, db.Close())

	result := NewDatabaseProbe(db, time.Second).Exec(context.Background())

	assert.False(t, result.OK)
	assert.Equal(t, KindConnectivity, result.Kind())
}

func TestDatabaseProbeExecWithoutHandle(t *testing.T) {
	result := NewDatabaseProbe(nil, time.Second).Exec(context.Background())

	assert.False(t, result.OK)
	assert.ErrorIs(t, result.Err, ErrNoHandle)
}
