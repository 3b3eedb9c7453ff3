package db

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) pgxmock.PgxConnIface {
	t.Helper()
	mock, err := pgxmock.NewConn(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = mock.Close(context.Background())
	})
	return mock
}

func TestSelectOne(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(selectOneSQL).WillReturnRows(pgxmock.NewRows([]string{"value"}).AddRow(1))

	v, err := SelectOne(context.Background(), mock)
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestSelectOneUnexpectedValue(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(selectOneSQL).WillReturnRows(pgxmock.NewRows([]string{"value"}).AddRow(2))

	_, err := SelectOne(context.Background(), mock)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnexpectedValue))
}

func TestSelectOneQueryError(t *testing.T) {
	boom := errors.New("connection reset")
	mock := newMock(t)
	mock.ExpectQuery(selectOneSQL).WillReturnError(boom)

	_, err := SelectOne(context.Background(), mock)
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom), "driver error should be wrapped, got %v", err)
}

func TestCurrentDatabase(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(currentDatabaseSQL).WillReturnRows(pgxmock.NewRows([]string{"db"}).AddRow("versus"))

	name, err := CurrentDatabase(context.Background(), mock)
	require.NoError(t, err)
	assert.Equal(t, "versus", name)
}

func TestCurrentDatabaseEmpty(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(currentDatabaseSQL).WillReturnRows(pgxmock.NewRows([]string{"db"}).AddRow(""))

	_, err := CurrentDatabase(context.Background(), mock)
	assert.True(t, errors.Is(err, ErrNoDatabase))
}

func TestCheck(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(selectOneSQL).WillReturnRows(pgxmock.NewRows([]string{"value"}).AddRow(1))
	mock.ExpectQuery(currentDatabaseSQL).WillReturnRows(pgxmock.NewRows([]string{"db"}).AddRow("versus"))

	st, err := Check(context.Background(), mock)
	require.NoError(t, err)
	assert.Equal(t, 1, st.Value)
	assert.Equal(t, "versus", st.Database)
	assert.GreaterOrEqual(t, st.Latency.Nanoseconds(), int64(0))
}

func TestCheckStopsAtFirstFailure(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta(selectOneSQL)).WillReturnError(errors.New("down"))

	_, err = Check(context.Background(), mock)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewPoolInvalidURL(t *testing.T) {
	_, err := NewPool(context.Background(), "://not a url")
	assert.Error(t, err)
}
