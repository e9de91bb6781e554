package psql

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duynhne/form-service/internal/core/domain"
)

var (
	validInput = domain.FormInput{
		Username:    "a",
		Email:       "a@x.com",
		Description: "d",
		Phone:       "1",
		City:        "c",
	}
	formCols = []string{"id", "username", "email", "description", "phone", "city"}
)

func newMock(t *testing.T) (pgxmock.PgxPoolIface, *FormRepository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock, NewFormRepository(mock)
}

func TestEnsureSchema(t *testing.T) {
	mock, repo := newMock(t)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS forms").
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))

	require.NoError(t, repo.EnsureSchema(context.Background()))
}

func TestCreate(t *testing.T) {
	mock, repo := newMock(t)
	mock.ExpectExec("INSERT INTO forms").
		WithArgs(pgxmock.AnyArg(), "a", "a@x.com", "d", "1", "c").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	form, err := repo.Create(context.Background(), validInput)
	require.NoError(t, err)

	_, parseErr := uuid.Parse(form.ID)
	assert.NoError(t, parseErr)
	assert.Equal(t, "a@x.com", form.Email)
}

func TestCreate_StoreError(t *testing.T) {
	mock, repo := newMock(t)
	mock.ExpectExec("INSERT INTO forms").
		WithArgs(pgxmock.AnyArg(), "a", "a@x.com", "d", "1", "c").
		WillReturnError(errors.New("connection refused"))

	_, err := repo.Create(context.Background(), validInput)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert form")
}

func TestList(t *testing.T) {
	mock, repo := newMock(t)
	first, second := uuid.NewString(), uuid.NewString()
	mock.ExpectQuery("SELECT (.+) FROM forms ORDER BY seq").
		WillReturnRows(pgxmock.NewRows(formCols).
			AddRow(first, "a", "a@x.com", "d", "1", "c1").
			AddRow(second, "b", "b@x.com", "d", "2", "c2"))

	forms, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, forms, 2)
	assert.Equal(t, first, forms[0].ID)
	assert.Equal(t, "c2", forms[1].City)
}

func TestList_Empty(t *testing.T) {
	mock, repo := newMock(t)
	mock.ExpectQuery("SELECT (.+) FROM forms").
		WillReturnRows(pgxmock.NewRows(formCols))

	forms, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, forms)
	assert.Empty(t, forms)
}

func TestUpdate(t *testing.T) {
	mock, repo := newMock(t)
	id := uuid.NewString()
	in := validInput
	in.City = "c2"

	mock.ExpectQuery("UPDATE forms SET").
		WithArgs(id, "a", "a@x.com", "d", "1", "c2").
		WillReturnRows(pgxmock.NewRows(formCols).AddRow(id, "a", "a@x.com", "d", "1", "c2"))

	form, err := repo.Update(context.Background(), id, in)
	require.NoError(t, err)
	assert.Equal(t, id, form.ID)
	assert.Equal(t, "c2", form.City)
}

func TestUpdate_NotFound(t *testing.T) {
	mock, repo := newMock(t)
	id := uuid.NewString()
	mock.ExpectQuery("UPDATE forms SET").
		WithArgs(id, "a", "a@x.com", "d", "1", "c").
		WillReturnRows(pgxmock.NewRows(formCols))

	_, err := repo.Update(context.Background(), id, validInput)
	assert.ErrorIs(t, err, domain.ErrFormNotFound)
}

func TestUpdate_MalformedID(t *testing.T) {
	_, repo := newMock(t)

	_, err := repo.Update(context.Background(), "abc", validInput)
	assert.ErrorIs(t, err, domain.ErrFormNotFound)
}

func TestDelete(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		wantErr  error
	}{
		{"existing", 1, nil},
		{"missing", 0, domain.ErrFormNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, repo := newMock(t)
			id := uuid.NewString()
			mock.ExpectExec("DELETE FROM forms WHERE id").
				WithArgs(id).
				WillReturnResult(pgxmock.NewResult("DELETE", tt.affected))

			err := repo.Delete(context.Background(), id)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestDelete_MalformedID(t *testing.T) {
	_, repo := newMock(t)

	assert.ErrorIs(t, repo.Delete(context.Background(), "123"), domain.ErrFormNotFound)
}
