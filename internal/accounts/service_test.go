package accounts

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safari-erp/safari/internal/model"
)

func TestNewService(t *testing.T) {
	chart := DefaultChart()
	svc := NewService(chart)

	assert.Len(t, svc.All(), len(chart))
}

func TestNewService_SortsAndDeduplicates(t *testing.T) {
	svc := NewService([]model.Account{
		New("2.00.00.00", "Despesas"),
		New("1.00.00.00", "Receitas"),
		New("2.00.00.00", "Duplicada"),
	})

	all := svc.All()
	require.Len(t, all, 2)
	assert.Equal(t, "1.00.00.00", all[0].Code)
	assert.Equal(t, "Despesas", all[1].Description)
}

func TestGetExists(t *testing.T) {
	svc := NewService(DefaultChart())

	acct, ok := svc.Get("2.01.00.01")
	assert.True(t, ok)
	assert.Equal(t, "Salários", acct.Description)

	acct, ok = svc.Get("2.01")
	assert.True(t, ok, "short codes are padded before lookup")
	assert.Equal(t, "2.01.00.00", acct.Code)

	_, ok = svc.Get("9.99.99.99")
	assert.False(t, ok)

	assert.True(t, svc.Exists("1.00.00.00"))
	assert.False(t, svc.Exists("9"))
}

func TestByNature(t *testing.T) {
	svc := NewService(DefaultChart())

	for _, a := range svc.ByNature(model.NatureInflow) {
		assert.Equal(t, model.NatureInflow, a.Nature)
		assert.Equal(t, "1", a.Code[:1])
	}
	assert.Len(t, svc.ByNature(model.NatureInflow), 7)
	assert.Len(t, svc.ByNature(model.NatureOutflow), 9)
}

func TestPostable(t *testing.T) {
	svc := NewService(DefaultChart())
	for _, a := range svc.Postable() {
		assert.True(t, a.AcceptsPostings, a.Code)
	}
	assert.Len(t, svc.Postable(), 8)
}

func TestSaveRoundTrip(t *testing.T) {
	chart := DefaultChart()
	svc := NewService(chart)

	dir := t.TempDir()
	require.NoError(t, svc.Save(dir))

	_, err := os.Stat(Path(dir))
	require.NoError(t, err)

	svc2, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, svc.All(), svc2.All())
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
