package journal

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safari-erp/safari/internal/accounts"
	"github.com/safari-erp/safari/internal/model"
)

func TestAdd_NewMonth(t *testing.T) {
	dir := t.TempDir()
	svc := NewService(dir, testAccounts())

	entryID, err := svc.Add(AddParams{
		CompetenceDate: date(2025, 1, 15),
		PaymentDate:    date(2025, 1, 20),
		Amount:         dec("1500.00"),
		Status:         model.StatusReceived,
		AccountCode:    "1.01.01.01",
		CostCenter:     "Comercial",
		Notes:          "Venda balcão",
	})
	require.NoError(t, err)
	assert.Equal(t, "2025-01-001", entryID)

	path := filepath.Join(dir, "2025", "01", "entries.csv")
	_, err = os.Stat(path)
	require.NoError(t, err)

	entries, err := svc.ReadMonth(2025, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Amount.Equal(dec("1500")))
	assert.Equal(t, "Comercial", entries[0].CostCenter)
}

func TestAdd_ExistingMonth(t *testing.T) {
	dir := t.TempDir()
	svc := NewService(dir, testAccounts())

	for i := 0; i < 3; i++ {
		_, err := svc.Add(AddParams{
			CompetenceDate: date(2025, 1, 10+i),
			Amount:         dec("10.00"),
			AccountCode:    "2.01.00.01",
		})
		require.NoError(t, err)
	}

	entries, err := svc.ReadMonth(2025, 1)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "2025-01-003", entries[2].ID)
}

func TestAdd_DefaultStatusFollowsNature(t *testing.T) {
	dir := t.TempDir()
	svc := NewService(dir, testAccounts())

	inID, err := svc.Add(AddParams{CompetenceDate: date(2025, 2, 1), Amount: dec("1"), AccountCode: "1.01.01.01"})
	require.NoError(t, err)
	outID, err := svc.Add(AddParams{CompetenceDate: date(2025, 2, 1), Amount: dec("1"), AccountCode: "2.01.00.01"})
	require.NoError(t, err)

	in, err := svc.Get(inID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusToReceive, in.Status)

	out, err := svc.Get(outID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusToPay, out.Status)
}

func TestAdd_NormalizesAccountCode(t *testing.T) {
	dir := t.TempDir()
	svc := NewService(dir, newMockAccounts("3.01.00.01"))

	entryID, err := svc.Add(AddParams{CompetenceDate: date(2025, 2, 1), Amount: dec("1"), AccountCode: " 3.01.00.01 "})
	require.NoError(t, err)
	e, err := svc.Get(entryID)
	require.NoError(t, err)
	assert.Equal(t, "3.01.00.01", e.AccountCode)

	_, err = NewService(t.TempDir(), newMockAccounts("3.01")).Add(AddParams{CompetenceDate: date(2025, 2, 1), Amount: dec("1"), AccountCode: "3.01"})
	require.Error(t, err, "3.01 pads to the synthetic 3.01.00.00")
}

func TestAdd_ValidationFailure(t *testing.T) {
	dir := t.TempDir()
	svc := NewService(dir, testAccounts())

	_, err := svc.Add(AddParams{
		CompetenceDate: date(2025, 1, 15),
		Amount:         dec("10.001"),
		AccountCode:    "2.01.00.01",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")

	_, err = os.Stat(filepath.Join(dir, "2025", "01", "entries.csv"))
	assert.True(t, os.IsNotExist(err), "nothing is written when validation fails")
}

func TestAdd_UnknownAccount(t *testing.T) {
	svc := NewService(t.TempDir(), testAccounts())
	_, err := svc.Add(AddParams{CompetenceDate: date(2025, 1, 15), Amount: dec("1"), AccountCode: "7.00.00.01"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown account")
	assert.ErrorIs(t, err, accounts.ErrUnknownAccount)
}

func TestReadMonth_NonExistent(t *testing.T) {
	svc := NewService(t.TempDir(), testAccounts())
	entries, err := svc.ReadMonth(2025, 6)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestReadAll_AcrossMonths(t *testing.T) {
	dir := t.TempDir()
	svc := NewService(dir, testAccounts())

	for _, d := range []struct{ y, m int }{{2025, 2}, {2024, 12}, {2025, 1}} {
		_, err := svc.Add(AddParams{CompetenceDate: date(d.y, d.m, 5), Amount: dec("1"), AccountCode: "1.01.01.01"})
		require.NoError(t, err)
	}
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "accounts"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "2025", "03"), 0o755))

	all, err := svc.ReadAll()
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "2024-12-001", all[0].ID)
	assert.Equal(t, "2025-01-001", all[1].ID)
	assert.Equal(t, "2025-02-001", all[2].ID)
}

func TestGet_NotFound(t *testing.T) {
	svc := NewService(t.TempDir(), testAccounts())
	_, err := svc.Get("2025-01-001")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Get("nonsense")
	assert.Error(t, err)
}

func TestSetStatus_SettleSetsPaymentDate(t *testing.T) {
	dir := t.TempDir()
	svc := NewService(dir, testAccounts())

	entryID, err := svc.Add(AddParams{
		CompetenceDate: date(2025, 1, 5),
		PaymentDate:    date(2025, 1, 30),
		Amount:         dec("250"),
		AccountCode:    "2.01.00.01",
	})
	require.NoError(t, err)

	e, err := svc.SetStatus(entryID, model.StatusPaid, date(2025, 1, 28))
	require.NoError(t, err)
	assert.Equal(t, model.StatusPaid, e.Status)
	assert.True(t, e.PaymentDate.Equal(date(2025, 1, 28)))

	got, err := svc.Get(entryID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPaid, got.Status)
	assert.True(t, got.PaymentDate.Equal(date(2025, 1, 28)))
}

func TestSetStatus_KeepsPaymentDateWhenNoneGiven(t *testing.T) {
	dir := t.TempDir()
	svc := NewService(dir, testAccounts())

	entryID, err := svc.Add(AddParams{
		CompetenceDate: date(2025, 1, 5),
		PaymentDate:    date(2025, 1, 30),
		Amount:         dec("250"),
		AccountCode:    "1.01.01.01",
	})
	require.NoError(t, err)

	e, err := svc.SetStatus(entryID, model.StatusReceived, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, model.StatusReceived, e.Status)
	assert.True(t, e.PaymentDate.Equal(date(2025, 1, 30)))
}

func TestSetStatus_RejectsWrongVocabulary(t *testing.T) {
	dir := t.TempDir()
	svc := NewService(dir, testAccounts())

	entryID, err := svc.Add(AddParams{CompetenceDate: date(2025, 1, 5), Amount: dec("1"), AccountCode: "1.01.01.01"})
	require.NoError(t, err)

	_, err = svc.SetStatus(entryID, model.StatusPaid, date(2025, 1, 6))
	require.Error(t, err)

	got, err := svc.Get(entryID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusToReceive, got.Status, "entry unchanged")
}

func TestSetStatus_NotFound(t *testing.T) {
	svc := NewService(t.TempDir(), testAccounts())
	_, err := svc.SetStatus("2025-01-001", model.StatusPaid, date(2025, 1, 6))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMarkOverdue(t *testing.T) {
	dir := t.TempDir()
	svc := NewService(dir, testAccounts())

	add := func(payment string, status model.EntryStatus, acct string) string {
		p := AddParams{CompetenceDate: date(2025, 1, 2), Amount: dec("1"), Status: status, AccountCode: acct}
		if payment != "" {
			p.PaymentDate = mustDate(t, payment)
		}
		entryID, err := svc.Add(p)
		require.NoError(t, err)
		return entryID
	}

	past := add("2025-01-10", "", "2.01.00.01")
	pastIn := add("2025-01-11", "", "1.01.01.01")
	today := add("2025-01-20", "", "2.01.00.01")
	settled := add("2025-01-05", model.StatusPaid, "2.01.00.01")
	undated := add("", "", "2.01.00.01")

	n, err := svc.MarkOverdue(date(2025, 1, 20))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	want := map[string]model.EntryStatus{
		past:    model.StatusOverdue,
		pastIn:  model.StatusOverdue,
		today:   model.StatusToPay,
		settled: model.StatusPaid,
		undated: model.StatusToPay,
	}
	for entryID, status := range want {
		e, err := svc.Get(entryID)
		require.NoError(t, err)
		assert.Equal(t, status, e.Status, entryID)
	}

	n, err = svc.MarkOverdue(date(2025, 1, 20))
	require.NoError(t, err)
	assert.Zero(t, n, "second run changes nothing")
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}

func TestMonthPath(t *testing.T) {
	assert.Equal(t, filepath.Join("2025", "03", "entries.csv"), MonthPath(2025, 3))
}
