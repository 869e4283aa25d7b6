package repository

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josh-kwaku/reimbursement-ledger/internal/domain"
)

func sampleAccounts() []domain.Account {
	card := domain.CardNumberFor(1)
	date := time.Date(2026, 3, 14, 9, 26, 0, 0, time.UTC)
	return []domain.Account{
		{
			ID:         1,
			Name:       "Alice",
			Email:      "alice@x.com",
			Balance:    decimal.RequireFromString("60.5"),
			CardNumber: &card,
			Transactions: []domain.Transaction{
				{Type: "doctor", Amount: decimal.NewFromInt(40), Status: domain.TransactionStatusApproved, Date: date},
				{Type: " Haircut", Amount: decimal.NewFromInt(10), Status: domain.TransactionStatusDenied, Date: date},
			},
		},
		{
			ID:           2,
			Name:         "Bob",
			Email:        "bob@x.com",
			Balance:      decimal.Zero,
			Transactions: []domain.Transaction{},
		},
	}
}

func assertAccountsEqual(t *testing.T, want, got []domain.Account) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		w, g := want[i], got[i]
		assert.Equal(t, w.ID, g.ID)
		assert.Equal(t, w.Name, g.Name)
		assert.Equal(t, w.Email, g.Email)
		assert.True(t, w.Balance.Equal(g.Balance), "balance: want %s got %s", w.Balance, g.Balance)
		assert.Equal(t, w.CardNumber, g.CardNumber)
		require.Len(t, g.Transactions, len(w.Transactions))
		for j := range w.Transactions {
			wt, gt := w.Transactions[j], g.Transactions[j]
			assert.Equal(t, wt.Type, gt.Type)
			assert.True(t, wt.Amount.Equal(gt.Amount), "amount: want %s got %s", wt.Amount, gt.Amount)
			assert.Equal(t, wt.Status, gt.Status)
			assert.True(t, wt.Date.Equal(gt.Date), "date: want %s got %s", wt.Date, gt.Date)
		}
	}
}

func TestFileStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(filepath.Join(t.TempDir(), "database.json"))

	want := sampleAccounts()
	require.NoError(t, store.Save(ctx, want))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assertAccountsEqual(t, want, got)
}

func TestFileStore_FileLayout(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "database.json")
	store := NewFileStore(path)

	require.NoError(t, store.Save(ctx, sampleAccounts()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw, 2)

	alice := raw[0]
	assert.Equal(t, float64(1), alice["id"])
	assert.Equal(t, "alice@x.com", alice["email"])
	assert.Equal(t, 60.5, alice["balance"])
	assert.Equal(t, "4000-0000-0000-0001", alice["card_number"])

	txns := alice["transactions"].([]any)
	require.Len(t, txns, 2)
	first := txns[0].(map[string]any)
	assert.Equal(t, "doctor", first["type"])
	assert.Equal(t, float64(40), first["amount"])
	assert.Equal(t, "approved", first["status"])
	assert.Equal(t, "2026-03-14 09:26 UTC", first["date"])
	assert.Equal(t, " Haircut", txns[1].(map[string]any)["type"])

	bob := raw[1]
	assert.Nil(t, bob["card_number"])
	assert.Contains(t, bob, "card_number")
	assert.Equal(t, []any{}, bob["transactions"])
}

func TestFileStore_LoadFailsOpen(t *testing.T) {
	tests := []struct {
		name    string
		content *string
	}{
		{name: "missing file", content: nil},
		{name: "empty file", content: ptr("")},
		{name: "invalid JSON", content: ptr("{not json")},
		{name: "top-level object", content: ptr(`{"id": 1}`)},
		{name: "top-level string", content: ptr(`"accounts"`)},
		{name: "array of numbers", content: ptr(`[1, 2, 3]`)},
		{name: "null", content: ptr(`null`)},
		{name: "amount as text", content: ptr(`[{"id":1,"name":"A","email":"a@x.com","balance":"lots"}]`)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "database.json")
			if tc.content != nil {
				require.NoError(t, os.WriteFile(path, []byte(*tc.content), 0o644))
			}

			got, err := NewFileStore(path).Load(context.Background())
			require.NoError(t, err)
			assert.NotNil(t, got)
			assert.Empty(t, got)
		})
	}
}

func TestFileStore_LoadOriginalFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "database.json")
	content := `[
  {
    "name": "Alice",
    "email": "alice@x.com",
    "id": 1,
    "balance": 60.0,
    "card_number": null,
    "transactions": [
      {"type": "Doctor", "amount": 40.0, "status": "approved", "date": "2025-01-02 03:04 UTC"}
    ]
  }
]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	got, err := NewFileStore(path).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Nil(t, got[0].CardNumber)
	assert.True(t, decimal.NewFromInt(60).Equal(got[0].Balance))
	require.Len(t, got[0].Transactions, 1)
	assert.Equal(t, "Doctor", got[0].Transactions[0].Type)
	assert.Equal(t, time.Date(2025, 1, 2, 3, 4, 0, 0, time.UTC), got[0].Transactions[0].Date)
}

func TestFileStore_LoadKeepsUnreadableFields(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "database.json")
	content := `[
  {"id": 1, "name": "A", "email": "a@x.com", "balance": 500, "card_number": null, "transactions": []},
  {"id": 2, "name": "B", "email": "b@x.com", "balance": 5, "card_number": null,
   "transactions": [
     {"type": "lab", "amount": 1, "status": "approved", "date": "2025-01-02 03:04:05 UTC"},
     {"type": "lab", "amount": 2, "status": "pending", "date": "2025-01-02 03:04 UTC"}
   ]}
]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	store := NewFileStore(path)

	got, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, decimal.NewFromInt(500).Equal(got[0].Balance))

	txns := got[1].Transactions
	require.Len(t, txns, 2)
	assert.Equal(t, "2025-01-02 03:04:05 UTC", txns[0].RawDate)
	assert.True(t, txns[0].Date.IsZero())
	assert.Equal(t, domain.TransactionStatus("pending"), txns[1].Status)
	assert.Equal(t, time.Date(2025, 1, 2, 3, 4, 0, 0, time.UTC), txns[1].Date)

	require.NoError(t, store.Save(ctx, got))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var raw []map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw, 2)
	assert.Equal(t, float64(500), raw[0]["balance"])
	saved := raw[1]["transactions"].([]any)
	assert.Equal(t, "2025-01-02 03:04:05 UTC", saved[0].(map[string]any)["date"])
	assert.Equal(t, "pending", saved[1].(map[string]any)["status"])
}

func TestFileStore_HugeAmountsRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "database.json")
	store := NewFileStore(path)

	huge := decimal.RequireFromString("1e400")
	tiny := decimal.RequireFromString("0.000000000000000000000000001")
	accounts := []domain.Account{{
		ID:      1,
		Name:    "A",
		Email:   "a@x.com",
		Balance: huge,
		Transactions: []domain.Transaction{
			{Type: "haircut", Amount: huge.Neg(), Status: domain.TransactionStatusDenied, Date: time.Date(2026, 3, 14, 9, 26, 0, 0, time.UTC)},
			{Type: "lab", Amount: tiny, Status: domain.TransactionStatusApproved, Date: time.Date(2026, 3, 14, 9, 26, 0, 0, time.UTC)},
		},
	}}

	require.NoError(t, store.Save(ctx, accounts))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"balance": 1`+strings.Repeat("0", 400))
	assert.Contains(t, string(data), `"amount": 0.000000000000000000000000001`)

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assertAccountsEqual(t, accounts, got)
}

func TestFileStore_SaveOverwrites(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(filepath.Join(t.TempDir(), "database.json"))

	require.NoError(t, store.Save(ctx, sampleAccounts()))
	require.NoError(t, store.Save(ctx, sampleAccounts()[:1]))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestFileStore_SaveUnavailable(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "missing-dir", "database.json"))

	err := store.Save(context.Background(), sampleAccounts())
	require.ErrorIs(t, err, domain.ErrStorageUnavailable)
	require.ErrorIs(t, store.Ping(context.Background()), domain.ErrStorageUnavailable)
}

func TestFileStore_Ping(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "database.json"))
	assert.NoError(t, store.Ping(context.Background()))
}

func ptr(s string) *string { return &s }
