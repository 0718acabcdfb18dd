package directory

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/globalremit/teller/internal/database"
	"github.com/globalremit/teller/internal/database/repository"
)

func testService(t *testing.T) (*Service, context.Context) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.RunMigrations(db))
	require.NoError(t, database.SeedDemo(ctx, db))
	return &Service{Clients: repository.NewClientRepo(db)}, ctx
}

func TestSearchSubstringAndRanking(t *testing.T) {
	t.Parallel()

	svc, ctx := testService(t)

	all, err := svc.Search(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 4)

	// "john" matches John Smith and David Johnson; John Smith is the
	// closer name and must rank first
	got, err := svc.Search(ctx, "john")
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "John Smith", got[0].Name)
	require.Equal(t, "David Johnson", got[1].Name)

	// case-insensitive
	got, err = svc.Search(ctx, "SARAH")
	require.NoError(t, err)
	require.Len(t, got, 1)

	// empty result is a normal branch
	got, err = svc.Search(ctx, "nobody at all")
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestCreateValidatesAndStores(t *testing.T) {
	t.Parallel()

	svc, ctx := testService(t)

	_, err := svc.Create(ctx, repository.Client{Name: "X"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Fields, "name")
	require.Contains(t, verr.Fields, "email")

	created, err := svc.Create(ctx, repository.Client{
		Name:        "Ada Lovelace",
		Phone:       "+44 20 7946 0958",
		Email:       "ada@example.com",
		Address:     "12 St James Square, London",
		Country:     "UK",
		IDType:      "passport",
		IDNumber:    "P55512345",
		BankAccount: "****9988",
		RiskRating:  "low",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Equal(t, repository.ClientActive, created.Status)
	require.False(t, created.KYCVerified, "new clients start unverified")

	found, err := svc.Search(ctx, "ada")
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, created.ID, found[0].ID)
}
