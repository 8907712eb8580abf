package repositories

import (
	"context"
	"database/sql"
	"log"
	"os"
	"testing"

	"maintenance-system/internal/dto"
	"maintenance-system/migrations"
	"maintenance-system/pkg/apperrors"
	"maintenance-system/pkg/types"

	"github.com/aarondl/null/v8"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPool *pgxpool.Pool

// TestMain connects to the database named by TEST_DATABASE_URL and applies
// the migrations. When the variable is unset the integration tests skip, so
// the suite still passes on machines without postgres.
func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		os.Exit(m.Run())
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Fatalf("opening migration connection: %v", err)
	}
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("setting goose dialect: %v", err)
	}
	if err := goose.Up(db, "."); err != nil {
		log.Fatalf("applying migrations: %v", err)
	}
	db.Close()

	testPool, err = pgxpool.New(context.Background(), dsn)
	if err != nil {
		log.Fatalf("connecting test pool: %v", err)
	}
	defer testPool.Close()

	os.Exit(m.Run())
}

func requireDB(t *testing.T) {
	t.Helper()
	if testPool == nil {
		t.Skip("TEST_DATABASE_URL not set")
	}
}

func cleanupLocations(t *testing.T) {
	t.Helper()
	_, err := testPool.Exec(context.Background(),
		`TRUNCATE TABLE locations RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
}

func TestLocationRepository_Integration_CreateAndFind(t *testing.T) {
	requireDB(t)
	cleanupLocations(t)
	repo := NewLocationRepository(testPool)

	id, err := repo.Create(context.Background(), dto.CreateLocationDTO{
		Campus: "Main Campus",
		Name:   "Engineering Building",
		NameAr: null.StringFrom("مبنى الهندسة"),
	})
	require.NoError(t, err)
	require.NotZero(t, id)

	found, err := repo.Find(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Main Campus", found.Campus)
	assert.Equal(t, "Engineering Building", found.Name)
	require.NotNil(t, found.NameAr)
	assert.Equal(t, "مبنى الهندسة", *found.NameAr)

	_, err = repo.Find(context.Background(), 99999)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestLocationRepository_Integration_FindByCampusAndNameIsCaseInsensitive(t *testing.T) {
	requireDB(t)
	cleanupLocations(t)
	repo := NewLocationRepository(testPool)

	id, err := repo.Create(context.Background(), dto.CreateLocationDTO{
		Campus: "North Campus",
		Name:   "Medical Center",
	})
	require.NoError(t, err)

	found, err := repo.FindByCampusAndName(context.Background(), "north campus", "MEDICAL CENTER")
	require.NoError(t, err)
	assert.Equal(t, id, found.ID)

	_, err = repo.FindByCampusAndName(context.Background(), "North Campus", "Library")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestLocationRepository_Integration_Update(t *testing.T) {
	requireDB(t)
	cleanupLocations(t)
	repo := NewLocationRepository(testPool)

	id, err := repo.Create(context.Background(), dto.CreateLocationDTO{
		Campus: "Main Campus",
		Name:   "Old Name",
	})
	require.NoError(t, err)

	newName := "New Name"
	err = repo.Update(context.Background(), id, dto.UpdateLocationDTO{Name: &newName})
	require.NoError(t, err)

	found, err := repo.Find(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "New Name", found.Name)
	assert.Equal(t, "Main Campus", found.Campus)

	err = repo.Update(context.Background(), 99999, dto.UpdateLocationDTO{Name: &newName})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestLocationRepository_Integration_ListFiltersByCampus(t *testing.T) {
	requireDB(t)
	cleanupLocations(t)
	repo := NewLocationRepository(testPool)

	seed := []dto.CreateLocationDTO{
		{Campus: "Main Campus", Name: "Library"},
		{Campus: "Main Campus", Name: "Administration"},
		{Campus: "North Campus", Name: "Dormitory A"},
	}
	for _, d := range seed {
		_, err := repo.Create(context.Background(), d)
		require.NoError(t, err)
	}

	list, total, err := repo.List(context.Background(), types.Filter{
		Filter: map[string]interface{}{"campus": "Main Campus"},
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), total)
	require.Len(t, list, 2)
	assert.Equal(t, "Administration", list[0].Name)

	list, total, err = repo.List(context.Background(), types.Filter{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, uint64(3), total)
	assert.Len(t, list, 2)
}

func TestTicketRepository_Integration_NextSequence(t *testing.T) {
	requireDB(t)
	_, err := testPool.Exec(context.Background(), `TRUNCATE TABLE ticket_counters`)
	require.NoError(t, err)
	tickets := NewTicketRepository()

	seq, err := tickets.NextSequence(context.Background(), testPool, 26)
	require.NoError(t, err)
	assert.Equal(t, 1, seq)

	seq, err = tickets.NextSequence(context.Background(), testPool, 26)
	require.NoError(t, err)
	assert.Equal(t, 2, seq)

	seq, err = tickets.NextSequence(context.Background(), testPool, 27)
	require.NoError(t, err)
	assert.Equal(t, 1, seq, "each year keeps its own counter")
}

func TestLocationRepository_Integration_Delete(t *testing.T) {
	requireDB(t)
	cleanupLocations(t)
	repo := NewLocationRepository(testPool)

	id, err := repo.Create(context.Background(), dto.CreateLocationDTO{
		Campus: "Main Campus",
		Name:   "Temporary",
	})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(context.Background(), id))
	_, err = repo.Find(context.Background(), id)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(context.Background(), id), apperrors.ErrNotFound)
}
