package postgres

import (
	"context"
	"flag"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/slotdeck/server/internal/database"
	"github.com/slotdeck/server/internal/domain"
)

func TestMain(m *testing.M) {
	flag.Parse()

	var terminate func()

	if !testing.Short() {
		ctx := context.Background()
		var connStr string
		connStr, terminate = setupContainer(ctx)
		if connStr != "" {
			pool, err := database.NewPool(connStr, 5, time.Minute, 5*time.Minute)
			if err != nil {
				fmt.Printf("WARNING: Failed to connect to test database: %v\n", err)
			} else {
				testPool = pool
			}
		}
	}

	code := m.Run()

	if testPool != nil {
		testPool.Close()
	}
	if terminate != nil {
		terminate()
	}

	os.Exit(code)
}

func setupContainer(ctx context.Context) (string, func()) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("Recovered from panic in setupContainer: %v\n", r)
		}
	}()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
	)
	if err != nil {
		fmt.Printf("WARNING: Failed to start postgres container: %v\n", err)
		return "", func() {}
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		fmt.Printf("WARNING: Failed to get connection string: %v\n", err)
		pgContainer.Terminate(ctx)
		return "", func() {}
	}

	return connStr, func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			fmt.Printf("Failed to terminate container: %v\n", err)
		}
	}
}

func requireDB(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	if testPool == nil {
		t.Skip("Skipping integration test: database not available")
	}
	ensureMigrations(t)
}

func testAccount(uid, email string) *domain.Account {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &domain.Account{
		UID:          uid,
		Email:        email,
		DisplayName:  "Test User",
		PasswordHash: "$2a$10$placeholderplaceholderplaceholder",
		CreatedAt:    now,
		LastSignInAt: now,
	}
}

func TestAccountRepository_Integration(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	repo := NewAccountRepository(testPool)

	t.Run("create and get", func(t *testing.T) {
		account := testAccount("acc-1", "acc1@example.com")
		require.NoError(t, repo.CreateAccount(ctx, account))

		byUID, err := repo.GetAccountByUID(ctx, "acc-1")
		require.NoError(t, err)
		assert.Equal(t, "acc1@example.com", byUID.Email)
		assert.Equal(t, "Test User", byUID.DisplayName)

		byEmail, err := repo.GetAccountByEmail(ctx, "acc1@example.com")
		require.NoError(t, err)
		assert.Equal(t, "acc-1", byEmail.UID)
	})

	t.Run("duplicate email", func(t *testing.T) {
		require.NoError(t, repo.CreateAccount(ctx, testAccount("acc-2", "dup@example.com")))
		err := repo.CreateAccount(ctx, testAccount("acc-3", "dup@example.com"))
		assert.ErrorIs(t, err, domain.ErrEmailInUse)
	})

	t.Run("missing account", func(t *testing.T) {
		_, err := repo.GetAccountByUID(ctx, "nope")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("federated subject lookup", func(t *testing.T) {
		account := testAccount("acc-4", "fed@example.com")
		account.Provider = "google.com"
		account.Subject = "goog-sub-1"
		require.NoError(t, repo.CreateAccount(ctx, account))

		found, err := repo.GetAccountBySubject(ctx, "google.com", "goog-sub-1")
		require.NoError(t, err)
		assert.Equal(t, "acc-4", found.UID)

		_, err = repo.GetAccountBySubject(ctx, "google.com", "unknown")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("record sign-in", func(t *testing.T) {
		account := testAccount("acc-5", "signin@example.com")
		require.NoError(t, repo.CreateAccount(ctx, account))

		at := time.Now().Add(time.Hour).UTC().Truncate(time.Millisecond)
		require.NoError(t, repo.RecordSignIn(ctx, "acc-5", at))

		got, err := repo.GetAccountByUID(ctx, "acc-5")
		require.NoError(t, err)
		assert.WithinDuration(t, at, got.LastSignInAt, time.Second)

		assert.ErrorIs(t, repo.RecordSignIn(ctx, "nope", at), domain.ErrUserNotFound)
	})
}

func TestProfileRepository_Integration(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	accounts := NewAccountRepository(testPool)
	repo := NewProfileRepository(testPool)

	require.NoError(t, accounts.CreateAccount(ctx, testAccount("prof-1", "prof1@example.com")))

	t.Run("upsert and get", func(t *testing.T) {
		profile := domain.NewProfile("prof-1", time.Now().UTC())
		require.NoError(t, repo.UpsertProfile(ctx, profile))

		got, err := repo.GetProfile(ctx, "prof-1")
		require.NoError(t, err)
		assert.Equal(t, 1, got.Level)
		assert.Equal(t, 0, got.XP)

		profile.Level = 3
		profile.XP = 450
		require.NoError(t, repo.UpsertProfile(ctx, profile))

		got, err = repo.GetProfile(ctx, "prof-1")
		require.NoError(t, err)
		assert.Equal(t, 3, got.Level)
		assert.Equal(t, 450, got.XP)
	})

	t.Run("merge partial fields", func(t *testing.T) {
		xp := 900
		require.NoError(t, repo.MergeProfile(ctx, "prof-1", domain.ProfileUpdate{XP: &xp}))

		got, err := repo.GetProfile(ctx, "prof-1")
		require.NoError(t, err)
		assert.Equal(t, 900, got.XP)
		assert.Equal(t, 3, got.Level, "absent fields keep their stored values")
	})

	t.Run("missing profile", func(t *testing.T) {
		_, err := repo.GetProfile(ctx, "nope")
		assert.ErrorIs(t, err, domain.ErrProfileNotFound)

		xp := 1
		assert.ErrorIs(t, repo.MergeProfile(ctx, "nope", domain.ProfileUpdate{XP: &xp}), domain.ErrProfileNotFound)
	})
}

func TestSnapshotRepository_Integration(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	repo := NewSnapshotRepository(testPool)

	gridWith := func(slot int, itemID string) domain.Snapshot {
		var snap domain.Snapshot
		snap.InventorySlots[slot] = &domain.PlacedItem{
			Item: domain.Item{ID: itemID, Name: itemID, Rarity: domain.RarityCommon},
			Slot: slot,
		}
		snap.LastUpdated = time.Now().UTC()
		return snap
	}

	t.Run("missing document", func(t *testing.T) {
		_, err := repo.GetSnapshot(ctx, "snap-user")
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
	})

	t.Run("put increments version", func(t *testing.T) {
		v1, err := repo.PutSnapshot(ctx, "snap-user", gridWith(0, "timer"))
		require.NoError(t, err)
		assert.Equal(t, int64(1), v1)

		v2, err := repo.PutSnapshot(ctx, "snap-user", gridWith(5, "notes"))
		require.NoError(t, err)
		assert.Equal(t, int64(2), v2)

		got, err := repo.GetSnapshot(ctx, "snap-user")
		require.NoError(t, err)
		assert.Equal(t, int64(2), got.Version)
		require.NotNil(t, got.InventorySlots[5])
		assert.Equal(t, "notes", got.InventorySlots[5].Item.ID)
		assert.Nil(t, got.InventorySlots[0])
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		_, err := repo.PutSnapshot(ctx, "snap-del", gridWith(1, "timer"))
		require.NoError(t, err)

		require.NoError(t, repo.DeleteSnapshot(ctx, "snap-del"))
		require.NoError(t, repo.DeleteSnapshot(ctx, "snap-del"))

		_, err = repo.GetSnapshot(ctx, "snap-del")
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
	})
}
