package postgres

import (
	"context"
	"fmt"
	"sync"
	"testing"

	customErrors "github.com/Miraines/storefront-auth/internal/domain/auth/errors"
	"github.com/Miraines/storefront-auth/internal/domain/auth/model"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Discard,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&model.User{}))
	return db
}

func TestPostgresUserRepo_CreateAndGet(t *testing.T) {
	repo := NewPostgresUserRepo(setupDB(t))
	ctx := context.Background()

	id, err := repo.CreateUser(ctx, model.User{Email: "a@x.com", PasswordHash: "h", Name: "A"})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, id, "store must assign an id")

	got, err := repo.GetUserByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.Equal(t, id, got.ID)
	require.Equal(t, "A", got.Name)

	got2, err := repo.GetUserByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "a@x.com", got2.Email)
}

func TestPostgresUserRepo_KeepsGivenID(t *testing.T) {
	repo := NewPostgresUserRepo(setupDB(t))
	want := uuid.New()

	id, err := repo.CreateUser(context.Background(), model.User{ID: want, Email: "b@x.com", PasswordHash: "h"})
	require.NoError(t, err)
	require.Equal(t, want, id)
}

func TestPostgresUserRepo_DuplicateEmail(t *testing.T) {
	db := setupDB(t)
	repo := NewPostgresUserRepo(db)
	ctx := context.Background()

	_, err := repo.CreateUser(ctx, model.User{Email: "dup@x.com", PasswordHash: "h"})
	require.NoError(t, err)

	_, err = repo.CreateUser(ctx, model.User{Email: "dup@x.com", PasswordHash: "h2"})
	require.ErrorIs(t, err, customErrors.ErrAlreadyExists)

	var n int64
	require.NoError(t, db.Model(&model.User{}).Where("email = ?", "dup@x.com").Count(&n).Error)
	require.EqualValues(t, 1, n)
}

func TestPostgresUserRepo_ConcurrentDuplicate(t *testing.T) {
	db := setupDB(t)
	repo := NewPostgresUserRepo(db)
	ctx := context.Background()

	const writers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		created   int
		conflicts int
	)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.CreateUser(ctx, model.User{Email: "race@x.com", PasswordHash: fmt.Sprint(i)})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case customErrors.IsAlreadyExists(err):
				conflicts++
			}
		}(i)
	}
	wg.Wait()

	require.Equal(t, 1, created)
	require.Equal(t, writers-1, conflicts)
}

func TestPostgresUserRepo_EmailIsCaseSensitive(t *testing.T) {
	repo := NewPostgresUserRepo(setupDB(t))
	ctx := context.Background()

	_, err := repo.CreateUser(ctx, model.User{Email: "Case@x.com", PasswordHash: "h"})
	require.NoError(t, err)

	_, err = repo.GetUserByEmail(ctx, "case@x.com")
	require.ErrorIs(t, err, customErrors.ErrNotFound)
}

func TestPostgresUserRepo_NotFound(t *testing.T) {
	repo := NewPostgresUserRepo(setupDB(t))
	ctx := context.Background()

	_, err := repo.GetUserByEmail(ctx, "nobody@x.com")
	require.True(t, customErrors.IsNotFound(err))

	_, err = repo.GetUserByID(ctx, uuid.New())
	require.True(t, customErrors.IsNotFound(err))
}

func TestPostgresUserRepo_Ping(t *testing.T) {
	db := setupDB(t)
	repo := NewPostgresUserRepo(db)
	require.NoError(t, repo.Ping(context.Background()))

	sqlDB, _ := db.DB()
	require.NoError(t, sqlDB.Close())
	require.True(t, customErrors.IsInternal(repo.Ping(context.Background())))
}

func TestIsUniqueViolation_PgError(t *testing.T) {
	require.True(t, isUniqueViolation(&pgconn.PgError{Code: pgerrcode.UniqueViolation}))
	require.False(t, isUniqueViolation(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}))
	require.True(t, isUniqueViolation(fmt.Errorf("wrapped: %w", gorm.ErrDuplicatedKey)))
}
