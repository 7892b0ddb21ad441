package service

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/gendoc/internal/sequence/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func openTestDB(t *testing.T, dsn string) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, conn.AutoMigrate(&domain.Numbering{}))
	return conn
}

func newService(conn *gorm.DB) domain.Service {
	return New(ServiceParam{DB: conn})
}

func TestNextStartsAtOne(t *testing.T) {
	svc := newService(openTestDB(t, "file::memory:"))

	n, err := svc.Next(context.Background(), "facture", 2024)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = svc.Next(context.Background(), "facture", 2024)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestNextIsolatesTypeAndYear(t *testing.T) {
	svc := newService(openTestDB(t, "file::memory:"))
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		n, err := svc.Next(ctx, "facture", 2024)
		require.NoError(t, err)
		assert.Equal(t, i, n)
	}

	n, err := svc.Next(ctx, "fiche_paie", 2024)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = svc.Next(ctx, "facture", 2025)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestNextRejectsUnknownType(t *testing.T) {
	svc := newService(openTestDB(t, "file::memory:"))

	_, err := svc.Next(context.Background(), "devis", 2024)
	require.ErrorIs(t, err, domain.ErrUnknownDocumentType)
}

func TestNextConcurrentIssuesDistinctConsecutive(t *testing.T) {
	svc := newService(openTestDB(t, "file::memory:"))

	const workers = 20
	results := make(chan int64, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := svc.Next(context.Background(), "facture", 2024)
			assert.NoError(t, err)
			results <- n
		}()
	}
	wg.Wait()
	close(results)

	issued := make([]int64, 0, workers)
	for n := range results {
		issued = append(issued, n)
	}
	sort.Slice(issued, func(i, j int) bool { return issued[i] < issued[j] })

	require.Len(t, issued, workers)
	for i, n := range issued {
		assert.Equal(t, int64(i+1), n, "issued numbers must be gap-free")
	}
}

func TestNextSurvivesRestart(t *testing.T) {
	dsn := "file:seq_restart?mode=memory&cache=shared"

	// the first handle stays open so the shared in-memory DB outlives it
	first := openTestDB(t, dsn)
	svc := newService(first)
	for i := int64(1); i <= 5; i++ {
		n, err := svc.Next(context.Background(), "contrat", 2024)
		require.NoError(t, err)
		require.Equal(t, i, n)
	}

	// a second handle on the same database sees the persisted counter
	reopened := newService(openTestDB(t, dsn))
	n, err := reopened.Next(context.Background(), "contrat", 2024)
	require.NoError(t, err)
	assert.Equal(t, int64(6), n)
}
