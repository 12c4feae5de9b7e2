package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pacerlabs/pacer-cli/internal/adapters/driven/storage/memory"
)

func TestMigrationService_HasLocalDocuments(t *testing.T) {
	local := memory.NewDocumentStore()
	svc := NewMigrationService(local, newFakeRemote(), memory.NewMigrationStateStore())

	ctx := context.Background()

	has, err := svc.HasLocalDocuments(ctx)
	require.NoError(t, err)
	assert.False(t, has)

	_, err = local.CreateDocument(ctx, "some text", "Doc")
	require.NoError(t, err)

	has, err = svc.HasLocalDocuments(ctx)
	require.NoError(t, err)
	assert.True(t, has)
}

func TestMigrationService_MigratesAndClears(t *testing.T) {
	local := memory.NewDocumentStore()
	remote := newFakeRemote()
	state := memory.NewMigrationStateStore()
	svc := NewMigrationService(local, remote, state)

	ctx := context.Background()
	_, err := local.CreateDocument(ctx, "first text", "First")
	require.NoError(t, err)
	_, err = local.CreateDocument(ctx, "second text", "Second")
	require.NoError(t, err)

	result, err := svc.Migrate(ctx, "account-1")

	require.NoError(t, err)
	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 2, result.Migrated)
	assert.Empty(t, result.Failed)
	assert.ElementsMatch(t, []string{"First", "Second"}, remote.createdTitles())

	docs, err := local.ListDocuments(ctx)
	require.NoError(t, err)
	assert.Empty(t, docs, "local anonymous data is cleared after migration")

	migrated, err := state.IsMigrated(ctx, "account-1")
	require.NoError(t, err)
	assert.True(t, migrated)
}

func TestMigrationService_SecondRunIsNoop(t *testing.T) {
	local := memory.NewDocumentStore()
	remote := newFakeRemote()
	svc := NewMigrationService(local, remote, memory.NewMigrationStateStore())

	ctx := context.Background()
	_, err := local.CreateDocument(ctx, "text", "Doc")
	require.NoError(t, err)

	_, err = svc.Migrate(ctx, "account-1")
	require.NoError(t, err)
	require.Len(t, remote.createdTitles(), 1)

	result, err := svc.Migrate(ctx, "account-1")

	require.NoError(t, err)
	assert.Equal(t, 0, result.Total)
	assert.Equal(t, 0, result.Migrated)
	assert.Len(t, remote.createdTitles(), 1, "no duplicate uploads")
}

func TestMigrationService_PartialFailureKeepsLocalData(t *testing.T) {
	local := memory.NewDocumentStore()
	remote := newFakeRemote()
	remote.failTitles["Flaky"] = true
	state := memory.NewMigrationStateStore()
	svc := NewMigrationService(local, remote, state)

	ctx := context.Background()
	_, err := local.CreateDocument(ctx, "good text", "Good")
	require.NoError(t, err)
	_, err = local.CreateDocument(ctx, "flaky text", "Flaky")
	require.NoError(t, err)

	result, err := svc.Migrate(ctx, "account-1")

	require.NoError(t, err, "partial failure is reported, not raised")
	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 1, result.Migrated)
	assert.Equal(t, []string{"Flaky"}, result.Failed)

	docs, lerr := local.ListDocuments(ctx)
	require.NoError(t, lerr)
	assert.Len(t, docs, 2, "local data stays until every document transfers")

	migrated, serr := state.IsMigrated(ctx, "account-1")
	require.NoError(t, serr)
	assert.False(t, migrated, "a failed pass retries on the next sign-in")
}

func TestMigrationService_DifferentIdentityMigratesAgain(t *testing.T) {
	local := memory.NewDocumentStore()
	remote := newFakeRemote()
	svc := NewMigrationService(local, remote, memory.NewMigrationStateStore())

	ctx := context.Background()
	_, err := local.CreateDocument(ctx, "text", "Doc")
	require.NoError(t, err)

	_, err = svc.Migrate(ctx, "account-1")
	require.NoError(t, err)

	_, err = local.CreateDocument(ctx, "new text", "Later doc")
	require.NoError(t, err)

	result, err := svc.Migrate(ctx, "account-2")

	require.NoError(t, err)
	assert.Equal(t, 1, result.Migrated)
}
