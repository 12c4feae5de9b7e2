package services

import (
	"context"
	"fmt"

	"github.com/pacerlabs/pacer-cli/internal/core/domain"
	"github.com/pacerlabs/pacer-cli/internal/core/ports/driven"
	"github.com/pacerlabs/pacer-cli/internal/core/ports/driving"
	"github.com/pacerlabs/pacer-cli/internal/logger"
)

// Ensure MigrationService implements the interface.
var _ driving.MigrationService = (*MigrationService)(nil)

// MigrationService moves anonymous local documents into a newly
// authenticated account, once per identity. The guard set is checked and
// updated outside of any document transaction.
type MigrationService struct {
	local  driven.LocalStore
	remote driven.DocumentStore
	state  driven.MigrationStateStore
}

// NewMigrationService creates a migration service.
func NewMigrationService(local driven.LocalStore, remote driven.DocumentStore, state driven.MigrationStateStore) *MigrationService {
	return &MigrationService{local: local, remote: remote, state: state}
}

// HasLocalDocuments reports whether any anonymous documents exist.
func (s *MigrationService) HasLocalDocuments(ctx context.Context) (bool, error) {
	docs, err := s.local.ListDocuments(ctx)
	if err != nil {
		return false, fmt.Errorf("list local documents: %w", err)
	}
	return len(docs) > 0, nil
}

// Migrate transfers every local document to the remote account. A repeat
// invocation for an already-migrated identity is a no-op with zero counts.
// Per-document failures are recorded and skipped, never raised; the local
// store is cleared and the identity marked only when every document
// transferred, so a failed pass can retry on the next sign-in.
func (s *MigrationService) Migrate(ctx context.Context, identity string) (*driving.MigrationResult, error) {
	migrated, err := s.state.IsMigrated(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("check migration state: %w", err)
	}
	if migrated {
		logger.Debug("Identity %s already migrated", identity)
		return &driving.MigrationResult{}, nil
	}

	docs, err := s.local.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list local documents: %w", err)
	}

	result := &driving.MigrationResult{Total: len(docs)}
	for i := range docs {
		doc := &docs[i].Document
		if err := s.migrateOne(ctx, doc); err != nil {
			logger.Debug("Migration failed for %q: %v", doc.Title, err)
			result.Failed = append(result.Failed, doc.Title)
			continue
		}
		result.Migrated++
	}

	if len(result.Failed) > 0 {
		logger.Warn("Migration incomplete: %d of %d documents failed; keeping local data",
			len(result.Failed), result.Total)
		return result, nil
	}

	if err := s.local.Clear(ctx); err != nil {
		return result, fmt.Errorf("clear local store: %w", err)
	}
	if err := s.state.MarkMigrated(ctx, identity); err != nil {
		return result, fmt.Errorf("mark identity migrated: %w", err)
	}

	logger.Info("Migrated %d documents for %s", result.Migrated, identity)
	return result, nil
}

// migrateOne transfers a single document's title and content.
func (s *MigrationService) migrateOne(ctx context.Context, doc *domain.Document) error {
	content, available, err := s.local.GetContent(ctx, doc.ID)
	if err != nil {
		return fmt.Errorf("get content: %w", err)
	}
	if !available {
		return domain.ErrContentUnavailable
	}

	if _, err := s.remote.CreateDocument(ctx, content, doc.Title); err != nil {
		return fmt.Errorf("remote create: %w", err)
	}
	return nil
}
