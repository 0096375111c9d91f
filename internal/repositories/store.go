package repositories

import (
	"context"
	"database/sql"
	"fmt"
)

// DBTX is the subset of database/sql shared by *sql.DB and *sql.Tx. Every
// repository runs against a DBTX, so the same repository code serves both
// plain and transactional access.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store bundles every repository behind one handle and provides the
// transactional unit for cascades: a primary write, its side effects and its
// audit entry either all commit or none do.
type Store interface {
	Users() UserRepository
	Clients() ClientRepository
	Engagements() EngagementRepository
	Returns() TaxReturnRepository
	Tasks() TaskRepository
	Notices() NoticeRepository
	Communications() CommunicationRepository
	Documents() DocumentRepository
	Templates() EmailTemplateRepository
	ActivityLogs() ActivityLogRepository

	// WithinTx runs fn against a transaction-bound Store. Nested calls reuse
	// the surrounding transaction.
	WithinTx(ctx context.Context, fn func(Store) error) error
}

type sqlStore struct {
	db   *sql.DB // nil when already transaction-bound
	dbtx DBTX
}

func NewStore(db *sql.DB) Store {
	return &sqlStore{db: db, dbtx: db}
}

func (s *sqlStore) Users() UserRepository                   { return NewUserRepository(s.dbtx) }
func (s *sqlStore) Clients() ClientRepository               { return NewClientRepository(s.dbtx) }
func (s *sqlStore) Engagements() EngagementRepository       { return NewEngagementRepository(s.dbtx) }
func (s *sqlStore) Returns() TaxReturnRepository            { return NewTaxReturnRepository(s.dbtx) }
func (s *sqlStore) Tasks() TaskRepository                   { return NewTaskRepository(s.dbtx) }
func (s *sqlStore) Notices() NoticeRepository               { return NewNoticeRepository(s.dbtx) }
func (s *sqlStore) Communications() CommunicationRepository { return NewCommunicationRepository(s.dbtx) }
func (s *sqlStore) Documents() DocumentRepository           { return NewDocumentRepository(s.dbtx) }
func (s *sqlStore) Templates() EmailTemplateRepository      { return NewEmailTemplateRepository(s.dbtx) }
func (s *sqlStore) ActivityLogs() ActivityLogRepository     { return NewActivityLogRepository(s.dbtx) }

func (s *sqlStore) WithinTx(ctx context.Context, fn func(Store) error) error {
	if s.db == nil {
		return fn(s)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(&sqlStore{dbtx: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
