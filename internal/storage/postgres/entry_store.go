package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"trade-journal/internal/domain"
	"trade-journal/internal/observability"
	"trade-journal/internal/storage"
)

// EntryStore implements storage.EntryStore using PostgreSQL.
type EntryStore struct {
	pool *Pool
}

// NewEntryStore creates a new EntryStore.
func NewEntryStore(pool *Pool) *EntryStore {
	return &EntryStore{pool: pool}
}

// Compile-time interface check.
var _ storage.EntryStore = (*EntryStore)(nil)

// entryColumns is the select list shared by every read. List columns follow
// the order of domain.ListFields.
var entryColumns = func() string {
	cols := []string{"id::text", "symbol", "created_at", "saved"}
	for _, f := range domain.ListFields {
		cols = append(cols, f.Column())
	}
	return strings.Join(cols, ", ")
}()

// ListByDate retrieves all entries for date in insertion order.
func (s *EntryStore) ListByDate(ctx context.Context, date domain.Date) (entries []*domain.Entry, err error) {
	start := time.Now()
	defer func() { observability.RecordDBQuery(storage.TableTrades, "list_by_date", start, err) }()

	query := `SELECT ` + entryColumns + `
		FROM trades
		WHERE created_at = $1
		ORDER BY seq ASC`

	rows, err := s.pool.Query(ctx, query, date.Time())
	if err != nil {
		return nil, storage.NewRepositoryError(storage.TableTrades, "list_by_date", err)
	}
	defer rows.Close()

	entries, err = scanEntries(rows)
	if err != nil {
		return nil, storage.NewRepositoryError(storage.TableTrades, "list_by_date", err)
	}
	return entries, nil
}

// GetByID retrieves an entry by its ID. Returns ErrNotFound if not exists.
func (s *EntryStore) GetByID(ctx context.Context, id string) (e *domain.Entry, err error) {
	if !validID(id) {
		return nil, storage.ErrNotFound
	}

	start := time.Now()
	defer func() {
		if err == storage.ErrNotFound {
			observability.RecordDBQuery(storage.TableTrades, "get_by_id", start, nil)
			return
		}
		observability.RecordDBQuery(storage.TableTrades, "get_by_id", start, err)
	}()

	query := `SELECT ` + entryColumns + ` FROM trades WHERE id = $1`

	e, err = scanEntry(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, storage.NewRepositoryError(storage.TableTrades, "get_by_id", err)
	}
	return e, nil
}

// Insert stores a new unsaved entry and returns it with the generated id.
func (s *EntryStore) Insert(ctx context.Context, p *domain.NewEntryPayload) (e *domain.Entry, err error) {
	if p == nil || p.Symbol == "" || p.CreatedAt.IsZero() {
		return nil, storage.ErrInvalidInput
	}

	start := time.Now()
	defer func() { observability.RecordDBQuery(storage.TableTrades, "insert", start, err) }()

	cols := []string{"symbol", "created_at"}
	args := []any{p.Symbol.String(), p.CreatedAt.Time()}
	for _, f := range domain.ListFields {
		list := p.Lists[f]
		if list == nil {
			list = []string{}
		}
		cols = append(cols, f.Column())
		args = append(args, list)
	}
	placeholders := make([]string, len(cols))
	for i := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := `INSERT INTO trades (` + strings.Join(cols, ", ") + `)
		VALUES (` + strings.Join(placeholders, ", ") + `)
		RETURNING ` + entryColumns

	e, err = scanEntry(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if isCheckViolation(err) {
			return nil, storage.ErrInvalidInput
		}
		return nil, storage.NewRepositoryError(storage.TableTrades, "insert", err)
	}
	return e, nil
}

// UpdateField replaces one list field of an unsaved entry.
func (s *EntryStore) UpdateField(ctx context.Context, id string, field domain.ListField, list []string) error {
	if !field.IsValid() {
		return storage.ErrInvalidInput
	}
	if list == nil {
		list = []string{}
	}

	column := pgx.Identifier{field.Column()}.Sanitize()
	query := `UPDATE trades SET ` + column + ` = $2 WHERE id = $1 AND saved = FALSE`
	return s.execMutation(ctx, "update_field", id, query, id, list)
}

// MarkSaved sets saved = true on an unsaved entry.
func (s *EntryStore) MarkSaved(ctx context.Context, id string) error {
	query := `UPDATE trades SET saved = TRUE WHERE id = $1 AND saved = FALSE`
	return s.execMutation(ctx, "mark_saved", id, query, id)
}

// Delete removes an unsaved entry.
func (s *EntryStore) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM trades WHERE id = $1 AND saved = FALSE`
	return s.execMutation(ctx, "delete", id, query, id)
}

// execMutation runs a statement guarded by saved = FALSE and, when it touches
// no row, tells a missing entry apart from a locked one.
func (s *EntryStore) execMutation(ctx context.Context, op, id, query string, args ...any) (err error) {
	if !validID(id) {
		return storage.ErrNotFound
	}

	start := time.Now()
	defer func() {
		if storage.IsRepositoryError(err) {
			observability.RecordDBQuery(storage.TableTrades, op, start, err)
			return
		}
		observability.RecordDBQuery(storage.TableTrades, op, start, nil)
	}()

	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return storage.NewRepositoryError(storage.TableTrades, op, err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var saved bool
	err = s.pool.QueryRow(ctx, `SELECT saved FROM trades WHERE id = $1`, id).Scan(&saved)
	if err != nil {
		if isNotFoundError(err) {
			return storage.ErrNotFound
		}
		return storage.NewRepositoryError(storage.TableTrades, op, err)
	}
	if saved {
		return storage.ErrLocked
	}
	return storage.NewRepositoryError(storage.TableTrades, op, fmt.Errorf("no row updated for %s", id))
}

// scanEntry scans a single row into an Entry.
func scanEntry(row pgx.Row) (*domain.Entry, error) {
	var (
		e         domain.Entry
		symbol    string
		createdAt time.Time
	)
	raw := make([]any, len(domain.ListFields))

	dest := []any{&e.ID, &symbol, &createdAt, &e.Saved}
	for i := range raw {
		dest = append(dest, &raw[i])
	}

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	e.Symbol = domain.Symbol(symbol)
	e.CreatedAt = domain.NewDate(createdAt.Date())
	e.Lists = make(map[domain.ListField]any, len(domain.ListFields))
	for i, f := range domain.ListFields {
		e.Lists[f] = raw[i]
	}
	return &e, nil
}

// scanEntries scans multiple rows into a slice of Entry.
func scanEntries(rows pgx.Rows) ([]*domain.Entry, error) {
	entries := make([]*domain.Entry, 0)

	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan trade row: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trade rows: %w", err)
	}

	return entries, nil
}
