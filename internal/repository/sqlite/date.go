package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/lfournier/datebook/internal/apperror"
	"github.com/lfournier/datebook/internal/model"
	"github.com/lfournier/datebook/internal/repository"
)

// Compile-time check that *DateStore implements repository.DateRepository.
var _ repository.DateRepository = (*DateStore)(nil)

const (
	defaultListSize = 100
	maxListSize     = 500
)

// dateColumns is the SELECT list shared by every date query. Keep the
// order in sync with scanDate.
const dateColumns = `id, owner_id, title, notes, category, images, done, date_realised, created_at, updated_at`

// Create inserts a new date idea. The ID and timestamps are generated here
// and written back through the pointer.
func (s *DateStore) Create(ctx context.Context, date *model.Date) error {
	date.ID = xid.New().String()

	now := time.Now()
	date.CreatedAt = now
	date.UpdatedAt = now

	images, err := marshalImages(date.Images)
	if err != nil {
		return fmt.Errorf("sqlite: encoding images: %w", err)
	}

	_, err = s.db.conn.ExecContext(ctx,
		`INSERT INTO dates (id, owner_id, title, notes, category, images, done, date_realised, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		date.ID,
		date.OwnerID,
		date.Title,
		date.Notes,
		date.Category,
		images,
		date.Done,
		nullableTime(date.DateRealised),
		date.CreatedAt,
		date.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating date: %w", err)
	}

	return nil
}

// GetByID retrieves a date owned by ownerID. A date owned by somebody else
// yields the same NotFound as a missing one — existence must not leak
// across users.
func (s *DateStore) GetByID(ctx context.Context, ownerID, id string) (*model.Date, error) {
	row := s.db.conn.QueryRowContext(ctx,
		`SELECT `+dateColumns+` FROM dates WHERE id = ? AND owner_id = ?`,
		id, ownerID,
	)

	date, err := scanDate(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound(apperror.KeyNoSuchDate)
		}
		return nil, fmt.Errorf("sqlite: getting date %s: %w", id, err)
	}

	return date, nil
}

// List returns one page of the owner's dates plus the total count under the
// same filters. The WHERE clause is assembled from fixed fragments only;
// user input travels exclusively through placeholders.
func (s *DateStore) List(ctx context.Context, opts repository.DateListOptions) ([]model.Date, int, error) {
	size := opts.Size
	if size <= 0 {
		size = defaultListSize
	}
	if size > maxListSize {
		size = maxListSize
	}
	page := opts.Page
	if page < 0 {
		page = 0
	}

	where := []string{"owner_id = ?"}
	args := []any{opts.OwnerID}

	if opts.Category != "" && opts.Category != "all" {
		where = append(where, "category = ?")
		args = append(args, opts.Category)
	}
	if opts.Done != nil {
		where = append(where, "done = ?")
		args = append(args, *opts.Done)
	}

	whereSQL := strings.Join(where, " AND ")

	var count int
	if err := s.db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM dates WHERE `+whereSQL, args...,
	).Scan(&count); err != nil {
		return nil, 0, fmt.Errorf("sqlite: counting dates: %w", err)
	}

	// SQLite sorts NULL before everything ascending and after everything
	// descending, which matches the "missing date_realised is epoch 0" rule.
	query := fmt.Sprintf(
		`SELECT %s FROM dates WHERE %s ORDER BY %s %s LIMIT ? OFFSET ?`,
		dateColumns, whereSQL, sortColumn(opts.SortField), sortDirection(opts.SortOrder),
	)
	args = append(args, size, page*size)

	rows, err := s.db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("sqlite: listing dates: %w", err)
	}
	defer rows.Close()

	dates := make([]model.Date, 0, size)
	for rows.Next() {
		date, err := scanDate(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("sqlite: scanning date row: %w", err)
		}
		dates = append(dates, *date)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("sqlite: iterating dates: %w", err)
	}

	return dates, count, nil
}

// Update persists every mutable field of an existing date. The WHERE clause
// includes owner_id, so updating another user's date reports NotFound.
// owner_id, id and created_at are immutable.
func (s *DateStore) Update(ctx context.Context, date *model.Date) error {
	date.UpdatedAt = time.Now()

	images, err := marshalImages(date.Images)
	if err != nil {
		return fmt.Errorf("sqlite: encoding images: %w", err)
	}

	result, err := s.db.conn.ExecContext(ctx,
		`UPDATE dates
		 SET title = ?, notes = ?, category = ?, images = ?, done = ?, date_realised = ?, updated_at = ?
		 WHERE id = ? AND owner_id = ?`,
		date.Title,
		date.Notes,
		date.Category,
		images,
		date.Done,
		nullableTime(date.DateRealised),
		date.UpdatedAt,
		date.ID,
		date.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating date %s: %w", date.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound(apperror.KeyNoSuchDate)
	}

	return nil
}

// Delete removes a date owned by ownerID. Same RowsAffected pattern as
// Update for not-found detection.
func (s *DateStore) Delete(ctx context.Context, ownerID, id string) error {
	result, err := s.db.conn.ExecContext(ctx,
		`DELETE FROM dates WHERE id = ? AND owner_id = ?`,
		id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting date %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound(apperror.KeyNoSuchDate)
	}

	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanDate(s scanner) (*model.Date, error) {
	var date model.Date
	var images string
	var realised sql.NullTime

	if err := s.Scan(
		&date.ID,
		&date.OwnerID,
		&date.Title,
		&date.Notes,
		&date.Category,
		&images,
		&date.Done,
		&realised,
		&date.CreatedAt,
		&date.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(images), &date.Images); err != nil {
		return nil, fmt.Errorf("decoding images: %w", err)
	}
	if realised.Valid {
		t := realised.Time
		date.DateRealised = &t
	}

	return &date, nil
}

// marshalImages encodes the image URL list as a JSON array. A nil slice is
// stored as [] so the client never sees null.
func marshalImages(images []string) (string, error) {
	if images == nil {
		images = []string{}
	}
	b, err := json.Marshal(images)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

func sortColumn(f repository.SortField) string {
	if f == repository.SortDateRealised {
		return "date_realised"
	}
	return "created_at"
}

func sortDirection(o repository.SortOrder) string {
	if o == repository.SortAsc {
		return "ASC"
	}
	return "DESC"
}
