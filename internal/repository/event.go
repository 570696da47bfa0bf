package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"

	"github.com/gatherly/gatherly/internal/model"
)

// Common errors for event repository operations.
var (
	ErrEventNotFound = errors.New("event not found")
)

// EventFilter defines the selection predicate for listing events.
// Zero-valued fields apply no constraint.
type EventFilter struct {
	// TitleContains matches titles case-insensitively as a substring.
	TitleContains string
	// From and To bound date_time inclusively.
	From *time.Time
	To   *time.Time
}

const eventColumns = `id, title, name, creator_id, date_time, location, description, attendee_count, joined_users, created_at, updated_at`

// CreateEvent inserts a new event into the database.
func (r *Repository) CreateEvent(ctx context.Context, event *model.Event) error {
	query := `
		INSERT INTO events (` + eventColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	joined := event.JoinedUsers
	if joined == nil {
		joined = []string{}
	}

	_, err := r.db.Exec(ctx, query,
		event.ID,
		event.Title,
		event.Name,
		event.CreatorID,
		event.DateTime,
		event.Location,
		event.Description,
		event.AttendeeCount,
		pq.Array(joined),
		event.CreatedAt,
		event.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}

	return nil
}

// GetEventByID retrieves an event by its ID.
func (r *Repository) GetEventByID(ctx context.Context, id string) (*model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	event, err := scanEvent(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event by ID: %w", err)
	}

	return event, nil
}

// ListEvents retrieves events matching the filter, newest date_time first.
// Events without a date sort last; ties break on id for a stable order.
func (r *Repository) ListEvents(ctx context.Context, filter EventFilter) ([]*model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE 1=1`
	args := []any{}
	argIndex := 1

	if filter.TitleContains != "" {
		query += fmt.Sprintf(` AND title ILIKE $%d ESCAPE '\'`, argIndex)
		args = append(args, "%"+escapeLike(filter.TitleContains)+"%")
		argIndex++
	}

	if filter.From != nil {
		query += fmt.Sprintf(" AND date_time >= $%d", argIndex)
		args = append(args, *filter.From)
		argIndex++
	}

	if filter.To != nil {
		query += fmt.Sprintf(" AND date_time <= $%d", argIndex)
		args = append(args, *filter.To)
		argIndex++
	}

	query += " ORDER BY date_time DESC NULLS LAST, id DESC"

	return r.queryEvents(ctx, "list events", query, args...)
}

// ListEventsByCreator retrieves the events created by creatorID.
// No ordering is applied.
func (r *Repository) ListEventsByCreator(ctx context.Context, creatorID string) ([]*model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE creator_id = $1`
	return r.queryEvents(ctx, "list events by creator", query, creatorID)
}

// UpdateEvent writes the event's editable fields.
// The update only applies while creator_id still matches, so ownership is rechecked in the same statement.
func (r *Repository) UpdateEvent(ctx context.Context, event *model.Event) error {
	query := `
		UPDATE events
		SET title = $3, name = $4, date_time = $5, location = $6, description = $7, updated_at = $8
		WHERE id = $1 AND creator_id = $2
	`

	result, err := r.db.Exec(ctx, query,
		event.ID,
		event.CreatorID,
		event.Title,
		event.Name,
		event.DateTime,
		event.Location,
		event.Description,
		event.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrEventNotFound
	}

	return nil
}

// DeleteEvent removes an event.
func (r *Repository) DeleteEvent(ctx context.Context, id string) error {
	query := `DELETE FROM events WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrEventNotFound
	}

	return nil
}

// JoinEvent adds userID to the event's attendees.
// Membership check, append and increment happen in one conditional UPDATE,
// so concurrent joins can neither duplicate a member nor lose a count.
func (r *Repository) JoinEvent(ctx context.Context, id, userID string) (model.JoinOutcome, error) {
	query := `
		UPDATE events
		SET joined_users = array_append(joined_users, $2::text),
		    attendee_count = attendee_count + 1,
		    updated_at = NOW()
		WHERE id = $1 AND NOT ($2::text = ANY(joined_users))
	`

	result, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		return "", fmt.Errorf("failed to join event: %w", err)
	}

	if result.RowsAffected() == 1 {
		return model.JoinJoined, nil
	}

	// Nothing updated: either the event is gone or the user is already in.
	exists, err := r.EventExists(ctx, id)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", ErrEventNotFound
	}

	return model.JoinAlreadyMember, nil
}

// EventExists checks if an event with the given ID exists.
func (r *Repository) EventExists(ctx context.Context, id string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM events WHERE id = $1)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check event existence: %w", err)
	}

	return exists, nil
}

// queryEvents runs a multi-row event query.
func (r *Repository) queryEvents(ctx context.Context, op, query string, args ...any) ([]*model.Event, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}
	defer rows.Close()

	events := make([]*model.Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}

	return events, nil
}

// scanEvent scans a single row into an Event model.
// pgx.Rows satisfies pgx.Row, so this serves both QueryRow and Query.
func scanEvent(row pgx.Row) (*model.Event, error) {
	var event model.Event
	err := row.Scan(
		&event.ID,
		&event.Title,
		&event.Name,
		&event.CreatorID,
		&event.DateTime,
		&event.Location,
		&event.Description,
		&event.AttendeeCount,
		&event.JoinedUsers,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if event.JoinedUsers == nil {
		event.JoinedUsers = []string{}
	}
	return &event, err
}

// likeEscaper escapes LIKE metacharacters so user input matches literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
