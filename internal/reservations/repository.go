package reservations

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Repository is the persistence contract for call reservations.
//
// Update is a blind merge: nil patch fields keep the stored value and
// the write is last-write-wins at the field-group level. Callers that
// need read-modify-write safety across fields must coordinate
// themselves; no conditional write is provided.
type Repository interface {
	Create(ctx context.Context, r CallReservation) (CallReservation, error)
	ListByUser(ctx context.Context, username string) ([]CallReservation, error)
	GetByID(ctx context.Context, id int64) (CallReservation, error)
	Update(ctx context.Context, id int64, patch UpdatePatch, now time.Time) (CallReservation, error)

	// ListExpiredOngoing returns every ongoing reservation whose window
	// elapsed before the given date (YYYY-MM-DD) and time of day (HH:MM).
	ListExpiredOngoing(ctx context.Context, date, timeOfDay string) ([]CallReservation, error)
}

// UpdatePatch carries the fields to merge into a reservation.
// Nil means "leave unchanged".
type UpdatePatch struct {
	Username        *string
	ReservationDate *string
	StartTime       *string
	EndTime         *string
	Status          *Status
	PhoneNumber     *string
	CallSid         *string
	CallDuration    *int
}

// PostgresRepo persists reservations in Postgres via database/sql.
//
// NOTE: This repository assumes the following table exists:
//
//	CREATE TABLE call_reservations (
//	    id               BIGSERIAL PRIMARY KEY,
//	    username         TEXT        NOT NULL,
//	    reservation_date TEXT        NOT NULL, -- YYYY-MM-DD
//	    start_time       TEXT        NOT NULL, -- HH:MM
//	    end_time         TEXT        NOT NULL, -- HH:MM
//	    status           TEXT        NOT NULL DEFAULT 'scheduled',
//	    phone_number     TEXT,
//	    call_sid         TEXT,
//	    call_duration    INTEGER,
//	    created_at       TIMESTAMPTZ NOT NULL,
//	    updated_at       TIMESTAMPTZ NOT NULL
//	);
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

const reservationColumns = `id, username, reservation_date, start_time, end_time, status, phone_number, call_sid, call_duration, created_at, updated_at`

func (r *PostgresRepo) Create(ctx context.Context, res CallReservation) (CallReservation, error) {
	const q = `
INSERT INTO call_reservations (
  username, reservation_date, start_time, end_time, status, phone_number, created_at, updated_at
) VALUES (
  $1,$2,$3,$4,$5,NULLIF($6,''),$7,$8
)
RETURNING ` + reservationColumns
	row := r.db.QueryRowContext(ctx, q,
		res.Username,
		res.ReservationDate,
		res.StartTime,
		res.EndTime,
		string(res.Status),
		res.PhoneNumber,
		res.CreatedAt,
		res.UpdatedAt,
	)
	return scanReservation(row)
}

func (r *PostgresRepo) ListByUser(ctx context.Context, username string) ([]CallReservation, error) {
	// id is the storage-stable tiebreak for same-day reservations.
	const q = `
SELECT ` + reservationColumns + `
FROM call_reservations
WHERE username = $1
ORDER BY reservation_date ASC, id ASC
`
	rows, err := r.db.QueryContext(ctx, q, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReservations(rows)
}

func (r *PostgresRepo) GetByID(ctx context.Context, id int64) (CallReservation, error) {
	const q = `
SELECT ` + reservationColumns + `
FROM call_reservations
WHERE id = $1
`
	res, err := scanReservation(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return CallReservation{}, ErrNotFound
		}
		return CallReservation{}, err
	}
	return res, nil
}

func (r *PostgresRepo) Update(ctx context.Context, id int64, patch UpdatePatch, now time.Time) (CallReservation, error) {
	const q = `
UPDATE call_reservations
SET username         = COALESCE($2, username),
    reservation_date = COALESCE($3, reservation_date),
    start_time       = COALESCE($4, start_time),
    end_time         = COALESCE($5, end_time),
    status           = COALESCE($6, status),
    phone_number     = COALESCE($7, phone_number),
    call_sid         = COALESCE($8, call_sid),
    call_duration    = COALESCE($9, call_duration),
    updated_at       = $10
WHERE id = $1
RETURNING ` + reservationColumns
	res, err := scanReservation(r.db.QueryRowContext(ctx, q,
		id,
		patch.Username,
		patch.ReservationDate,
		patch.StartTime,
		patch.EndTime,
		(*string)(patch.Status),
		patch.PhoneNumber,
		patch.CallSid,
		patch.CallDuration,
		now,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return CallReservation{}, ErrNotFound
		}
		return CallReservation{}, err
	}
	return res, nil
}

func (r *PostgresRepo) ListExpiredOngoing(ctx context.Context, date, timeOfDay string) ([]CallReservation, error) {
	const q = `
SELECT ` + reservationColumns + `
FROM call_reservations
WHERE status = 'ongoing'
  AND (reservation_date < $1 OR (reservation_date = $1 AND end_time < $2))
ORDER BY id ASC
`
	rows, err := r.db.QueryContext(ctx, q, date, timeOfDay)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReservations(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReservation(row rowScanner) (CallReservation, error) {
	var (
		res      CallReservation
		status   string
		phone    sql.NullString
		callSid  sql.NullString
		duration sql.NullInt64
	)
	if err := row.Scan(
		&res.ID,
		&res.Username,
		&res.ReservationDate,
		&res.StartTime,
		&res.EndTime,
		&status,
		&phone,
		&callSid,
		&duration,
		&res.CreatedAt,
		&res.UpdatedAt,
	); err != nil {
		return CallReservation{}, err
	}
	res.Status = Status(status)
	if phone.Valid {
		res.PhoneNumber = phone.String
	}
	if callSid.Valid {
		res.CallSid = callSid.String
	}
	if duration.Valid {
		d := int(duration.Int64)
		res.CallDuration = &d
	}
	return res, nil
}

func collectReservations(rows *sql.Rows) ([]CallReservation, error) {
	var out []CallReservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
