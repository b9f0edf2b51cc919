package infrastructure

import (
	"context"
	"encoding/json"
	"time"

	"github.com/campushq/enrollment-system/shared/events"
	"github.com/campushq/enrollment-system/shared/models"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

// PostgresEventJournal implements events.Journal using PostgreSQL. Every
// inbound event and emitted command the dispatcher touches is appended here,
// keyed by event id so redeliveries do not duplicate rows.
type PostgresEventJournal struct {
	db *sqlx.DB
}

var _ events.Journal = (*PostgresEventJournal)(nil)

// NewPostgresEventJournal creates a new PostgresEventJournal
func NewPostgresEventJournal(db *sqlx.DB) *PostgresEventJournal {
	return &PostgresEventJournal{db: db}
}

// postgresJournalEvent represents an event row
type postgresJournalEvent struct {
	ID            string    `db:"id"`
	AggregateID   string    `db:"aggregate_id"`
	EventType     string    `db:"event_type"`
	Data          []byte    `db:"data"`
	Metadata      []byte    `db:"metadata"`
	Timestamp     time.Time `db:"timestamp"`
	CorrelationID string    `db:"correlation_id"`
}

// Append records events; already-journaled event ids are skipped
func (j *PostgresEventJournal) Append(ctx context.Context, evts ...*events.Event) error {
	if len(evts) == 0 {
		return nil
	}

	tx, err := j.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	query := `
		INSERT INTO saga_event_journal (
			id, aggregate_id, event_type, data, metadata, timestamp, correlation_id
		) VALUES (
			:id, :aggregate_id, :event_type, :data, :metadata, :timestamp, :correlation_id
		)
		ON CONFLICT (id) DO NOTHING`

	for _, event := range evts {
		row, err := j.toPostgres(event)
		if err != nil {
			return err
		}

		if _, err := tx.NamedExecContext(ctx, query, row); err != nil {
			return errors.Wrap(err, "failed to journal event")
		}
	}

	return tx.Commit()
}

// GetByCorrelationID retrieves the full event trail of one saga
func (j *PostgresEventJournal) GetByCorrelationID(ctx context.Context, correlationID models.ID) ([]*events.Event, error) {
	query := `
		SELECT id, aggregate_id, event_type, data, metadata, timestamp, correlation_id
		FROM saga_event_journal
		WHERE correlation_id = $1
		ORDER BY timestamp ASC`

	var rows []postgresJournalEvent
	err := j.db.SelectContext(ctx, &rows, query, correlationID.String())
	if err != nil {
		return nil, errors.Wrap(err, "failed to get journaled events")
	}

	evts := make([]*events.Event, len(rows))
	for i := range rows {
		event, err := j.toDomain(&rows[i])
		if err != nil {
			return nil, err
		}
		evts[i] = event
	}

	return evts, nil
}

func (j *PostgresEventJournal) toPostgres(event *events.Event) (*postgresJournalEvent, error) {
	data, err := event.MarshalPayload()
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal event data")
	}

	metadata, err := json.Marshal(event.Metadata)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal event metadata")
	}

	return &postgresJournalEvent{
		ID:            event.ID.String(),
		AggregateID:   event.AggregateID.String(),
		EventType:     event.EventType,
		Data:          data,
		Metadata:      metadata,
		Timestamp:     event.Timestamp,
		CorrelationID: event.CorrelationID.String(),
	}, nil
}

func (j *PostgresEventJournal) toDomain(row *postgresJournalEvent) (*events.Event, error) {
	var metadata events.Metadata
	if err := json.Unmarshal(row.Metadata, &metadata); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal event metadata")
	}

	topic, err := events.NewTopic(row.EventType)
	if err != nil {
		return nil, err
	}

	return &events.Event{
		ID:            models.ID(row.ID),
		AggregateID:   models.ID(row.AggregateID),
		Topic:         topic,
		EventType:     row.EventType,
		Version:       "1.0",
		Data:          json.RawMessage(row.Data),
		Metadata:      metadata,
		Timestamp:     row.Timestamp,
		CorrelationID: models.ID(row.CorrelationID),
	}, nil
}
