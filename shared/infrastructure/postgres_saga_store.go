package infrastructure

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/campushq/enrollment-system/shared/models"
	"github.com/campushq/enrollment-system/shared/saga"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
)

// uniqueViolation is the postgres error code for unique constraint violations
const uniqueViolation = "23505"

// PostgresSagaStore implements saga.InstanceStore using PostgreSQL. Writes
// are compare-and-swap on the version column, so concurrent dispatch
// attempts against the same instance serialize without locks.
type PostgresSagaStore struct {
	db *sqlx.DB
}

var _ saga.InstanceStore = (*PostgresSagaStore)(nil)

// NewPostgresSagaStore creates a new PostgresSagaStore
func NewPostgresSagaStore(db *sqlx.DB) *PostgresSagaStore {
	return &PostgresSagaStore{db: db}
}

// postgresSagaInstance represents a saga instance row
type postgresSagaInstance struct {
	SagaID               string     `db:"saga_id"`
	SagaType             string     `db:"saga_type"`
	Status               string     `db:"status"`
	Data                 []byte     `db:"data"`
	CompletedSteps       []byte     `db:"completed_steps"`
	PendingCompensations []byte     `db:"pending_compensations"`
	CreatedAt            time.Time  `db:"created_at"`
	UpdatedAt            time.Time  `db:"updated_at"`
	DeadlineAt           *time.Time `db:"deadline_at"`
	Version              int        `db:"version"`
	ErrorMessage         string     `db:"error_message"`
}

const sagaInstanceColumns = `
	saga_id, saga_type, status, data, completed_steps, pending_compensations,
	created_at, updated_at, deadline_at, version, error_message`

// Load retrieves a saga instance by id
func (s *PostgresSagaStore) Load(ctx context.Context, sagaID models.ID) (*saga.Instance, bool, error) {
	query := `SELECT ` + sagaInstanceColumns + ` FROM saga_instances WHERE saga_id = $1`

	var row postgresSagaInstance
	err := s.db.GetContext(ctx, &row, query, sagaID.String())
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "failed to load saga instance")
	}

	instance, err := s.toDomain(&row)
	if err != nil {
		return nil, false, err
	}

	return instance, true, nil
}

// Save persists the instance; expectedVersion 0 inserts, anything else is a
// compare-and-swap against the stored version
func (s *PostgresSagaStore) Save(ctx context.Context, instance *saga.Instance, expectedVersion int) error {
	row, err := s.toPostgres(instance)
	if err != nil {
		return err
	}
	row.Version = expectedVersion + 1

	if expectedVersion == 0 {
		query := `
			INSERT INTO saga_instances (` + sagaInstanceColumns + `)
			VALUES (
				:saga_id, :saga_type, :status, :data, :completed_steps, :pending_compensations,
				:created_at, :updated_at, :deadline_at, :version, :error_message
			)`

		if _, err := s.db.NamedExecContext(ctx, query, row); err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
				return saga.ErrConflict
			}
			return errors.Wrap(err, "failed to insert saga instance")
		}

		instance.Version = row.Version
		return nil
	}

	query := `
		UPDATE saga_instances SET
			status = :status,
			data = :data,
			completed_steps = :completed_steps,
			pending_compensations = :pending_compensations,
			updated_at = :updated_at,
			deadline_at = :deadline_at,
			version = :version,
			error_message = :error_message
		WHERE saga_id = :saga_id AND version = :expected_version`

	result, err := s.db.NamedExecContext(ctx, query, struct {
		postgresSagaInstance
		ExpectedVersion int `db:"expected_version"`
	}{*row, expectedVersion})
	if err != nil {
		return errors.Wrap(err, "failed to update saga instance")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to read update result")
	}
	if affected == 0 {
		return saga.ErrConflict
	}

	instance.Version = row.Version
	return nil
}

// ScanExpired returns non-terminal instances whose deadline has passed
func (s *PostgresSagaStore) ScanExpired(ctx context.Context, now time.Time) ([]*saga.Instance, error) {
	query := `
		SELECT ` + sagaInstanceColumns + `
		FROM saga_instances
		WHERE status NOT IN ($1, $2, $3)
		  AND deadline_at IS NOT NULL
		  AND deadline_at <= $4
		ORDER BY deadline_at ASC`

	var rows []postgresSagaInstance
	err := s.db.SelectContext(ctx, &rows, query,
		string(saga.StatusCompleted), string(saga.StatusFailed), string(saga.StatusTimedOut), now)
	if err != nil {
		return nil, errors.Wrap(err, "failed to scan expired saga instances")
	}

	return s.toDomainList(rows)
}

// FindByStatus returns up to limit instances with the given status
func (s *PostgresSagaStore) FindByStatus(ctx context.Context, status saga.Status, limit int) ([]*saga.Instance, error) {
	query := `
		SELECT ` + sagaInstanceColumns + `
		FROM saga_instances
		WHERE status = $1
		ORDER BY updated_at DESC
		LIMIT $2`

	var rows []postgresSagaInstance
	err := s.db.SelectContext(ctx, &rows, query, string(status), limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find saga instances by status")
	}

	return s.toDomainList(rows)
}

func (s *PostgresSagaStore) toDomainList(rows []postgresSagaInstance) ([]*saga.Instance, error) {
	instances := make([]*saga.Instance, len(rows))
	for i := range rows {
		instance, err := s.toDomain(&rows[i])
		if err != nil {
			return nil, err
		}
		instances[i] = instance
	}
	return instances, nil
}

func (s *PostgresSagaStore) toPostgres(instance *saga.Instance) (*postgresSagaInstance, error) {
	data, err := json.Marshal(instance.Data)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal saga data")
	}

	completedSteps, err := json.Marshal(instance.CompletedSteps)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal completed steps")
	}

	pendingCompensations, err := json.Marshal(instance.PendingCompensations)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal pending compensations")
	}

	return &postgresSagaInstance{
		SagaID:               instance.SagaID.String(),
		SagaType:             instance.SagaType,
		Status:               string(instance.Status),
		Data:                 data,
		CompletedSteps:       completedSteps,
		PendingCompensations: pendingCompensations,
		CreatedAt:            instance.Timestamps.CreatedAt,
		UpdatedAt:            instance.Timestamps.UpdatedAt,
		DeadlineAt:           instance.DeadlineAt,
		Version:              instance.Version,
		ErrorMessage:         instance.ErrorMessage,
	}, nil
}

func (s *PostgresSagaStore) toDomain(row *postgresSagaInstance) (*saga.Instance, error) {
	instance := &saga.Instance{
		SagaID:   models.ID(row.SagaID),
		SagaType: row.SagaType,
		Status:   saga.Status(row.Status),
		Timestamps: models.Timestamps{
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
		},
		DeadlineAt:   row.DeadlineAt,
		Version:      row.Version,
		ErrorMessage: row.ErrorMessage,
	}

	if err := json.Unmarshal(row.Data, &instance.Data); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal saga data")
	}

	if err := json.Unmarshal(row.CompletedSteps, &instance.CompletedSteps); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal completed steps")
	}

	if err := json.Unmarshal(row.PendingCompensations, &instance.PendingCompensations); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal pending compensations")
	}

	return instance, nil
}
