package postgres

import (
	"context"
	"database/sql"

	"github.com/medguard-uz/medguard/internal/domain/complaint"
	"github.com/medguard-uz/medguard/internal/infrastructure/monitoring/logging"
	"github.com/medguard-uz/medguard/pkg/errors"
)

// queryExecutor abstracts sql.DB and sql.Tx.
type queryExecutor interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// ComplaintArchive writes complaint records to PostgreSQL and restores them
// at startup.  It satisfies the facade's ComplaintArchiver interface.
type ComplaintArchive struct {
	db     queryExecutor
	logger logging.Logger
}

// NewComplaintArchive creates the archive over an established connection.
func NewComplaintArchive(conn *Connection, log logging.Logger) *ComplaintArchive {
	return &ComplaintArchive{db: conn.DB(), logger: log.Named("complaint_archive")}
}

// Archive inserts one complaint record.  Inserts are idempotent on ID so a
// retried write cannot duplicate a record.
func (a *ComplaintArchive) Archive(ctx context.Context, c complaint.BatchComplaint) error {
	const q = `
		INSERT INTO batch_complaints (id, batch_number, drug_id, report_date, symptom, severity, verified)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING`

	_, err := a.db.ExecContext(ctx, q,
		c.ID, c.BatchNumber, c.DrugID, c.ReportDate, c.Symptom, c.Severity.String(), c.Verified)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeComplaintArchiveFailed, "failed to archive complaint")
	}
	return nil
}

// RestoreAll loads every archived complaint in report-date order, for
// seeding the in-memory log at startup.
func (a *ComplaintArchive) RestoreAll(ctx context.Context) ([]complaint.BatchComplaint, error) {
	const q = `
		SELECT id, batch_number, drug_id, report_date, symptom, severity, verified
		FROM batch_complaints
		ORDER BY report_date, id`

	rows, err := a.db.QueryContext(ctx, q)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to read complaint archive")
	}
	defer rows.Close()

	var out []complaint.BatchComplaint
	for rows.Next() {
		var c complaint.BatchComplaint
		var severity string
		if err := rows.Scan(&c.ID, &c.BatchNumber, &c.DrugID, &c.ReportDate, &c.Symptom, &severity, &c.Verified); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan complaint row")
		}
		c.Severity = complaint.Severity(severity)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to iterate complaint archive")
	}

	a.logger.Info("complaint archive restored", logging.Int("records", len(out)))
	return out, nil
}
