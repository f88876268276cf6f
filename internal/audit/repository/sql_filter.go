package repository

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	auditDomain "github.com/allisson/phiguard/internal/audit/domain"
)

// sqlDialect captures the differences between the SQL stores that matter for
// building filters: placeholder syntax and how a UUID is bound.
type sqlDialect struct {
	placeholder func(n int) string
	bindUUID    func(id uuid.UUID) (any, error)
}

var postgresDialect = sqlDialect{
	placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
	bindUUID:    func(id uuid.UUID) (any, error) { return id, nil },
}

var mysqlDialect = sqlDialect{
	placeholder: func(int) string { return "?" },
	bindUUID:    func(id uuid.UUID) (any, error) { return id.MarshalBinary() },
}

// where builds the WHERE clause for filter. Bounds are inclusive.
func (d sqlDialect) where(filter *auditDomain.Filter) (string, []any, error) {
	var conditions []string
	var args []any

	add := func(column, op string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf("%s %s %s", column, op, d.placeholder(len(args))))
	}

	if filter.SubjectID != nil {
		subject, err := d.bindUUID(*filter.SubjectID)
		if err != nil {
			return "", nil, err
		}
		add("subject_id", "=", subject)
	}
	if filter.EventType != "" {
		add("event_type", "=", string(filter.EventType))
	}
	if filter.From != nil {
		add("occurred_at", ">=", filter.From.UTC())
	}
	if filter.To != nil {
		add("occurred_at", "<=", filter.To.UTC())
	}

	if len(conditions) == 0 {
		return "", args, nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args, nil
}

// selectQuery returns the ordered, optionally limited SELECT for filter.
func (d sqlDialect) selectQuery(filter *auditDomain.Filter) (string, []any, error) {
	where, args, err := d.where(filter)
	if err != nil {
		return "", nil, err
	}

	query := `SELECT id, occurred_at, event_type, subject_id, device_id, encrypted_details, signature
			  FROM audit_records` + where + " ORDER BY occurred_at ASC, id ASC"

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += " LIMIT " + d.placeholder(len(args))
	}
	return query, args, nil
}

// countQuery returns the COUNT query for filter.
func (d sqlDialect) countQuery(filter *auditDomain.Filter) (string, []any, error) {
	where, args, err := d.where(filter)
	if err != nil {
		return "", nil, err
	}
	return "SELECT COUNT(*) FROM audit_records" + where, args, nil
}
