package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const reportSelect = `
	SELECT r.id, r.date::text, r.device_id, r.status, r.start_time, r.end_time,
		   r.total_hours, r.overtime_hours, r.is_open,
		   r.overtime_start_time, r.overtime_end_time, r.is_overtime_open, r.has_overtime,
		   r.start_location, r.end_location, r.overtime_start_location, r.overtime_end_location,
		   r.note, r.created_at, r.updated_at,
		   COALESCE(dr.name, r.user_name), COALESCE(dr.email, r.user_email)
	FROM reports r
	LEFT JOIN device_requests dr ON dr.device_id = r.device_id AND dr.status = 'approved'
`

type reportRepositoryImpl struct {
	db *database.DB
}

func NewReportRepository(db *database.DB) report.ReportRepository {
	return &reportRepositoryImpl{db: db}
}

func scanReport(row pgx.Row) (report.Report, error) {
	var rp report.Report
	err := row.Scan(
		&rp.ID,
		&rp.Date,
		&rp.DeviceID,
		&rp.Status,
		&rp.StartTime,
		&rp.EndTime,
		&rp.TotalHours,
		&rp.OvertimeHours,
		&rp.IsOpen,
		&rp.OvertimeStartTime,
		&rp.OvertimeEndTime,
		&rp.IsOvertimeOpen,
		&rp.HasOvertime,
		&rp.StartLocation,
		&rp.EndLocation,
		&rp.OvertimeStartLocation,
		&rp.OvertimeEndLocation,
		&rp.Note,
		&rp.CreatedAt,
		&rp.UpdatedAt,
		&rp.UserName,
		&rp.UserEmail,
	)
	return rp, err
}

func collectReports(rows pgx.Rows) ([]report.Report, error) {
	defer rows.Close()

	reports := make([]report.Report, 0)
	for rows.Next() {
		rp, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, rp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reports: %w", err)
	}
	return reports, nil
}

func (r *reportRepositoryImpl) Create(ctx context.Context, rp report.Report) (report.Report, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO reports (
			date, device_id, status, start_time, end_time,
			total_hours, overtime_hours, is_open,
			overtime_start_time, overtime_end_time, is_overtime_open, has_overtime,
			start_location, end_location, overtime_start_location, overtime_end_location,
			note, user_name, user_email
		) VALUES (
			$1::date, $2, $3, $4, $5,
			$6, $7, $8,
			$9, $10, $11, $12,
			$13, $14, $15, $16,
			$17, $18, $19
		)
		RETURNING id, created_at, updated_at
	`
	err := q.QueryRow(ctx, query,
		rp.Date, rp.DeviceID, rp.Status, rp.StartTime, rp.EndTime,
		rp.TotalHours, rp.OvertimeHours, rp.IsOpen,
		rp.OvertimeStartTime, rp.OvertimeEndTime, rp.IsOvertimeOpen, rp.HasOvertime,
		rp.StartLocation, rp.EndLocation, rp.OvertimeStartLocation, rp.OvertimeEndLocation,
		rp.Note, rp.UserName, rp.UserEmail,
	).Scan(&rp.ID, &rp.CreatedAt, &rp.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "uq_reports_open_per_day") {
			return report.Report{}, report.ErrReportAlreadyOpen
		}
		return report.Report{}, fmt.Errorf("failed to create report: %w", err)
	}
	return rp, nil
}

func (r *reportRepositoryImpl) GetByID(ctx context.Context, id string) (report.Report, error) {
	q := GetQuerier(ctx, r.db)

	rp, err := scanReport(q.QueryRow(ctx, reportSelect+` WHERE r.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return report.Report{}, report.ErrReportNotFound
		}
		return report.Report{}, fmt.Errorf("failed to get report by id: %w", err)
	}
	return rp, nil
}

func (r *reportRepositoryImpl) GetOpenByDeviceAndDate(ctx context.Context, deviceID, date string) (report.Report, error) {
	q := GetQuerier(ctx, r.db)

	query := reportSelect + ` WHERE r.device_id = $1 AND r.date = $2::date AND r.is_open LIMIT 1`
	rp, err := scanReport(q.QueryRow(ctx, query, deviceID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return report.Report{}, report.ErrReportNotFound
		}
		return report.Report{}, fmt.Errorf("failed to get open report: %w", err)
	}
	return rp, nil
}

func (r *reportRepositoryImpl) GetLatestByDeviceAndDate(ctx context.Context, deviceID, date string) (report.Report, error) {
	q := GetQuerier(ctx, r.db)

	query := reportSelect + `
		WHERE r.device_id = $1 AND r.date = $2::date
		ORDER BY r.is_open DESC, r.created_at DESC
		LIMIT 1
	`
	rp, err := scanReport(q.QueryRow(ctx, query, deviceID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return report.Report{}, report.ErrReportNotFound
		}
		return report.Report{}, fmt.Errorf("failed to get latest report: %w", err)
	}
	return rp, nil
}

func (r *reportRepositoryImpl) ExistsForDeviceAndDate(ctx context.Context, deviceID, date string, status report.Status) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM reports
			WHERE device_id = $1 AND date = $2::date AND ($3::text = '' OR status = $3::text)
		)
	`, deviceID, date, string(status)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check report existence: %w", err)
	}
	return exists, nil
}

func (r *reportRepositoryImpl) ListOpenBefore(ctx context.Context, deviceID, date string) ([]report.Report, error) {
	q := GetQuerier(ctx, r.db)

	query := reportSelect + `
		WHERE r.is_open AND r.date < $1::date AND ($2 = '' OR r.device_id = $2)
		ORDER BY r.date ASC, r.id ASC
	`
	rows, err := q.Query(ctx, query, date, deviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list open reports: %w", err)
	}
	return collectReports(rows)
}

// buildReportWhere turns a filter into a WHERE clause and its arguments.
func buildReportWhere(filter report.ReportFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}
	argIdx := 1

	add := func(cond string, arg interface{}) {
		conditions = append(conditions, fmt.Sprintf(cond, argIdx))
		args = append(args, arg)
		argIdx++
	}

	if filter.DeviceID != "" {
		add("r.device_id = $%d", filter.DeviceID)
	}
	if filter.Status != "" {
		add("r.status = $%d", filter.Status)
	}
	if filter.Month != "" {
		add("to_char(r.date, 'YYYY-MM') = $%d", filter.Month)
	}
	if filter.From != "" {
		add("r.date >= $%d::date", filter.From)
	}
	if filter.To != "" {
		add("r.date <= $%d::date", filter.To)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		conditions = append(conditions, fmt.Sprintf(
			"(LOWER(COALESCE(dr.name, r.user_name, '')) LIKE $%d OR LOWER(COALESCE(dr.email, r.user_email, '')) LIKE $%d OR LOWER(r.device_id) LIKE $%d)",
			argIdx, argIdx, argIdx))
		args = append(args, pattern)
		argIdx++
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func (r *reportRepositoryImpl) List(ctx context.Context, filter report.ReportFilter) ([]report.Report, int64, error) {
	q := GetQuerier(ctx, r.db)

	where, args := buildReportWhere(filter)

	countQuery := `
		SELECT COUNT(*)
		FROM reports r
		LEFT JOIN device_requests dr ON dr.device_id = r.device_id AND dr.status = 'approved'
	` + where
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count reports: %w", err)
	}

	query := reportSelect + where + ` ORDER BY r.date DESC, r.created_at DESC`
	if filter.Limit > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.Limit, (page-1)*filter.Limit)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reports: %w", err)
	}
	reports, err := collectReports(rows)
	if err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}

func (r *reportRepositoryImpl) ListByDevice(ctx context.Context, deviceID string) ([]report.Report, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, reportSelect+` WHERE r.device_id = $1 ORDER BY r.date ASC, r.created_at ASC`, deviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports by device: %w", err)
	}
	return collectReports(rows)
}

func (r *reportRepositoryImpl) Update(ctx context.Context, rp report.Report) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE reports SET
			date = $2::date, status = $3, start_time = $4, end_time = $5,
			total_hours = $6, overtime_hours = $7, is_open = $8,
			overtime_start_time = $9, overtime_end_time = $10,
			is_overtime_open = $11, has_overtime = $12,
			start_location = $13, end_location = $14,
			overtime_start_location = $15, overtime_end_location = $16,
			note = $17, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := q.Exec(ctx, query,
		rp.ID, rp.Date, rp.Status, rp.StartTime, rp.EndTime,
		rp.TotalHours, rp.OvertimeHours, rp.IsOpen,
		rp.OvertimeStartTime, rp.OvertimeEndTime,
		rp.IsOvertimeOpen, rp.HasOvertime,
		rp.StartLocation, rp.EndLocation,
		rp.OvertimeStartLocation, rp.OvertimeEndLocation,
		rp.Note,
	)
	if err != nil {
		if isUniqueViolation(err, "uq_reports_open_per_day") {
			return report.ErrReportAlreadyOpen
		}
		return fmt.Errorf("failed to update report: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return report.ErrReportNotFound
	}
	return nil
}

// Upsert writes a report under its own id, used by restore.
func (r *reportRepositoryImpl) Upsert(ctx context.Context, rp report.Report) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO reports (
			id, date, device_id, status, start_time, end_time,
			total_hours, overtime_hours, is_open,
			overtime_start_time, overtime_end_time, is_overtime_open, has_overtime,
			start_location, end_location, overtime_start_location, overtime_end_location,
			note, user_name, user_email, created_at, updated_at
		) VALUES (
			$1, $2::date, $3, $4, $5, $6,
			$7, $8, $9,
			$10, $11, $12, $13,
			$14, $15, $16, $17,
			$18, $19, $20, COALESCE($21, NOW()), NOW()
		)
		ON CONFLICT (id) DO UPDATE SET
			date = EXCLUDED.date, device_id = EXCLUDED.device_id, status = EXCLUDED.status,
			start_time = EXCLUDED.start_time, end_time = EXCLUDED.end_time,
			total_hours = EXCLUDED.total_hours, overtime_hours = EXCLUDED.overtime_hours,
			is_open = EXCLUDED.is_open,
			overtime_start_time = EXCLUDED.overtime_start_time, overtime_end_time = EXCLUDED.overtime_end_time,
			is_overtime_open = EXCLUDED.is_overtime_open, has_overtime = EXCLUDED.has_overtime,
			start_location = EXCLUDED.start_location, end_location = EXCLUDED.end_location,
			overtime_start_location = EXCLUDED.overtime_start_location,
			overtime_end_location = EXCLUDED.overtime_end_location,
			note = EXCLUDED.note, user_name = EXCLUDED.user_name, user_email = EXCLUDED.user_email,
			updated_at = NOW()
	`
	_, err := q.Exec(ctx, query,
		rp.ID, rp.Date, rp.DeviceID, rp.Status, rp.StartTime, rp.EndTime,
		rp.TotalHours, rp.OvertimeHours, rp.IsOpen,
		rp.OvertimeStartTime, rp.OvertimeEndTime, rp.IsOvertimeOpen, rp.HasOvertime,
		rp.StartLocation, rp.EndLocation, rp.OvertimeStartLocation, rp.OvertimeEndLocation,
		rp.Note, rp.UserName, rp.UserEmail, nullTime(rp.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err, "uq_reports_open_per_day") {
			return report.ErrReportAlreadyOpen
		}
		return fmt.Errorf("failed to upsert report: %w", err)
	}
	return nil
}

func (r *reportRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM reports WHERE id = $1`, id)
	if err != nil {
		if isInvalidID(err) {
			return report.ErrReportNotFound
		}
		return fmt.Errorf("failed to delete report: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return report.ErrReportNotFound
	}
	return nil
}

func (r *reportRepositoryImpl) DeleteByIDs(ctx context.Context, ids []string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM reports WHERE id::text = ANY($1)`, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to delete reports: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *reportRepositoryImpl) DeleteByDeviceID(ctx context.Context, deviceID string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM reports WHERE device_id = $1`, deviceID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete reports by device: %w", err)
	}
	return tag.RowsAffected(), nil
}
