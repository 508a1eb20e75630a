package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AvailabilityService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

const (
	tableOfferings     = "offerings"
	tableOfferingHours = "offering_hours"
	tableOrgHours      = "organization_hours"
	tableResourceHours = "resource_hours"
	tableBreaks        = "break_windows"
	tableSpecialDates  = "special_dates"
	tableBlackouts     = "blackout_ranges"
	tableManagedSlots  = "managed_slots"
	tableOrgManagers   = "organization_managers"
)

// Repository репозиторий документов расписания
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписаний
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetOffering получает услугу вместе с её override расписанием и перерывами
func (r *Repository) GetOffering(ctx context.Context, offeringID int64) (*domain.Offering, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"organization_id",
		"name",
		"resource_id",
		"duration_minutes",
		"min_notice_hours",
		"booking_window_days",
		"buffer_before_mins",
		"buffer_after_mins",
		"max_per_day",
		"max_per_week",
		"max_per_month",
		"max_per_customer",
		"managed_slots_enabled",
		"created_at",
		"updated_at",
	).
		From(tableOfferings).
		Where(squirrel.Eq{"id": offeringID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetOffering - build select query: %v", ErrBuildQuery, err)
	}

	var (
		offering               domain.Offering
		resourceID             sql.NullInt64
		minNotice, window      sql.NullInt32
		bufferBefore, bufferAf sql.NullInt32
		perDay, perWeek        sql.NullInt32
		perMonth, perCustomer  sql.NullInt32
		createdAt, updatedAt   sql.NullTime
	)

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&offering.ID,
		&offering.OrganizationID,
		&offering.Name,
		&resourceID,
		&offering.DurationMinutes,
		&minNotice,
		&window,
		&bufferBefore,
		&bufferAf,
		&perDay,
		&perWeek,
		&perMonth,
		&perCustomer,
		&offering.ManagedSlotsEnabled,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOfferingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetOffering - scan offering: %v", ErrScanRow, err)
	}

	if resourceID.Valid {
		offering.ResourceID = &resourceID.Int64
	}
	offering.Constraints = domain.BookingConstraints{
		MinNoticeHours:    nullInt(minNotice),
		BookingWindowDays: nullInt(window),
		BufferBeforeMins:  nullInt(bufferBefore),
		BufferAfterMins:   nullInt(bufferAf),
		MaxPerDay:         nullInt(perDay),
		MaxPerWeek:        nullInt(perWeek),
		MaxPerMonth:       nullInt(perMonth),
		MaxPerCustomer:    nullInt(perCustomer),
	}
	offering.CreatedAt = createdAt.Time
	offering.UpdatedAt = updatedAt.Time

	offering.Schedule, err = r.getWeekly(ctx, tableOfferingHours, "offering_id", offeringID)
	if err != nil {
		return nil, err
	}
	offering.Breaks, err = r.getBreaks(ctx, "offering_id", offeringID)
	if err != nil {
		return nil, err
	}

	return &offering, nil
}

// GetOrganizationHours недельное расписание организации
// Если записей нет, возвращает ErrScheduleNotFound
func (r *Repository) GetOrganizationHours(ctx context.Context, organizationID int64) (domain.WeeklySchedule, error) {
	schedule, err := r.getWeekly(ctx, tableOrgHours, "organization_id", organizationID)
	if err != nil {
		return nil, err
	}
	if len(schedule) == 0 {
		return nil, ErrScheduleNotFound
	}
	return schedule, nil
}

// GetResourceHours личное недельное расписание сотрудника
// Если записей нет, возвращает ErrScheduleNotFound
func (r *Repository) GetResourceHours(ctx context.Context, resourceID int64) (domain.WeeklySchedule, error) {
	schedule, err := r.getWeekly(ctx, tableResourceHours, "resource_id", resourceID)
	if err != nil {
		return nil, err
	}
	if len(schedule) == 0 {
		return nil, ErrScheduleNotFound
	}
	return schedule, nil
}

// GetOrganizationBreaks перерывы организации по дням недели
func (r *Repository) GetOrganizationBreaks(ctx context.Context, organizationID int64) (domain.BreakMap, error) {
	return r.getBreaks(ctx, "organization_id", organizationID)
}

// GetSpecialDates разовые окна организации и услуги в диапазоне дат
func (r *Repository) GetSpecialDates(ctx context.Context, organizationID, offeringID int64, from, to time.Time) ([]domain.SpecialDateOverride, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "offering_id", "date", "start_time", "end_time").
		From(tableSpecialDates).
		Where(squirrel.Eq{"organization_id": organizationID}).
		Where(squirrel.Or{squirrel.Eq{"offering_id": nil}, squirrel.Eq{"offering_id": offeringID}}).
		Where(squirrel.GtOrEq{"date": from.Format(domain.DateFormat)}).
		Where(squirrel.LtOrEq{"date": to.Format(domain.DateFormat)}).
		OrderBy("date", "offering_id NULLS LAST").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetSpecialDates - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetSpecialDates - execute select: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	overrides := make([]domain.SpecialDateOverride, 0)
	for rows.Next() {
		var (
			o         domain.SpecialDateOverride
			offeringN sql.NullInt64
		)
		if err := rows.Scan(&o.ID, &offeringN, &o.Date, &rawTime{&o.StartTime}, &rawTime{&o.EndTime}); err != nil {
			return nil, fmt.Errorf("%w: GetSpecialDates - scan row: %v", ErrScanRow, err)
		}
		if offeringN.Valid {
			o.OfferingID = &offeringN.Int64
		}
		overrides = append(overrides, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetSpecialDates - rows error: %v", ErrExecQuery, err)
	}

	return overrides, nil
}

// GetBlackouts диапазоны закрытых дат, пересекающиеся с [from, to]
func (r *Repository) GetBlackouts(ctx context.Context, organizationID, offeringID int64, from, to time.Time) ([]domain.BlackoutRange, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "offering_id", "start_date", "end_date", "reason").
		From(tableBlackouts).
		Where(squirrel.Eq{"organization_id": organizationID}).
		Where(squirrel.Or{squirrel.Eq{"offering_id": nil}, squirrel.Eq{"offering_id": offeringID}}).
		Where(squirrel.LtOrEq{"start_date": to.Format(domain.DateFormat)}).
		Where(squirrel.GtOrEq{"end_date": from.Format(domain.DateFormat)}).
		OrderBy("start_date").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetBlackouts - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetBlackouts - execute select: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	ranges := make([]domain.BlackoutRange, 0)
	for rows.Next() {
		var (
			b         domain.BlackoutRange
			offeringN sql.NullInt64
			reason    sql.NullString
		)
		if err := rows.Scan(&b.ID, &offeringN, &b.StartDate, &b.EndDate, &reason); err != nil {
			return nil, fmt.Errorf("%w: GetBlackouts - scan row: %v", ErrScanRow, err)
		}
		if offeringN.Valid {
			b.OfferingID = &offeringN.Int64
		}
		b.Reason = reason.String
		ranges = append(ranges, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetBlackouts - rows error: %v", ErrExecQuery, err)
	}

	return ranges, nil
}

// GetManagedSlots все управляемые слоты услуги, включая неактивные
func (r *Repository) GetManagedSlots(ctx context.Context, offeringID int64) ([]domain.ManagedSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"offering_id",
		"day_of_week",
		"start_time",
		"end_time",
		"max_bookings",
		"current_bookings",
		"is_active",
	).
		From(tableManagedSlots).
		Where(squirrel.Eq{"offering_id": offeringID}).
		OrderBy("day_of_week", "start_time", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetManagedSlots - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetManagedSlots - execute select: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	slots := make([]domain.ManagedSlot, 0)
	for rows.Next() {
		var s domain.ManagedSlot
		if err := rows.Scan(
			&s.ID,
			&s.OfferingID,
			&s.DayOfWeek,
			&s.StartTime,
			&s.EndTime,
			&s.MaxBookings,
			&s.CurrentBookings,
			&s.IsActive,
		); err != nil {
			return nil, fmt.Errorf("%w: GetManagedSlots - scan row: %v", ErrScanRow, err)
		}
		slots = append(slots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetManagedSlots - rows error: %v", ErrExecQuery, err)
	}

	return slots, nil
}

// IsManager проверяет, что пользователь управляет организацией
func (r *Repository) IsManager(ctx context.Context, organizationID, userID int64) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From(tableOrgManagers).
		Where(squirrel.Eq{"organization_id": organizationID, "user_id": userID}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: IsManager - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: IsManager - scan row: %v", ErrScanRow, err)
	}
	return true, nil
}

// ReplaceOfferingSchedule полностью заменяет override расписание и перерывы услуги
// Вызывать внутри транзакции (txmanager), иначе замена не атомарна.
func (r *Repository) ReplaceOfferingSchedule(ctx context.Context, offeringID int64, schedule domain.WeeklySchedule, breaks domain.BreakMap) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if err := r.deleteWhere(ctx, tableOfferingHours, squirrel.Eq{"offering_id": offeringID}); err != nil {
		return err
	}
	if err := r.deleteWhere(ctx, tableBreaks, squirrel.Eq{"offering_id": offeringID}); err != nil {
		return err
	}

	if len(schedule) > 0 {
		insert := psqlbuilder.Insert(tableOfferingHours).
			Columns("offering_id", "day_of_week", "is_enabled", "start_time", "end_time")
		for _, day := range domain.AllWeekdays {
			h, ok := schedule[day]
			if !ok {
				continue
			}
			insert = insert.Values(offeringID, int(day), h.Enabled, h.Start, h.End)
		}

		query, args, err := insert.ToSql()
		if err != nil {
			return fmt.Errorf("%w: ReplaceOfferingSchedule - build hours insert: %v", ErrBuildQuery, err)
		}
		if _, err := executor.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: ReplaceOfferingSchedule - insert hours: %v", ErrExecQuery, err)
		}
	}

	insert := psqlbuilder.Insert(tableBreaks).
		Columns("id", "offering_id", "day_of_week", "start_time", "end_time")
	total := 0
	for _, day := range domain.AllWeekdays {
		for _, b := range breaks[day] {
			insert = insert.Values(b.ID, offeringID, int(day), b.StartTime, b.EndTime)
			total++
		}
	}
	if total == 0 {
		return r.touchOffering(ctx, offeringID)
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceOfferingSchedule - build breaks insert: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReplaceOfferingSchedule - insert breaks: %v", ErrExecQuery, err)
	}

	return r.touchOffering(ctx, offeringID)
}

func (r *Repository) touchOffering(ctx context.Context, offeringID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableOfferings).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": offeringID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: touchOffering - build update: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: touchOffering - execute update: %v", ErrExecQuery, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: touchOffering - rows affected: %v", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrOfferingNotFound
	}
	return nil
}

func (r *Repository) deleteWhere(ctx context.Context, table string, pred squirrel.Eq) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(table).Where(pred).ToSql()
	if err != nil {
		return fmt.Errorf("%w: delete from %s - build query: %v", ErrBuildQuery, table, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: delete from %s: %v", ErrExecQuery, table, err)
	}
	return nil
}

// getWeekly читает недельное расписание владельца. Пустая карта - записей нет.
func (r *Repository) getWeekly(ctx context.Context, table, ownerColumn string, ownerID int64) (domain.WeeklySchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("day_of_week", "is_enabled", "start_time", "end_time").
		From(table).
		Where(squirrel.Eq{ownerColumn: ownerID}).
		OrderBy("day_of_week").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: getWeekly(%s) - build select query: %v", ErrBuildQuery, table, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getWeekly(%s) - execute select: %v", ErrExecQuery, table, err)
	}
	defer rows.Close()

	schedule := make(domain.WeeklySchedule)
	for rows.Next() {
		var (
			day        int
			hours      domain.DayHours
			start, end types.TimeString
		)
		// некорректное время в БД не ломает чтение: движок закроет такой день сам
		if err := rows.Scan(&day, &hours.Enabled, &rawTime{&start}, &rawTime{&end}); err != nil {
			return nil, fmt.Errorf("%w: getWeekly(%s) - scan row: %v", ErrScanRow, table, err)
		}
		hours.Start, hours.End = start, end
		if weekday := domain.Weekday(day); weekday.IsValid() {
			schedule[weekday] = hours
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: getWeekly(%s) - rows error: %v", ErrExecQuery, table, err)
	}

	return schedule, nil
}

func (r *Repository) getBreaks(ctx context.Context, ownerColumn string, ownerID int64) (domain.BreakMap, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "day_of_week", "start_time", "end_time").
		From(tableBreaks).
		Where(squirrel.Eq{ownerColumn: ownerID}).
		OrderBy("day_of_week", "start_time").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: getBreaks - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getBreaks - execute select: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	breaks := make(domain.BreakMap)
	for rows.Next() {
		var (
			b   domain.BreakWindow
			day int
		)
		if err := rows.Scan(&b.ID, &day, &rawTime{&b.StartTime}, &rawTime{&b.EndTime}); err != nil {
			return nil, fmt.Errorf("%w: getBreaks - scan row: %v", ErrScanRow, err)
		}
		if weekday := domain.Weekday(day); weekday.IsValid() {
			breaks[weekday] = append(breaks[weekday], b)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: getBreaks - rows error: %v", ErrExecQuery, err)
	}

	return breaks, nil
}

func nullInt(v sql.NullInt32) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int32)
	return &n
}
