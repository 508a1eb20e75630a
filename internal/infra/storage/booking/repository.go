package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AvailabilityService/pkg/psqlbuilder"
)

// pgUniqueViolation код ошибки PostgreSQL для нарушения уникального индекса
const pgUniqueViolation = "23505"

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Если в контексте передана активная транзакция, использует её.
// Повторное бронирование того же вычисленного слота отсекается уникальным индексом
// и возвращается как ErrSlotNotAvailable.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"offering_id",
			"organization_id",
			"customer_id",
			"resource_id",
			"managed_slot_id",
			"booking_date",
			"start_time",
			"duration_minutes",
			"status",
			"notes",
		).
		Values(
			booking.OfferingID,
			booking.OrganizationID,
			booking.CustomerID,
			booking.ResourceID,
			booking.ManagedSlotID,
			booking.BookingDate.Format(domain.DateFormat),
			booking.StartTime,
			booking.DurationMinutes,
			booking.Status,
			booking.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
		return nil, fmt.Errorf("%w: Create - %s", ErrSlotNotAvailable, pqErr.Constraint)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// IncrementManagedSlot атомарно занимает одно место в управляемом слоте
// Условие current_bookings < max_bookings проверяется в самом UPDATE,
// поэтому два параллельных бронирования не превысят вместимость.
func (r *Repository) IncrementManagedSlot(ctx context.Context, slotID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("managed_slots").
		Set("current_bookings", squirrel.Expr("current_bookings + 1")).
		Where(squirrel.Eq{"id": slotID, "is_active": true}).
		Where("current_bookings < max_bookings").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: IncrementManagedSlot - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: IncrementManagedSlot - execute update: %v", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: IncrementManagedSlot - rows affected: %v", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrSlotNotAvailable
	}

	return nil
}

// GetLoad собирает загрузку услуги на дату для проверки лимитов
// customerID == nil - лимит на клиента не считается.
// today нужен для подсчета будущих бронирований клиента.
func (r *Repository) GetLoad(ctx context.Context, offeringID int64, date time.Time, customerID *int64, today time.Time) (*domain.BookingLoad, error) {
	load := &domain.BookingLoad{}

	booked, err := r.getBookedIntervals(ctx, offeringID, date)
	if err != nil {
		return nil, err
	}
	load.Booked = booked
	load.DayCount = len(booked)

	weekStart, weekEnd := isoWeek(date)
	load.WeekCount, err = r.countActive(ctx, "GetLoad(week)", squirrel.Eq{"offering_id": offeringID},
		squirrel.GtOrEq{"booking_date": weekStart.Format(domain.DateFormat)},
		squirrel.LtOrEq{"booking_date": weekEnd.Format(domain.DateFormat)})
	if err != nil {
		return nil, err
	}

	monthStart := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
	monthEnd := monthStart.AddDate(0, 1, -1)
	load.MonthCount, err = r.countActive(ctx, "GetLoad(month)", squirrel.Eq{"offering_id": offeringID},
		squirrel.GtOrEq{"booking_date": monthStart.Format(domain.DateFormat)},
		squirrel.LtOrEq{"booking_date": monthEnd.Format(domain.DateFormat)})
	if err != nil {
		return nil, err
	}

	if customerID != nil {
		load.CustomerCount, err = r.countActive(ctx, "GetLoad(customer)",
			squirrel.Eq{"offering_id": offeringID, "customer_id": *customerID},
			squirrel.GtOrEq{"booking_date": today.Format(domain.DateFormat)})
		if err != nil {
			return nil, err
		}
	}

	return load, nil
}

// getBookedIntervals активные бронирования услуги на дату
// Внутри транзакции строки блокируются (FOR UPDATE), как при создании бронирования.
func (r *Repository) getBookedIntervals(ctx context.Context, offeringID int64, date time.Time) ([]domain.Interval, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("start_time", "duration_minutes").
		From("bookings").
		Where(squirrel.Eq{
			"offering_id":  offeringID,
			"booking_date": date.Format(domain.DateFormat),
			"status":       activeStatusStrings(),
		}).
		OrderBy("start_time ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: getBookedIntervals - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getBookedIntervals - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	intervals := make([]domain.Interval, 0)
	for rows.Next() {
		var (
			interval domain.Interval
			duration int
		)
		if err := rows.Scan(&interval.Start, &duration); err != nil {
			return nil, fmt.Errorf("%w: getBookedIntervals - scan row: %v", ErrScanRow, err)
		}
		end, err := interval.Start.AddMinutes(duration)
		if err != nil {
			return nil, fmt.Errorf("%w: getBookedIntervals - booking end: %v", ErrScanRow, err)
		}
		interval.End = end
		intervals = append(intervals, interval)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: getBookedIntervals - rows error: %v", ErrScanRow, err)
	}

	return intervals, nil
}

func (r *Repository) countActive(ctx context.Context, op string, preds ...squirrel.Sqlizer) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("COUNT(*)").
		From("bookings").
		Where(squirrel.Eq{"status": activeStatusStrings()})
	for _, pred := range preds {
		selectBuilder = selectBuilder.Where(pred)
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %s - build count query: %v", ErrBuildQuery, op, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: %s - scan count: %v", ErrScanRow, op, err)
	}

	return count, nil
}

func activeStatusStrings() []string {
	statuses := make([]string, len(domain.ActiveStatuses))
	for i, s := range domain.ActiveStatuses {
		statuses[i] = string(s)
	}
	return statuses
}

// isoWeek понедельник и воскресенье недели, содержащей дату
func isoWeek(date time.Time) (time.Time, time.Time) {
	day := domain.DateOnly(date)
	monday := day.AddDate(0, 0, -int(domain.WeekdayOf(day)-domain.Monday))
	return monday, monday.AddDate(0, 0, 6)
}

// GetByID получает бронирование по ID
// Внутри транзакции строка блокируется до ее завершения.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"offering_id",
		"organization_id",
		"customer_id",
		"resource_id",
		"managed_slot_id",
		"booking_date",
		"start_time",
		"duration_minutes",
		"status",
		"notes",
		"cancellation_reason",
		"cancelled_at",
		"created_at",
		"updated_at",
	).
		From("bookings").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var (
		booking            domain.Booking
		resourceID         sql.NullInt64
		managedSlotID      sql.NullInt64
		notes              sql.NullString
		cancellationReason sql.NullString
		cancelledAt        sql.NullTime
	)
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&booking.OfferingID,
		&booking.OrganizationID,
		&booking.CustomerID,
		&resourceID,
		&managedSlotID,
		&booking.BookingDate,
		&booking.StartTime,
		&booking.DurationMinutes,
		&booking.Status,
		&notes,
		&cancellationReason,
		&cancelledAt,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan row: %v", ErrScanRow, err)
	}

	if resourceID.Valid {
		booking.ResourceID = &resourceID.Int64
	}
	if managedSlotID.Valid {
		booking.ManagedSlotID = &managedSlotID.Int64
	}
	if notes.Valid {
		booking.Notes = &notes.String
	}
	if cancellationReason.Valid {
		booking.CancellationReason = &cancellationReason.String
	}
	if cancelledAt.Valid {
		booking.CancelledAt = &cancelledAt.Time
	}

	return &booking, nil
}

// Cancel переводит бронирование в статус cancelled
// Обновляются только бронирования, которые еще можно отменить.
func (r *Repository) Cancel(ctx context.Context, id int64, reason string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var reasonValue interface{}
	if reason != "" {
		reasonValue = reason
	}

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reasonValue).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"id":     id,
			"status": []string{string(domain.StatusPending), string(domain.StatusConfirmed)},
		}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %v", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Cancel - rows affected: %v", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// DecrementManagedSlot освобождает одно место в управляемом слоте
func (r *Repository) DecrementManagedSlot(ctx context.Context, slotID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("managed_slots").
		Set("current_bookings", squirrel.Expr("current_bookings - 1")).
		Where(squirrel.Eq{"id": slotID}).
		Where("current_bookings > 0").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DecrementManagedSlot - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DecrementManagedSlot - execute update: %v", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DecrementManagedSlot - rows affected: %v", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrManagedSlotNotFound
	}

	return nil
}
