package schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-AvailabilityService/internal/availability"
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/schedule/models"
	snapshotService "github.com/m04kA/SMC-AvailabilityService/internal/service/snapshot"
)

// Service сервис просмотра и изменения расписания услуги
type Service struct {
	repo         ScheduleRepository
	snapshots    SnapshotStore
	txManager    TransactionManager
	timeProvider TimeProvider
	validate     *validator.Validate
	newID        func() uuid.UUID
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписаний
func NewService(
	repo ScheduleRepository,
	snapshots SnapshotStore,
	txManager TransactionManager,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	if timeProvider == nil {
		timeProvider = &availability.RealTimeProvider{}
	}
	return &Service{
		repo:         repo,
		snapshots:    snapshots,
		txManager:    txManager,
		timeProvider: timeProvider,
		validate:     newValidator(),
		newID:        defaultID,
		logger:       logger,
	}
}

// GetWeekView итоговое расписание услуги по всем дням недели
// Публичный метод. Разовые окна и блокировки сюда не входят.
func (s *Service) GetWeekView(ctx context.Context, offeringID int64) (*models.WeekView, error) {
	s.logger.Info("GetWeekView: fetching schedule for offering=%d", offeringID)

	today := domain.DateOnly(s.timeProvider.Now())
	snap, err := s.snapshots.Load(ctx, offeringID, today, today)
	if err != nil {
		if errors.Is(err, snapshotService.ErrOfferingNotFound) {
			s.logger.Warn("GetWeekView: offering id=%d not found", offeringID)
			return nil, ErrOfferingNotFound
		}
		s.logger.Error("GetWeekView: failed to load snapshot for offering=%d: %v", offeringID, err)
		return nil, fmt.Errorf("%w: GetWeekView - load snapshot: %v", ErrInternal, err)
	}

	view := &models.WeekView{
		OfferingID: offeringID,
		Mode:       snap.Offering.Mode(),
		Days:       make([]models.DayView, 0, len(domain.AllWeekdays)),
	}

	for _, day := range domain.AllWeekdays {
		resolved := availability.ResolveDaySchedule(snap, day)
		dv := models.DayView{
			Day:     day,
			Enabled: resolved.Enabled,
			Layer:   string(resolved.Layer),
			Breaks:  []models.BreakView{},
		}
		if resolved.Enabled {
			dv.Start, dv.End = resolved.Start, resolved.End
		}

		breaks, err := availability.ResolveBreaks(snap, day)
		if err != nil {
			s.logger.Warn("GetWeekView: offering=%d has malformed breaks on %s", offeringID, day)
			dv.BreaksMalformed = true
		} else {
			dv.Breaks = models.FromDomainBreaks(breaks)
		}

		view.Days = append(view.Days, dv)
	}

	return view, nil
}

// UpdateOfferingSchedule заменяет собственные часы и перерывы услуги
// Доступно только менеджерам организации услуги.
func (s *Service) UpdateOfferingSchedule(ctx context.Context, offeringID int64, req *models.UpdateScheduleRequest) (*models.WeekView, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: request is required", ErrInvalidInput)
	}

	s.logger.Info("UpdateOfferingSchedule: offering=%d, %d days by user=%d", offeringID, len(req.Days), req.UserID)

	// 1. Валидируем входные данные
	schedule, breaks, err := s.toDomain(req)
	if err != nil {
		s.logger.Warn("UpdateOfferingSchedule: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем услугу для проверки прав доступа
	offering, err := s.repo.GetOffering(ctx, offeringID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrOfferingNotFound) {
			s.logger.Warn("UpdateOfferingSchedule: offering id=%d not found", offeringID)
			return nil, ErrOfferingNotFound
		}
		s.logger.Error("UpdateOfferingSchedule: failed to get offering id=%d: %v", offeringID, err)
		return nil, fmt.Errorf("%w: UpdateOfferingSchedule - get offering: %v", ErrInternal, err)
	}

	// 3. Проверяем права доступа (только менеджер организации)
	isManager, err := s.repo.IsManager(ctx, offering.OrganizationID, req.UserID)
	if err != nil {
		s.logger.Error("UpdateOfferingSchedule: failed to check manager: %v", err)
		return nil, fmt.Errorf("%w: UpdateOfferingSchedule - check manager: %v", ErrInternal, err)
	}
	if !isManager {
		s.logger.Warn("UpdateOfferingSchedule: user=%d is not a manager of organization=%d", req.UserID, offering.OrganizationID)
		return nil, ErrAccessDenied
	}

	// 4. Заменяем расписание одной транзакцией
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		return s.repo.ReplaceOfferingSchedule(txCtx, offeringID, schedule, breaks)
	})
	if err != nil {
		s.logger.Error("UpdateOfferingSchedule: failed to replace schedule: %v", err)
		return nil, fmt.Errorf("%w: UpdateOfferingSchedule - repository error: %v", ErrInternal, err)
	}

	// 5. Сбрасываем кэш снимков
	s.snapshots.Invalidate(ctx, offeringID)

	s.logger.Info("UpdateOfferingSchedule: successfully updated schedule of offering=%d", offeringID)
	return s.GetWeekView(ctx, offeringID)
}
