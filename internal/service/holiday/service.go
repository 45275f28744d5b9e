package holiday

import (
	"context"

	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/holiday"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/pkg/events"
)

type HolidayServiceImpl struct {
	holiday.HolidayRepository
	publisher events.Publisher
}

func NewHolidayService(repo holiday.HolidayRepository, publisher events.Publisher) *HolidayServiceImpl {
	if publisher == nil {
		publisher = events.Nop()
	}
	return &HolidayServiceImpl{HolidayRepository: repo, publisher: publisher}
}

func (s *HolidayServiceImpl) Create(ctx context.Context, req holiday.CreateHolidayRequest) (holiday.Holiday, error) {
	if err := req.Validate(); err != nil {
		return holiday.Holiday{}, err
	}
	created, err := s.HolidayRepository.Create(ctx, holiday.Holiday{Date: req.Date, Note: req.Note})
	if err != nil {
		return holiday.Holiday{}, err
	}
	change := events.NewChange(events.CollectionHolidays, events.ActionCreated, created.ID, "")
	change.Data = created
	s.publisher.Publish(ctx, change)
	return created, nil
}

func (s *HolidayServiceImpl) List(ctx context.Context, year int) ([]holiday.Holiday, error) {
	holidays, err := s.HolidayRepository.List(ctx, year)
	if err != nil {
		return nil, err
	}
	if holidays == nil {
		holidays = []holiday.Holiday{}
	}
	return holidays, nil
}

func (s *HolidayServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.HolidayRepository.Delete(ctx, id); err != nil {
		return err
	}
	s.publisher.Publish(ctx, events.NewChange(events.CollectionHolidays, events.ActionDeleted, id, ""))
	return nil
}

func (s *HolidayServiceImpl) EnsureNotHoliday(ctx context.Context, date string) error {
	blocked, err := s.HolidayRepository.ExistsOnDate(ctx, date)
	if err != nil {
		return err
	}
	if blocked {
		return holiday.ErrHolidayBlocked
	}
	return nil
}
