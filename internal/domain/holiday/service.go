package holiday

import "context"

type HolidayService interface {
	Create(ctx context.Context, req CreateHolidayRequest) (Holiday, error)
	// List returns holidays of a year, every holiday when year is 0.
	List(ctx context.Context, year int) ([]Holiday, error)
	Delete(ctx context.Context, id string) error
	// EnsureNotHoliday returns ErrHolidayBlocked for a holiday date.
	EnsureNotHoliday(ctx context.Context, date string) error
}
