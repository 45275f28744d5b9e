package holiday

import "context"

// HolidayRepository - interface for holidays table
type HolidayRepository interface {
	Create(ctx context.Context, h Holiday) (Holiday, error)
	List(ctx context.Context, year int) ([]Holiday, error)
	ExistsOnDate(ctx context.Context, date string) (bool, error)
	Delete(ctx context.Context, id string) error
}
