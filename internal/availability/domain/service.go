package domain

import "context"

type Service interface {
	GetMonth(ctx context.Context, roomID, month string) (MonthResult, error)
}
