package query

import (
	"context"

	"github.com/erzhan12/habit-reward-go/internal/common/clock"
	"github.com/erzhan12/habit-reward-go/internal/common/decorator"
	"github.com/erzhan12/habit-reward-go/internal/common/logger"
	"github.com/erzhan12/habit-reward-go/internal/habits/domain/habitlog"
)

const maxHabitLogsPageSize = 100

// GetHabitLogs retrieves a page of a user's habit-log history,
// optionally scoped to a single habit and/or a calendar date range.
type GetHabitLogs struct {
	UserID    int64
	HabitID   *int64
	StartDate *clock.Date
	EndDate   *clock.Date
	Limit     int
	Offset    int
}

// GetHabitLogsResult is the paginated response shape.
type GetHabitLogsResult struct {
	Logs   []*habitlog.HabitLog
	Limit  int
	Offset int
}

type GetHabitLogsHandler decorator.QueryHandler[GetHabitLogs, GetHabitLogsResult]

type getHabitLogsHandler struct {
	logs habitlog.Reader
}

func NewGetHabitLogsHandler(logs habitlog.Reader, log logger.Logger, metricsClient decorator.MetricsClient) GetHabitLogsHandler {
	if logs == nil {
		panic("nil habit log reader")
	}
	return decorator.ApplyQueryDecorators[GetHabitLogs, GetHabitLogsResult](
		getHabitLogsHandler{logs: logs}, log, metricsClient,
	)
}

func (h getHabitLogsHandler) Handle(ctx context.Context, q GetHabitLogs) (GetHabitLogsResult, error) {
	limit := q.Limit
	if limit <= 0 || limit > maxHabitLogsPageSize {
		limit = maxHabitLogsPageSize
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}

	logs, err := h.logs.ListLogs(ctx, q.UserID, habitlog.ListLogsFilter{
		HabitID:   q.HabitID,
		StartDate: q.StartDate,
		EndDate:   q.EndDate,
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		return GetHabitLogsResult{}, err
	}

	return GetHabitLogsResult{Logs: logs, Limit: limit, Offset: offset}, nil
}
