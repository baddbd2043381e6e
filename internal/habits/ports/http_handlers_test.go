package ports_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	. "github.com/smartystreets/goconvey/convey"

	authctx "github.com/erzhan12/habit-reward-go/internal/auth/infrastructure/context"
	"github.com/erzhan12/habit-reward-go/internal/common/apperror"
	"github.com/erzhan12/habit-reward-go/internal/common/validator"
	"github.com/erzhan12/habit-reward-go/internal/habits/app"
	"github.com/erzhan12/habit-reward-go/internal/habits/app/command"
	"github.com/erzhan12/habit-reward-go/internal/habits/app/query"
	"github.com/erzhan12/habit-reward-go/internal/habits/domain/habit"
	"github.com/erzhan12/habit-reward-go/internal/habits/domain/progress"
	"github.com/erzhan12/habit-reward-go/internal/habits/domain/reward"
	"github.com/erzhan12/habit-reward-go/internal/habits/ports"
)

func chiRouter() *chi.Mux {
	return chi.NewRouter()
}

// fakeResultHandler satisfies any decorator.CommandHandlerWithResult[C, R]
// or decorator.QueryHandler[C, R] by delegating to fn.
type fakeResultHandler[C any, R any] struct {
	fn func(ctx context.Context, c C) (R, error)
}

func (f fakeResultHandler[C, R]) Handle(ctx context.Context, c C) (R, error) {
	return f.fn(ctx, c)
}

// fakeVoidHandler satisfies any decorator.CommandHandler[C].
type fakeVoidHandler[C any] struct {
	fn func(ctx context.Context, c C) error
}

func (f fakeVoidHandler[C]) Handle(ctx context.Context, c C) error {
	return f.fn(ctx, c)
}

func newTestHabit() *habit.Habit {
	now := time.Now()
	return habit.UnmarshalHabitFromDatabase(100, 1, "read", nil, 10, 0, nil, true, now, now)
}

func withUser(r *http.Request, userID int64) *http.Request {
	ctx := authctx.ContextWithUser(r.Context(), authctx.User{UserID: userID, TelegramID: 42})
	return r.WithContext(ctx)
}

func newTestApplication(h *habit.Habit) app.Application {
	return app.Application{
		Commands: app.Commands{
			CreateHabit: fakeResultHandler[command.CreateHabit, int64]{
				fn: func(ctx context.Context, c command.CreateHabit) (int64, error) {
					return 100, nil
				},
			},
			UpdateHabit: fakeVoidHandler[command.UpdateHabit]{
				fn: func(ctx context.Context, c command.UpdateHabit) error { return nil },
			},
			DeactivateHabit: fakeVoidHandler[command.DeactivateHabit]{
				fn: func(ctx context.Context, c command.DeactivateHabit) error {
					if c.HabitID != h.HabitID() {
						return apperror.HabitNotFound("read")
					}
					return nil
				},
			},
			CreateReward: fakeResultHandler[command.CreateReward, int64]{
				fn: func(ctx context.Context, c command.CreateReward) (int64, error) {
					return 5, nil
				},
			},
			ClaimReward: fakeResultHandler[command.ClaimReward, command.ClaimRewardResult]{
				fn: func(ctx context.Context, c command.ClaimReward) (command.ClaimRewardResult, error) {
					if c.RewardID != 5 {
						return command.ClaimRewardResult{}, apperror.RewardNotFound("sticker")
					}
					return command.ClaimRewardResult{RewardName: "sticker", PiecesEarned: 3, PiecesRequired: 3}, nil
				},
			},
			ProcessCompletionByID: fakeResultHandler[command.ProcessCompletionByID, command.CompletionResult]{
				fn: func(ctx context.Context, c command.ProcessCompletionByID) (command.CompletionResult, error) {
					if c.HabitID != h.HabitID() {
						return command.CompletionResult{}, apperror.HabitNotFound("read")
					}
					return command.CompletionResult{HabitConfirmed: true, HabitName: "read", Streak: 1, TotalWeight: 11.0}, nil
				},
			},
			RevertByLogId: fakeResultHandler[command.RevertByLogId, command.RevertResult]{
				fn: func(ctx context.Context, c command.RevertByLogId) (command.RevertResult, error) {
					if c.LogID != 1 {
						return command.RevertResult{}, apperror.NothingToRevert()
					}
					return command.RevertResult{Success: true, HabitName: "read"}, nil
				},
			},
		},
		Queries: app.Queries{
			GetHabit: fakeResultHandler[query.GetHabit, *habit.Habit]{
				fn: func(ctx context.Context, q query.GetHabit) (*habit.Habit, error) {
					return h, nil
				},
			},
			ListHabits: fakeResultHandler[query.ListHabits, []*habit.Habit]{
				fn: func(ctx context.Context, q query.ListHabits) ([]*habit.Habit, error) {
					return []*habit.Habit{h}, nil
				},
			},
			GetHabitLogs: fakeResultHandler[query.GetHabitLogs, query.GetHabitLogsResult]{
				fn: func(ctx context.Context, q query.GetHabitLogs) (query.GetHabitLogsResult, error) {
					return query.GetHabitLogsResult{Logs: nil, Limit: q.Limit, Offset: q.Offset}, nil
				},
			},
			ListRewards: fakeResultHandler[query.ListRewards, []*reward.Reward]{
				fn: func(ctx context.Context, q query.ListRewards) ([]*reward.Reward, error) {
					return nil, nil
				},
			},
			ListProgress: fakeResultHandler[query.ListProgress, []*progress.Progress]{
				fn: func(ctx context.Context, q query.ListProgress) ([]*progress.Progress, error) {
					return nil, nil
				},
			},
			GetStreaks: fakeResultHandler[query.GetStreaks, []query.HabitStreak]{
				fn: func(ctx context.Context, q query.GetStreaks) ([]query.HabitStreak, error) {
					return []query.HabitStreak{{HabitID: h.HabitID(), Name: "read", Streak: 3}}, nil
				},
			},
			GetHabitStreak: fakeResultHandler[query.GetHabitStreak, query.HabitStreak]{
				fn: func(ctx context.Context, q query.GetHabitStreak) (query.HabitStreak, error) {
					if q.HabitID != h.HabitID() {
						return query.HabitStreak{}, apperror.HabitNotFound("read")
					}
					return query.HabitStreak{HabitID: h.HabitID(), Name: "read", Streak: 3}, nil
				},
			},
		},
	}
}

func TestHabitsHandlers(t *testing.T) {
	t.Parallel()

	h := newTestHabit()

	Convey("Given habits HTTP handlers wired with fake command/query handlers", t, func() {
		a := newTestApplication(h)
		handlers := ports.NewHandlers(a, validator.New("en"))
		router := chiRouter()
		handlers.Mount(router)

		Convey("When listing habits without authentication", func() {
			req := httptest.NewRequest(http.MethodGet, "/habits", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Convey("Then it is rejected", func() {
				So(rec.Code, ShouldNotEqual, http.StatusOK)
			})
		})

		Convey("When an authenticated user lists habits", func() {
			req := withUser(httptest.NewRequest(http.MethodGet, "/habits", nil), 1)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Convey("Then it returns 200 with the habit", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var body map[string]any
				So(json.Unmarshal(rec.Body.Bytes(), &body), ShouldBeNil)
				So(body["success"], ShouldEqual, true)
			})
		})

		Convey("When creating a habit", func() {
			payload := []byte(`{"name":"read","weight":10}`)
			req := withUser(httptest.NewRequest(http.MethodPost, "/habits", bytes.NewReader(payload)), 1)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Convey("Then it returns 201", func() {
				So(rec.Code, ShouldEqual, http.StatusCreated)
			})
		})

		Convey("When creating a habit with an invalid body", func() {
			payload := []byte(`{"name":"","weight":0}`)
			req := withUser(httptest.NewRequest(http.MethodPost, "/habits", bytes.NewReader(payload)), 1)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Convey("Then it returns 400", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When completing a known habit", func() {
			req := withUser(httptest.NewRequest(http.MethodPost, "/habits/100/complete", nil), 1)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Convey("Then it confirms the completion", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var body map[string]any
				So(json.Unmarshal(rec.Body.Bytes(), &body), ShouldBeNil)
				data := body["data"].(map[string]any)
				So(data["habit_confirmed"], ShouldEqual, true)
			})
		})

		Convey("When completing an unknown habit", func() {
			req := withUser(httptest.NewRequest(http.MethodPost, "/habits/999/complete", nil), 1)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Convey("Then it returns a not-found error envelope", func() {
				So(rec.Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When claiming an achieved reward", func() {
			req := withUser(httptest.NewRequest(http.MethodPost, "/rewards/5/claim", nil), 1)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Convey("Then it returns the claimed reward", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
			})
		})

		Convey("When reverting a known habit log", func() {
			req := withUser(httptest.NewRequest(http.MethodDelete, "/habit-logs/1", nil), 1)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Convey("Then it reports success", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
			})
		})

		Convey("When fetching the streak for a known habit", func() {
			req := withUser(httptest.NewRequest(http.MethodGet, "/streaks/100", nil), 1)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Convey("Then it returns the current streak", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var body map[string]any
				So(json.Unmarshal(rec.Body.Bytes(), &body), ShouldBeNil)
				data := body["data"].(map[string]any)
				So(data["current_streak"], ShouldEqual, 3)
			})
		})
	})
}
