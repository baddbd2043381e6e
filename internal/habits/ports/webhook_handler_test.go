package ports_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/erzhan12/habit-reward-go/internal/common/apperror"
	"github.com/erzhan12/habit-reward-go/internal/common/logger"
	"github.com/erzhan12/habit-reward-go/internal/habits/app"
	"github.com/erzhan12/habit-reward-go/internal/habits/app/command"
	"github.com/erzhan12/habit-reward-go/internal/habits/ports"
)

type noopWebhookLogger struct{}

func (noopWebhookLogger) Debug(ctx context.Context, msg string, fields ...logger.Field) {}
func (noopWebhookLogger) Info(ctx context.Context, msg string, fields ...logger.Field)  {}
func (noopWebhookLogger) Warn(ctx context.Context, msg string, fields ...logger.Field)  {}
func (noopWebhookLogger) Error(ctx context.Context, err error, msg string, fields ...logger.Field) {
}
func (n noopWebhookLogger) With(fields ...logger.Field) logger.Logger { return n }

func newWebhookApplication() app.Application {
	return app.Application{
		Commands: app.Commands{
			ProcessCompletion: fakeResultHandler[command.ProcessCompletion, command.CompletionResult]{
				fn: func(ctx context.Context, c command.ProcessCompletion) (command.CompletionResult, error) {
					if c.HabitName == "missing" {
						return command.CompletionResult{}, apperror.HabitNotFound("missing")
					}
					return command.CompletionResult{HabitConfirmed: true, HabitName: c.HabitName, Streak: 2}, nil
				},
			},
			RevertLatest: fakeResultHandler[command.RevertLatest, command.RevertResult]{
				fn: func(ctx context.Context, c command.RevertLatest) (command.RevertResult, error) {
					if c.HabitName == "missing" {
						return command.RevertResult{}, apperror.NothingToRevert()
					}
					return command.RevertResult{Success: true, HabitName: c.HabitName}, nil
				},
			},
		},
	}
}

func postUpdate(t *testing.T, h http.Handler, text string) *httptest.ResponseRecorder {
	t.Helper()
	body := []byte(`{"update_id":1,"message":{"message_id":1,"from":{"id":42},"chat":{"id":7},"text":"` + text + `"}}`)
	req := httptest.NewRequest(http.MethodPost, "/webhook/telegram", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestWebhookHandler(t *testing.T) {
	t.Parallel()

	Convey("Given a webhook handler with no bot token configured", t, func() {
		a := newWebhookApplication()
		handler := ports.NewWebhookHandler(a, "", noopWebhookLogger{})

		Convey("When a /done command names a valid habit", func() {
			rec := postUpdate(t, handler, "/done read")

			Convey("Then it answers 200 regardless of the command outcome", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
			})
		})

		Convey("When a /done command names an unknown habit", func() {
			rec := postUpdate(t, handler, "/done missing")

			Convey("Then it still answers 200, since errors are relayed via chat reply", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
			})
		})

		Convey("When a /revert command is sent", func() {
			rec := postUpdate(t, handler, "/revert read")

			Convey("Then it answers 200", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
			})
		})

		Convey("When the message body has no text", func() {
			body := []byte(`{"update_id":1,"message":{"message_id":1,"from":{"id":42},"chat":{"id":7},"text":""}}`)
			req := httptest.NewRequest(http.MethodPost, "/webhook/telegram", bytes.NewReader(body))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			Convey("Then it is ignored with a 200", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
			})
		})

		Convey("When the payload is not valid JSON", func() {
			req := httptest.NewRequest(http.MethodPost, "/webhook/telegram", bytes.NewReader([]byte("not json")))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			Convey("Then it returns a validation error", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}
