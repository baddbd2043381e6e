package authcode_test

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/erzhan12/habit-reward-go/internal/auth/domain/authcode"
	"github.com/erzhan12/habit-reward-go/internal/auth/domain/user"
)

type fakeUserReader struct {
	byTelegramID map[int64]*user.User
}

func (f *fakeUserReader) FindByID(ctx context.Context, userID int64) (*user.User, error) {
	for _, u := range f.byTelegramID {
		if u.UserID() == userID {
			return u, nil
		}
	}
	return nil, user.ErrNotFound
}

func (f *fakeUserReader) FindByTelegramID(ctx context.Context, telegramID int64) (*user.User, error) {
	u, ok := f.byTelegramID[telegramID]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

type fakeAuthCodeRepository struct {
	issuedSince    int
	codes          map[string]*authcode.AuthCode
	consumeErr     error
	latest         *authcode.AuthCode
	deleted        int
	failedAttempts int
}

func (f *fakeAuthCodeRepository) Add(ctx context.Context, c *authcode.AuthCode) (int64, error) {
	return 1, nil
}

func (f *fakeAuthCodeRepository) InvalidateAllUnused(ctx context.Context, userID int64) error {
	return nil
}

func (f *fakeAuthCodeRepository) IssueCode(ctx context.Context, userID int64, c *authcode.AuthCode) (int64, error) {
	if f.codes == nil {
		f.codes = map[string]*authcode.AuthCode{}
	}
	f.codes[c.Code()] = c
	f.latest = c
	return 1, nil
}

func (f *fakeAuthCodeRepository) CountIssuedSince(ctx context.Context, userID int64, since time.Time) (int, error) {
	return f.issuedSince, nil
}

func (f *fakeAuthCodeRepository) ConsumeValidCode(ctx context.Context, userID int64, code string, now time.Time) (*authcode.AuthCode, error) {
	if f.consumeErr != nil {
		return nil, f.consumeErr
	}
	c, ok := f.codes[code]
	if !ok {
		return nil, authcode.ErrNotFound
	}
	return c, nil
}

func (f *fakeAuthCodeRepository) LatestActiveCode(ctx context.Context, userID int64, now time.Time) (*authcode.AuthCode, error) {
	if f.latest == nil {
		return nil, authcode.ErrNotFound
	}
	return f.latest, nil
}

func (f *fakeAuthCodeRepository) RegisterFailedAttempt(ctx context.Context, codeID int64, failedAttempts int, lockedUntil *time.Time) error {
	f.failedAttempts = failedAttempts
	return nil
}

func (f *fakeAuthCodeRepository) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	f.deleted = 3
	return f.deleted, nil
}

func mustActiveUser(userID, telegramID int64) *user.User {
	return user.UnmarshalUserFromDatabase(userID, telegramID, "Test", "en", "UTC", true, time.Now(), time.Now())
}

func TestServiceIssueCode(t *testing.T) {
	t.Parallel()

	Convey("Given an issuance service", t, func() {
		now := time.Now()

		Convey("When the telegram id is unknown", func() {
			repo := &fakeAuthCodeRepository{}
			svc := authcode.NewService(repo, &fakeUserReader{byTelegramID: map[int64]*user.User{}})
			out, err := svc.IssueCode(context.Background(), 999, nil, now)

			Convey("Then it returns a silent non-issuance with no error", func() {
				So(err, ShouldBeNil)
				So(out.Issued, ShouldBeFalse)
			})
		})

		Convey("When the user is inactive", func() {
			inactive := user.UnmarshalUserFromDatabase(1, 42, "Test", "en", "UTC", false, now, now)
			repo := &fakeAuthCodeRepository{}
			svc := authcode.NewService(repo, &fakeUserReader{byTelegramID: map[int64]*user.User{42: inactive}})
			out, err := svc.IssueCode(context.Background(), 42, nil, now)

			Convey("Then it returns a silent non-issuance with no error", func() {
				So(err, ShouldBeNil)
				So(out.Issued, ShouldBeFalse)
			})
		})

		Convey("When the user has already hit the rolling-hour rate limit", func() {
			active := mustActiveUser(1, 42)
			repo := &fakeAuthCodeRepository{issuedSince: authcode.IssuanceRateLimit}
			svc := authcode.NewService(repo, &fakeUserReader{byTelegramID: map[int64]*user.User{42: active}})
			_, err := svc.IssueCode(context.Background(), 42, nil, now)

			Convey("Then it returns ErrRateLimited", func() {
				So(errors.Is(err, authcode.ErrRateLimited), ShouldBeTrue)
			})
		})

		Convey("When the user is active and under the rate limit", func() {
			active := mustActiveUser(1, 42)
			repo := &fakeAuthCodeRepository{}
			svc := authcode.NewService(repo, &fakeUserReader{byTelegramID: map[int64]*user.User{42: active}})
			out, err := svc.IssueCode(context.Background(), 42, nil, now)

			Convey("Then it issues a six-digit code", func() {
				So(err, ShouldBeNil)
				So(out.Issued, ShouldBeTrue)
				So(len(out.Code), ShouldEqual, 6)
			})
		})
	})
}

func TestServiceVerifyCode(t *testing.T) {
	t.Parallel()

	Convey("Given a verification service", t, func() {
		now := time.Now()
		active := mustActiveUser(1, 42)

		Convey("When the telegram id is unknown", func() {
			repo := &fakeAuthCodeRepository{}
			svc := authcode.NewService(repo, &fakeUserReader{byTelegramID: map[int64]*user.User{}})
			_, err := svc.VerifyCode(context.Background(), 999, "123456", now)

			Convey("Then it returns ErrInvalid", func() {
				So(errors.Is(err, authcode.ErrInvalid), ShouldBeTrue)
			})
		})

		Convey("When the code matches an issued, unused code", func() {
			repo := &fakeAuthCodeRepository{}
			svc := authcode.NewService(repo, &fakeUserReader{byTelegramID: map[int64]*user.User{42: active}})
			issued, err := svc.IssueCode(context.Background(), 42, nil, now)
			So(err, ShouldBeNil)

			got, err := svc.VerifyCode(context.Background(), 42, issued.Code, now)

			Convey("Then it resolves to the owning user", func() {
				So(err, ShouldBeNil)
				So(got.UserID(), ShouldEqual, active.UserID())
			})
		})

		Convey("When the code does not match anything issued", func() {
			repo := &fakeAuthCodeRepository{}
			svc := authcode.NewService(repo, &fakeUserReader{byTelegramID: map[int64]*user.User{42: active}})
			_, err := svc.VerifyCode(context.Background(), 42, "000000", now)

			Convey("Then it returns ErrInvalid", func() {
				So(errors.Is(err, authcode.ErrInvalid), ShouldBeTrue)
			})
		})
	})
}

func TestServiceCleanupExpired(t *testing.T) {
	t.Parallel()

	Convey("Given a service with expired codes", t, func() {
		repo := &fakeAuthCodeRepository{}
		svc := authcode.NewService(repo, &fakeUserReader{})

		Convey("When CleanupExpired runs", func() {
			n, err := svc.CleanupExpired(context.Background(), time.Now())

			Convey("Then it delegates to the repository and returns the removed count", func() {
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 3)
			})
		})
	})
}
