package apikey_test

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/erzhan12/habit-reward-go/internal/auth/domain/apikey"
	"github.com/erzhan12/habit-reward-go/internal/auth/domain/user"
)

type fakeUserReader struct {
	byID map[int64]*user.User
}

func (f *fakeUserReader) FindByID(ctx context.Context, userID int64) (*user.User, error) {
	u, ok := f.byID[userID]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserReader) FindByTelegramID(ctx context.Context, telegramID int64) (*user.User, error) {
	return nil, user.ErrNotFound
}

type fakeKeyRepository struct {
	byHash  map[string]*apikey.ApiKey
	byID    map[int64]*apikey.ApiKey
	names   map[string]bool
	touched map[int64]time.Time
	nextID  int64
}

func newFakeKeyRepository() *fakeKeyRepository {
	return &fakeKeyRepository{
		byHash:  map[string]*apikey.ApiKey{},
		byID:    map[int64]*apikey.ApiKey{},
		names:   map[string]bool{},
		touched: map[int64]time.Time{},
	}
}

func (f *fakeKeyRepository) Add(ctx context.Context, k *apikey.ApiKey) (int64, error) {
	f.nextID++
	stored := apikey.UnmarshalFromDatabase(f.nextID, k.UserID(), k.Name(), k.KeyHash(), k.CreatedAt(), nil, k.ExpiresAt(), true)
	f.byHash[k.KeyHash()] = stored
	f.byID[f.nextID] = stored
	f.names[k.Name()] = true
	return f.nextID, nil
}

func (f *fakeKeyRepository) FindByHash(ctx context.Context, keyHash string) (*apikey.ApiKey, error) {
	k, ok := f.byHash[keyHash]
	if !ok {
		return nil, apikey.ErrNotFound
	}
	return k, nil
}

func (f *fakeKeyRepository) FindByID(ctx context.Context, keyID int64) (*apikey.ApiKey, error) {
	k, ok := f.byID[keyID]
	if !ok {
		return nil, apikey.ErrNotFound
	}
	return k, nil
}

func (f *fakeKeyRepository) ExistsByName(ctx context.Context, userID int64, name string) (bool, error) {
	return f.names[name], nil
}

func (f *fakeKeyRepository) ListForUser(ctx context.Context, userID int64) ([]*apikey.ApiKey, error) {
	var out []*apikey.ApiKey
	for _, k := range f.byID {
		if k.UserID() == userID {
			out = append(out, k)
		}
	}
	return out, nil
}

func (f *fakeKeyRepository) Touch(ctx context.Context, keyID int64, at time.Time) error {
	f.touched[keyID] = at
	return nil
}

func (f *fakeKeyRepository) Revoke(ctx context.Context, keyID int64) error {
	k, ok := f.byID[keyID]
	if !ok {
		return apikey.ErrNotFound
	}
	k.Revoke()
	return nil
}

func TestServiceCreate(t *testing.T) {
	t.Parallel()

	Convey("Given a creation service", t, func() {
		repo := newFakeKeyRepository()
		svc := apikey.NewService(repo, &fakeUserReader{})
		now := time.Now()

		Convey("When the name is unused", func() {
			k, raw, err := svc.Create(context.Background(), 1, "ci-bot", nil, now)

			Convey("Then it returns the stored key and the raw secret once", func() {
				So(err, ShouldBeNil)
				So(k.Name(), ShouldEqual, "ci-bot")
				So(apikey.HasValidPrefix(raw), ShouldBeTrue)
			})
		})

		Convey("When the name is already in use", func() {
			_, _, err := svc.Create(context.Background(), 1, "ci-bot", nil, now)
			So(err, ShouldBeNil)
			_, _, err = svc.Create(context.Background(), 1, "ci-bot", nil, now)

			Convey("Then it returns ErrDuplicateName", func() {
				So(errors.Is(err, apikey.ErrDuplicateName), ShouldBeTrue)
			})
		})
	})
}

func TestServiceVerify(t *testing.T) {
	t.Parallel()

	Convey("Given a verification service with an issued key", t, func() {
		repo := newFakeKeyRepository()
		owner := user.UnmarshalUserFromDatabase(1, 42, "Test", "en", "UTC", true, time.Now(), time.Now())
		svc := apikey.NewService(repo, &fakeUserReader{byID: map[int64]*user.User{1: owner}})
		now := time.Now()

		_, raw, err := svc.Create(context.Background(), 1, "ci-bot", nil, now)
		So(err, ShouldBeNil)

		Convey("When the raw key is valid and the owner is active", func() {
			got, err := svc.Verify(context.Background(), raw, now)

			Convey("Then it resolves to the owning user and touches last_used_at", func() {
				So(err, ShouldBeNil)
				So(got.UserID(), ShouldEqual, int64(1))
				So(repo.touched, ShouldNotBeEmpty)
			})
		})

		Convey("When the key lacks the hrk_ prefix", func() {
			_, err := svc.Verify(context.Background(), "not-a-key", now)

			Convey("Then it returns ErrInvalidKey without a lookup", func() {
				So(errors.Is(err, apikey.ErrInvalidKey), ShouldBeTrue)
			})
		})

		Convey("When the key does not match any stored hash", func() {
			_, err := svc.Verify(context.Background(), apikey.Prefix+"bogus", now)

			Convey("Then it returns ErrInvalidKey", func() {
				So(errors.Is(err, apikey.ErrInvalidKey), ShouldBeTrue)
			})
		})

		Convey("When the key has expired", func() {
			past := now.Add(-time.Hour)
			_, rawExpired, err := svc.Create(context.Background(), 1, "expiring", &past, now)
			So(err, ShouldBeNil)
			_, err = svc.Verify(context.Background(), rawExpired, now)

			Convey("Then it returns ErrInvalidKey", func() {
				So(errors.Is(err, apikey.ErrInvalidKey), ShouldBeTrue)
			})
		})

		Convey("When the owning user is inactive", func() {
			inactiveOwner := user.UnmarshalUserFromDatabase(1, 42, "Test", "en", "UTC", false, now, now)
			svc2 := apikey.NewService(repo, &fakeUserReader{byID: map[int64]*user.User{1: inactiveOwner}})
			_, err := svc2.Verify(context.Background(), raw, now)

			Convey("Then it returns ErrInvalidKey", func() {
				So(errors.Is(err, apikey.ErrInvalidKey), ShouldBeTrue)
			})
		})
	})
}

func TestServiceRevoke(t *testing.T) {
	t.Parallel()

	Convey("Given a service with an issued key", t, func() {
		repo := newFakeKeyRepository()
		svc := apikey.NewService(repo, &fakeUserReader{})
		now := time.Now()
		k, _, err := svc.Create(context.Background(), 1, "ci-bot", nil, now)
		So(err, ShouldBeNil)

		Convey("When the owner revokes it", func() {
			err := svc.Revoke(context.Background(), 1, k.KeyID())

			Convey("Then it succeeds and the key becomes inactive", func() {
				So(err, ShouldBeNil)
				stored, _ := repo.FindByID(context.Background(), k.KeyID())
				So(stored.IsActive(), ShouldBeFalse)
			})
		})

		Convey("When a different user attempts to revoke it", func() {
			err := svc.Revoke(context.Background(), 2, k.KeyID())

			Convey("Then it returns ErrUnauthorized", func() {
				So(errors.Is(err, apikey.ErrUnauthorized), ShouldBeTrue)
			})
		})
	})
}
