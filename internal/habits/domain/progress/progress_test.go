package progress_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/erzhan12/habit-reward-go/internal/habits/domain/progress"
)

func TestProgressStatus(t *testing.T) {
	t.Parallel()

	Convey("Given a progress row requiring 3 pieces", t, func() {
		p := progress.New(1, 1, 3)

		Convey("When no pieces have been earned", func() {
			Convey("Then its status is PENDING", func() {
				So(p.Status(), ShouldEqual, progress.StatusPending)
			})
		})

		Convey("When enough pieces have been earned", func() {
			p.Increment()
			p.Increment()
			p.Increment()

			Convey("Then its status is ACHIEVED", func() {
				So(p.Status(), ShouldEqual, progress.StatusAchieved)
				So(p.PiecesEarned(), ShouldEqual, 3)
			})
		})

		Convey("When the reward has been claimed", func() {
			p.Increment()
			p.Increment()
			p.Increment()
			err := p.MarkClaimed()

			Convey("Then its status is CLAIMED", func() {
				So(err, ShouldBeNil)
				So(p.Status(), ShouldEqual, progress.StatusClaimed)
			})
		})
	})
}

func TestProgressMarkClaimed(t *testing.T) {
	t.Parallel()

	Convey("Given a progress row", t, func() {
		Convey("When it hasn't reached the required pieces", func() {
			p := progress.New(1, 1, 3)
			err := p.MarkClaimed()

			Convey("Then it returns ErrNotAchieved", func() {
				So(err, ShouldEqual, progress.ErrNotAchieved)
			})
		})

		Convey("When it has already been claimed", func() {
			p := progress.New(1, 1, 1)
			p.Increment()
			So(p.MarkClaimed(), ShouldBeNil)
			err := p.MarkClaimed()

			Convey("Then it returns ErrAlreadyClaimed", func() {
				So(err, ShouldEqual, progress.ErrAlreadyClaimed)
			})
		})
	})
}

func TestProgressDecrement(t *testing.T) {
	t.Parallel()

	Convey("Given a claimed, fully-earned progress row", t, func() {
		p := progress.New(1, 1, 1)
		p.Increment()
		So(p.MarkClaimed(), ShouldBeNil)

		Convey("When a completion backing it is reverted", func() {
			p.Decrement()

			Convey("Then pieces_earned drops and claimed is cleared", func() {
				So(p.PiecesEarned(), ShouldEqual, 0)
				So(p.Claimed(), ShouldBeFalse)
			})
		})

		Convey("When pieces_earned is already 0", func() {
			zero := progress.New(1, 1, 1)
			zero.Decrement()

			Convey("Then it stays floored at 0", func() {
				So(zero.PiecesEarned(), ShouldEqual, 0)
			})
		})
	})
}
