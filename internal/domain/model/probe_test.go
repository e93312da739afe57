package model_test

import (
	"testing"

	model "github.com/okian/vitrine/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestProbeJob(t *testing.T) {
	convey.Convey("Given a new probe job", t, func() {
		job := model.NewProbeJob("req-1", model.KindPhoto, "https://example.com/a.png")

		convey.Convey("Then it carries its fields and a buffered reply", func() {
			convey.So(job.ID, convey.ShouldEqual, "req-1")
			convey.So(job.Kind, convey.ShouldEqual, model.KindPhoto)
			convey.So(job.URL, convey.ShouldEqual, "https://example.com/a.png")
			convey.So(job.Enqueued.IsZero(), convey.ShouldBeFalse)
			convey.So(cap(job.Reply), convey.ShouldEqual, 1)
		})

		convey.Convey("Then a reply can be sent without a reader", func() {
			job.Reply <- model.ProbeResult{URL: job.URL, OK: true}
			res := <-job.Reply
			convey.So(res.OK, convey.ShouldBeTrue)
		})
	})
}
