package worker_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	queue "github.com/okian/vitrine/internal/adapters/mq/queue"
	worker "github.com/okian/vitrine/internal/adapters/mq/worker"
	model "github.com/okian/vitrine/internal/domain/model"
	logging "github.com/okian/vitrine/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
	"go.uber.org/goleak"
)

type mockChecker struct {
	calls atomic.Int64
	ok    map[string]bool
	delay time.Duration
}

func (m *mockChecker) Check(ctx context.Context, url string) model.ProbeResult {
	m.calls.Add(1)
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return model.ProbeResult{URL: url, Err: ctx.Err()}
		}
	}
	if m.ok[url] {
		return model.ProbeResult{URL: url, OK: true, Status: 200, ContentType: "image/png"}
	}
	return model.ProbeResult{URL: url, Status: 404, Err: errors.New("not found")}
}

func TestPool(t *testing.T) {
	defer goleak.VerifyNone(t)

	convey.Convey("Given a running pool", t, func() {
		ctx := context.Background()
		q := queue.NewInMemoryQueue(queue.WithCapacity(16))
		checker := &mockChecker{ok: map[string]bool{"https://img.test/ok.png": true}}
		pool := worker.NewPool(3, q, checker, worker.WithLogger(logging.Nop()))
		pool.Start(ctx)

		convey.So(pool.Size(), convey.ShouldEqual, 3)

		convey.Convey("When a reachable image is probed", func() {
			job := model.NewProbeJob("1", model.KindPhoto, "https://img.test/ok.png")
			convey.So(q.Enqueue(ctx, job), convey.ShouldBeTrue)
			res := <-job.Reply

			convey.Convey("Then the result is positive", func() {
				convey.So(res.OK, convey.ShouldBeTrue)
				convey.So(res.Status, convey.ShouldEqual, 200)
			})
		})

		convey.Convey("When a missing image is probed", func() {
			job := model.NewProbeJob("2", model.KindBanner, "https://img.test/missing.png")
			convey.So(q.Enqueue(ctx, job), convey.ShouldBeTrue)
			res := <-job.Reply

			convey.Convey("Then the result is negative with a reason", func() {
				convey.So(res.OK, convey.ShouldBeFalse)
				convey.So(res.Err, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When many jobs are queued", func() {
			jobs := make([]model.ProbeJob, 10)
			for i := range jobs {
				jobs[i] = model.NewProbeJob("n", model.KindPhoto, "https://img.test/ok.png")
				convey.So(q.Enqueue(ctx, jobs[i]), convey.ShouldBeTrue)
			}

			convey.Convey("Then every job is answered exactly once", func() {
				for _, j := range jobs {
					convey.So((<-j.Reply).OK, convey.ShouldBeTrue)
				}
				convey.So(checker.calls.Load(), convey.ShouldEqual, int64(10))
			})
		})

		convey.Reset(func() {
			convey.So(pool.Shutdown(ctx), convey.ShouldBeNil)
			convey.So(q.IsClosed(), convey.ShouldBeTrue)
		})
	})
}

func TestWorkerTimeout(t *testing.T) {
	defer goleak.VerifyNone(t)

	convey.Convey("Given a worker with a short probe timeout", t, func() {
		ctx := context.Background()
		q := queue.NewInMemoryQueue(queue.WithCapacity(1))
		checker := &mockChecker{delay: time.Second}
		w := worker.NewInMemoryWorker(q, checker,
			worker.WithTimeout(20*time.Millisecond),
			worker.WithLogger(logging.Nop()),
			worker.WithName("slow"),
		)
		go w.Run(ctx)

		job := model.NewProbeJob("t", model.KindPhoto, "https://img.test/slow.png")
		convey.So(q.Enqueue(ctx, job), convey.ShouldBeTrue)

		convey.Convey("Then the probe fails instead of hanging", func() {
			res := <-job.Reply
			convey.So(res.OK, convey.ShouldBeFalse)
			convey.So(errors.Is(res.Err, context.DeadlineExceeded), convey.ShouldBeTrue)
		})

		convey.Reset(func() {
			convey.So(w.Shutdown(ctx), convey.ShouldBeNil)
			<-w.Done()
		})
	})
}

func TestWorkerStopsOnClosedQueue(t *testing.T) {
	defer goleak.VerifyNone(t)

	convey.Convey("Given a worker over a queue that closes", t, func() {
		q := queue.NewInMemoryQueue()
		w := worker.NewInMemoryWorker(q, &mockChecker{}, worker.WithLogger(logging.Nop()))
		go w.Run(context.Background())

		convey.So(q.Close(), convey.ShouldBeNil)

		convey.Convey("Then Run returns", func() {
			select {
			case <-w.Done():
			case <-time.After(time.Second):
				t.Fatal("worker did not stop")
			}
		})
	})
}

func TestPoolShutdownDrainsQueue(t *testing.T) {
	defer goleak.VerifyNone(t)

	convey.Convey("Given a pool with jobs still queued", t, func() {
		ctx := context.Background()
		q := queue.NewInMemoryQueue(queue.WithCapacity(8))
		checker := &mockChecker{
			ok:    map[string]bool{"https://img.test/ok.png": true},
			delay: 20 * time.Millisecond,
		}
		pool := worker.NewPool(1, q, checker, worker.WithLogger(logging.Nop()))
		pool.Start(ctx)

		jobs := make([]model.ProbeJob, 4)
		for i := range jobs {
			jobs[i] = model.NewProbeJob("d", model.KindPhoto, "https://img.test/ok.png")
			convey.So(q.Enqueue(ctx, jobs[i]), convey.ShouldBeTrue)
		}

		convey.Convey("When the pool shuts down", func() {
			convey.So(pool.Shutdown(ctx), convey.ShouldBeNil)

			convey.Convey("Then every queued job was answered first", func() {
				for _, j := range jobs {
					select {
					case res := <-j.Reply:
						convey.So(res.OK, convey.ShouldBeTrue)
					default:
						t.Fatal("queued job abandoned")
					}
				}
				convey.So(checker.calls.Load(), convey.ShouldEqual, int64(len(jobs)))
			})
		})
	})

	convey.Convey("Given a pool whose shutdown deadline passes", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(8))
		checker := &mockChecker{delay: 100 * time.Millisecond}
		pool := worker.NewPool(1, q, checker,
			worker.WithTimeout(time.Second),
			worker.WithLogger(logging.Nop()),
		)
		pool.Start(context.Background())
		for i := 0; i < 4; i++ {
			convey.So(q.Enqueue(context.Background(), model.NewProbeJob("s", model.KindPhoto, "https://img.test/slow.png")), convey.ShouldBeTrue)
		}

		convey.Convey("Then shutdown reports the timeout and workers still stop", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
			defer cancel()
			err := pool.Shutdown(ctx)
			convey.So(errors.Is(err, context.DeadlineExceeded), convey.ShouldBeTrue)
			convey.So(pool.Shutdown(context.Background()), convey.ShouldBeNil)
		})
	})
}
