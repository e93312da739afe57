package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given the global logger", t, func() {
		Convey("When initialized with defaults", func() {
			So(Init(), ShouldBeNil)

			Convey("Then Get returns a usable logger", func() {
				So(Get(), ShouldNotBeNil)
				So(Sync(), ShouldBeNil)
			})
		})

		Convey("When initialized with an unknown format", func() {
			err := Init(WithFormat("xml"))

			Convey("Then it should fail", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "unknown log format")
			})
		})
	})
}

func TestLoggerOutput(t *testing.T) {
	Convey("Given a JSON logger writing to a buffer", t, func() {
		var buf bytes.Buffer
		So(Init(WithWriter(&buf), WithFormat(FormatJSON)), ShouldBeNil)
		ctx := context.Background()

		Convey("When logging at info with fields", func() {
			Get().Info(ctx, "rendered", String("skin", "card"), Int("status", 200), Float64("latency_ms", 1.5), Error(errors.New("boom")))

			Convey("Then the line carries message, fields and source", func() {
				var line map[string]any
				So(json.Unmarshal(buf.Bytes(), &line), ShouldBeNil)
				So(line["msg"], ShouldEqual, "rendered")
				So(line["skin"], ShouldEqual, "card")
				So(line["status"], ShouldEqual, float64(200))
				So(line["latency_ms"], ShouldEqual, 1.5)
				So(line["source"], ShouldContainSubstring, "logger_test.go")
			})
		})

		Convey("When logging below the current level", func() {
			So(SetLevelString("warn"), ShouldBeNil)
			defer func() { _ = SetLevelString("info") }()
			Get().Info(ctx, "hidden")

			Convey("Then nothing is written", func() {
				So(buf.Len(), ShouldEqual, 0)
			})
		})

		Convey("When using a named logger with bound fields", func() {
			Named("probe").With(String("request_id", "r-1")).Warn(ctx, "slow")

			Convey("Then the bound field appears under the group", func() {
				So(buf.String(), ShouldContainSubstring, "r-1")
				So(buf.String(), ShouldContainSubstring, "probe")
			})
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given level strings", t, func() {
		for _, lvl := range []string{"debug", "INFO", " warn ", "warning", "error", ""} {
			So(SetLevelString(lvl), ShouldBeNil)
		}
		So(SetLevelString("verbose"), ShouldNotBeNil)
		_ = SetLevelString("info")
	})
}

func TestNop(t *testing.T) {
	Convey("Given the nop logger", t, func() {
		l := Nop()

		Convey("Then every method is safe to call", func() {
			So(func() {
				l.Info(context.Background(), "x")
				l.Named("y").With(String("a", "b")).Debug(context.Background(), "z")
			}, ShouldNotPanic)
		})

		Convey("And OrGlobal prefers the explicit logger", func() {
			So(OrGlobal(l), ShouldEqual, l)
		})
	})
}
