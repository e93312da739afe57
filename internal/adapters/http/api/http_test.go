package api_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/okian/vitrine/internal/adapters/http/api"
	service "github.com/okian/vitrine/internal/app"
	"github.com/okian/vitrine/internal/domain/binder"
	"github.com/okian/vitrine/internal/domain/profile"
	"github.com/okian/vitrine/internal/domain/types"
	"github.com/okian/vitrine/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func encode(raw string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

func newMux(deps api.Dependencies) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(deps, api.WithLogger(logger.Nop())).Register(context.Background(), mux)
	return mux
}

func serve(mux *http.ServeMux, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, http.NoBody)
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

// failingDeps fails every operation with a non-skin error.
type failingDeps struct{}

func (failingDeps) GetStats() types.Stats { return types.Stats{} }

func (failingDeps) Render(context.Context, service.PageRequest) (*service.Page, error) {
	return nil, errors.New("boom")
}

func (failingDeps) Preview(context.Context, service.PageRequest) (*service.Preview, error) {
	return nil, errors.New("boom")
}

func (failingDeps) Link(profile.Record, string, string) (string, string, error) {
	return "", "", errors.New("boom")
}

func TestServer_Register(t *testing.T) {
	Convey("Given an API server backed by the page service", t, func() {
		svc, err := service.New(service.WithLogger(logger.Nop()))
		So(err, ShouldBeNil)
		mux := newMux(svc)

		Convey("Then the health endpoint reports ok", func() {
			w := serve(mux, "GET", "/healthz", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			var body map[string]string
			So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
			So(body["status"], ShouldEqual, "ok")
		})

		Convey("And the metrics endpoint is served", func() {
			w := serve(mux, "GET", "/metrics", "")
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("And the stats endpoint returns service statistics", func() {
			w := serve(mux, "GET", "/stats", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			var st types.Stats
			So(json.Unmarshal(w.Body.Bytes(), &st), ShouldBeNil)
			So(st.DefaultSkin, ShouldEqual, "card")
			So(st.PayloadParam, ShouldEqual, "data")
		})

		Convey("And stats rejects other methods", func() {
			w := serve(mux, "POST", "/stats", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestPages(t *testing.T) {
	Convey("Given an API server backed by the page service", t, func() {
		svc, err := service.New(service.WithLogger(logger.Nop()))
		So(err, ShouldBeNil)
		mux := newMux(svc)

		Convey("When the root page is requested without a payload", func() {
			w := serve(mux, "GET", "/", "")

			Convey("Then the default profile is rendered as HTML", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldEqual, "text/html; charset=utf-8")
				So(w.Body.String(), ShouldContainSubstring, profile.Default().Name)
				So(w.Header().Get(api.HeaderRequestID), ShouldNotBeEmpty)
			})
		})

		Convey("When a skin page is requested with a payload", func() {
			w := serve(mux, "GET", "/p/perfil?data="+encode(`{"nome":"Ana"}`)+"&id=abc", "")

			Convey("Then that skin renders the record", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `id="nome"`)
				So(w.Body.String(), ShouldContainSubstring, ">Ana<")
			})
		})

		Convey("When the skin is selected by query on the root page", func() {
			w := serve(mux, "GET", "/?skin=landing", "")

			Convey("Then the landing skin is rendered", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `id="hero-title"`)
			})
		})

		Convey("When a client supplies a request id", func() {
			req := httptest.NewRequest("GET", "/", http.NoBody)
			req.Header.Set(api.HeaderRequestID, "req-42")
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it is echoed back", func() {
				So(w.Header().Get(api.HeaderRequestID), ShouldEqual, "req-42")
			})
		})

		Convey("When a HEAD request is made", func() {
			w := serve(mux, "HEAD", "/", "")

			Convey("Then headers are sent without a body", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Length"), ShouldNotEqual, "0")
				So(w.Body.Len(), ShouldEqual, 0)
			})
		})

		Convey("Then unknown skins and paths are not found", func() {
			for _, target := range []string{"/p/retro", "/p/", "/p/card/extra", "/nope"} {
				w := serve(mux, "GET", target, "")
				So(w.Code, ShouldEqual, http.StatusNotFound)
			}
		})

		Convey("Then pages reject other methods", func() {
			w := serve(mux, "POST", "/", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})

	Convey("Given a service that cannot bind its skins", t, func() {
		w := binder.NewWriter(binder.WithLogger(logger.Nop()), binder.WithRequiredSlots("signature"))
		svc, err := service.New(service.WithWriter(w), service.WithLogger(logger.Nop()))
		So(err, ShouldBeNil)
		mux := newMux(svc)

		Convey("Then the error view is served with status 500", func() {
			rec := serve(mux, "GET", "/", "")
			So(rec.Code, ShouldEqual, http.StatusInternalServerError)
			So(rec.Header().Get("Content-Type"), ShouldEqual, "text/html; charset=utf-8")
			So(rec.Body.String(), ShouldContainSubstring, binder.DefaultPlaceholders().Error)
		})
	})

	Convey("Given a renderer that fails outright", t, func() {
		mux := newMux(failingDeps{})

		Convey("Then the page route answers 500", func() {
			w := serve(mux, "GET", "/", "")
			So(w.Code, ShouldEqual, http.StatusInternalServerError)
		})

		Convey("And the JSON routes answer 500 with an error body", func() {
			w := serve(mux, "GET", "/api/v1/profile", "")
			So(w.Code, ShouldEqual, http.StatusInternalServerError)
			So(w.Body.String(), ShouldContainSubstring, `"code":"internal_error"`)
		})
	})
}

func TestProfileAPI(t *testing.T) {
	Convey("Given an API server backed by the page service", t, func() {
		svc, err := service.New(service.WithLogger(logger.Nop()))
		So(err, ShouldBeNil)
		mux := newMux(svc)

		Convey("When a profile is previewed", func() {
			w := serve(mux, "GET", "/api/v1/profile?data="+encode(`{"nombre":"Luis","habilidades":"Go, SQL"}`), "")

			Convey("Then the record and view are returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var pv service.Preview
				So(json.Unmarshal(w.Body.Bytes(), &pv), ShouldBeNil)
				So(pv.Skin, ShouldEqual, "card")
				So(pv.Record.Name, ShouldEqual, "Luis")
				So(pv.View.Skills, ShouldResemble, []string{"Go", "SQL"})
				So(pv.View.Fallbacks, ShouldContain, binder.FieldTitle)
			})
		})

		Convey("When an unknown skin is previewed", func() {
			w := serve(mux, "GET", "/api/v1/profile?skin=retro", "")

			Convey("Then a not-found error body is returned", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(w.Body.String(), ShouldContainSubstring, `"code":"unknown_skin"`)
			})
		})

		Convey("When a profile is posted for encoding", func() {
			w := serve(mux, "POST", "/api/v1/payload?skin=perfil", `{"nome":"Ana","habilidades":["Figma"]}`)

			Convey("Then the payload and a working link are returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var body struct {
					Payload string `json:"payload"`
					URL     string `json:"url"`
				}
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(body.Payload, ShouldNotBeEmpty)
				So(body.URL, ShouldStartWith, "http://example.com/p/perfil?data=")

				u, err := url.Parse(body.URL)
				So(err, ShouldBeNil)
				page := serve(mux, "GET", u.RequestURI(), "")
				So(page.Code, ShouldEqual, http.StatusOK)
				So(page.Body.String(), ShouldContainSubstring, ">Ana<")
			})
		})

		Convey("When the posted body is not a JSON object", func() {
			for _, body := range []string{`{"name":`, `[1,2]`, `"Ana"`} {
				w := serve(mux, "POST", "/api/v1/payload", body)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(w.Body.String(), ShouldContainSubstring, `"code":"bad_request"`)
			}
		})

		Convey("When the link targets an unknown skin", func() {
			w := serve(mux, "POST", "/api/v1/payload?skin=retro", `{"name":"Ana"}`)
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("Then the payload route only accepts POST", func() {
			w := serve(mux, "GET", "/api/v1/payload", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestServerWithNilMux(t *testing.T) {
	Convey("Given a server and a nil mux", t, func() {
		s := api.NewServer(failingDeps{})

		Convey("Then registering panics", func() {
			So(func() { s.Register(context.Background(), nil) }, ShouldPanic)
		})
	})
}
