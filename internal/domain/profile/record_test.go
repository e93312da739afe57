package profile_test

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/okian/vitrine/internal/domain/profile"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRecordUnmarshal(t *testing.T) {
	Convey("Given payload objects", t, func() {
		Convey("When the payload uses canonical keys", func() {
			var rec profile.Record
			err := json.Unmarshal([]byte(`{"name":"Ana","title":"Designer","skills":["Figma"],"whatsappNumber":"+57 300"}`), &rec)

			Convey("Then every field is populated", func() {
				So(err, ShouldBeNil)
				So(rec.Name, ShouldEqual, "Ana")
				So(rec.Title, ShouldEqual, "Designer")
				So(rec.Skills, ShouldResemble, []string{"Figma"})
				So(rec.WhatsApp, ShouldEqual, "+57 300")
			})
		})

		Convey("When the payload uses Portuguese and Spanish keys", func() {
			var rec profile.Record
			err := json.Unmarshal([]byte(`{"nome":"Ana","habilidades":["Figma","Sketch"],"cidade":"Recife","pais":"Brasil","titulo":"Dev","descripcion":"Hola"}`), &rec)

			Convey("Then aliases map onto canonical fields", func() {
				So(err, ShouldBeNil)
				So(rec.Name, ShouldEqual, "Ana")
				So(rec.Skills, ShouldResemble, []string{"Figma", "Sketch"})
				So(rec.City, ShouldEqual, "Recife")
				So(rec.Country, ShouldEqual, "Brasil")
				So(rec.Title, ShouldEqual, "Dev")
				So(rec.Description, ShouldEqual, "Hola")
			})
		})

		Convey("When canonical and alias keys are both present", func() {
			var rec profile.Record
			err := json.Unmarshal([]byte(`{"nome":"Alias","name":"Canonical"}`), &rec)

			Convey("Then the canonical key wins", func() {
				So(err, ShouldBeNil)
				So(rec.Name, ShouldEqual, "Canonical")
			})
		})

		Convey("When keys differ only by case", func() {
			var rec profile.Record
			err := json.Unmarshal([]byte(`{"PhotoURL":"https://x/a.png"}`), &rec)

			Convey("Then they still match", func() {
				So(err, ShouldBeNil)
				So(rec.PhotoURL, ShouldEqual, "https://x/a.png")
			})
		})

		Convey("When scalars are numbers", func() {
			var rec profile.Record
			err := json.Unmarshal([]byte(`{"score":4.9,"projectCount":120,"yearsExperience":"8"}`), &rec)

			Convey("Then their literal text is kept", func() {
				So(err, ShouldBeNil)
				So(rec.Score, ShouldEqual, "4.9")
				So(rec.ProjectCount, ShouldEqual, "120")
				So(rec.YearsExperience, ShouldEqual, "8")
			})
		})

		Convey("When fields have the wrong type", func() {
			var rec profile.Record
			err := json.Unmarshal([]byte(`{"name":{"first":"Ana"},"skills":[1,"Go",{"x":1},null,true],"city":false}`), &rec)

			Convey("Then they are treated as absent and bad list entries are dropped", func() {
				So(err, ShouldBeNil)
				So(rec.Name, ShouldEqual, "")
				So(rec.City, ShouldEqual, "")
				So(rec.Skills, ShouldResemble, []string{"1", "Go"})
			})
		})

		Convey("When skills arrive as a comma-separated string", func() {
			var rec profile.Record
			err := json.Unmarshal([]byte(`{"skills":"Figma, Sketch ,,Go"}`), &rec)

			Convey("Then they are split in order", func() {
				So(err, ShouldBeNil)
				So(rec.Skills, ShouldResemble, []string{"Figma", "Sketch", "Go"})
			})
		})

		Convey("When testimonials use Spanish keys", func() {
			var rec profile.Record
			err := json.Unmarshal([]byte(`{"testimonios":[{"nombre":"María","cargo":"CMO","texto":"Excelente","rating":5},"junk",{"texto":"ok","rating":"4.6"}]}`), &rec)

			Convey("Then objects are decoded and junk is skipped", func() {
				So(err, ShouldBeNil)
				So(rec.Testimonials, ShouldHaveLength, 2)
				So(rec.Testimonials[0], ShouldResemble, profile.Testimonial{Name: "María", Role: "CMO", Text: "Excelente", Rating: 5})
				So(rec.Testimonials[1].Rating, ShouldEqual, 5)
			})
		})

		Convey("When metrics arrive in a nested statistics object", func() {
			var rec profile.Record
			err := json.Unmarshal([]byte(`{"proyectos":"80","estadisticas":{"samurais":"500+","proyectos":"1,200+","satisfaccion":"4.9"}}`), &rec)

			Convey("Then missing top-level metrics are filled from it", func() {
				So(err, ShouldBeNil)
				So(rec.Score, ShouldEqual, "4.9")
				So(rec.ProjectCount, ShouldEqual, "80")
				So(rec.YearsExperience, ShouldBeEmpty)
			})
		})

		Convey("When the payload is not an object", func() {
			for _, raw := range []string{`[1,2]`, `"name"`, `42`, `null`, ``} {
				var rec profile.Record
				err := rec.UnmarshalJSON([]byte(raw))
				So(errors.Is(err, profile.ErrNotObject), ShouldBeTrue)
			}
		})
	})
}

func TestRecordMarshal(t *testing.T) {
	Convey("Given a record", t, func() {
		rec := profile.Record{Name: "Ana", Skills: []string{}}

		Convey("When it is encoded", func() {
			data, err := json.Marshal(rec)
			So(err, ShouldBeNil)

			Convey("Then canonical keys are used and lists are always present", func() {
				So(string(data), ShouldContainSubstring, `"name":"Ana"`)
				So(string(data), ShouldContainSubstring, `"skills":[]`)
				So(string(data), ShouldContainSubstring, `"features":null`)
				So(string(data), ShouldNotContainSubstring, `"title"`)
			})

			Convey("And decoding it reproduces the record", func() {
				var back profile.Record
				So(json.Unmarshal(data, &back), ShouldBeNil)
				So(cmp.Diff(rec, back), ShouldBeEmpty)
			})
		})
	})
}

func TestDefault(t *testing.T) {
	Convey("Given the default record", t, func() {
		a := profile.Default()
		b := profile.Default()

		Convey("Then calls are field-for-field equal", func() {
			So(cmp.Diff(a, b), ShouldBeEmpty)
			So(profile.IsDefault(a), ShouldBeTrue)
		})

		Convey("And mutating one copy does not leak into the next", func() {
			a.Skills[0] = "changed"
			So(profile.Default().Skills[0], ShouldNotEqual, "changed")
		})

		Convey("And Equal distinguishes nil and empty lists", func() {
			So(profile.Equal(profile.Record{}, profile.Record{Features: []string{}}), ShouldBeFalse)
			d := b.Clone()
			So(profile.Equal(b, d), ShouldBeTrue)
		})

		Convey("And Equal sees a change in every field", func() {
			typ := reflect.TypeOf(profile.Record{})
			for i := 0; i < typ.NumField(); i++ {
				changed := profile.Default().Clone()
				f := reflect.ValueOf(&changed).Elem().Field(i)
				switch f.Kind() {
				case reflect.String:
					f.SetString(f.String() + "x")
				case reflect.Slice:
					f.Set(reflect.Append(f, reflect.Zero(f.Type().Elem())))
				default:
					t.Fatalf("field %s has unhandled kind %s", typ.Field(i).Name, f.Kind())
				}
				So(profile.Equal(profile.Default(), changed), ShouldBeFalse)
			}
		})
	})
}
