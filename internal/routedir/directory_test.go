package routedir

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"campus_commute/internal/store"
)

func newTestDirectory() *Directory {
	return New(store.NewMemStore())
}

func TestCreateAssignsUniqueIDs(t *testing.T) {
	d := newTestDirectory()

	r1, err := d.Create(Draft{Number: "Route 1", Stops: "Kottur, Guindy, Campus", Timing: "06:00 AM"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	r2, err := d.Create(Draft{Number: "Route 2", Stops: "Anna Nagar, Campus", Timing: "07:00 AM"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if r1.ID == "" || r2.ID == "" || r1.ID == r2.ID {
		t.Errorf("ids not unique: %q vs %q", r1.ID, r2.ID)
	}
	if got := len(d.List()); got != 2 {
		t.Errorf("list has %d routes, want 2", got)
	}
}

func TestCreateValidatesRequiredFields(t *testing.T) {
	cases := []struct {
		name  string
		draft Draft
		field string
	}{
		{"no number", Draft{Stops: "A, B", Timing: "06:00 AM"}, "number"},
		{"no stops", Draft{Number: "Route 1", Timing: "06:00 AM"}, "stops"},
		{"blank stops", Draft{Number: "Route 1", Stops: "   ", Timing: "06:00 AM"}, "stops"},
		{"no timing", Draft{Number: "Route 1", Stops: "A, B"}, "timing"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := newTestDirectory()
			_, err := d.Create(tc.draft)
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("got %v, want ValidationError", err)
			}
			if vErr.Field != tc.field {
				t.Errorf("field = %q, want %q", vErr.Field, tc.field)
			}
		})
	}
}

func TestCreateRejectsNegativeEta(t *testing.T) {
	d := newTestDirectory()
	eta := -5
	_, err := d.Create(Draft{Number: "Route 1", Stops: "A, B", Timing: "06:00 AM", Eta: &eta})
	var vErr *ValidationError
	if !errors.As(err, &vErr) || vErr.Field != "eta" {
		t.Fatalf("got %v, want eta validation error", err)
	}
}

func TestSplitStops(t *testing.T) {
	got := SplitStops(" Kottur ,Saidapet,  Guindy , Campus")
	want := []string{"Kottur", "Saidapet", "Guindy", "Campus"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	// Empty entries after trimming are kept, not collapsed
	got = SplitStops("Kottur,,Campus")
	want = []string{"Kottur", "", "Campus"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestUpdatePatchesOnlyGivenFields(t *testing.T) {
	d := newTestDirectory()
	eta := 12
	created, _ := d.Create(Draft{
		Number:        "Route 3",
		Stops:         "T Nagar, Saidapet, Campus",
		Timing:        "06:00 AM",
		AssignedBus:   "TN 01 AB 1234",
		ConductorName: "Mani",
		Eta:           &eta,
	})

	timing := "07:00 AM"
	updated, err := d.Update(created.ID, Patch{Timing: &timing})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Timing != "07:00 AM" {
		t.Errorf("timing = %q, want 07:00 AM", updated.Timing)
	}

	// Everything else must be byte-identical
	created.Timing = updated.Timing
	before, _ := json.Marshal(created)
	after, _ := json.Marshal(updated)
	if string(before) != string(after) {
		t.Errorf("untouched fields changed:\nbefore %s\nafter  %s", before, after)
	}
}

func TestUpdateMissingRoute(t *testing.T) {
	d := newTestDirectory()
	timing := "07:00 AM"
	if _, err := d.Update("no-such-id", Patch{Timing: &timing}); !errors.Is(err, ErrRouteNotFound) {
		t.Fatalf("got %v, want ErrRouteNotFound", err)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	d := newTestDirectory()
	created, _ := d.Create(Draft{Number: "Route 1", Stops: "A, B", Timing: "06:00 AM"})

	if err := d.Delete(created.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if got := len(d.List()); got != 0 {
		t.Errorf("list has %d routes after delete, want 0", got)
	}
	if err := d.Delete(created.ID); err != nil {
		t.Fatalf("second delete failed: %v", err)
	}
	if got := len(d.List()); got != 0 {
		t.Errorf("list has %d routes after second delete, want 0", got)
	}
}

func TestResolveByRouteNo(t *testing.T) {
	d := newTestDirectory()
	d.Create(Draft{Number: "Route 1", Stops: "A, B", Timing: "06:00 AM"})
	d.Create(Draft{Number: "Route 3", Stops: "T Nagar, Campus", Timing: "07:00 AM"})

	route, ok := d.Resolve("3")
	if !ok {
		t.Fatal("Route 3 not resolved for routeNo 3")
	}
	if route.Number != "Route 3" {
		t.Errorf("resolved %q", route.Number)
	}

	if _, ok := d.Resolve("9"); ok {
		t.Error("resolved a route that does not exist")
	}

	fb := FallbackRoute()
	if len(fb.Stops) == 0 || fb.Stops[0] != "Kottur" || fb.Stops[len(fb.Stops)-1] != "Campus" {
		t.Errorf("unexpected fallback stops: %v", fb.Stops)
	}
	if fb.Eta == nil || *fb.Eta != 10 {
		t.Error("fallback ETA missing")
	}
}

func TestGeometryRoundTrip(t *testing.T) {
	d := newTestDirectory()
	geojson := `{"type":"LineString","coordinates":[[80.23,13.01],[80.24,13.02]]}`

	created, err := d.Create(Draft{Number: "Route 5", Stops: "A, B", Timing: "06:00 AM", Geometry: geojson})
	if err != nil {
		t.Fatalf("create with geometry failed: %v", err)
	}
	if len(created.Geometry) == 0 {
		t.Fatal("geometry not stored")
	}

	out, err := GeometryGeoJSON(created.Geometry)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if out == "" {
		t.Fatal("empty GeoJSON from stored geometry")
	}

	_, err = d.Create(Draft{Number: "Route 6", Stops: "A, B", Timing: "06:00 AM", Geometry: "{bad json"})
	var vErr *ValidationError
	if !errors.As(err, &vErr) || vErr.Field != "geometry" {
		t.Errorf("bad geometry: got %v, want geometry validation error", err)
	}
}
