// README: Resolver tests with an in-memory vehicle source.
package vehicle

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"shuttle/internal/modules/schedule"
	"shuttle/internal/types"
)

type fakeSource struct {
	vehicles   map[types.ID]*Vehicle
	categories map[types.ID]*Category
}

func (f *fakeSource) FindByIDs(_ context.Context, ids []types.ID) ([]*Vehicle, error) {
	out := make([]*Vehicle, 0, len(ids))
	for _, id := range ids {
		if v, ok := f.vehicles[id]; ok {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeSource) FindCategoriesByIDs(_ context.Context, ids []types.ID) (map[types.ID]*Category, error) {
	out := make(map[types.ID]*Category, len(ids))
	for _, id := range ids {
		if c, ok := f.categories[id]; ok {
			out[id] = c
		}
	}
	return out, nil
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		vehicles: map[types.ID]*Vehicle{
			"v1": {ID: "v1", CategoryID: "sedan", SeatCount: 4},
			"v2": {ID: "v2", CategoryID: "sedan", SeatCount: 4},
			"v3": {ID: "v3", CategoryID: "van", SeatCount: 8},
			"v4": {ID: "v4", CategoryID: "minibus", SeatCount: 12},
			"v5": {ID: "v5", CategoryID: "minibus", SeatCount: 12},
		},
		categories: map[types.ID]*Category{
			"sedan":   {ID: "sedan", Name: "Sedan", SeatCount: 4, HourlyRate: types.Money{Amount: 4000, Currency: "USD"}},
			"van":     {ID: "van", Name: "Van", SeatCount: 8, HourlyRate: types.Money{Amount: 6000, Currency: "USD"}},
			"minibus": {ID: "minibus", Name: "Minibus", SeatCount: 12, HourlyRate: types.Money{Amount: 9000, Currency: "USD"}},
		},
	}
}

func schedulesFor(vehicleIDs ...types.ID) []*schedule.DriverSchedule {
	out := make([]*schedule.DriverSchedule, len(vehicleIDs))
	for i, id := range vehicleIDs {
		out[i] = &schedule.DriverSchedule{ID: types.ID("s" + string(id)), VehicleID: id}
	}
	return out
}

func TestGroupByCategory_SortsByCountThenName(t *testing.T) {
	r := NewResolver(newFakeSource())

	options, err := r.GroupByCategory(context.Background(), schedulesFor("v3", "v1", "v5", "v2", "v4"), 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(options) != 3 {
		t.Fatalf("expected 3 categories, got %d", len(options))
	}
	// Minibus and Sedan both have 2 units; Minibus sorts first by name.
	wantNames := []string{"Minibus", "Sedan", "Van"}
	for i, w := range wantNames {
		if options[i].Name != w {
			t.Fatalf("position %d: got %s, want %s (full: %+v)", i, options[i].Name, w, options)
		}
	}
	if options[0].AvailableCount != 2 || options[2].AvailableCount != 1 {
		t.Fatalf("bad counts: %+v", options)
	}
}

func TestGroupByCategory_Deterministic(t *testing.T) {
	r := NewResolver(newFakeSource())
	schedules := schedulesFor("v5", "v1", "v3", "v4", "v2")

	first, err := r.GroupByCategory(context.Background(), schedules, 1)
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.GroupByCategory(context.Background(), schedules, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("two runs differ:\n%+v\n%+v", first, second)
	}
}

func TestGroupByCategory_CountsDistinctVehiclesOnce(t *testing.T) {
	r := NewResolver(newFakeSource())

	// Same vehicle on two schedules (split shifts) is one unit.
	options, err := r.GroupByCategory(context.Background(), schedulesFor("v1", "v1"), 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(options) != 1 || options[0].AvailableCount != 1 {
		t.Fatalf("duplicate vehicle counted twice: %+v", options)
	}
}

func TestGroupByCategory_InsufficientKeepsPartialOptions(t *testing.T) {
	r := NewResolver(newFakeSource())

	options, err := r.GroupByCategory(context.Background(), schedulesFor("v1", "v3"), 3)
	if !errors.Is(err, ErrInsufficientAvailability) {
		t.Fatalf("expected ErrInsufficientAvailability, got %v", err)
	}
	if len(options) != 2 {
		t.Fatalf("partial grouping should survive the error, got %+v", options)
	}
}

func TestGroupByCategory_NoVehicles(t *testing.T) {
	r := NewResolver(newFakeSource())

	if _, err := r.GroupByCategory(context.Background(), nil, 1); !errors.Is(err, ErrInsufficientAvailability) {
		t.Fatalf("expected ErrInsufficientAvailability, got %v", err)
	}
}

func TestGroupByCategory_VehicleIDsSorted(t *testing.T) {
	r := NewResolver(newFakeSource())

	options, err := r.GroupByCategory(context.Background(), schedulesFor("v2", "v1"), 1)
	if err != nil {
		t.Fatal(err)
	}
	want := []types.ID{"v1", "v2"}
	if !reflect.DeepEqual(options[0].VehicleIDs, want) {
		t.Fatalf("vehicle ids not sorted: %v", options[0].VehicleIDs)
	}
}
