// README: Admission-loop tests; in-memory versioned store, forced and concurrent version races.
package itinerary

import (
	"context"
	"errors"
	"sync"
	"testing"

	"shuttle/internal/types"
)

// memStore is an in-memory VersionedStore with the same compare-and-set
// semantics as the pgx store.
type memStore struct {
	mu         sync.Mutex
	itinerary  *Itinerary
	gets       int
	replaces   int
	// failNext forces that many ReplaceStops calls to lose the version race.
	failNext int
}

func newMemStore(it *Itinerary) *memStore {
	return &memStore{itinerary: it}
}

func (m *memStore) Create(_ context.Context, it *Itinerary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.itinerary = it
	return nil
}

func (m *memStore) Get(_ context.Context, id types.ID) (*Itinerary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	cp := *m.itinerary
	cp.Stops = append([]Stop(nil), m.itinerary.Stops...)
	return &cp, nil
}

func (m *memStore) ReplaceStops(_ context.Context, id types.ID, stops []Stop, distanceEstimateMeters int64, version int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replaces++
	if m.failNext > 0 {
		m.failNext--
		return false, nil
	}
	if m.itinerary.Version != version {
		return false, nil
	}
	m.itinerary.Stops = append([]Stop(nil), stops...)
	m.itinerary.Version++
	m.itinerary.DistanceEstimateMeters = distanceEstimateMeters
	if m.itinerary.Status == StatusPending {
		m.itinerary.Status = StatusPlanned
	}
	return true, nil
}

type fixedCapacity int

func (c fixedCapacity) SeatCapacity(context.Context, types.ID) (int, error) {
	return int(c), nil
}

func emptyItinerary() *Itinerary {
	return &Itinerary{
		ID:        "it1",
		VehicleID: "v1",
		Stops:     []Stop{},
		Status:    StatusPending,
	}
}

func admitCmd(tripID string, pickupLng, dropoffLng float64, seats int) AdmitCommand {
	return AdmitCommand{
		ItineraryID: "it1",
		Insertion: InsertionRequest{
			TripID:  types.ID(tripID),
			Pickup:  pt(0, pickupLng),
			Dropoff: pt(0, dropoffLng),
			Seats:   seats,
		},
	}
}

func TestAdmit_CommitsPlanAndBumpsVersion(t *testing.T) {
	store := newMemStore(emptyItinerary())
	svc := NewService(store, NewPlanner(&gridOracle{}, 50), fixedCapacity(4), 3)

	res, err := svc.Admit(context.Background(), admitCmd("t1", 0, 5, 2))
	if err != nil {
		t.Fatal(err)
	}
	if res.Version != 1 {
		t.Fatalf("expected version 1, got %d", res.Version)
	}
	if len(res.Stops) != 2 {
		t.Fatalf("expected 2 stops, got %+v", res.Stops)
	}
	if store.itinerary.Status != StatusPlanned {
		t.Fatalf("first admission must move the itinerary to PLANNED, got %s", store.itinerary.Status)
	}
	if store.itinerary.DistanceEstimateMeters != res.AddedDistanceMeters {
		t.Fatalf("distance estimate not persisted: %d vs %d", store.itinerary.DistanceEstimateMeters, res.AddedDistanceMeters)
	}
	if res.DirectDistanceMeters != 5000 {
		t.Fatalf("expected direct distance 5000, got %d", res.DirectDistanceMeters)
	}
}

func TestAdmit_ReplansAfterLostRace(t *testing.T) {
	store := newMemStore(emptyItinerary())
	store.failNext = 1
	svc := NewService(store, NewPlanner(&gridOracle{}, 50), fixedCapacity(4), 3)

	res, err := svc.Admit(context.Background(), admitCmd("t1", 0, 5, 1))
	if err != nil {
		t.Fatal(err)
	}
	if res.Version != 1 {
		t.Fatalf("expected version 1 after replan, got %d", res.Version)
	}
	if store.gets != 2 || store.replaces != 2 {
		t.Fatalf("expected one replan (2 reads, 2 writes), got %d reads %d writes", store.gets, store.replaces)
	}
}

func TestAdmit_ExhaustsRetries(t *testing.T) {
	store := newMemStore(emptyItinerary())
	store.failNext = 3
	svc := NewService(store, NewPlanner(&gridOracle{}, 50), fixedCapacity(4), 3)

	_, err := svc.Admit(context.Background(), admitCmd("t1", 0, 5, 1))
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("error should carry the conflict cause, got %v", err)
	}
	if store.gets != 3 {
		t.Fatalf("expected 3 attempts, got %d", store.gets)
	}
}

func TestAdmit_ConcurrentAdmissionsBothLand(t *testing.T) {
	store := newMemStore(emptyItinerary())
	svc := NewService(store, NewPlanner(&gridOracle{}, 50), fixedCapacity(4), 3)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	cmds := []AdmitCommand{
		admitCmd("t1", 0, 5, 1),
		admitCmd("t2", 2, 7, 1),
	}
	for i := range cmds {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Admit(context.Background(), cmds[i])
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("admission %d failed: %v", i, err)
		}
	}
	if store.itinerary.Version != 2 {
		t.Fatalf("expected version 2 after two admissions, got %d", store.itinerary.Version)
	}
	if len(store.itinerary.Stops) != 4 {
		t.Fatalf("expected 4 stops, got %+v", store.itinerary.Stops)
	}
	byTrip := map[types.ID]int{}
	for i, st := range store.itinerary.Stops {
		if st.Order != i {
			t.Fatalf("orders not dense: %+v", store.itinerary.Stops)
		}
		byTrip[st.TripID]++
	}
	if byTrip["t1"] != 2 || byTrip["t2"] != 2 {
		t.Fatalf("each trip needs exactly one pickup and one drop-off: %+v", byTrip)
	}
}

func TestAdmit_TerminalItinerary(t *testing.T) {
	it := emptyItinerary()
	it.Status = StatusCompleted
	svc := NewService(newMemStore(it), NewPlanner(&gridOracle{}, 50), fixedCapacity(4), 3)

	_, err := svc.Admit(context.Background(), admitCmd("t1", 0, 5, 1))
	if !errors.Is(err, ErrTerminal) {
		t.Fatalf("expected ErrTerminal, got %v", err)
	}
}

func TestAdmit_PlannerErrorIsNotRetried(t *testing.T) {
	store := newMemStore(emptyItinerary())
	svc := NewService(store, NewPlanner(&gridOracle{}, 50), fixedCapacity(2), 3)

	_, err := svc.Admit(context.Background(), admitCmd("t1", 0, 5, 3))
	if !errors.Is(err, ErrNoFeasibleInsertion) {
		t.Fatalf("expected ErrNoFeasibleInsertion, got %v", err)
	}
	if store.gets != 1 {
		t.Fatalf("infeasible insertion must not be retried, got %d reads", store.gets)
	}
}

func TestOpen_CreatesEmptyPendingItinerary(t *testing.T) {
	store := newMemStore(nil)
	svc := NewService(store, NewPlanner(&gridOracle{}, 50), fixedCapacity(4), 3)

	it, err := svc.Open(context.Background(), "d1", "v1", "s1")
	if err != nil {
		t.Fatal(err)
	}
	if it.Status != StatusPending || it.Version != 0 || len(it.Stops) != 0 {
		t.Fatalf("bad initial itinerary: %+v", it)
	}
	if it.ID == "" {
		t.Fatal("missing generated id")
	}
}
