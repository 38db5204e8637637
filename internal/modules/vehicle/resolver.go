// README: Groups conflict-free schedules into vehicle-category options.
package vehicle

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"shuttle/internal/modules/schedule"
	"shuttle/internal/types"
)

var ErrInsufficientAvailability = errors.New("insufficient vehicle availability")

// Source is the slice of the store the resolver needs.
type Source interface {
	FindByIDs(ctx context.Context, ids []types.ID) ([]*Vehicle, error)
	FindCategoriesByIDs(ctx context.Context, ids []types.ID) (map[types.ID]*Category, error)
}

// CategoryOption is one bookable vehicle category with its available units.
type CategoryOption struct {
	CategoryID     types.ID    `json:"category_id"`
	Name           string      `json:"name"`
	SeatCount      int         `json:"seat_count"`
	AvailableCount int         `json:"available_count"`
	VehicleIDs     []types.ID  `json:"vehicle_ids"`
	PricePerHour   types.Money `json:"price_per_hour"`
}

type Resolver struct {
	source Source
}

func NewResolver(source Source) *Resolver {
	return &Resolver{source: source}
}

// GroupByCategory resolves each schedule's vehicle, groups distinct
// vehicles by category, and returns the options sorted by available count
// descending then category name ascending. Running it twice over the same
// input yields identical output. When no category reaches requestedUnits
// the error wraps the partial grouping so callers can offer alternatives.
func (r *Resolver) GroupByCategory(ctx context.Context, schedules []*schedule.DriverSchedule, requestedUnits int) ([]CategoryOption, error) {
	if requestedUnits < 1 {
		requestedUnits = 1
	}

	seen := make(map[types.ID]bool)
	var vehicleIDs []types.ID
	for _, ds := range schedules {
		if !seen[ds.VehicleID] {
			seen[ds.VehicleID] = true
			vehicleIDs = append(vehicleIDs, ds.VehicleID)
		}
	}
	if len(vehicleIDs) == 0 {
		return nil, fmt.Errorf("%w: no vehicles on conflict-free schedules", ErrInsufficientAvailability)
	}

	vehicles, err := r.source.FindByIDs(ctx, vehicleIDs)
	if err != nil {
		return nil, err
	}

	byCategory := make(map[types.ID][]types.ID)
	var categoryIDs []types.ID
	for _, v := range vehicles {
		if _, ok := byCategory[v.CategoryID]; !ok {
			categoryIDs = append(categoryIDs, v.CategoryID)
		}
		byCategory[v.CategoryID] = append(byCategory[v.CategoryID], v.ID)
	}

	categories, err := r.source.FindCategoriesByIDs(ctx, categoryIDs)
	if err != nil {
		return nil, err
	}

	options := make([]CategoryOption, 0, len(byCategory))
	for catID, ids := range byCategory {
		cat, ok := categories[catID]
		if !ok {
			continue
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		options = append(options, CategoryOption{
			CategoryID:     catID,
			Name:           cat.Name,
			SeatCount:      cat.SeatCount,
			AvailableCount: len(ids),
			VehicleIDs:     ids,
			PricePerHour:   cat.HourlyRate,
		})
	}
	sort.Slice(options, func(i, j int) bool {
		if options[i].AvailableCount != options[j].AvailableCount {
			return options[i].AvailableCount > options[j].AvailableCount
		}
		return options[i].Name < options[j].Name
	})

	for _, opt := range options {
		if opt.AvailableCount >= requestedUnits {
			return options, nil
		}
	}
	return options, fmt.Errorf("%w: no category offers %d units", ErrInsufficientAvailability, requestedUnits)
}
