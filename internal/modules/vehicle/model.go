// README: Vehicle and category models.
package vehicle

import "shuttle/internal/types"

type Vehicle struct {
	ID         types.ID
	CategoryID types.ID
	Plate      string
	SeatCount  int
}

type Category struct {
	ID         types.ID
	Name       string
	SeatCount  int
	HourlyRate types.Money
}
