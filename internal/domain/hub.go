package domain

// A fixed logistics location (distribution point) with a persisted coordinate.
// Hubs are read-only inputs to ranking; they are owned and mutated by the
// persistence layer. Hubs without a coordinate are excluded from ranking.
type Hub struct {
	ID      string
	Name    string
	Code    string
	City    string
	Country string
	Coord   *Coordinate
	Active  bool
}

// Rankable reports whether the hub can participate in distance ranking.
func (h Hub) Rankable() bool {
	return h.Active && h.Coord != nil && h.Coord.Valid()
}
