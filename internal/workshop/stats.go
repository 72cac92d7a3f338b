package workshop

// Stats summarizes the production pipeline.
type Stats struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Completed int `json:"completed"`
}

// ComputeStats derives pipeline counts from an order set. Active means
// any status short of delivered, so Active+Completed always equals Total.
func ComputeStats(orders []WorkOrder) Stats {
	s := Stats{Total: len(orders)}
	for i := range orders {
		if orders[i].Completed() {
			s.Completed++
		} else {
			s.Active++
		}
	}
	return s
}
