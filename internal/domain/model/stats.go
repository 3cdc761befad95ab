package model

// BookStats are the per-status counts shown on an owner's dashboard.
type BookStats struct {
	Total     int `json:"total"`
	Available int `json:"available"`
	Rented    int `json:"rented"`
	Exchanged int `json:"exchanged"`
}

// ComputeStats counts books by status. It is recomputed from the full set
// after every change rather than adjusted incrementally.
func ComputeStats(books []Book) BookStats {
	s := BookStats{Total: len(books)}
	for _, b := range books {
		switch b.Status {
		case StatusAvailable:
			s.Available++
		case StatusRented:
			s.Rented++
		case StatusExchanged:
			s.Exchanged++
		}
	}
	return s
}
