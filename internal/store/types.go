package store

// PersonDetail is the enrichment record attached to each person currently
// inside a zone. Field names match the wire format the display layer
// consumes.
type PersonDetail struct {
	Name       string `json:"name"`
	ID         string `json:"id"`   // badge pin
	Time       string `json:"time"` // last transition time, as reported upstream
	Gender     string `json:"gender"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Plate      string `json:"plat"`
	Birthday   string `json:"birthday"`
	EmployeeNo string `json:"nipeg"`
}

// PersonList wraps the inside-person details of one department.
type PersonList struct {
	Data []PersonDetail `json:"data"`
}

// DepartmentSummary holds the movement counts for a single department.
type DepartmentSummary struct {
	Department    string     `json:"dept"`
	InCount       int        `json:"in"`
	OutCount      int        `json:"out"`
	CurrentInside int        `json:"cur"`
	Persons       PersonList `json:"person"`
}

// ZoneSummary is the unit persisted per zone and served to clients.
// When Offline is true all counts are zero and Departments is empty; it
// is a sentinel, never a partial result.
type ZoneSummary struct {
	Offline            bool                `json:"offline"`
	TotalIn            int                 `json:"totalin"`
	TotalOut           int                 `json:"totalout"`
	TotalCurrentInside int                 `json:"totalcur"`
	Departments        []DepartmentSummary `json:"data"`
}

// OfflineSummary returns the sentinel summary for an unreachable upstream.
func OfflineSummary() ZoneSummary {
	return ZoneSummary{Offline: true, Departments: []DepartmentSummary{}}
}
