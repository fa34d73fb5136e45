package tracker

// RawEvent is a single swipe event as returned by the upstream attendance
// API. Many fields may be empty; validation happens in the presence engine.
type RawEvent struct {
	Department string `json:"deptName"`
	Pin        string `json:"pin"`
	DeviceName string `json:"devName"`
	EventTime  string `json:"eventTime"` // "2006-01-02 15:04:05", no timezone
	Name       string `json:"name"`
	EventName  string `json:"eventName"`
}

// ApiResponse models the top-level structure of the upstream API's response.
type ApiResponse struct {
	Data []RawEvent `json:"data"`
}
