package domain

// ConsistencyScore is the number of completion records a user owns.
// Available is false when the count could not be read; Value is then 0.
type ConsistencyScore struct {
	Value     int  `json:"score"`
	Available bool `json:"available"`
}
