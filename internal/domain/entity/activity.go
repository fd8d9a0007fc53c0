package entity

import "time"

// Activity one menu interaction
type Activity struct {
	ID        string
	Action    string // "add", "find", "update", "save", ...
	Details   string
	Failed    bool
	Timestamp time.Time
}
