package entries

import "time"

type Entry struct {
	ID        string
	OwnerID   string
	Title     string
	Date      string
	CreatedAt time.Time
}
