package domain

import "time"

// Room is a bookable physical resource.
type Room struct {
	ID          string
	Name        string
	Building    string
	FloorNumber int
	Capacity    int
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
