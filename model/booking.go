package model

import "time"

type BookingKind string

const (
	BookingKindMovie BookingKind = "movie"
	BookingKindEvent BookingKind = "event"
)

// BookingRecord is a completed booking kept in the local history.
type BookingRecord struct {
	Reference  string      `json:"reference"`
	UserId     int64       `json:"userId"`
	Kind       BookingKind `json:"kind"`
	TargetId   string      `json:"targetId"`
	Title      string      `json:"title"`
	Venue      string      `json:"venue"`
	Schedule   time.Time   `json:"schedule"`
	Items      []string    `json:"items"`
	TotalPrice float64     `json:"totalPrice"`
	BookedAt   time.Time   `json:"bookedAt"`
}

type WishlistItem struct {
	Kind     BookingKind `json:"kind"`
	TargetId string      `json:"targetId"`
	Title    string      `json:"title"`
	AddedAt  time.Time   `json:"addedAt"`
}
