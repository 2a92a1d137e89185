package model

import "time"

type Movie struct {
	Id       string   `json:"id"`
	Title    string   `json:"title"`
	Genres   []string `json:"genres"`
	Language string   `json:"language"`
	Duration string   `json:"duration"`
	Rating   float64  `json:"rating"`
	Synopsis string   `json:"synopsis"`
	Shows    []Show   `json:"shows"`
}

type Show struct {
	Id           string     `json:"id"`
	Theatre      string     `json:"theatre"`
	Screen       string     `json:"screen"`
	Format       string     `json:"format"`
	StartsAt     time.Time  `json:"startsAt"`
	Price        float64    `json:"price"`
	PremiumPrice float64    `json:"premiumPrice"`
	Layout       SeatLayout `json:"layout"`
}

// SeatLayout describes a rectangular auditorium. Seat ids are the row
// letter followed by the 1-based column ("A1", "C12").
type SeatLayout struct {
	Rows        []string `json:"rows"`
	Columns     int      `json:"columns"`
	Aisles      []int    `json:"aisles"`
	PremiumRows []string `json:"premiumRows"`
	Booked      []string `json:"booked"`
	Blocked     []string `json:"blocked"`
}

type Event struct {
	Id          string      `json:"id"`
	Title       string      `json:"title"`
	Category    string      `json:"category"`
	Venue       string      `json:"venue"`
	City        string      `json:"city"`
	Description string      `json:"description"`
	Dates       []EventDate `json:"dates"`
	Zones       []Zone      `json:"zones"`
}

type EventDate struct {
	Id       string    `json:"id"`
	StartsAt time.Time `json:"startsAt"`
}

type Zone struct {
	Id         string  `json:"id"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Capacity   int     `json:"capacity"`
	Available  int     `json:"available"`
	MaxPerUser int     `json:"maxPerUser"`
}
