package model

import "time"

// User represents a registered member profile.
type User struct {
	ID            string
	FirstName     string
	LastName      string
	Email         string
	PasswordHash  string
	PicturePath   *string
	Friends       []string
	Location      string
	Occupation    string
	ViewedProfile int
	Impressions   int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Profile carries the client-supplied part of a registration.
type Profile struct {
	FirstName  string
	LastName   string
	Email      string
	Friends    []string
	Location   string
	Occupation string
}
