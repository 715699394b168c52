package test

import (
	"bytes"
	"io"

	"github.com/polkiloo/profilehub/internal/domain/model"
)

// NewUpload returns an in-memory upload with the given name and content.
func NewUpload(filename string, content []byte) *model.Upload {
	return &model.Upload{
		Filename:    filename,
		ContentType: "application/octet-stream",
		Size:        int64(len(content)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(content)), nil
		},
	}
}

// ValidProfile returns a profile passing all registration checks.
func ValidProfile(email string) model.Profile {
	return model.Profile{
		FirstName:  "Ada",
		LastName:   "Lovelace",
		Email:      email,
		Location:   "London",
		Occupation: "Analyst",
	}
}
