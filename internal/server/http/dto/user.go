package dto

import (
	"time"

	"github.com/polkiloo/profilehub/internal/domain/model"
)

// RegisterForm is the multipart payload of POST /auth/register.
// The picture part is read separately.
type RegisterForm struct {
	FirstName  string   `form:"firstName"`
	LastName   string   `form:"lastName"`
	Email      string   `form:"email"`
	Password   string   `form:"password"`
	Friends    []string `form:"friends"`
	Location   string   `form:"location"`
	Occupation string   `form:"occupation"`
}

// Profile returns the client supplied profile part of the form.
func (f RegisterForm) Profile() model.Profile {
	return model.Profile{
		FirstName:  f.FirstName,
		LastName:   f.LastName,
		Email:      f.Email,
		Friends:    f.Friends,
		Location:   f.Location,
		Occupation: f.Occupation,
	}
}

// UserResponse is the public view of a registered user.
type UserResponse struct {
	ID            string    `json:"_id"`
	FirstName     string    `json:"firstName"`
	LastName      string    `json:"lastName"`
	Email         string    `json:"email"`
	PicturePath   *string   `json:"picturePath"`
	Friends       []string  `json:"friends"`
	Location      string    `json:"location"`
	Occupation    string    `json:"occupation"`
	ViewedProfile int       `json:"viewedProfile"`
	Impressions   int       `json:"impressions"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// NewUserResponse converts a domain user, leaving the password hash out.
func NewUserResponse(u *model.User) UserResponse {
	resp := UserResponse{
		ID:            u.ID,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Email:         u.Email,
		PicturePath:   u.PicturePath,
		Friends:       u.Friends,
		Location:      u.Location,
		Occupation:    u.Occupation,
		ViewedProfile: u.ViewedProfile,
		Impressions:   u.Impressions,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
	if resp.Friends == nil {
		resp.Friends = []string{}
	}
	return resp
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message"`
	Fields  []string `json:"fields,omitempty"`
}
