package mongo

import (
	"time"

	"github.com/polkiloo/profilehub/internal/domain/model"
)

// userDocument is the persisted shape of a user.
type userDocument struct {
	ID            string    `bson:"_id"`
	FirstName     string    `bson:"firstName"`
	LastName      string    `bson:"lastName"`
	Email         string    `bson:"email"`
	PasswordHash  string    `bson:"password"`
	PicturePath   *string   `bson:"picturePath"`
	Friends       []string  `bson:"friends"`
	Location      string    `bson:"location"`
	Occupation    string    `bson:"occupation"`
	ViewedProfile int       `bson:"viewedProfile"`
	Impressions   int       `bson:"impressions"`
	CreatedAt     time.Time `bson:"createdAt"`
	UpdatedAt     time.Time `bson:"updatedAt"`
}

func toDocument(u *model.User) userDocument {
	friends := u.Friends
	if friends == nil {
		friends = []string{}
	}
	return userDocument{
		ID:            u.ID,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Email:         u.Email,
		PasswordHash:  u.PasswordHash,
		PicturePath:   u.PicturePath,
		Friends:       friends,
		Location:      u.Location,
		Occupation:    u.Occupation,
		ViewedProfile: u.ViewedProfile,
		Impressions:   u.Impressions,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}
