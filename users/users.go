package users

import (
	"time"

	"github.com/flixreview/go-flixreview-client/validation"
)

// User is the client-held copy of the server's user record. The server is
// authoritative: profile updates replace the whole struct with the returned
// representation rather than merging locally.
type User struct {
	ID                int        `json:"id,omitempty"`
	Email             string     `json:"email,omitempty"`
	Username          string     `json:"username,omitempty"`
	FirstName         string     `json:"first_name,omitempty"`
	LastName          string     `json:"last_name,omitempty"`
	Bio               string     `json:"bio,omitempty"`
	ProfilePictureURL string     `json:"profile_picture_url,omitempty"`
	PreferredGenres   []GenreRef `json:"preferred_genres,omitempty"`
	DateJoined        time.Time  `json:"date_joined,omitempty"`
}

// GenreRef is the slim genre representation embedded in user records and the
// preferred-genres response.
type GenreRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// RegisterData carries the registration form. Registration does not itself
// authenticate; a successful register is followed by a login with the same
// credentials.
type RegisterData struct {
	Email           string `json:"email" validate:"required,email"`
	Username        string `json:"username" validate:"required"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
	FirstName       string `json:"first_name,omitempty"`
	LastName        string `json:"last_name,omitempty"`
	Bio             string `json:"bio,omitempty"`
}

func (d RegisterData) Validate() error {
	return validation.Struct(d)
}

// ProfileUpdate is a partial profile change. Nil fields are left untouched
// server-side; email is read-only and deliberately absent.
type ProfileUpdate struct {
	Username  *string `json:"username,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Bio       *string `json:"bio,omitempty"`
}

// PasswordChange carries the change-password form.
type PasswordChange struct {
	OldPassword        string `json:"old_password" validate:"required"`
	NewPassword        string `json:"new_password" validate:"required,min=8"`
	NewPasswordConfirm string `json:"new_password_confirm" validate:"required,eqfield=NewPassword"`
}

func (p PasswordChange) Validate() error {
	return validation.Struct(p)
}

// UserList is the paginated /users/ response.
type UserList struct {
	Count    int    `json:"count"`
	Next     string `json:"next"`
	Previous string `json:"previous"`
	Results  []User `json:"results"`
}

// PreferredGenres is the /users/genres/ response, including the server-side
// update cooldown state.
type PreferredGenres struct {
	Genres                []GenreRef `json:"preferred_genres"`
	GenreIDs              []int      `json:"preferred_genre_ids"`
	LastUpdate            *time.Time `json:"last_genre_update"`
	CooldownActive        bool       `json:"cooldown_active"`
	NextUpdateAvailableAt *time.Time `json:"next_update_available_at"`
	DaysUntilNextUpdate   int        `json:"days_until_next_update"`
}
