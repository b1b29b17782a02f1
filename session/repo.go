package session

import (
	"context"
	"io"

	"github.com/flixreview/go-flixreview-client/tokens"
	"github.com/flixreview/go-flixreview-client/users"
)

// AuthAPI covers the account endpoints the Manager drives. The production
// implementation is RestAuthAPI; tests use the fake in apifakes.
type AuthAPI interface {
	// Login exchanges credentials for a token pair. The response carries no
	// profile fields beyond identifiers; callers fetch CurrentUser for the
	// full record.
	Login(ctx context.Context, email, password string) (tokens.Pair, error)

	// Register creates an account. It does not authenticate.
	Register(ctx context.Context, data users.RegisterData) (*users.User, error)

	// Logout revokes the refresh token server-side.
	Logout(ctx context.Context, refreshToken string) error

	// CurrentUser returns the authenticated user's full record.
	CurrentUser(ctx context.Context) (*users.User, error)

	// UpdateProfile applies a partial profile change and returns the server's
	// representation.
	UpdateProfile(ctx context.Context, update users.ProfileUpdate) (*users.User, error)

	// UpdateProfilePicture uploads a new avatar as multipart form data.
	UpdateProfilePicture(ctx context.Context, filename string, file io.Reader) (*users.User, error)

	// RefreshToken exchanges the refresh token for a fresh pair.
	RefreshToken(ctx context.Context, refreshToken string) (tokens.Pair, error)

	// ChangePassword rotates the account password.
	ChangePassword(ctx context.Context, change users.PasswordChange) error

	// DeleteAccount removes the account.
	DeleteAccount(ctx context.Context) error
}
