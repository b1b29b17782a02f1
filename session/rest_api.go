package session

import (
	"context"
	"io"

	"github.com/pkg/errors"

	"github.com/flixreview/go-flixreview-client/api"
	"github.com/flixreview/go-flixreview-client/tokens"
	"github.com/flixreview/go-flixreview-client/users"
)

var _ AuthAPI = (*RestAuthAPI)(nil)

// RestAuthAPI implements AuthAPI against the /accounts/ endpoints.
type RestAuthAPI struct {
	api *api.Client
}

func NewRestAuthAPI(client *api.Client) *RestAuthAPI {
	return &RestAuthAPI{api: client}
}

// loginResponse is the token endpoint's payload. user_id/username/email ride
// along but the full profile requires a CurrentUser call.
type loginResponse struct {
	Access   string `json:"access"`
	Refresh  string `json:"refresh"`
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (r *RestAuthAPI) Login(ctx context.Context, email, password string) (tokens.Pair, error) {
	payload := map[string]string{"email": email, "password": password}
	resp := loginResponse{}
	if err := r.api.Post(ctx, "/accounts/login/", payload, &resp); err != nil {
		return tokens.Pair{}, err
	}
	return tokens.Pair{Access: resp.Access, Refresh: resp.Refresh}, nil
}

func (r *RestAuthAPI) Register(ctx context.Context, data users.RegisterData) (*users.User, error) {
	user := &users.User{}
	if err := r.api.Post(ctx, "/accounts/register/", data, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (r *RestAuthAPI) Logout(ctx context.Context, refreshToken string) error {
	payload := map[string]string{"refresh": refreshToken}
	return r.api.Post(ctx, "/accounts/logout/", payload, nil)
}

func (r *RestAuthAPI) CurrentUser(ctx context.Context) (*users.User, error) {
	user := &users.User{}
	if err := r.api.Get(ctx, "/accounts/me/", nil, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (r *RestAuthAPI) UpdateProfile(ctx context.Context, update users.ProfileUpdate) (*users.User, error) {
	user := &users.User{}
	if err := r.api.Patch(ctx, "/accounts/me/", update, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (r *RestAuthAPI) UpdateProfilePicture(ctx context.Context, filename string, file io.Reader) (*users.User, error) {
	user := &users.User{}
	if err := r.api.PatchMultipart(ctx, "/accounts/me/", nil, "profile_picture", filename, file, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (r *RestAuthAPI) RefreshToken(ctx context.Context, refreshToken string) (tokens.Pair, error) {
	payload := map[string]string{"refresh": refreshToken}
	resp := loginResponse{}
	if err := r.api.Post(ctx, "/accounts/token/refresh/", payload, &resp); err != nil {
		return tokens.Pair{}, err
	}
	if resp.Access == "" {
		return tokens.Pair{}, errors.New("[RestAuthAPI.RefreshToken] response carried no access token")
	}
	return tokens.Pair{Access: resp.Access, Refresh: resp.Refresh}, nil
}

func (r *RestAuthAPI) ChangePassword(ctx context.Context, change users.PasswordChange) error {
	return r.api.Post(ctx, "/accounts/change-password/", change, nil)
}

func (r *RestAuthAPI) DeleteAccount(ctx context.Context) error {
	return r.api.Delete(ctx, "/accounts/delete-account/", nil)
}
