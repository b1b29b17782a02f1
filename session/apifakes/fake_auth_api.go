package apifakes

import (
	"context"
	"io"
	"sync"

	"github.com/flixreview/go-flixreview-client/api"
	"github.com/flixreview/go-flixreview-client/internal/utils"
	"github.com/flixreview/go-flixreview-client/session"
	"github.com/flixreview/go-flixreview-client/tokens"
	"github.com/flixreview/go-flixreview-client/users"
)

var _ session.AuthAPI = (*FakeAuthAPI)(nil)

// FakeAuthAPI implements session.AuthAPI in memory. Accounts registered via
// Register (or seeded with AddAccount) can log in; error fields inject
// failures per method for the unhappy paths.
type FakeAuthAPI struct {
	lock     sync.Mutex
	accounts map[string]account
	nextID   int

	// Session state: set after a successful Login, used by CurrentUser.
	authenticatedEmail string

	// Error injection
	LoginErr       error
	RegisterErr    error
	LogoutErr      error
	CurrentUserErr error
	UpdateErr      error
	RefreshErr     error
	PasswordErr    error
	DeleteErr      error

	// Call counts
	LoginCalls       int
	RegisterCalls    int
	LogoutCalls      int
	CurrentUserCalls int
	RefreshCalls     int
}

type account struct {
	password string
	user     users.User
}

func NewFakeAuthAPI() *FakeAuthAPI {
	return &FakeAuthAPI{
		accounts: make(map[string]account),
		nextID:   1,
	}
}

// AddAccount seeds an account that can log in with the given password.
func (f *FakeAuthAPI) AddAccount(user users.User, password string) {
	f.lock.Lock()
	defer f.lock.Unlock()
	if user.ID == 0 {
		user.ID = f.nextID
		f.nextID++
	}
	f.accounts[user.Email] = account{password: password, user: user}
}

// Authenticate marks an email as the bearer-token identity, as if a prior
// login's token were stored.
func (f *FakeAuthAPI) Authenticate(email string) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.authenticatedEmail = email
}

func (f *FakeAuthAPI) Login(_ context.Context, email, password string) (tokens.Pair, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	f.LoginCalls++
	if f.LoginErr != nil {
		return tokens.Pair{}, f.LoginErr
	}
	acc, ok := f.accounts[email]
	if !ok || acc.password != password {
		return tokens.Pair{}, &api.AuthError{Message: "No active account found with the given credentials"}
	}
	f.authenticatedEmail = email
	return tokens.Pair{Access: "access-" + email, Refresh: "refresh-" + email}, nil
}

func (f *FakeAuthAPI) Register(_ context.Context, data users.RegisterData) (*users.User, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	f.RegisterCalls++
	if f.RegisterErr != nil {
		return nil, f.RegisterErr
	}
	if _, exists := f.accounts[data.Email]; exists {
		return nil, &api.ServerValidationError{
			StatusCode: 400,
			Fields:     map[string][]string{"email": {"user with this email already exists."}},
		}
	}
	user := users.User{
		ID:        f.nextID,
		Email:     data.Email,
		Username:  data.Username,
		FirstName: data.FirstName,
		LastName:  data.LastName,
		Bio:       data.Bio,
	}
	f.nextID++
	f.accounts[data.Email] = account{password: data.Password, user: user}
	return utils.Ptr(user), nil
}

func (f *FakeAuthAPI) Logout(_ context.Context, _ string) error {
	f.lock.Lock()
	defer f.lock.Unlock()

	f.LogoutCalls++
	if f.LogoutErr != nil {
		return f.LogoutErr
	}
	f.authenticatedEmail = ""
	return nil
}

func (f *FakeAuthAPI) CurrentUser(_ context.Context) (*users.User, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	f.CurrentUserCalls++
	if f.CurrentUserErr != nil {
		return nil, f.CurrentUserErr
	}
	acc, ok := f.accounts[f.authenticatedEmail]
	if !ok {
		return nil, &api.AuthError{Message: "Authentication credentials were not provided"}
	}
	return utils.Ptr(acc.user), nil
}

func (f *FakeAuthAPI) UpdateProfile(_ context.Context, update users.ProfileUpdate) (*users.User, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	if f.UpdateErr != nil {
		return nil, f.UpdateErr
	}
	acc, ok := f.accounts[f.authenticatedEmail]
	if !ok {
		return nil, &api.AuthError{}
	}
	if update.Username != nil {
		acc.user.Username = *update.Username
	}
	if update.FirstName != nil {
		acc.user.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		acc.user.LastName = *update.LastName
	}
	if update.Bio != nil {
		acc.user.Bio = *update.Bio
	}
	f.accounts[f.authenticatedEmail] = acc
	return utils.Ptr(acc.user), nil
}

func (f *FakeAuthAPI) UpdateProfilePicture(_ context.Context, filename string, _ io.Reader) (*users.User, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	if f.UpdateErr != nil {
		return nil, f.UpdateErr
	}
	acc, ok := f.accounts[f.authenticatedEmail]
	if !ok {
		return nil, &api.AuthError{}
	}
	acc.user.ProfilePictureURL = "https://cdn.example.com/avatars/" + filename
	f.accounts[f.authenticatedEmail] = acc
	return utils.Ptr(acc.user), nil
}

func (f *FakeAuthAPI) RefreshToken(_ context.Context, refreshToken string) (tokens.Pair, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	f.RefreshCalls++
	if f.RefreshErr != nil {
		return tokens.Pair{}, f.RefreshErr
	}
	return tokens.Pair{Access: "rotated-" + refreshToken}, nil
}

func (f *FakeAuthAPI) ChangePassword(_ context.Context, change users.PasswordChange) error {
	f.lock.Lock()
	defer f.lock.Unlock()

	if f.PasswordErr != nil {
		return f.PasswordErr
	}
	acc, ok := f.accounts[f.authenticatedEmail]
	if !ok {
		return &api.AuthError{}
	}
	if acc.password != change.OldPassword {
		return &api.ServerValidationError{
			StatusCode: 400,
			Detail:     "Old password is incorrect",
		}
	}
	acc.password = change.NewPassword
	f.accounts[f.authenticatedEmail] = acc
	return nil
}

func (f *FakeAuthAPI) DeleteAccount(_ context.Context) error {
	f.lock.Lock()
	defer f.lock.Unlock()

	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	delete(f.accounts, f.authenticatedEmail)
	f.authenticatedEmail = ""
	return nil
}
