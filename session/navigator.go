package session

// Navigator receives the navigation side effects of session transitions:
// RouteMovies after a successful login, RouteLogin after logout. The UI layer
// supplies the real implementation.
type Navigator interface {
	NavigateTo(route string)
}

// NopNavigator discards navigation, for headless use and tests.
type NopNavigator struct{}

func (NopNavigator) NavigateTo(string) {}
