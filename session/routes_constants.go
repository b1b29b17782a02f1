package session

// Navigation destinations triggered by session transitions.
const (
	RouteMovies = "/movies"
	RouteLogin  = "/login"
)
