package session

type Status int

const (
	StatusAnonymous Status = iota
	StatusInitializing
	StatusAuthenticated
	StatusRefreshing
)

func (s Status) String() string {
	switch s {
	case StatusInitializing:
		return "initializing"
	case StatusAuthenticated:
		return "authenticated"
	case StatusRefreshing:
		return "refreshing"
	default:
		return "anonymous"
	}
}

// State is a snapshot of a Manager's session. Empty strings mean no token.
type State struct {
	AccessToken  string
	RefreshToken string
	Profile      *Profile
	User         *User
	Initializing bool
	Refreshing   bool
}

func (s State) Status() Status {
	switch {
	case s.Initializing:
		return StatusInitializing
	case s.Refreshing:
		return StatusRefreshing
	case s.AccessToken != "" || s.RefreshToken != "":
		return StatusAuthenticated
	default:
		return StatusAnonymous
	}
}

// StaffVerified is true only once a profile load has confirmed the staff bit.
func (s State) StaffVerified() bool {
	return (s.AccessToken != "" || s.RefreshToken != "") && s.User != nil && s.User.IsStaff
}
