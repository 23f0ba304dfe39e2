package client

// AuthState is the tri-state authentication flag owned by the Controller.
// It is Unknown only until the first session check completes; every later
// check overwrites it outright.
type AuthState int

const (
	StateUnknown AuthState = iota
	StateAuthenticated
	StateUnauthenticated
)

func (s AuthState) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}
