package domain

// Question is one entry in the static catalog offered during registration.
type Question struct {
	ID   int64
	Text string
}
