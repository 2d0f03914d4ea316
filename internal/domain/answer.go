package domain

// Answer is the terminal artifact of one request. GroundedOn carries the
// source document ids the answer was conditioned on.
type Answer struct {
	Text       string
	GroundedOn []string
}
