package model

// Principal is the authenticated caller. Email is the only basis for
// authorization and is compared case-sensitively.
type Principal struct {
	Email string
}
