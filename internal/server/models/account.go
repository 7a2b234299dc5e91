package models

// Account is a user record. The same shape backs both confirmed accounts
// and pending signups; Confirmed tells them apart.
type Account struct {
	ID           string `json:"_id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Name         string `json:"name"`
	Confirmed    bool   `json:"confirmed"`
}

// Profile is the part of an account returned to clients after sign-in
// or confirmation, together with a session token.
type Profile struct {
	Token     string `json:"token"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Confirmed bool   `json:"confirmed"`
}

// NewProfile pairs an account with a freshly issued session token.
func NewProfile(a *Account, token string) *Profile {
	return &Profile{
		Token:     token,
		Name:      a.Name,
		Email:     a.Email,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Confirmed: a.Confirmed,
	}
}

// SignUpRequest is the sign-up payload.
type SignUpRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Name      string `json:"name"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
