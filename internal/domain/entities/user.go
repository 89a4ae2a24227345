package entities

// User is a registered account. The core only consumes UserID and Username;
// the credential fields are owned by the auth service.
type User struct {
	UserID           int    `json:"user_id"`
	Username         string `json:"username"`
	HashedPassword   string `json:"hashed_password"`
	Salt             string `json:"salt"`
	RegistrationDate string `json:"registration_date"`
}
