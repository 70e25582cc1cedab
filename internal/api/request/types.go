package request

// LoginRequest is the request body for logging in. Identity accepts a
// username or a phone number.
type LoginRequest struct {
	Identity string `json:"identity"`
	Password string `json:"password"`
}

// SendCodeRequest is the request body for requesting a verification code
type SendCodeRequest struct {
	Phone string `json:"phone"`
}
