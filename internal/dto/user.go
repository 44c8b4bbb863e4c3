package dto

// UserResponse represents a resolved user together with its bearer token
type UserResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt"`
	Exists    bool   `json:"exists"`
	Token     string `json:"token"`
}

// UserEnvelopeData is the payload of POST /users/find-or-create
type UserEnvelopeData struct {
	User    UserResponse `json:"user"`
	Message string       `json:"message"`
}

// CheckUserData is the payload of GET /users/check/:email
type CheckUserData struct {
	Exists  bool   `json:"exists"`
	Message string `json:"message"`
}

// FindOrCreateUserRequest is the body of POST /users/find-or-create
type FindOrCreateUserRequest struct {
	Email string `json:"email"`
}
