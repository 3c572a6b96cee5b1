package dto

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Status     string `json:"status"`
	SessionId  string `json:"session_id,omitempty"`
	Token      string `json:"token,omitempty"`
	Name       string `json:"name,omitempty"`
	Role       string `json:"role,omitempty"`
	CourseName string `json:"course_name,omitempty"`
}

type SessionStatusResponse struct {
	Status         string `json:"status"`
	Username       string `json:"username,omitempty"`
	FailedAttempts int    `json:"failed_attempts"`
}
