package dto

type RosterImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

type UpsertUserRequest struct {
	Username      string `json:"username"`
	StudentNumber int    `json:"student_number"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Role          string `json:"role,omitempty"`
}
