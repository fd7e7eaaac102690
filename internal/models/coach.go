package models

// Coach is a directory account that can be assigned to videos
type Coach struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Roster is the sorted list of active coaches.
// Names and Emails are parallel to Coaches and share its ordering.
type Roster struct {
	Coaches []Coach  `json:"coaches"`
	Names   []string `json:"names"`
	Emails  []string `json:"emails"`
}

// EmailSet returns the roster emails as a set
func (r *Roster) EmailSet() map[string]bool {
	set := make(map[string]bool, len(r.Emails))
	for _, email := range r.Emails {
		set[email] = true
	}
	return set
}

// CoachGroup is a named default selection of coaches
type CoachGroup struct {
	Name    string  `json:"name"`
	Coaches []Coach `json:"coaches"`
}

// UploadRow is one row of an uploaded coach roster file
type UploadRow struct {
	Line  int    `json:"line"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UploadBatch is a parsed roster file
type UploadBatch struct {
	Filename string      `json:"filename"`
	Rows     []UploadRow `json:"rows"`
}

// Credential is a generated login for a newly created coach.
// It is handed back once and never stored.
type Credential struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"-"`
}

// ItemError is a failure on a single item of a bulk operation
type ItemError struct {
	Item    string `json:"item"`
	Message string `json:"message"`
}

// OnboardOutcome describes how an onboarding batch ended
type OnboardOutcome string

const (
	OnboardCreated      OnboardOutcome = "created"
	OnboardNoNewCoaches OnboardOutcome = "no_new_coaches"
	OnboardRejected     OnboardOutcome = "rejected"
	// OnboardFailed means new coaches were found but no account could be created
	OnboardFailed OnboardOutcome = "failed"
)

// OnboardResult is the outcome of importing an upload batch
type OnboardResult struct {
	Outcome     OnboardOutcome `json:"outcome"`
	JobID       string         `json:"job_id,omitempty"`
	Invalid     []string       `json:"invalid_emails,omitempty"`
	Credentials []Credential   `json:"created,omitempty"`
	Failures    []ItemError    `json:"failures,omitempty"`
}

// OffboardResult is the outcome of deleting coach accounts
type OffboardResult struct {
	JobID    string      `json:"job_id,omitempty"`
	Deleted  []string    `json:"deleted"`
	Failures []ItemError `json:"failures,omitempty"`
}
