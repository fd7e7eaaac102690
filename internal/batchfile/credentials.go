package batchfile

import (
	"encoding/csv"
	"io"

	"github.com/coach-video-admin/internal/models"
)

// CredentialsFilename is the download name of the generated logins
const CredentialsFilename = "coach_logins.csv"

// WriteCredentials writes name,email,password rows with a header
func WriteCredentials(w io.Writer, creds []models.Credential) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"name", "email", "password"}); err != nil {
		return err
	}
	for _, c := range creds {
		if err := writer.Write([]string{c.Name, c.Email, c.Password}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
