package cli

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/votofacil/votofacil/internal/models"
)

// ParseVotersCSV reads a voter roster in "name,access_code" form. A header
// row is recognized by its first field and skipped; rows with empty fields
// are rejected with the row number.
func ParseVotersCSV(r io.Reader) ([]models.Voter, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 2
	cr.TrimLeadingSpace = true

	var voters []models.Voter
	row := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading roster: %w", err)
		}
		row++

		if row == 1 && strings.EqualFold(strings.TrimSpace(rec[0]), "name") {
			continue
		}

		name := strings.TrimSpace(rec[0])
		code := strings.TrimSpace(rec[1])
		if name == "" || code == "" {
			return nil, fmt.Errorf("row %d: name and access code are required", row)
		}

		voters = append(voters, models.Voter{Name: name, AccessCode: code})
	}

	return voters, nil
}
