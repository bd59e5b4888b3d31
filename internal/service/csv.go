package service

import (
	"database/sql"
	"encoding/csv"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/ArtemKoshovyi/contacts-manager/internal/model"
)

// csvHeader is the column layout of both the import and the export format.
// On import the status column is optional and defaults to "New"; on export
// it carries the status category name. The created_at column is export-only.
var csvHeader = []string{"first_name", "last_name", "phone_number", "email", "city", "status", "created_at"}

// csvTimeFormat is how created_at is written on export: date and time down
// to the minute, stored time as-is.
const csvTimeFormat = "2006-01-02 15:04"

// defaultStatusName is assigned to imported rows without a status column.
const defaultStatusName = "New"

// importResult reports what a CSV import did.
type importResult struct {
	Created int
	Skipped int
}

// importContactsCsv reads a CSV file with a header row and creates one
// contact per row. Values are trimmed and validated with the same rules as
// the form and the API; rows that fail validation, lack required columns or
// collide with an existing phone number or email are skipped and counted.
// Status categories named by the file are created on the fly.
//
// The whole import runs in a single transaction: a skipped row never aborts
// the import, but an infrastructure failure rolls back everything.
func importContactsCsv(r io.Reader) (importResult, error) {
	var result importResult

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err == io.EOF {
		return result, nil
	}
	if err != nil {
		return result, err
	}
	column := map[string]int{}
	for i, name := range header {
		column[strings.TrimSpace(name)] = i
	}

	tx, err := db.Beginx()
	if err != nil {
		return result, err
	}
	defer tx.Rollback()

	// statusIds memoizes get-or-create per status name within this import.
	statusIds := map[string]int64{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Skipped++
			continue
		}
		field := func(name string) string {
			i, ok := column[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		firstName := field("first_name")
		lastName := field("last_name")
		phone := field("phone_number")
		email := field("email")
		city := field("city")
		statusName := field("status")
		if statusName == "" {
			statusName = defaultStatusName
		}

		in := model.ContactInput{
			FirstName: &firstName,
			LastName:  &lastName,
			Phone:     &phone,
			Email:     &email,
			City:      &city,
			Status:    &statusName,
		}
		if errs := validateContactInput(&in, false); len(errs) > 0 {
			result.Skipped++
			continue
		}

		statusId, ok := statusIds[statusName]
		if !ok {
			statusId, err = getOrCreateStatus(tx, statusName)
			if err != nil {
				return result, err
			}
			statusIds[statusName] = statusId
		}

		_, err = tx.Exec(`
			INSERT INTO contacts (firstname, lastname, phone, email, city, status_id, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			*in.FirstName, *in.LastName, *in.Phone, *in.Email, *in.City, statusId, time.Now().UTC())
		if err != nil {
			if isDuplicateEntryError(err) {
				result.Skipped++
				continue
			}
			return result, err
		}
		result.Created++
	}

	if err := tx.Commit(); err != nil {
		return result, err
	}
	return result, nil
}

// getOrCreateStatus returns the id of the status category with the given
// name, creating it inside the import transaction if it does not exist yet.
func getOrCreateStatus(tx *sqlx.Tx, name string) (int64, error) {
	var id int64
	err := tx.Get(&id, `SELECT id FROM statuses WHERE name = ?`, name)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}
	result, err := tx.Exec(`INSERT INTO statuses (name) VALUES (?)`, name)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// importPage renders the CSV upload form.
func importPage(c *gin.Context) {
	c.HTML(http.StatusOK, "import_form.html", gin.H{})
}

// importSubmit processes the uploaded CSV file and reports how many contacts
// were created and how many rows were skipped.
func importSubmit(c *gin.Context) {
	fileHeader, err := c.FormFile("csv_file")
	if err != nil {
		c.HTML(http.StatusOK, "import_form.html", gin.H{"Error": "please choose a CSV file"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		abortInternal(c, err)
		return
	}
	defer file.Close()

	result, err := importContactsCsv(file)
	if err != nil {
		abortInternal(c, err)
		return
	}
	c.HTML(http.StatusOK, "import_result.html", gin.H{
		"Created": result.Created,
		"Skipped": result.Skipped,
	})
}

// exportContactsCsv streams all contacts, newest first, as a CSV download.
//
//	> curl http://localhost:8080/export/
func exportContactsCsv(c *gin.Context) {
	contacts, err := queryContacts("", "")
	if err != nil {
		abortInternal(c, err)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="contacts.csv"`)
	c.Status(http.StatusOK)

	writer := csv.NewWriter(c.Writer)
	writer.Write(csvHeader)
	for _, contact := range contacts {
		writer.Write([]string{
			contact.FirstName,
			contact.LastName,
			contact.Phone,
			contact.Email,
			contact.City,
			contact.Status,
			contact.CreatedAt.Format(csvTimeFormat),
		})
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		slog.Error("csv export failed", "contacts", len(contacts), "error", err)
	}
}
