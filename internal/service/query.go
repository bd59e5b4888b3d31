package service

import (
	"fmt"
	"strings"

	"github.com/ArtemKoshovyi/contacts-manager/internal/model"
)

// sortColumns maps the sort keys accepted in the 'sort' URL parameter to
// database columns. Only columns in this whitelist ever reach the ORDER BY
// clause.
var sortColumns = map[string]string{
	"id":          "c.id",
	"firstName":   "c.firstname",
	"lastName":    "c.lastname",
	"phoneNumber": "c.phone",
	"email":       "c.email",
	"city":        "c.city",
	"createdAt":   "c.created_at",
}

// defaultSort is the listing order when no (or an unknown) sort key is given:
// newest contacts first.
const defaultSort = "-createdAt"

// likeEscaper makes LIKE metacharacters in the free-text query match
// literally, so a '%' or '_' typed into the search box is just a character.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// orderByClause turns a sort key, optionally prefixed with '-' for descending
// order, into an ORDER BY expression. An unknown key falls back to the
// default order instead of reaching the database.
func orderByClause(sort string) string {
	direction := "ASC"
	key := sort
	if strings.HasPrefix(key, "-") {
		direction = "DESC"
		key = key[1:]
	}
	column, ok := sortColumns[key]
	if !ok {
		return orderByClause(defaultSort)
	}
	return column + " " + direction
}

// queryContacts returns the contacts matching the free-text query, in the
// requested order. The query is a case-insensitive substring match against
// first name, last name, phone number, email and city; any single match
// includes the contact. An empty query returns all contacts.
func queryContacts(query, sort string) ([]model.Contact, error) {
	where := ""
	var args []interface{}
	if query != "" {
		where = `
		WHERE c.firstname LIKE ?
			OR c.lastname LIKE ?
			OR c.phone LIKE ?
			OR c.email LIKE ?
			OR c.city LIKE ?`
		pattern := "%" + likeEscaper.Replace(query) + "%"
		args = []interface{}{pattern, pattern, pattern, pattern, pattern}
	}
	sql := fmt.Sprintf(`
		SELECT c.id, c.firstname, c.lastname, c.phone, c.email, c.city, c.status_id, c.created_at,
			s.name AS status
		FROM contacts c
		JOIN statuses s ON s.id = c.status_id%s
		ORDER BY %s`, where, orderByClause(sort))
	contacts := []model.Contact{}
	err := db.Select(&contacts, sql, args...)
	return contacts, err
}

// findContact fetches a single contact by id. Returns a nil contact if the
// id does not exist.
func findContact(id string) (*model.Contact, error) {
	var contacts []model.Contact
	if err := selectContactWhereId.Select(&contacts, id); err != nil {
		return nil, err
	}
	if len(contacts) == 0 {
		return nil, nil
	}
	return &contacts[0], nil
}

// findStatusByName fetches a status category by its exact name. Returns a
// nil category if the name does not exist.
func findStatusByName(name string) (*model.StatusCategory, error) {
	var statuses []model.StatusCategory
	if err := selectStatusWhereName.Select(&statuses, name); err != nil {
		return nil, err
	}
	if len(statuses) == 0 {
		return nil, nil
	}
	return &statuses[0], nil
}

// listStatusCategories returns all status categories ordered by name, for
// the form's status dropdown and for the statuses API.
func listStatusCategories() ([]model.StatusCategory, error) {
	statuses := []model.StatusCategory{}
	err := db.Select(&statuses, `SELECT id, name FROM statuses ORDER BY name`)
	return statuses, err
}
