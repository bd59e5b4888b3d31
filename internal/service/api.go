package service

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ArtemKoshovyi/contacts-manager/internal/model"
)

// abortInternal logs an unexpected error and answers with a generic 500.
func abortInternal(c *gin.Context, err error) {
	slog.Error("request failed", "path", c.Request.URL.Path, "error", err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
}

// findContacts responds with a list of contacts as JSON.
//
// The URL parameter 'q' is a free-text search: contacts match if the text
// appears in their first name, last name, phone number, email or city,
// ignoring case.
//
// The URL parameter 'sort' specifies the contact property by which the
// results shall be sorted. Valid values are 'id', 'firstName', 'lastName',
// 'phoneNumber', 'email', 'city', and 'createdAt', each optionally prefixed
// with '-' for descending order. If this URL parameter is not specified or
// not recognized, the contacts are sorted newest first.
//
// REST API calls:
//
//	> curl "http://localhost:8080/api/contacts/"
//	> curl "http://localhost:8080/api/contacts/?q=anna"
//	> curl "http://localhost:8080/api/contacts/?sort=lastName"
//	> curl "http://localhost:8080/api/contacts/?sort=-createdAt"
func findContacts(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	sort := strings.TrimSpace(c.Query("sort"))
	contacts, err := queryContacts(query, sort)
	if err != nil {
		abortInternal(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, contacts)
}

// createContact inserts the contact specified in the request's JSON into the
// database. All fields are validated first, and the status must name an
// existing status category. It responds with the full contact data including
// the newly assigned id and the creation timestamp.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/contacts/ --request "POST" --include --header "Content-Type: application/json" --data '{"firstName": "Anna", "lastName": "Nowak", "phoneNumber": "+48123456789", "email": "anna@example.com", "city": "Warszawa", "status": "New"}'
func createContact(c *gin.Context) {
	var in model.ContactInput
	if err := c.BindJSON(&in); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid JSON"})
		return
	}
	errs := validateContactInput(&in, false)
	if len(errs) > 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, errs)
		return
	}
	status, err := findStatusByName(*in.Status)
	if err != nil {
		abortInternal(c, err)
		return
	}
	if status == nil {
		errs.add("status", "unknown status category")
		c.AbortWithStatusJSON(http.StatusBadRequest, errs)
		return
	}

	result, err := insertContact.Exec(map[string]interface{}{
		"firstname":  *in.FirstName,
		"lastname":   *in.LastName,
		"phone":      *in.Phone,
		"email":      *in.Email,
		"city":       *in.City,
		"status_id":  status.Id,
		"created_at": time.Now().UTC(),
	})
	if err != nil {
		if fieldErrs, ok := constraintFieldError(err); ok {
			c.AbortWithStatusJSON(http.StatusBadRequest, fieldErrs)
			return
		}
		abortInternal(c, err)
		return
	}
	id, err := result.LastInsertId()
	if err != nil {
		abortInternal(c, err)
		return
	}
	created, err := findContact(strconv.FormatInt(id, 10))
	if err != nil {
		abortInternal(c, err)
		return
	}
	c.IndentedJSON(http.StatusCreated, created)
}

// findContactByID locates the contact whose ID value matches the id parameter
// of the request URL, then returns that contact as a response.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/contacts/56/
func findContactByID(c *gin.Context) {
	id := c.Param("id")
	if _, err := strconv.Atoi(id); err != nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "invalid id parameter"})
		return
	}
	contact, err := findContact(id)
	if err != nil {
		abortInternal(c, err)
		return
	}
	if contact == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "contact not found"})
		return
	}
	c.IndentedJSON(http.StatusOK, contact)
}

// updateContactByID updates the contact whose ID value matches the id
// parameter of the request URL. A PUT must carry the full representation and
// re-validates every field; a PATCH may carry any subset, and only the given
// fields are validated and updated. The creation timestamp is never touched.
// The response is the new version of the contact.
//
// Example REST API calls:
//
//	> curl http://localhost:8080/api/contacts/56/ --request "PATCH" --include --header "Content-Type: application/json" --data '{"phoneNumber": "+48111222333"}'
//	> curl http://localhost:8080/api/contacts/56/ --request "PUT" --include --header "Content-Type: application/json" --data '{"firstName": "Anna", "lastName": "Nowak", "phoneNumber": "+48123456789", "email": "anna@example.com", "city": "Warszawa", "status": "Contacted"}'
func updateContactByID(c *gin.Context) {
	id := c.Param("id")
	if _, err := strconv.Atoi(id); err != nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "invalid id parameter"})
		return
	}
	existing, err := findContact(id)
	if err != nil {
		abortInternal(c, err)
		return
	}
	if existing == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "contact not found"})
		return
	}

	var in model.ContactInput
	if err := c.BindJSON(&in); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid JSON"})
		return
	}
	partial := c.Request.Method == http.MethodPatch
	errs := validateContactInput(&in, partial)
	if len(errs) > 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, errs)
		return
	}

	var args []interface{}
	sql := "UPDATE contacts SET "
	if in.FirstName != nil {
		args = append(args, *in.FirstName)
		sql += "firstname=?, "
	}
	if in.LastName != nil {
		args = append(args, *in.LastName)
		sql += "lastname=?, "
	}
	if in.Phone != nil {
		args = append(args, *in.Phone)
		sql += "phone=?, "
	}
	if in.Email != nil {
		args = append(args, *in.Email)
		sql += "email=?, "
	}
	if in.City != nil {
		args = append(args, *in.City)
		sql += "city=?, "
	}
	if in.Status != nil {
		status, err := findStatusByName(*in.Status)
		if err != nil {
			abortInternal(c, err)
			return
		}
		if status == nil {
			errs.add("status", "unknown status category")
			c.AbortWithStatusJSON(http.StatusBadRequest, errs)
			return
		}
		args = append(args, status.Id)
		sql += "status_id=?, "
	}

	// It only makes sense to continue if we have at least one value to update.
	if len(args) == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "no values to be updated"})
		return
	}

	sql = sql[:len(sql)-2]
	sql += " WHERE id=?"
	args = append(args, id)
	if _, err := db.Exec(sql, args...); err != nil {
		if fieldErrs, ok := constraintFieldError(err); ok {
			c.AbortWithStatusJSON(http.StatusBadRequest, fieldErrs)
			return
		}
		abortInternal(c, err)
		return
	}

	// In the HTTP response, return the full contact after the update.
	updated, err := findContact(id)
	if err != nil {
		abortInternal(c, err)
		return
	}
	if updated == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "contact not found"})
		return
	}
	c.IndentedJSON(http.StatusOK, updated)
}

// deleteContactByID deletes the contact whose ID value matches the id
// parameter of the request URL from the database.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/contacts/56/ --request "DELETE"
func deleteContactByID(c *gin.Context) {
	id := c.Param("id")
	if _, err := strconv.Atoi(id); err != nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "invalid id parameter"})
		return
	}
	result, err := deleteContactWhereId.Exec(id)
	if err != nil {
		abortInternal(c, err)
		return
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		abortInternal(c, err)
		return
	}
	if rowsAffected == 1 {
		c.IndentedJSON(http.StatusOK, gin.H{"message": "contact deleted"})
	} else {
		c.IndentedJSON(http.StatusNotFound, gin.H{"message": "contact not found"})
	}
}
