package service

import (
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
)

// findStatuses responds with all status categories as JSON, ordered by name.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/statuses/
func findStatuses(c *gin.Context) {
	statuses, err := listStatusCategories()
	if err != nil {
		abortInternal(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, statuses)
}

// createStatus creates a new status category with the name from the request's
// JSON. Names are unique; creating a duplicate is a field error.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/statuses/ --request "POST" --include --header "Content-Type: application/json" --data '{"name": "Qualified"}'
func createStatus(c *gin.Context) {
	var in struct {
		Name string `json:"name"`
	}
	if err := c.BindJSON(&in); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid JSON"})
		return
	}
	name := strings.TrimSpace(in.Name)
	errs := fieldErrors{}
	if name == "" {
		errs.add("name", "this field is required")
	} else if utf8.RuneCountInString(name) > 50 {
		errs.add("name", "must be at most 50 characters")
	}
	if len(errs) > 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, errs)
		return
	}
	result, err := insertStatus.Exec(name)
	if err != nil {
		if isDuplicateEntryError(err) {
			errs.add("name", "a status category with this name already exists")
			c.AbortWithStatusJSON(http.StatusBadRequest, errs)
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
	c.IndentedJSON(http.StatusCreated, gin.H{"id": id, "name": name})
}

// deleteStatusByID deletes the status category with the given id. A category
// that is still referenced by contacts is protected: the delete fails with a
// conflict and the category remains.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/statuses/3/ --request "DELETE"
func deleteStatusByID(c *gin.Context) {
	id := c.Param("id")
	if _, err := strconv.Atoi(id); err != nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "invalid id parameter"})
		return
	}
	result, err := deleteStatusWhereId.Exec(id)
	if err != nil {
		if isRowReferencedError(err) {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"message": "status category is still in use"})
			return
		}
		abortInternal(c, err)
		return
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		abortInternal(c, err)
		return
	}
	if rowsAffected == 1 {
		c.IndentedJSON(http.StatusOK, gin.H{"message": "status category deleted"})
	} else {
		c.IndentedJSON(http.StatusNotFound, gin.H{"message": "status category not found"})
	}
}
