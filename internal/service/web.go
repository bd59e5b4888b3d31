package service

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ArtemKoshovyi/contacts-manager/internal/model"
	"github.com/ArtemKoshovyi/contacts-manager/internal/weather"
)

// contactRow is what the list template renders: the stored contact plus the
// per-request weather enrichment. The stored record itself never carries
// weather data.
type contactRow struct {
	model.Contact
	Weather *weather.Current
}

// lookupWeather fetches the current conditions for a city. Any failure is
// logged at debug level and yields nil; the page renders "unknown" for that
// city and is never broken by the upstream.
func lookupWeather(ctx context.Context, city string) *weather.Current {
	if city == "" || weatherLookup == nil {
		return nil
	}
	current, err := weatherLookup.CurrentByCity(ctx, city)
	if err != nil {
		slog.Debug("weather lookup failed", "city", city, "error", err)
		return nil
	}
	return &current
}

// contactListPage renders the contact list. The 'q' and 'sort' URL parameters
// work exactly like on the API list endpoint. Each distinct city on the page
// is looked up once in the weather service; the results live only for this
// request.
func contactListPage(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	sort := strings.TrimSpace(c.Query("sort"))
	contacts, err := queryContacts(query, sort)
	if err != nil {
		abortInternal(c, err)
		return
	}

	cache := map[string]*weather.Current{}
	rows := make([]contactRow, 0, len(contacts))
	for _, contact := range contacts {
		current, seen := cache[contact.City]
		if !seen {
			current = lookupWeather(c.Request.Context(), contact.City)
			cache[contact.City] = current
		}
		rows = append(rows, contactRow{Contact: contact, Weather: current})
	}

	c.HTML(http.StatusOK, "contact_list.html", gin.H{
		"Contacts": rows,
		"Query":    query,
		"Sort":     sort,
	})
}

// inputFromForm builds a ContactInput from a posted contact form. The form
// always submits every field, so the input is complete and validated like a
// full API write.
func inputFromForm(c *gin.Context) model.ContactInput {
	field := func(name string) *string {
		value := c.PostForm(name)
		return &value
	}
	return model.ContactInput{
		FirstName: field("firstName"),
		LastName:  field("lastName"),
		Phone:     field("phoneNumber"),
		Email:     field("email"),
		City:      field("city"),
		Status:    field("status"),
	}
}

// formValues flattens a ContactInput for redisplaying the form.
func formValues(in model.ContactInput) map[string]string {
	value := func(p *string) string {
		if p == nil {
			return ""
		}
		return *p
	}
	return map[string]string{
		"firstName":   value(in.FirstName),
		"lastName":    value(in.LastName),
		"phoneNumber": value(in.Phone),
		"email":       value(in.Email),
		"city":        value(in.City),
		"status":      value(in.Status),
	}
}

// renderContactForm renders the add/edit form with the given values and
// inline errors.
func renderContactForm(c *gin.Context, title, action string, values map[string]string, errs fieldErrors) {
	statuses, err := listStatusCategories()
	if err != nil {
		abortInternal(c, err)
		return
	}
	c.HTML(http.StatusOK, "contact_form.html", gin.H{
		"Title":    title,
		"Action":   action,
		"Values":   values,
		"Errors":   errs,
		"Statuses": statuses,
	})
}

// contactAddPage renders an empty contact form.
func contactAddPage(c *gin.Context) {
	renderContactForm(c, "Add contact", "/add/", map[string]string{}, fieldErrors{})
}

// contactAddSubmit validates the posted form and creates the contact. On any
// validation or uniqueness error the form is redisplayed with inline
// messages; on success the browser is redirected to the list.
func contactAddSubmit(c *gin.Context) {
	in := inputFromForm(c)
	errs := validateContactInput(&in, false)
	var statusId int64
	if len(errs) == 0 {
		status, err := findStatusByName(*in.Status)
		if err != nil {
			abortInternal(c, err)
			return
		}
		if status == nil {
			errs.add("status", "unknown status category")
		} else {
			statusId = status.Id
		}
	}
	if len(errs) == 0 {
		_, err := insertContact.Exec(map[string]interface{}{
			"firstname":  *in.FirstName,
			"lastname":   *in.LastName,
			"phone":      *in.Phone,
			"email":      *in.Email,
			"city":       *in.City,
			"status_id":  statusId,
			"created_at": time.Now().UTC(),
		})
		if err == nil {
			c.Redirect(http.StatusFound, "/")
			return
		}
		fieldErrs, ok := constraintFieldError(err)
		if !ok {
			abortInternal(c, err)
			return
		}
		errs = fieldErrs
	}
	renderContactForm(c, "Add contact", "/add/", formValues(in), errs)
}

// contactEditPage renders the form prefilled with an existing contact.
func contactEditPage(c *gin.Context) {
	contact, ok := contactFromPath(c)
	if !ok {
		return
	}
	values := map[string]string{
		"firstName":   contact.FirstName,
		"lastName":    contact.LastName,
		"phoneNumber": contact.Phone,
		"email":       contact.Email,
		"city":        contact.City,
		"status":      contact.Status,
	}
	renderContactForm(c, "Edit contact", "/edit/"+c.Param("id")+"/", values, fieldErrors{})
}

// contactEditSubmit validates the posted form and updates the contact. All
// fields are re-validated; the creation timestamp is left untouched.
func contactEditSubmit(c *gin.Context) {
	contact, ok := contactFromPath(c)
	if !ok {
		return
	}
	in := inputFromForm(c)
	errs := validateContactInput(&in, false)
	var statusId int64
	if len(errs) == 0 {
		status, err := findStatusByName(*in.Status)
		if err != nil {
			abortInternal(c, err)
			return
		}
		if status == nil {
			errs.add("status", "unknown status category")
		} else {
			statusId = status.Id
		}
	}
	if len(errs) == 0 {
		_, err := db.Exec(`
			UPDATE contacts SET firstname=?, lastname=?, phone=?, email=?, city=?, status_id=?
			WHERE id=?`,
			*in.FirstName, *in.LastName, *in.Phone, *in.Email, *in.City, statusId, contact.Id)
		if err == nil {
			c.Redirect(http.StatusFound, "/")
			return
		}
		fieldErrs, ok := constraintFieldError(err)
		if !ok {
			abortInternal(c, err)
			return
		}
		errs = fieldErrs
	}
	renderContactForm(c, "Edit contact", "/edit/"+c.Param("id")+"/", formValues(in), errs)
}

// contactDeletePage asks for confirmation before deleting. The destructive
// action only happens on the subsequent POST.
func contactDeletePage(c *gin.Context) {
	contact, ok := contactFromPath(c)
	if !ok {
		return
	}
	c.HTML(http.StatusOK, "contact_confirm_delete.html", gin.H{
		"Contact": contact,
		"Action":  "/delete/" + c.Param("id") + "/",
	})
}

// contactDeleteSubmit deletes the contact and redirects to the list.
func contactDeleteSubmit(c *gin.Context) {
	contact, ok := contactFromPath(c)
	if !ok {
		return
	}
	if _, err := deleteContactWhereId.Exec(contact.Id); err != nil {
		abortInternal(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// contactFromPath resolves the id path parameter to a contact for the HTML
// pages. On a bad or unknown id it answers 404 and reports false.
func contactFromPath(c *gin.Context) (*model.Contact, bool) {
	id := c.Param("id")
	if _, err := strconv.Atoi(id); err != nil {
		c.AbortWithStatus(http.StatusNotFound)
		return nil, false
	}
	contact, err := findContact(id)
	if err != nil {
		abortInternal(c, err)
		return nil, false
	}
	if contact == nil {
		c.AbortWithStatus(http.StatusNotFound)
		return nil, false
	}
	return contact, true
}
