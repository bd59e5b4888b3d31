package service

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/go-sql-driver/mysql"

	"github.com/ArtemKoshovyi/contacts-manager/internal/model"
)

// validate checks the shape of single values, most importantly the email rule.
var validate = validator.New()

// fieldErrors maps a field name to its error messages, in the order they were
// detected. This is both the API error body and the data the form templates
// render inline.
type fieldErrors map[string][]string

func (e fieldErrors) add(field, message string) {
	e[field] = append(e[field], message)
}

// validatePhone applies the phone rule shared by every write path: trim
// whitespace, then require at least 9 characters, all of them digits except
// for '+' signs, with at least one digit among them. Returns the trimmed
// phone and an empty message on success.
func validatePhone(raw string) (phone string, message string) {
	phone = strings.TrimSpace(raw)
	if len(phone) < 9 {
		return "", "phone number is too short"
	}
	hasDigit := false
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			hasDigit = true
		} else if r != '+' {
			return "", "invalid phone number format"
		}
	}
	if !hasDigit {
		return "", "invalid phone number format"
	}
	return phone, ""
}

// validateContactInput trims all submitted values in place and checks them.
// With partial set, absent fields are left alone; otherwise every required
// field must be present. The same function backs the form path, the API path
// and the CSV import, so the phone and email rules hold end-to-end.
func validateContactInput(in *model.ContactInput, partial bool) fieldErrors {
	errs := fieldErrors{}

	checkName := func(field string, value **string) {
		if *value == nil {
			if !partial {
				errs.add(field, "this field is required")
			}
			return
		}
		trimmed := strings.TrimSpace(**value)
		*value = &trimmed
		if trimmed == "" {
			errs.add(field, "this field is required")
		} else if utf8.RuneCountInString(trimmed) > 60 {
			errs.add(field, "must be at most 60 characters")
		}
	}
	checkName("firstName", &in.FirstName)
	checkName("lastName", &in.LastName)

	if in.Phone == nil {
		if !partial {
			errs.add("phoneNumber", "this field is required")
		}
	} else {
		phone, message := validatePhone(*in.Phone)
		if message != "" {
			errs.add("phoneNumber", message)
		} else if utf8.RuneCountInString(phone) > 30 {
			errs.add("phoneNumber", "must be at most 30 characters")
		} else {
			in.Phone = &phone
		}
	}

	if in.Email == nil {
		if !partial {
			errs.add("email", "this field is required")
		}
	} else {
		email := strings.TrimSpace(*in.Email)
		in.Email = &email
		if email == "" {
			errs.add("email", "this field is required")
		} else if utf8.RuneCountInString(email) > 254 {
			errs.add("email", "must be at most 254 characters")
		} else if validate.Var(email, "email") != nil {
			errs.add("email", "enter a valid email address")
		}
	}

	if in.City != nil {
		city := strings.TrimSpace(*in.City)
		in.City = &city
		if utf8.RuneCountInString(city) > 80 {
			errs.add("city", "must be at most 80 characters")
		}
	} else if !partial {
		empty := ""
		in.City = &empty
	}

	if in.Status == nil {
		if !partial {
			errs.add("status", "this field is required")
		}
	} else {
		status := strings.TrimSpace(*in.Status)
		in.Status = &status
		if status == "" {
			errs.add("status", "this field is required")
		} else if utf8.RuneCountInString(status) > 50 {
			errs.add("status", "must be at most 50 characters")
		}
	}

	return errs
}

// MySQL error numbers for constraint violations.
const (
	mysqlErrDuplicateEntry  = 1062
	mysqlErrRowIsReferenced = 1451
	mysqlErrNoReferencedRow = 1452
)

// constraintFieldError translates a MySQL constraint violation on a contact
// write into a field error, so that a duplicate phone or email reads like any
// other validation failure. The unique indexes are named after their columns,
// which is how the duplicate message identifies the offending field.
func constraintFieldError(err error) (fieldErrors, bool) {
	var mysqlErr *mysql.MySQLError
	if !errors.As(err, &mysqlErr) {
		return nil, false
	}
	errs := fieldErrors{}
	switch mysqlErr.Number {
	case mysqlErrDuplicateEntry:
		if strings.Contains(mysqlErr.Message, "email") {
			errs.add("email", "a contact with this email already exists")
		} else {
			errs.add("phoneNumber", "a contact with this phone number already exists")
		}
		return errs, true
	case mysqlErrNoReferencedRow:
		errs.add("status", "unknown status category")
		return errs, true
	}
	return nil, false
}

// isRowReferencedError reports whether err is the MySQL "row is referenced"
// violation raised when deleting a status category that contacts still use.
func isRowReferencedError(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlErrRowIsReferenced
}

// isDuplicateEntryError reports whether err is the MySQL duplicate-key
// violation.
func isDuplicateEntryError(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlErrDuplicateEntry
}
