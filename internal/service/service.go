// Package service contains the database layer and all HTTP handlers of the
// contacts manager: the server-rendered pages, the REST API and the CSV
// import/export endpoints.
package service

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"html/template"
	"log"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/ArtemKoshovyi/contacts-manager/internal/weather"
)

// db is a handle to the database.
var db *sqlx.DB

// insertContact is a prepared statement for creating a contact on the database.
var insertContact *sqlx.NamedStmt

// selectContactWhereId is a prepared statement for selecting the contact with a given id,
// including the name of its status category.
var selectContactWhereId *sqlx.Stmt

// deleteContactWhereId is a prepared statement for deleting the contact with a given id.
var deleteContactWhereId *sqlx.Stmt

// selectStatusWhereName is a prepared statement for selecting a status category by name.
var selectStatusWhereName *sqlx.Stmt

// insertStatus is a prepared statement for creating a status category.
var insertStatus *sqlx.Stmt

// deleteStatusWhereId is a prepared statement for deleting the status category with a given id.
var deleteStatusWhereId *sqlx.Stmt

// WeatherLookup is the part of the weather client that the list page needs.
// An interface so that tests can substitute a stub.
type WeatherLookup interface {
	CurrentByCity(ctx context.Context, city string) (weather.Current, error)
}

// weatherLookup enriches the contact list page. May be nil, in which case the
// page renders without weather.
var weatherLookup WeatherLookup

//go:embed templates/*.html
var templatesFS embed.FS

// CreateDatabase initializes and returns a database connection with the
// specified connection parameters.
func CreateDatabase(host, user, password, name string) *sql.DB {
	dsn := fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true", user, password, host, name)
	sqlDB, err := sql.Open("mysql", dsn)
	if err != nil {
		log.Fatal(err)
	}
	return sqlDB
}

// SetupDatabaseWrapper initializes the sqlx database wrapper with the specified sql database. It
// then prepares all statements. The database argument can be a real database for production use
// or a mock database within unit tests.
func SetupDatabaseWrapper(sqlDB *sql.DB) {
	var err error
	db = sqlx.NewDb(sqlDB, "mysql")

	// Prepared statements offer a significant speed increase if executed many times.
	insertContact, err = db.PrepareNamed(`
		INSERT INTO contacts (firstname, lastname, phone, email, city, status_id, created_at)
		VALUES (:firstname, :lastname, :phone, :email, :city, :status_id, :created_at)
	`)
	if err != nil {
		log.Fatal(err)
	}
	selectContactWhereId, err = db.Preparex(`
		SELECT c.id, c.firstname, c.lastname, c.phone, c.email, c.city, c.status_id, c.created_at,
			s.name AS status
		FROM contacts c
		JOIN statuses s ON s.id = c.status_id
		WHERE c.id = ?
	`)
	if err != nil {
		log.Fatal(err)
	}
	deleteContactWhereId, err = db.Preparex(`
		DELETE FROM contacts WHERE id = ?
	`)
	if err != nil {
		log.Fatal(err)
	}
	selectStatusWhereName, err = db.Preparex(`
		SELECT id, name FROM statuses WHERE name = ?
	`)
	if err != nil {
		log.Fatal(err)
	}
	insertStatus, err = db.Preparex(`
		INSERT INTO statuses (name) VALUES (?)
	`)
	if err != nil {
		log.Fatal(err)
	}
	deleteStatusWhereId, err = db.Preparex(`
		DELETE FROM statuses WHERE id = ?
	`)
	if err != nil {
		log.Fatal(err)
	}
}

// SetupWeather installs the client used to enrich the contact list page.
func SetupWeather(lookup WeatherLookup) {
	weatherLookup = lookup
}

// SetupHttpRouter initializes the HTTP router and registers all endpoints:
// the server-rendered pages, the CSV import/export and the REST API. The API
// does not use authentication or CSRF protection and is only meant for demo
// deployments.
func SetupHttpRouter() *gin.Engine {
	var router *gin.Engine
	if strings.EqualFold(os.Getenv("GIN_LOGGING"), "off") {
		fmt.Println("Turning off HTTP request logging.")
		router = gin.New()
		router.Use(gin.Recovery())
	} else {
		router = gin.Default()
	}
	router.SetHTMLTemplate(template.Must(template.ParseFS(templatesFS, "templates/*.html")))

	router.GET("/", contactListPage)
	router.GET("/add/", contactAddPage)
	router.POST("/add/", contactAddSubmit)
	router.GET("/edit/:id/", contactEditPage)
	router.POST("/edit/:id/", contactEditSubmit)
	router.GET("/delete/:id/", contactDeletePage)
	router.POST("/delete/:id/", contactDeleteSubmit)
	router.GET("/import/", importPage)
	router.POST("/import/", importSubmit)
	router.GET("/export/", exportContactsCsv)

	router.GET("/api/contacts/", findContacts)
	router.POST("/api/contacts/", createContact)
	router.GET("/api/contacts/:id/", findContactByID)
	router.PUT("/api/contacts/:id/", updateContactByID)
	router.PATCH("/api/contacts/:id/", updateContactByID)
	router.DELETE("/api/contacts/:id/", deleteContactByID)

	router.GET("/api/statuses/", findStatuses)
	router.POST("/api/statuses/", createStatus)
	router.DELETE("/api/statuses/:id/", deleteStatusByID)

	return router
}
