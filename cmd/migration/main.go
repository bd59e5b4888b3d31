package main

import (
	"bufio"
	"flag"
	"log"
	"os"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"

	"github.com/ArtemKoshovyi/contacts-manager/internal/config"
	"github.com/ArtemKoshovyi/contacts-manager/internal/service"
)

// defaultStatuses are seeded after the schema so that a fresh database has
// something to assign to contacts. INSERT IGNORE keeps reruns idempotent.
var defaultStatuses = []string{"New", "Contacted"}

// Usage example on the command line:
// > DBHOST=localhost:3306 DBUSER=contacts DBPWD=secret go run main.go -file=../../scripts/database.sql
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	sqlDB := service.CreateDatabase(cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName)
	db := sqlx.NewDb(sqlDB, "mysql")
	defer db.Close()

	filePtr := flag.String("file", "database.sql", "the sql file to execute")
	flag.Parse()

	readFile, err := os.Open(*filePtr) // nosemgrep
	if err != nil {
		panic(err)
	}
	defer readFile.Close()

	fileScanner := bufio.NewScanner(readFile)
	fileScanner.Split(bufio.ScanLines)
	builder := strings.Builder{}
	for fileScanner.Scan() {
		line := fileScanner.Text()
		builder.WriteString(line)
		builder.WriteString(" ")
		if strings.Contains(line, ";") {
			sql := builder.String()
			db.MustExec(sql)
			builder = strings.Builder{}
		}
	}

	for _, name := range defaultStatuses {
		db.MustExec("INSERT IGNORE INTO statuses (name) VALUES (?)", name)
	}
}
