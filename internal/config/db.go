package config

import (
	"net"
	"os"

	"github.com/go-sql-driver/mysql"
)

const defaultDSN = "gsm:gsm@tcp(localhost:3306)/gsmforecast?parseTime=true"

// GetDatabaseDSN returns the MySQL connection string for the forecast archive.
// DB_USER, DB_PASSWORD, DB_HOST, DB_PORT and DB_NAME win when all are set,
// then DATABASE_DSN, then a local default.
func GetDatabaseDSN() string {
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	database := os.Getenv("DB_NAME")

	if user != "" && password != "" && host != "" && port != "" && database != "" {
		cfg := mysql.NewConfig()
		cfg.User = user
		cfg.Passwd = password
		cfg.Net = "tcp"
		cfg.Addr = net.JoinHostPort(host, port)
		cfg.DBName = database
		cfg.ParseTime = true
		return cfg.FormatDSN()
	}

	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		return dsn
	}

	return defaultDSN
}
