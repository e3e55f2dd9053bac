// cmd/main.go
package main

import (
	"school-api/app"
)

// @title           School API
// @version         1.0
// @description     Attendance, study hall, meal and outgo request workflows.

// @contact.name   API Support

// @host      localhost:8080
// @BasePath  /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app.Run()
}
