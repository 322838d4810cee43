package main

import "github.com/supriyo522/event-api-backend/cmd/server/cmd"

// @title Event API
// @version 1.0
// @description Event catalog with attendee registration, JWT auth and banner uploads.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT.
func main() {
	cmd.Execute()
}
