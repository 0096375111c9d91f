package main

import "taxpractice/internal/app"

// @title Tax Practice API
// @version 1.0
// @description Practice management for a tax firm: clients, engagements, returns, tasks, IRS notices and the activity log.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app.Run()
}
