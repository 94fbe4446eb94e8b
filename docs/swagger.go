// Package docs InkLine API
//
// @title  InkLine API
// @version 0.2.0
// @description Personal notes with archiving, categories, public share links and usage analytics.
// @host      localhost:8080
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
package docs
