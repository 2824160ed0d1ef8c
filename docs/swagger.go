// Package docs AutoVista Security API documentation
package docs

// Swagger documentation info
// @title AutoVista Security API
// @version 1.0
// @description Three-factor authentication service for the AutoVista admin application
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@autovista.com

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8001
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT token.

// Security Service Endpoints
// @tag.name security
// @tag.description TOTP enrollment, three-factor admission decisions and the audit trail
