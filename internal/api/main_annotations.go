// @title           joe-copilot API
// @version         1.0
// @description     Manage organization catalogs and assemble copilot prompts from them.
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerToken
// @in              header
// @name            Authorization
// @description     Type "Bearer" followed by a space and an API token. Example: "Bearer jc_xxx"
package api
