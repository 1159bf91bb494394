package v1

import (
	"github.com/admin-concierge/services"
	"github.com/gin-gonic/gin"
)

// CLIController serves the CLI command reference
type CLIController struct {
	cliService *services.CLIService
}

// NewCLIController creates a new CLI controller
func NewCLIController(cliService *services.CLIService) *CLIController {
	return &CLIController{cliService: cliService}
}

// RegisterRoutes registers CLI reference routes
func (cc *CLIController) RegisterRoutes(router *gin.RouterGroup) {
	cli := router.Group("/cli")
	{
		cli.GET("/commands", cc.ListCommands)
		cli.GET("/commands/grouped", cc.GroupedCommands)
		cli.GET("/commands/:id", cc.GetCommand)
		cli.GET("/categories", cc.ListCategories)
		cli.GET("/quick-reference", cc.QuickReference)
		cli.GET("/best-practices", cc.BestPractices)
	}
}

func (cc *CLIController) ListCommands(c *gin.Context) {
	commands, err := cc.cliService.ListCommands(c.Request.Context(), c.Query("category"), c.Query("search"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	respondOK(c, commands)
}

func (cc *CLIController) GroupedCommands(c *gin.Context) {
	grouped, err := cc.cliService.GroupedCommands(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	respondOK(c, grouped)
}

func (cc *CLIController) GetCommand(c *gin.Context) {
	id, err := paramID(c, "id", "CLI command")
	if err != nil {
		_ = c.Error(err)
		return
	}

	command, err := cc.cliService.GetCommand(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	respondOK(c, command)
}

func (cc *CLIController) ListCategories(c *gin.Context) {
	categories, err := cc.cliService.CommandCategories(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	respondOK(c, categories)
}

func (cc *CLIController) QuickReference(c *gin.Context) {
	respondOK(c, cc.cliService.QuickReference())
}

func (cc *CLIController) BestPractices(c *gin.Context) {
	respondOK(c, cc.cliService.BestPractices())
}
