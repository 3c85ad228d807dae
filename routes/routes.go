package routes

import (
	"os"

	"freight-posting/constants"
	contractController "freight-posting/controllers/contract"
	postController "freight-posting/controllers/post"
	routeController "freight-posting/controllers/route"
	walletController "freight-posting/controllers/wallet"
	workflowController "freight-posting/controllers/workflow"
	vietmap "freight-posting/httpServices/vietmap"
	"freight-posting/logger"
	"freight-posting/middleware"
	analysisService "freight-posting/services/analysis"
	contractService "freight-posting/services/contract"
	postService "freight-posting/services/post"
	routecheckService "freight-posting/services/routecheck"
	walletService "freight-posting/services/wallet"
	workflowService "freight-posting/services/workflow"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	vietmapClient := vietmap.NewClient(os.Getenv("VIETMAP_BASE_URL"), os.Getenv("VIETMAP_API_KEY"))
	asyncLogger := logger.NewAsyncLogger(db)

	posts := postService.NewService(db)
	wallets := walletService.NewService(db)
	contracts := contractService.NewService(db)
	routecheck := routecheckService.NewService(vietmapClient)
	analysis := analysisService.NewService()

	sessions := workflowService.NewManager(workflowService.Deps{
		Posts:     posts,
		Wallets:   wallets,
		Contracts: contracts,
		Geocoder:  vietmapClient,
		NewRoute: func() workflowService.RouteValidator {
			return routecheckService.NewDebounced(routecheck, routecheckService.DefaultQuietPeriod)
		},
	})

	postCtl := postController.NewPostController(db, asyncLogger, posts, analysis)
	walletCtl := walletController.NewWalletController(db, asyncLogger, wallets)
	contractCtl := contractController.NewContractController(db, contracts)
	routeCtl := routeController.NewRouteController(routecheck)
	workflowCtl := workflowController.NewWorkflowController(asyncLogger, sessions)

	// Start the async logger processing goroutine
	go asyncLogger.ProcessLog()

	// Index route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"service": "freight-posting", "status": "ok"})
	})

	/*=============================================================================
	| Post Routes
	===============================================================================*/
	api := app.Group("/api")

	postGroup := api.Group("/posts")
	postGroup.Post("/", middleware.RequireRoles(constants.RoleProvider), postCtl.Store)
	postGroup.Get("/:id", middleware.RequireAuthentication(), postCtl.Show)
	postGroup.Put("/:id/status", middleware.RequireRoles(constants.RoleProvider), postCtl.UpdateStatus)
	postGroup.Post("/:id/analysis", middleware.RequireRoles(constants.RoleProvider), postCtl.Analyze)

	api.Get("/packages/pending", middleware.RequireRoles(constants.RoleProvider), postCtl.PendingPackages)

	/*=============================================================================
	| Route Feasibility Routes
	===============================================================================*/
	api.Post("/routes/calculate", middleware.RequireAuthentication(), routeCtl.Calculate)

	/*=============================================================================
	| Wallet Routes
	===============================================================================*/
	walletGroup := api.Group("/wallet").Use(middleware.RequireAuthentication())
	walletGroup.Get("/me", walletCtl.Me)
	walletGroup.Post("/payments", walletCtl.CreatePayment)
	walletGroup.Post("/topup", walletCtl.Topup)
	walletGroup.Get("/transactions", walletCtl.History)

	/*=============================================================================
	| Contract Routes
	===============================================================================*/
	contractGroup := api.Group("/contracts").Use(middleware.RequireAuthentication())
	contractGroup.Get("/latest-provider-template", contractCtl.LatestProviderTemplate)
	contractGroup.Get("/latest/:type", contractCtl.LatestByType)

	/*=============================================================================
	| Activation Workflow Routes
	===============================================================================*/
	workflowGroup := api.Group("/workflows").Use(middleware.RequireRoles(constants.RoleProvider))
	workflowGroup.Post("/", workflowCtl.Start)
	workflowGroup.Get("/:id", workflowCtl.State)
	workflowGroup.Put("/:id/form", workflowCtl.UpdateForm)
	workflowGroup.Post("/:id/form/validate-phones", workflowCtl.ValidatePhones)
	workflowGroup.Post("/:id/submit", workflowCtl.Submit)
	workflowGroup.Put("/:id/terms", workflowCtl.Terms)
	workflowGroup.Post("/:id/sign", workflowCtl.Sign)
	workflowGroup.Post("/:id/pay", workflowCtl.Pay)
	workflowGroup.Post("/:id/back", workflowCtl.Back)
	workflowGroup.Delete("/:id", workflowCtl.Close)
}
