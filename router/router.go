package router

import (
	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-layout/controllers"
	"github.com/yeremiapane/restaurant-layout/floorplan"
	"github.com/yeremiapane/restaurant-layout/middlewares"
	"gorm.io/gorm"
)

func SetupRouter(db *gorm.DB, manager *floorplan.Manager) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	// Inisialisasi controller
	userCtrl := controllers.NewUserController(db)
	layoutCtrl := controllers.NewLayoutController(db, manager)
	tableCtrl := controllers.NewTableController(db)
	editorCtrl := controllers.NewEditorController(db, manager)
	orderCtrl := controllers.NewOrderController(db)
	reservationCtrl := controllers.NewReservationController(db)
	categoryCtrl := controllers.NewMenuCategoryController(db)
	menuCtrl := controllers.NewMenuController(db)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Rate limiter ketat untuk login/register
	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// -- CUSTOMER / TABLET (Tanpa Auth) --
	r.GET("/layouts", layoutCtrl.GetAllLayouts)
	r.GET("/layouts/:layout_id", layoutCtrl.GetLayoutByID)
	r.GET("/layouts/:layout_id/status", layoutCtrl.GetLayoutStatus)
	r.GET("/tables", tableCtrl.GetAllTables)
	r.GET("/tables/:table_id", tableCtrl.GetTableByID)
	r.GET("/tables/:table_id/chairs", tableCtrl.GetTableChairs)
	r.GET("/categories", categoryCtrl.GetAllCategories)
	r.GET("/menus", menuCtrl.GetAllMenus)

	// Membuat order (customer tidak perlu login)
	r.POST("/orders", orderCtrl.CreateOrder)
	r.GET("/orders/:order_id", orderCtrl.GetOrderByID)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/admin")
	auth.Use(middlewares.AuthMiddleware())

	auth.GET("/profile", userCtrl.GetProfile)
	auth.GET("/users", middlewares.RequireRoles("admin"), userCtrl.GetAllUsers)
	auth.POST("/logout", userCtrl.Logout)

	// LAYOUTS
	auth.GET("/layouts", layoutCtrl.GetAllLayouts)
	auth.POST("/layouts", layoutCtrl.CreateLayout)
	auth.GET("/layouts/:layout_id", layoutCtrl.GetLayoutByID)
	auth.PATCH("/layouts/:layout_id", layoutCtrl.UpdateLayout)
	auth.DELETE("/layouts/:layout_id", middlewares.RequireRoles("admin"), layoutCtrl.DeleteLayout)
	auth.GET("/layouts/:layout_id/status", layoutCtrl.GetLayoutStatus)

	// EDITOR (sesi editing layout, semua mutasi ditunda sampai save)
	editor := auth.Group("/layouts/:layout_id/editor")
	{
		editor.POST("/open", editorCtrl.OpenEditor)
		editor.POST("/close", editorCtrl.CloseEditor)
		editor.POST("/tables", editorCtrl.AddTable)
		editor.PATCH("/tables/:table_id", editorCtrl.UpdateTable)
		editor.POST("/tables/:table_id/move", editorCtrl.MoveTable)
		editor.POST("/tables/:table_id/resize", editorCtrl.ResizeTable)
		editor.POST("/tables/:table_id/duplicate", editorCtrl.DuplicateTable)
		editor.DELETE("/tables/:table_id", editorCtrl.DeleteTable)
		editor.POST("/select", editorCtrl.SelectTable)
		editor.GET("/pending", editorCtrl.GetPending)
		editor.POST("/save", editorCtrl.SaveEditor)
		editor.POST("/discard", editorCtrl.DiscardEditor)
	}

	// TABLES (mutasi langsung di luar editor)
	auth.GET("/tables", tableCtrl.GetAllTables)
	auth.POST("/tables", tableCtrl.CreateTable)
	auth.GET("/tables/:table_id", tableCtrl.GetTableByID)
	auth.GET("/tables/:table_id/chairs", tableCtrl.GetTableChairs)
	auth.PATCH("/tables/:table_id", tableCtrl.UpdateTable)
	auth.DELETE("/tables/:table_id", tableCtrl.DeleteTable)

	// ORDERS
	auth.GET("/orders", orderCtrl.GetAllOrders)
	auth.GET("/orders/:order_id", orderCtrl.GetOrderByID)
	auth.PATCH("/orders/:order_id", orderCtrl.UpdateOrderStatus)
	auth.DELETE("/orders/:order_id", orderCtrl.DeleteOrder)

	// RESERVATIONS
	auth.GET("/reservations", reservationCtrl.GetAllReservations)
	auth.POST("/reservations", reservationCtrl.CreateReservation)
	auth.GET("/reservations/:reservation_id", reservationCtrl.GetReservationByID)
	auth.PATCH("/reservations/:reservation_id", reservationCtrl.UpdateReservation)
	auth.DELETE("/reservations/:reservation_id", reservationCtrl.DeleteReservation)

	// MENU CATEGORIES & MENUS
	auth.POST("/categories", categoryCtrl.CreateCategory)
	auth.PATCH("/categories/:cat_id", categoryCtrl.UpdateCategory)
	auth.DELETE("/categories/:cat_id", categoryCtrl.DeleteCategory)
	auth.GET("/menus", menuCtrl.GetAllMenus)
	auth.POST("/menus", menuCtrl.CreateMenu)
	auth.GET("/menus/:menu_id", menuCtrl.GetMenuByID)
	auth.PATCH("/menus/:menu_id", menuCtrl.UpdateMenu)
	auth.DELETE("/menus/:menu_id", menuCtrl.DeleteMenu)

	// WebSocket endpoint dengan middleware khusus
	wsGroup := r.Group("/ws")
	wsGroup.Use(middlewares.WebSocketAuthMiddleware())
	{
		wsGroup.GET("/:role", controllers.WSHandler)
	}

	return r
}
