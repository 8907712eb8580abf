package routes

import (
	"maintenance-system/internal/controllers"
	"maintenance-system/internal/repositories"
	"maintenance-system/internal/services"
	"maintenance-system/pkg/config"
	"maintenance-system/pkg/middleware"
	"maintenance-system/pkg/service"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// InitRouter wires repositories, services and controllers and mounts every
// route group under /api.
func InitRouter(e *echo.Echo, pool *pgxpool.Pool, redisClient *redis.Client, cfg *config.Config, logger *zap.Logger) {
	txManager := repositories.NewTxManager(pool)

	equipmentRepo := repositories.NewEquipmentRepository(pool)
	requestRepo := repositories.NewServiceRequestRepository(pool)
	sparePartRepo := repositories.NewSparePartRepository(pool)
	orderRepo := repositories.NewSparePartOrderRepository(pool)
	jobOrderRepo := repositories.NewJobOrderRepository(pool)
	locationRepo := repositories.NewLocationRepository(pool)
	userRepo := repositories.NewUserRepository(pool)
	attendanceRepo := repositories.NewAttendanceRepository(pool)
	adminRepo := repositories.NewAdminRepository(pool)
	ticketRepo := repositories.NewTicketRepository()
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)

	jwtService := service.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.AccessTokenTTL, cfg.JWT.RefreshTokenTTL)

	equipmentService := services.NewEquipmentService(equipmentRepo, cfg.Maintenance.DueSoonWindow, logger)
	portService := services.NewEquipmentPortService(equipmentRepo, locationRepo, txManager, cfg.Maintenance.DueSoonWindow, logger)
	requestService := services.NewServiceRequestService(requestRepo, equipmentRepo, sparePartRepo, ticketRepo, txManager, logger)
	sparePartService := services.NewSparePartService(sparePartRepo, orderRepo, txManager, logger)
	jobOrderService := services.NewJobOrderService(jobOrderRepo, ticketRepo, txManager, logger)
	locationService := services.NewLocationService(locationRepo, equipmentRepo, cacheRepo, cfg.Maintenance.LocationCacheTTL, logger)
	userService := services.NewUserService(userRepo, logger)
	attendanceService := services.NewAttendanceService(attendanceRepo, logger)
	adminService := services.NewAdminService(adminRepo, txManager, logger)
	authService := services.NewAuthService(userRepo, jwtService, logger)

	equipmentCtrl := controllers.NewEquipmentController(equipmentService, portService, logger)
	requestCtrl := controllers.NewServiceRequestController(requestService, logger)
	sparePartCtrl := controllers.NewSparePartController(sparePartService, logger)
	jobOrderCtrl := controllers.NewJobOrderController(jobOrderService, logger)
	locationCtrl := controllers.NewLocationController(locationService, logger)
	userCtrl := controllers.NewUserController(userService, logger)
	attendanceCtrl := controllers.NewAttendanceController(attendanceService, logger)
	adminCtrl := controllers.NewAdminController(adminService, logger)
	authCtrl := controllers.NewAuthController(authService, logger)

	authMw := middleware.NewAuthMiddleware(jwtService, logger)

	api := e.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/login", authCtrl.Login)
	auth.POST("/refresh", authCtrl.Refresh)
	auth.GET("/me", authCtrl.Me, authMw.Auth)

	equipment := api.Group("/equipments", authMw.Auth)
	equipment.GET("", equipmentCtrl.List)
	equipment.GET("/export", equipmentCtrl.Export)
	equipment.POST("/import", equipmentCtrl.Import)
	equipment.GET("/:id", equipmentCtrl.Find)
	equipment.POST("", equipmentCtrl.Create)
	equipment.PUT("/:id", equipmentCtrl.Update)
	equipment.DELETE("/:id", equipmentCtrl.Delete)

	requests := api.Group("/service-requests", authMw.Auth)
	requests.GET("", requestCtrl.List)
	requests.POST("", requestCtrl.Create)
	requests.POST("/bulk-complete", requestCtrl.BulkComplete)
	requests.GET("/:id", requestCtrl.Find)
	requests.PUT("/:id", requestCtrl.Update)
	requests.DELETE("/:id", requestCtrl.Delete)

	parts := api.Group("/spare-parts", authMw.Auth)
	parts.GET("", sparePartCtrl.List)
	parts.POST("", sparePartCtrl.Create)
	parts.GET("/:id", sparePartCtrl.Find)
	parts.PUT("/:id", sparePartCtrl.Update)
	parts.DELETE("/:id", sparePartCtrl.Delete)

	orders := api.Group("/spare-part-orders", authMw.Auth)
	orders.GET("", sparePartCtrl.ListOrders)
	orders.POST("", sparePartCtrl.CreateOrder)
	orders.GET("/:id", sparePartCtrl.FindOrder)
	orders.PUT("/:id/status", sparePartCtrl.AdvanceOrder)

	jobOrders := api.Group("/job-orders", authMw.Auth)
	jobOrders.GET("", jobOrderCtrl.List)
	jobOrders.POST("", jobOrderCtrl.Create)
	jobOrders.GET("/:id", jobOrderCtrl.Find)
	jobOrders.PUT("/:id/complete", jobOrderCtrl.Complete)

	locations := api.Group("/locations", authMw.Auth)
	locations.GET("", locationCtrl.List)
	locations.POST("", locationCtrl.Create)
	locations.GET("/:id", locationCtrl.Find)
	locations.PUT("/:id", locationCtrl.Update)
	locations.DELETE("/:id", locationCtrl.Delete)

	users := api.Group("/users", authMw.Auth)
	users.GET("", userCtrl.List)
	users.POST("", userCtrl.Create)
	users.GET("/:id", userCtrl.Find)
	users.PUT("/:id", userCtrl.Update)
	users.DELETE("/:id", userCtrl.Delete)

	attendance := api.Group("/attendance", authMw.Auth)
	attendance.GET("", attendanceCtrl.List)
	attendance.POST("/check-in", attendanceCtrl.CheckIn)
	attendance.POST("/check-out", attendanceCtrl.CheckOut)

	admin := api.Group("/admin", authMw.Auth)
	admin.POST("/wipe", adminCtrl.Wipe)
}
