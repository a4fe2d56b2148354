package router

import (
	"time"

	"clinistock/internal/config"
	"clinistock/internal/handler"
	"clinistock/internal/middleware"
	"clinistock/internal/model"
	"clinistock/internal/repository"
	"clinistock/internal/service"
	"clinistock/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// New wires repositories, services and handlers into the Gin engine.
// This is the composition root; nothing here contains business logic.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, pool *worker.Pool) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Recovery(),
		middleware.CORS(),
		middleware.ErrorHandler(),
	)

	// Repositories
	itemRepo := repository.NewItemRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	patientRepo := repository.NewPatientRepository(db)
	kitRepo := repository.NewKitRepository(db)
	usageRepo := repository.NewUsageRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	clinicRepo := repository.NewClinicRepository(db)
	userRepo := repository.NewUserRepository(db)
	backupRepo := repository.NewBackupRepository(db)

	// Services
	itemSvc := service.NewItemService(itemRepo, supplierRepo, rdb)
	supplierSvc := service.NewSupplierService(supplierRepo)
	patientSvc := service.NewPatientService(patientRepo)
	kitSvc := service.NewKitService(kitRepo, itemRepo, patientRepo)
	consumptionSvc := service.NewConsumptionService(itemRepo, usageRepo, orderRepo, kitRepo)
	orderSvc := service.NewOrderService(orderRepo, supplierRepo, clinicRepo, pool, cfg.PDFStoragePath)
	reportSvc := service.NewReportService(usageRepo, orderRepo)
	backupSvc := service.NewBackupService(backupRepo)
	clinicSvc := service.NewClinicService(clinicRepo)
	authSvc := service.NewAuthService(userRepo, cfg)

	// Handlers
	healthH := handler.NewHealthHandler(db, rdb)
	authH := handler.NewAuthHandler(authSvc)
	itemH := handler.NewItemHandler(itemSvc)
	supplierH := handler.NewSupplierHandler(supplierSvc)
	patientH := handler.NewPatientHandler(patientSvc)
	kitH := handler.NewKitHandler(kitSvc)
	consumptionH := handler.NewConsumptionHandler(consumptionSvc)
	orderH := handler.NewOrderHandler(orderSvc)
	reportH := handler.NewReportHandler(reportSvc)
	backupH := handler.NewBackupHandler(backupSvc)
	clinicH := handler.NewClinicHandler(clinicSvc)

	r.GET("/health", healthH.Check)
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := r.Group("/v1")

	// Public auth endpoints, rate limited against brute force.
	auth := v1.Group("/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Everything else requires a valid token.
	api := v1.Group("")
	api.Use(middleware.JWTAuth(cfg.JWTSecret))
	api.Use(middleware.RateLimiter(300, time.Minute))

	admin := middleware.RequireRole(model.RoleAdmin)

	users := api.Group("/users", admin)
	{
		users.POST("", authH.CreateUser)
		users.GET("", authH.ListUsers)
		users.PATCH("/:id", authH.UpdateUser)
		users.DELETE("/:id", authH.DeactivateUser)
		users.POST("/:id/reactivate", authH.ReactivateUser)
	}

	items := api.Group("/items")
	{
		items.POST("", itemH.Create)
		items.GET("", itemH.List)
		items.GET("/alerts", itemH.Alerts)
		items.POST("/import", itemH.ImportCSV)
		items.GET("/:id", itemH.Get)
		items.PATCH("/:id", itemH.Update)
		items.PATCH("/:id/stock", itemH.SetStock)
		items.DELETE("/:id", admin, itemH.Delete)
	}

	suppliers := api.Group("/suppliers")
	{
		suppliers.POST("", supplierH.Create)
		suppliers.GET("", supplierH.List)
		suppliers.GET("/:id", supplierH.Get)
		suppliers.PUT("/:id", supplierH.Update)
		suppliers.DELETE("/:id", admin, supplierH.Delete)
	}

	patients := api.Group("/patients")
	{
		patients.POST("", patientH.Create)
		patients.GET("", patientH.List)
		patients.GET("/:id", patientH.Get)
		patients.PUT("/:id", patientH.Update)
	}

	kits := api.Group("/kits")
	{
		kits.POST("/generic", kitH.CreateItemSet)
		kits.GET("/generic", kitH.ListItemSets)
		kits.GET("/generic/:id", kitH.GetItemSet)
		kits.PUT("/generic/:id/lines", kitH.ReplaceItemSetLines)
		kits.POST("/generic/:id/use", consumptionH.UseGenericKit)

		kits.POST("/patient", kitH.CreatePatientSet)
		kits.GET("/patient", kitH.ListPatientSets)
		kits.GET("/patient/:id", kitH.GetPatientSet)
		kits.PUT("/patient/:id/lines", kitH.ReplacePatientSetLines)
		kits.DELETE("/patient/:id", kitH.DeletePatientSet)
		kits.POST("/patient/:id/use", consumptionH.UsePatientKit)
	}

	consumption := api.Group("/consumption")
	{
		consumption.POST("", consumptionH.Record)
		consumption.POST("/bulk", consumptionH.RecordBulk)
	}

	orders := api.Group("/orders")
	{
		orders.GET("", orderH.List)
		orders.GET("/:id", orderH.Get)
		orders.POST("/:id/document", orderH.GenerateDocument)
		orders.PATCH("/:id/status", orderH.UpdateStatus)
	}

	reports := api.Group("/reports")
	{
		reports.GET("/monthly", reportH.Monthly)
	}

	backup := api.Group("/backup", admin)
	{
		backup.GET("/export", backupH.Export)
		backup.POST("/restore", backupH.Restore)
		backup.POST("/clear", backupH.Clear)
	}

	clinic := api.Group("/clinic")
	{
		clinic.GET("", clinicH.Get)
		clinic.PUT("", admin, clinicH.Update)
	}

	return r
}
