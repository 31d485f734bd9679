package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/drwijaya/green-productions/internal/config"
	"github.com/drwijaya/green-productions/internal/erp/entity"
	"github.com/drwijaya/green-productions/internal/erp/handler"
	"github.com/drwijaya/green-productions/internal/middleware"
)

func registerRoutes(r *gin.Engine, h *handler.Handlers, cfg *config.Config) {
	// 健康检查
	r.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// 版本信息
	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
		})
	})

	// API v1
	v1 := r.Group("/api/v1")
	{
		// 认证 (无需登录)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
		}

		// 需要认证的接口
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(cfg.JWT.Secret))
		{
			// 当前用户
			authorized.GET("/auth/me", h.Auth.Me)
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.POST("/auth/password", h.Auth.ChangePassword)

			canEdit := middleware.RequireRole(entity.RoleAdmin, entity.RoleAdminProd)
			canApprove := middleware.RequireRole(entity.RoleAdmin)
			canInspect := middleware.RequireRole(entity.RoleAdmin, entity.RoleAdminProd, entity.RoleQCInspector)
			adminOnly := middleware.RequireRole(entity.RoleAdmin)

			// 订单管理
			orders := authorized.Group("/orders")
			{
				orders.GET("", h.Order.List)
				orders.GET("/stats", h.Order.Stats)
				orders.GET("/:id", h.Order.Get)
				orders.POST("", canEdit, h.Order.Create)
				orders.PUT("/:id", canEdit, h.Order.Update)
				orders.POST("/:id/status", canEdit, h.Order.MoveStatus)
				orders.GET("/:id/progress", h.Order.Progress)
				orders.GET("/:id/dso/current", h.Order.CurrentDSO)
				orders.GET("/:id/dso/latest", h.Order.LatestDSO)

				// 订单下的DSO
				orders.GET("/:id/dsos", h.DSO.ListByOrder)
				orders.POST("/:id/dsos", canEdit, h.DSO.Create)

				// 订单下的生产任务
				orders.GET("/:id/tasks", h.Production.ListByOrder)
				orders.POST("/:id/tasks", canEdit, h.Production.CreateChain)
			}

			// DSO管理
			dsos := authorized.Group("/dsos")
			{
				dsos.GET("", h.DSO.List)
				dsos.GET("/:id", h.DSO.Get)
				dsos.PUT("/:id", canEdit, h.DSO.Update)
				dsos.POST("/:id/submit", canEdit, h.DSO.Submit)
				dsos.POST("/:id/approve", canApprove, h.DSO.Approve)
				dsos.POST("/:id/reject", canApprove, h.DSO.Reject)
				dsos.POST("/:id/versions", canEdit, h.DSO.CreateVersion)

				dsos.POST("/:id/images", canEdit, h.DSO.UploadImage)
				dsos.DELETE("/:id/images/:imageId", canEdit, h.DSO.RemoveImage)
				dsos.PUT("/:id/images/:imageId/annotations", canEdit, h.DSO.AnnotateImage)

				dsos.POST("/:id/accessories", canEdit, h.DSO.AddAccessory)
				dsos.PUT("/:id/accessories/:accId", canEdit, h.DSO.UpdateAccessory)
				dsos.DELETE("/:id/accessories/:accId", canEdit, h.DSO.RemoveAccessory)

				dsos.PUT("/:id/sizes", canEdit, h.DSO.ReplaceSizes)
				dsos.PUT("/:id/size-chart", canEdit, h.DSO.UpsertSizeChart)

				dsos.GET("/:id/change-requests", h.ChangeRequest.ListByDSO)
			}

			// 变更请求
			crs := authorized.Group("/change-requests")
			{
				crs.GET("", h.ChangeRequest.List)
				crs.GET("/:id", h.ChangeRequest.Get)
				crs.POST("", canEdit, h.ChangeRequest.Create)
				crs.POST("/:id/approve", canApprove, h.ChangeRequest.Approve)
				crs.POST("/:id/reject", canApprove, h.ChangeRequest.Reject)
				crs.POST("/:id/implement", canEdit, h.ChangeRequest.Implement)
			}

			// 生产任务
			tasks := authorized.Group("/tasks")
			{
				tasks.GET("", h.Production.List)
				tasks.GET("/:id", h.Production.Get)
				tasks.POST("/:id/assign", canEdit, h.Production.Assign)
				tasks.POST("/:id/start", canEdit, h.Production.Start)
				tasks.POST("/:id/complete", canEdit, h.Production.Complete)
				tasks.POST("/:id/worker-logs", canEdit, h.Production.AddWorkerLog)
				tasks.PUT("/:id/worker-logs/:logId", canEdit, h.Production.UpdateWorkerLog)
				tasks.GET("/:id/defect-rate", h.Production.DefectRate)
			}

			// 质检
			qc := authorized.Group("/qc")
			{
				qc.GET("/sheets", h.QC.ListSheets)
				qc.GET("/sheets/:id", h.QC.GetSheet)
				qc.POST("/sheets", canInspect, h.QC.CreateSheet)
				qc.PUT("/sheets/:id", canInspect, h.QC.UpdateSheet)
				qc.POST("/sheets/:id/photos", canInspect, h.QC.UploadPhoto)

				qc.GET("/defects", h.QC.ListDefects)
				qc.GET("/defects/:id", h.QC.GetDefect)
				qc.POST("/defects", canInspect, h.QC.CreateDefect)
				qc.POST("/defects/:id/status", canInspect, h.QC.MoveDefectStatus)

				qc.GET("/analytics/score", h.QC.Score)
				qc.GET("/analytics/pareto", h.QC.Pareto)
				qc.GET("/analytics/processes", h.QC.Processes)
				qc.GET("/analytics/trends", h.QC.Trends)
				qc.GET("/analytics/period", h.QC.PeriodReport)
				qc.GET("/analytics/dashboard", h.QC.Dashboard)
			}

			// 面料采购
			materials := authorized.Group("/materials")
			{
				materials.GET("", h.Material.List)
				materials.GET("/:id", h.Material.Get)
				materials.POST("", canEdit, h.Material.Create)
				materials.POST("/:id/status", canEdit, h.Material.MoveStatus)
				materials.PUT("/:id/items/:itemId/receive", canEdit, h.Material.ReceiveItem)
				materials.POST("/:id/qc", canInspect, h.Material.SubmitQC)
				materials.POST("/:id/qc/decide", canApprove, h.Material.DecideQC)
			}

			// SOP文档
			sops := authorized.Group("/sops")
			{
				sops.GET("", h.SOP.List)
				sops.GET("/:id", h.SOP.Get)
				sops.POST("", canEdit, h.SOP.Create)
				sops.PUT("/:id", canEdit, h.SOP.Update)
				sops.POST("/:id/revisions", canEdit, h.SOP.UploadRevision)
				sops.POST("/:id/acknowledge", h.SOP.Acknowledge)
				sops.GET("/:id/acknowledgments", h.SOP.Acknowledgments)
			}

			// 条码
			barcodes := authorized.Group("/barcodes")
			{
				barcodes.GET("", h.Barcode.List)
				barcodes.GET("/lookup", h.Barcode.Lookup)
				barcodes.GET("/:id", h.Barcode.Get)
				barcodes.GET("/:id/events", h.Barcode.Events)
				barcodes.POST("", canEdit, h.Barcode.Create)
				barcodes.POST("/:id/deactivate", canEdit, h.Barcode.Deactivate)
				barcodes.POST("/:id/label", canEdit, h.Barcode.UploadLabel)
				barcodes.POST("/scan", h.Barcode.Scan)
			}

			// 客户
			customers := authorized.Group("/customers")
			{
				customers.GET("", h.Master.ListCustomers)
				customers.GET("/:id", h.Master.GetCustomer)
				customers.POST("", canEdit, h.Master.CreateCustomer)
				customers.PUT("/:id", canEdit, h.Master.UpdateCustomer)
				customers.DELETE("/:id", adminOnly, h.Master.DeleteCustomer)
			}

			// 供应商
			vendors := authorized.Group("/vendors")
			{
				vendors.GET("", h.Master.ListVendors)
				vendors.GET("/:id", h.Master.GetVendor)
				vendors.POST("", canEdit, h.Master.CreateVendor)
				vendors.PUT("/:id", canEdit, h.Master.UpdateVendor)
				vendors.DELETE("/:id", adminOnly, h.Master.DeleteVendor)
			}

			// 用户管理
			users := authorized.Group("/users")
			{
				users.GET("", h.Master.ListUsers)
				users.GET("/:id", h.Master.GetUser)
				users.POST("", adminOnly, h.Master.CreateUser)
				users.PUT("/:id", adminOnly, h.Master.UpdateUser)
			}

			// 员工管理
			employees := authorized.Group("/employees")
			{
				employees.GET("", h.Master.ListEmployees)
				employees.GET("/:id", h.Master.GetEmployee)
				employees.POST("", canEdit, h.Master.CreateEmployee)
				employees.PUT("/:id", canEdit, h.Master.UpdateEmployee)
			}

			// 报表
			reports := authorized.Group("/reports")
			{
				reports.GET("/dashboard", h.Report.Dashboard)
				reports.GET("/orders/:id/production", h.Report.OrderProduction)
				reports.GET("/defects", h.Report.Defects)
				reports.GET("/activities", h.Report.Activities)
				reports.GET("/qc-summary/export", h.Report.ExportQCSummary)
			}
		}
	}
}
