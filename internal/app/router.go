package app

import (
	"code_practice_backend/docs"
	"code_practice_backend/internal/config"
	"code_practice_backend/internal/middleware"
	"code_practice_backend/internal/util"
	"code_practice_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/health", c.health.HealthCheck)

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg.JWT.Secret))
	{
		// 学生/通用 授权接口
		a.registerStudentRoutes(authGroup, c)

		// 教师相关接口
		a.registerTeacherRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/auth/login", c.auth.StudentLogin)
		public.POST("/auth/admin/login", c.auth.TeacherLogin)
	}
}

// 学生与教师都可访问，学生只能操作自己的数据
func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/auth/me", c.auth.Me)

	// 练习
	rg.GET("/practice/questions", c.practice.Questions)
	rg.POST("/practice/submit", c.practice.Submit)
	rg.GET("/practice/records", c.practice.Records)

	// 错题本
	rg.GET("/mistakes", c.mistake.List)
	rg.PUT("/mistakes", c.mistake.Update)
	rg.DELETE("/mistakes", c.mistake.Delete)

	// 统计
	rg.GET("/statistics/student", c.statistics.Student)

	// 章节
	rg.GET("/chapters", c.chapter.List)
}

func (a *App) registerTeacherRoutes(rg *gin.RouterGroup, c *controllers) {
	teacher := rg.Group("")
	teacher.Use(middleware.RoleMiddleware(util.RoleTeacher))
	{
		// 题库
		teacher.GET("/questions", c.question.List)
		teacher.GET("/questions/counts", c.question.Counts)
		teacher.GET("/questions/:id", c.question.Get)
		teacher.POST("/questions", c.question.Create)
		teacher.PUT("/questions", c.question.Import)
		teacher.PUT("/questions/:id", c.question.Update)
		teacher.DELETE("/questions/:id", c.question.Delete)

		// 章节
		teacher.POST("/chapters", c.chapter.Create)
		teacher.PUT("/chapters/:id", c.chapter.Update)
		teacher.DELETE("/chapters/:id", c.chapter.Delete)
	}
}
