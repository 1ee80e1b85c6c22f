package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/OpenTreeHole/curriculum-board-backend-next/config"
	"github.com/OpenTreeHole/curriculum-board-backend-next/internal/api/handler"
	"github.com/OpenTreeHole/curriculum-board-backend-next/internal/api/middleware"
	"github.com/OpenTreeHole/curriculum-board-backend-next/pkg/authclient"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, authClient *authclient.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))

	// ── 存活检查 ──
	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "Hello world!"})
	})

	// ── 课程评价看板（全部需要认证）──
	board := r.Group("")
	board.Use(middleware.Auth(authClient))
	{
		courses := board.Group("/courses")
		{
			courses.GET("", h.Course.ListCourseGroups)
			courses.GET("/hash", h.Course.GetCourseGroupsHash)
			courses.GET("/refresh", h.Course.RefreshCourseGroups)
			courses.GET("/:id", h.Course.GetCourse)
			courses.POST("", middleware.AdminOnly(), h.Course.CreateCourse)
			courses.POST("/:id/reviews", h.Review.CreateReview)
		}

		board.GET("/group/:id", h.Course.GetGroup)

		reviews := board.Group("/reviews")
		{
			reviews.GET("", h.Review.MyReviews)
			reviews.GET("/random", h.Review.RandomReview)
			reviews.PUT("/:id", h.Review.ModifyReview)
			reviews.PATCH("/:id", h.Review.VoteReview)
		}
	}

	return r
}
