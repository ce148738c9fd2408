package controller

import (
	"code_practice_backend/internal/service"
	"code_practice_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type StatisticsController struct {
	StatisticsService *service.StatisticsService
}

func NewStatisticsController(statisticsService *service.StatisticsService) *StatisticsController {
	return &StatisticsController{StatisticsService: statisticsService}
}

// Student godoc
// @Summary 学生练习统计
// @Description 总答题数、正确率、按语言/题型/章节统计以及最近5次练习
// @Tags 统计
// @Produce json
// @Security ApiKeyAuth
// @Param student_id query string false "学号，教师查询时必填"
// @Success 200 {object} util.Response{data=service.StudentStats}
// @Failure 404 {object} util.Response "学生不存在"
// @Router /api/statistics/student [get]
func (c *StatisticsController) Student(ctx *gin.Context) {
	studentID, ok := studentScope(ctx, ctx.Query("student_id"), false)
	if !ok {
		return
	}

	stats, err := c.StatisticsService.StudentStats(ctx.Request.Context(), studentID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}
