package controller

import (
	"code_practice_backend/internal/repository"
	"code_practice_backend/internal/service"
	"code_practice_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type PracticeController struct {
	PracticeService *service.PracticeService
}

func NewPracticeController(practiceService *service.PracticeService) *PracticeController {
	return &PracticeController{PracticeService: practiceService}
}

// Submit godoc
// @Summary 提交练习答案
// @Description 批量判分并写入练习记录、答题记录和错题本
// @Tags 练习
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.SubmitRequest true "答题数据"
// @Success 200 {object} util.Response{data=service.SubmitResult}
// @Failure 400 {object} util.Response "缺少必要参数"
// @Failure 404 {object} util.Response "学生不存在"
// @Failure 500 {object} util.Response "服务器内部错误"
// @Router /api/practice/submit [post]
func (c *PracticeController) Submit(ctx *gin.Context) {
	var req service.SubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	studentID, ok := studentScope(ctx, req.StudentID, false)
	if !ok {
		return
	}
	req.StudentID = studentID

	result, err := c.PracticeService.Submit(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// Questions godoc
// @Summary 获取练习题目
// @Description 按语言、题型、章节随机抽题，exam 模式按固定题型配比抽题；不返回答案
// @Tags 练习
// @Produce json
// @Security ApiKeyAuth
// @Param mode query string false "练习模式 (exam 为考试模式)"
// @Param language query string false "语言 java/cpp/python"
// @Param type query []string false "题型，可重复或逗号分隔"
// @Param chapter_id query int false "章节ID"
// @Param count query int false "题目数量，默认10"
// @Success 200 {object} util.Response{data=[]service.PracticeQuestion}
// @Router /api/practice/questions [get]
func (c *PracticeController) Questions(ctx *gin.Context) {
	req := service.PickRequest{
		Mode:     ctx.Query("mode"),
		Language: queryFilter(ctx, "language"),
		Count:    util.ParseIntDefault(ctx.Query("count"), util.DefaultPracticeCount),
	}
	for _, t := range ctx.QueryArray("type") {
		for _, v := range util.SplitCSV(t) {
			if v != "all" {
				req.Types = append(req.Types, v)
			}
		}
	}
	req.ChapterID = queryChapter(ctx)

	questions, err := c.PracticeService.PickQuestions(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, questions)
}

// Records godoc
// @Summary 获取练习记录
// @Tags 练习
// @Produce json
// @Security ApiKeyAuth
// @Param student_id query string false "学号，学生只能查询自己的记录"
// @Param language query string false "语言"
// @Param limit query int false "每页数量，默认50"
// @Param offset query int false "偏移量"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/practice/records [get]
func (c *PracticeController) Records(ctx *gin.Context) {
	studentID, ok := studentScope(ctx, ctx.Query("student_id"), true)
	if !ok {
		return
	}

	f := repository.RecordFilter{
		StudentID: studentID,
		Language:  queryFilter(ctx, "language"),
		Limit:     util.ParseIntDefault(ctx.Query("limit"), util.DefaultRecordsLimit),
		Offset:    util.ParseIntDefault(ctx.Query("offset"), 0),
	}
	if f.Limit > util.MaxPageSize {
		f.Limit = util.MaxPageSize
	}

	records, total, err := c.PracticeService.ListRecords(ctx.Request.Context(), f)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: records, Total: total, Page: f.Offset/f.Limit + 1, Limit: f.Limit})
}
