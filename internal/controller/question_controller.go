package controller

import (
	"code_practice_backend/internal/repository"
	"code_practice_backend/internal/service"
	"code_practice_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuestionController struct {
	QuestionService *service.QuestionService
}

func NewQuestionController(questionService *service.QuestionService) *QuestionController {
	return &QuestionController{QuestionService: questionService}
}

// ImportQuestionsRequest 批量导入题目
type ImportQuestionsRequest struct {
	Questions []service.QuestionInput `json:"questions"`
}

// List godoc
// @Summary 题库列表
// @Description 教师查看题库，含答案与章节名称
// @Tags 题库
// @Produce json
// @Security ApiKeyAuth
// @Param language query string false "语言"
// @Param type query string false "题型"
// @Param chapter_id query int false "章节ID"
// @Param difficulty query string false "难度"
// @Param limit query int false "每页数量，默认100"
// @Param offset query int false "偏移量"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/questions [get]
func (c *QuestionController) List(ctx *gin.Context) {
	f := repository.QuestionFilter{
		Language:   queryFilter(ctx, "language"),
		Type:       queryFilter(ctx, "type"),
		ChapterID:  queryChapter(ctx),
		Difficulty: queryFilter(ctx, "difficulty"),
		Limit:      util.ParseIntDefault(ctx.Query("limit"), util.DefaultPageSize),
		Offset:     util.ParseIntDefault(ctx.Query("offset"), 0),
	}
	if f.Limit > util.MaxPageSize {
		f.Limit = util.MaxPageSize
	}

	questions, total, err := c.QuestionService.List(ctx.Request.Context(), f)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: questions, Total: total, Page: f.Offset/f.Limit + 1, Limit: f.Limit})
}

// Get godoc
// @Summary 获取题目详情
// @Tags 题库
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "题目ID"
// @Success 200 {object} util.Response{data=model.Question}
// @Failure 404 {object} util.Response "题目不存在"
// @Router /api/questions/{id} [get]
func (c *QuestionController) Get(ctx *gin.Context) {
	id, ok := parseID(ctx, ctx.Param("id"))
	if !ok {
		return
	}
	q, err := c.QuestionService.Get(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, q)
}

// Create godoc
// @Summary 新增题目
// @Tags 题库
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.QuestionInput true "题目"
// @Success 201 {object} util.Response{data=model.Question}
// @Failure 400 {object} util.Response "无效的题目数据"
// @Router /api/questions [post]
func (c *QuestionController) Create(ctx *gin.Context) {
	var in service.QuestionInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	q, err := c.QuestionService.Create(ctx.Request.Context(), in)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, q)
}

// Import godoc
// @Summary 批量导入题目
// @Description 逐条导入，单条失败不影响其他题目
// @Tags 题库
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body ImportQuestionsRequest true "题目数组"
// @Success 200 {object} util.Response{data=service.ImportResult}
// @Failure 400 {object} util.Response "无效的题目数据"
// @Router /api/questions [put]
func (c *QuestionController) Import(ctx *gin.Context) {
	var req ImportQuestionsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	res, err := c.QuestionService.Import(ctx.Request.Context(), req.Questions)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

// Update godoc
// @Summary 更新题目
// @Description 只更新请求中出现的字段，chapter_id 传 null 表示移出章节
// @Tags 题库
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "题目ID"
// @Param body body service.QuestionPatch true "需要更新的字段"
// @Success 200 {object} util.Response{data=model.Question}
// @Failure 404 {object} util.Response "题目不存在"
// @Router /api/questions/{id} [put]
func (c *QuestionController) Update(ctx *gin.Context) {
	id, ok := parseID(ctx, ctx.Param("id"))
	if !ok {
		return
	}
	var patch service.QuestionPatch
	if err := ctx.ShouldBindJSON(&patch); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	q, err := c.QuestionService.Update(ctx.Request.Context(), id, patch)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, q)
}

// Delete godoc
// @Summary 删除题目
// @Tags 题库
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "题目ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "题目不存在"
// @Router /api/questions/{id} [delete]
func (c *QuestionController) Delete(ctx *gin.Context) {
	id, ok := parseID(ctx, ctx.Param("id"))
	if !ok {
		return
	}
	if err := c.QuestionService.Delete(ctx.Request.Context(), id); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": id})
}

// Counts godoc
// @Summary 题目数量统计
// @Tags 题库
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.QuestionCounts}
// @Router /api/questions/counts [get]
func (c *QuestionController) Counts(ctx *gin.Context) {
	counts, err := c.QuestionService.Counts(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, counts)
}
