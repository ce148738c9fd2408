package controller

import (
	"code_practice_backend/internal/util"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// respondError maps service errors onto the response envelope; anything
// unrecognised is logged and reported as 500.
func respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrInvalidSubmission),
		errors.Is(err, util.ErrInvalidQuestion),
		errors.Is(err, util.ErrInvalidStatus),
		errors.Is(err, util.ErrNothingToUpdate):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrStudentNotFound),
		errors.Is(err, util.ErrTeacherNotFound),
		errors.Is(err, util.ErrQuestionNotFound),
		errors.Is(err, util.ErrChapterNotFound),
		errors.Is(err, util.ErrWrongAnswerNotFound):
		util.Error(ctx, http.StatusNotFound, err.Error())
	case errors.Is(err, util.ErrChapterNotEmpty):
		util.Error(ctx, http.StatusConflict, err.Error())
	case errors.Is(err, util.ErrInvalidCredentials):
		util.Error(ctx, http.StatusUnauthorized, err.Error())
	case errors.Is(err, util.ErrAccountDisabled),
		errors.Is(err, util.ErrPermissionDenied):
		util.Error(ctx, http.StatusForbidden, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

// studentScope resolves which student a request may touch. Students are
// pinned to their own account; teachers must name one unless optional.
func studentScope(ctx *gin.Context, requested string, optional bool) (string, bool) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return "", false
	}
	if claims.Role == util.RoleStudent {
		if requested != "" && requested != claims.Account {
			util.Forbidden(ctx)
			return "", false
		}
		return claims.Account, true
	}
	if requested == "" && !optional {
		util.BadRequest(ctx, "缺少学生ID")
		return "", false
	}
	return requested, true
}

func parseID(ctx *gin.Context, raw string) (uint, bool) {
	id := util.MustParseUint(raw)
	if id == 0 {
		util.BadRequest(ctx, "无效的ID")
		return 0, false
	}
	return id, true
}

// queryFilter reads a list filter; "all" means no filter.
func queryFilter(ctx *gin.Context, key string) string {
	v := ctx.Query(key)
	if v == "all" {
		return ""
	}
	return v
}

func queryChapter(ctx *gin.Context) *uint {
	id := util.MustParseUint(queryFilter(ctx, "chapter_id"))
	if id == 0 {
		return nil
	}
	return &id
}
