package util

import "errors"

var (
	ErrStudentNotFound     = errors.New("学生不存在")
	ErrTeacherNotFound     = errors.New("教师不存在")
	ErrInvalidCredentials  = errors.New("账号或密码错误")
	ErrAccountDisabled     = errors.New("账号已被禁用")
	ErrInvalidSubmission   = errors.New("缺少必要参数")
	ErrQuestionNotFound    = errors.New("题目不存在")
	ErrChapterNotFound     = errors.New("章节不存在")
	ErrWrongAnswerNotFound = errors.New("错题记录不存在")
	ErrInvalidStatus       = errors.New("无效的状态")
	ErrInvalidQuestion     = errors.New("无效的题目数据")
	ErrNothingToUpdate     = errors.New("没有要更新的数据")
	ErrChapterNotEmpty     = errors.New("章节下仍有题目")
	ErrPermissionDenied    = errors.New("permission denied")
)
