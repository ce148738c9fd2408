package util

// 分页默认值
const (
	DefaultPracticeCount = 10
	DefaultRecordsLimit  = 50
	DefaultPageSize      = 100
	MaxPageSize          = 200
	RecentSessionsLimit  = 5
)

// 考试模式题型配比
const (
	ExamSingleChoiceCount = 30
	ExamFillBlankCount    = 3
	ExamErrorFixCount     = 3
	ExamProgrammingCount  = 4
)
