// Package docs registers the OpenAPI description served at /swagger.
// Regenerate with: swag init -g main.go
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["认证"],
                "summary": "学生登录",
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/controller.StudentLoginRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}}}
            }
        },
        "/auth/admin/login": {
            "post": {
                "tags": ["认证"],
                "summary": "教师登录",
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/controller.TeacherLoginRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}}}
            }
        },
        "/practice/submit": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["练习"],
                "summary": "提交练习答案",
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/service.SubmitRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}}}
            }
        },
        "/practice/questions": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["练习"],
                "summary": "获取练习题目",
                "parameters": [
                    {"type": "string", "name": "mode", "in": "query"},
                    {"type": "string", "name": "language", "in": "query"},
                    {"type": "array", "items": {"type": "string"}, "name": "type", "in": "query"},
                    {"type": "integer", "name": "chapter_id", "in": "query"},
                    {"type": "integer", "name": "count", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}}}
            }
        },
        "/practice/records": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["练习"],
                "summary": "获取练习记录",
                "parameters": [
                    {"type": "string", "name": "student_id", "in": "query"},
                    {"type": "string", "name": "language", "in": "query"},
                    {"type": "integer", "name": "limit", "in": "query"},
                    {"type": "integer", "name": "offset", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}}}
            }
        },
        "/mistakes": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["错题本"],
                "summary": "获取错题本",
                "parameters": [
                    {"type": "string", "name": "student_id", "in": "query"},
                    {"type": "string", "name": "language", "in": "query"},
                    {"type": "string", "name": "type", "in": "query"},
                    {"type": "string", "name": "status", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}}}
            },
            "put": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["错题本"],
                "summary": "更新错题状态",
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/controller.UpdateMistakeRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}}}
            },
            "delete": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["错题本"],
                "summary": "删除错题",
                "parameters": [{"type": "integer", "name": "id", "in": "query", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}}}
            }
        },
        "/statistics/student": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["统计"],
                "summary": "学生练习统计",
                "parameters": [{"type": "string", "name": "student_id", "in": "query"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}}}
            }
        },
        "/questions": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["题库"],
                "summary": "题库列表",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}}}
            },
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["题库"],
                "summary": "新增题目",
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/util.Response"}}}
            },
            "put": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["题库"],
                "summary": "批量导入题目",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}}}
            }
        },
        "/questions/counts": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["题库"],
                "summary": "题目数量统计",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}}}
            }
        },
        "/questions/{id}": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["题库"],
                "summary": "获取题目详情",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}}}
            },
            "put": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["题库"],
                "summary": "更新题目",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}}}
            },
            "delete": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["题库"],
                "summary": "删除题目",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}}}
            }
        },
        "/chapters": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["章节"],
                "summary": "章节列表",
                "parameters": [{"type": "string", "name": "language", "in": "query"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}}}
            },
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["章节"],
                "summary": "新增章节",
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/util.Response"}}}
            }
        },
        "/chapters/{id}": {
            "put": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["章节"],
                "summary": "更新章节",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}}}
            },
            "delete": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["章节"],
                "summary": "删除章节",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}}}
            }
        }
    },
    "definitions": {
        "util.Response": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "message": {"type": "string"},
                "data": {}
            }
        },
        "controller.StudentLoginRequest": {
            "type": "object",
            "required": ["password", "student_id"],
            "properties": {
                "student_id": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "controller.TeacherLoginRequest": {
            "type": "object",
            "required": ["password"],
            "properties": {
                "username": {"type": "string"},
                "teacher_id": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "controller.UpdateMistakeRequest": {
            "type": "object",
            "required": ["id", "status"],
            "properties": {
                "id": {"type": "integer"},
                "status": {"type": "string", "enum": ["pending", "reviewing", "mastered"]}
            }
        },
        "service.AnswerInput": {
            "type": "object",
            "properties": {
                "question_id": {"type": "integer"},
                "answer": {"type": "string"}
            }
        },
        "service.SubmitRequest": {
            "type": "object",
            "properties": {
                "student_id": {"type": "string"},
                "mode": {"type": "string"},
                "language": {"type": "string"},
                "question_type": {"type": "array", "items": {"type": "string"}},
                "chapter_id": {"type": "integer"},
                "answers": {"type": "array", "items": {"$ref": "#/definitions/service.AnswerInput"}},
                "question_ids": {"type": "array", "items": {"type": "integer"}}
            }
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "编程练习平台后端 API",
	Description:      "编程练习与判分服务：抽题、批量判分、错题本与练习统计。",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
