package biz

import "github.com/go-kratos/kratos/v2/errors"

// 业务错误原因，HTTP 层按 kratos 的错误编码输出
const (
	ReasonInvalidDateRange = "INVALID_DATE_RANGE"
	ReasonInvalidCount     = "INVALID_COUNT"
	ReasonInvalidArgument  = "INVALID_ARGUMENT"
	ReasonMissingField     = "MISSING_FIELD"
	ReasonInvalidPlatform  = "INVALID_PLATFORM"
	ReasonPlanNotFound     = "PLAN_NOT_FOUND"
	ReasonNoteNotFound     = "NOTE_NOT_FOUND"
	ReasonAccountNotFound  = "ACCOUNT_NOT_FOUND"
	ReasonContentNotFound  = "CONTENT_NOT_FOUND"
	ReasonMomentNotFound   = "MOMENT_NOT_FOUND"
	ReasonUserNotFound     = "USER_NOT_FOUND"
	ReasonJobNotFound      = "JOB_NOT_FOUND"
	ReasonEditorNotFound   = "EDITOR_NOT_FOUND"
	ReasonEditorClosed     = "EDITOR_CLOSED"
	ReasonAuthFailed       = "AUTH_FAILED"
	ReasonConfirmRequired  = "CONFIRM_REQUIRED"
)

// ErrMissingField 必填字段缺失
func ErrMissingField(field string) error {
	return errors.BadRequest(ReasonMissingField, field+" is required")
}

// ErrPlanNotFound 计划不存在
func ErrPlanNotFound(id string) error {
	return errors.NotFound(ReasonPlanNotFound, "plan not found").WithMetadata(map[string]string{"id": id})
}

// ErrNoteNotFound 笔记不存在
func ErrNoteNotFound(id string) error {
	return errors.NotFound(ReasonNoteNotFound, "note not found").WithMetadata(map[string]string{"id": id})
}

// ErrAccountNotFound 账号不存在
func ErrAccountNotFound(id string) error {
	return errors.NotFound(ReasonAccountNotFound, "account not found").WithMetadata(map[string]string{"id": id})
}

// ErrContentNotFound 内容不存在
func ErrContentNotFound(id string) error {
	return errors.NotFound(ReasonContentNotFound, "content not found").WithMetadata(map[string]string{"id": id})
}

// ErrMomentNotFound 朋友圈不存在
func ErrMomentNotFound(id string) error {
	return errors.NotFound(ReasonMomentNotFound, "moment not found").WithMetadata(map[string]string{"id": id})
}

// ErrUserNotFound 用户不存在
func ErrUserNotFound() error {
	return errors.NotFound(ReasonUserNotFound, "user not found")
}
