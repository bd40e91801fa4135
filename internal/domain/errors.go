package domain

import "errors"

var (
	// ErrDuplicatePlanName 同一范围下已存在同名的排班计划
	ErrDuplicatePlanName = errors.New("排班计划名称已存在")
	// ErrPlanNotFound 排班计划不存在或已被删除
	ErrPlanNotFound = errors.New("排班计划不存在")
)
