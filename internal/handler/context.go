package handler

type ContextKey string

var (
	RoleCtxKey      ContextKey = "role"
	SubCtxKey       ContextKey = "sub"
	RequestIDCtxKey ContextKey = "requestID"
	MyInfoCtx       ContextKey = "myInfo"
	UserInfoCtx     ContextKey = "userInfo"
	WardCtx         ContextKey = "ward"
	ShiftPlanCtx    ContextKey = "shiftPlan"
)
