package domain

// LifecycleState is the soft-delete state shared by companies, branches,
// locations and contacts. These entities are never hard-deleted through the
// service layer; they are deactivated instead.
type LifecycleState string

const (
	LifecycleActive   LifecycleState = "ACTIVE"
	LifecycleInactive LifecycleState = "INACTIVE"
)
