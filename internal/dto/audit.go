package dto

// AuditQueryRequest audit log query parameters
type AuditQueryRequest struct {
	Limit      int    `form:"limit"       binding:"omitempty,min=1,max=500"`
	ActorID    string `form:"actor_id"`
	Action     string `form:"action"`
	EntityType string `form:"entity_type"`
	EntityID   string `form:"entity_id"`
	Since      string `form:"since"       binding:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Until      string `form:"until"       binding:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

// GetLimit limit with default
func (r *AuditQueryRequest) GetLimit() int {
	if r.Limit <= 0 {
		return 50
	}
	return r.Limit
}

// AuditLogResponse one audit entry
type AuditLogResponse struct {
	ID         string `json:"log_id"`
	Timestamp  string `json:"timestamp"`
	ActorID    string `json:"actor_id"`
	ActorRole  string `json:"actor_role,omitempty"`
	Action     string `json:"action"`
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
	Details    string `json:"details,omitempty"`
}
