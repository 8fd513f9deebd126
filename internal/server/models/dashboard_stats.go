package models

// DashboardStats 后台内容统计
type DashboardStats struct {
	Websites         int64 `json:"websites"`
	FeaturedWebsites int64 `json:"featured_websites"`
	Templates        struct {
		Total    int64 `json:"total"`
		Active   int64 `json:"active"`
		Inactive int64 `json:"inactive"`
	} `json:"templates"`
	WorkflowSteps   int64 `json:"workflow_steps"`
	Pages           int64 `json:"pages"`
	WorkflowSchemas int64 `json:"workflow_schemas"`
	Users           struct {
		Total  int64 `json:"total"`
		Active int64 `json:"active"`
		Admins int64 `json:"admins"`
	} `json:"users"`
}
