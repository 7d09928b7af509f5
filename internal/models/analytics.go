package models

// CompanyApplications counts applications received by a company's postings.
type CompanyApplications struct {
	CompanyName      string `json:"company_name"`
	ApplicationCount int64  `json:"application_count"`
}

// MonthlyApplications counts applications by the month they were applied (YYYY-MM).
type MonthlyApplications struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}

type AnalyticsReport struct {
	ByCompany   []CompanyApplications `json:"by_company"`
	ByStatus    []StatusCount         `json:"by_status"`
	Timeline    []MonthlyApplications `json:"timeline"`
	TotalApps   int64                 `json:"total_apps"`
	DoneApps    int64                 `json:"done_apps"`
	SuccessRate float64               `json:"success_rate"`
}

// StudentStats backs the counters at the top of the student dashboard.
type StudentStats struct {
	TotalJobs int64 `json:"total_jobs"`
	Applied   int64 `json:"applied"`
	Done      int64 `json:"done"`
	ToApply   int64 `json:"to_apply"`
	Ignored   int64 `json:"ignored"`
}
