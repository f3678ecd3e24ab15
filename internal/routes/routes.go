package routes

const (
	// Health
	Health = "/health"

	// Property endpoints
	PropertiesBase = "/api/v1/properties"
	PropertyByID   = "/api/v1/properties/{id}"

	// Job endpoints
	PropertyJobs  = "/api/v1/properties/{id}/jobs"
	JobAssign     = "/api/v1/jobs/{jobId}/assign"
	JobTransition = "/api/v1/jobs/{jobId}/transition"
	JobComplete   = "/api/v1/jobs/{jobId}/complete"
	JobFinalCost  = "/api/v1/jobs/{jobId}/final-cost"

	// PPM schedule endpoints
	SchedulesBase = "/api/v1/schedules"
	ResolverRun   = "/api/v1/schedules/resolve"

	// Reporting endpoints
	ReportsFilter  = "/api/v1/reports/properties"
	ReportsGrouped = "/api/v1/reports/properties/grouped"
	ReportsSummary = "/api/v1/reports/compliance-summary"
	ReportsWindow  = "/api/v1/reports/window-stats"
	ReportsSearch  = "/api/v1/reports/search"
)
