// Package services implements the use cases behind the HTTP handlers.
//
// LeadService validates uploads, parses them into meetings and hands the
// valid rows to the classifier, publishing progress events along the way.
// RecommendationService caches 3S recommendations by content hash and
// collapses concurrent identical requests into one model call.
// DashboardService and ExportService are thin layers over the analytics and
// exporter packages. HealthService backs the health endpoints.
//
// Services depend on small interfaces declared here rather than on the
// concrete classifier, parser or hub, so handlers and tests can substitute
// them.
package services
