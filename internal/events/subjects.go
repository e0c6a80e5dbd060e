package events

const (
	SubjectStatsSnapshot = "vendormatch.stats.snapshot"

	StreamName   = "VENDORMATCH_EVENTS"
	StreamMaxAge = "720h" // 30 days
)

func SubjectRecommendationServed(tenantID string) string {
	return "vendormatch.recommendation." + tenantID + ".served"
}

func SubjectWorkOrderCreated(orderID string) string   { return "vendormatch.workorder." + orderID + ".created" }
func SubjectWorkOrderStarted(orderID string) string   { return "vendormatch.workorder." + orderID + ".started" }
func SubjectWorkOrderCompleted(orderID string) string { return "vendormatch.workorder." + orderID + ".completed" }
func SubjectWorkOrderCancelled(orderID string) string { return "vendormatch.workorder." + orderID + ".cancelled" }

func SubjectProviderRegistered(providerID string) string {
	return "vendormatch.provider." + providerID + ".registered"
}
func SubjectProviderUpdated(providerID string) string {
	return "vendormatch.provider." + providerID + ".updated"
}

func SubjectReviewRecorded(providerID string) string {
	return "vendormatch.review." + providerID + ".recorded"
}
