package psi

// Report is a decoded PageSpeed Insights response body. The service returns a
// deeply nested document; every lookup treats missing or oddly-shaped
// sub-trees as absent rather than failing.
type Report map[string]any

// Audit keys read out of lighthouseResult.audits.
const (
	auditServerResponseTime = "server-response-time"
	auditFirstContentful    = "first-contentful-paint"
	auditLargestContentful  = "largest-contentful-paint"
	auditSpeedIndex         = "speed-index"
	auditTotalBlockingTime  = "total-blocking-time"
	auditInteractive        = "interactive"
	auditBootupTime         = "bootup-time"
	auditTotalByteWeight    = "total-byte-weight"
	auditNetworkRequests    = "network-requests"
)

// Extract maps a raw report into a flat Record. Missing intermediate nodes
// yield nil metrics, never an error.
func Extract(report Report, requestedURL string) Record {
	lr := childMap(report, "lighthouseResult")
	audits := childMap(lr, "audits")

	num := func(key string) *float64 {
		return numericValue(childMap(audits, key))
	}

	rec := Record{
		RequestedURL:  requestedURL,
		FinalURL:      stringValue(lr, "finalUrl"),
		TTFBMs:        num(auditServerResponseTime),
		FCPMs:         num(auditFirstContentful),
		LCPMs:         num(auditLargestContentful),
		SpeedIndexMs:  num(auditSpeedIndex),
		TBTMs:         num(auditTotalBlockingTime),
		TTIMs:         num(auditInteractive),
		Requests:      itemCount(childMap(audits, auditNetworkRequests)),
		JSExecutionMs: num(auditBootupTime),
		LoadTimeMs:    numberValue(childMap(lr, "timing"), "total"),
	}

	if w := num(auditTotalByteWeight); w != nil {
		kb := *w / 1024
		rec.PageSizeKB = &kb
	}
	if rec.FinalURL == "" {
		rec.FinalURL = requestedURL
	}

	return rec
}

// childMap returns node[key] when it is an object, else nil.
func childMap(node map[string]any, key string) map[string]any {
	if node == nil {
		return nil
	}
	m, _ := node[key].(map[string]any)
	return m
}

// numericValue reads an audit's numericValue field.
func numericValue(audit map[string]any) *float64 {
	return numberValue(audit, "numericValue")
}

func numberValue(node map[string]any, key string) *float64 {
	if node == nil {
		return nil
	}
	f, ok := node[key].(float64)
	if !ok {
		return nil
	}
	return &f
}

func stringValue(node map[string]any, key string) string {
	if node == nil {
		return ""
	}
	s, _ := node[key].(string)
	return s
}

// itemCount returns the length of an audit's details.items list, zero when
// any part of the path is absent.
func itemCount(audit map[string]any) int {
	details := childMap(audit, "details")
	if details == nil {
		return 0
	}
	items, _ := details["items"].([]any)
	return len(items)
}
