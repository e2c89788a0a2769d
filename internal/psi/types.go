// Package psi implements the PageSpeed Insights client and report extraction.
package psi

// Record is one performance observation for one URL.
//
// RequestedURL is always set once a record exists; FinalURL is the URL the
// service resolved to and may differ after redirects. The numeric metrics are
// independently optional: a nil pointer serializes as JSON null and renders
// as an empty CSV cell. Requests is always present because an absent request
// list counts as zero.
type Record struct {
	RequestedURL  string   `json:"requested_url"`
	FinalURL      string   `json:"final_url"`
	TTFBMs        *float64 `json:"ttfb_ms"`
	FCPMs         *float64 `json:"fcp_ms"`
	LCPMs         *float64 `json:"lcp_ms"`
	SpeedIndexMs  *float64 `json:"speed_index_ms"`
	TBTMs         *float64 `json:"tbt_ms"`
	TTIMs         *float64 `json:"tti_ms"`
	Requests      int      `json:"requests"`
	PageSizeKB    *float64 `json:"page_size_kb"`
	JSExecutionMs *float64 `json:"js_execution_ms"`
	LoadTimeMs    *float64 `json:"load_time_ms"`
}
