package psi

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func decodeReport(t *testing.T, raw string) Report {
	t.Helper()
	var r Report
	require.NoError(t, json.Unmarshal([]byte(raw), &r))
	return r
}

func TestExtractFullReport(t *testing.T) {
	raw := `{
		"lighthouseResult": {
			"finalUrl": "https://example.com/landing",
			"timing": {"total": 4321.5},
			"audits": {
				"server-response-time": {"numericValue": 120.0},
				"first-contentful-paint": {"numericValue": 900.2},
				"largest-contentful-paint": {"numericValue": 1800.0},
				"speed-index": {"numericValue": 1500.0},
				"total-blocking-time": {"numericValue": 45.0},
				"interactive": {"numericValue": 2100.0},
				"bootup-time": {"numericValue": 300.0},
				"total-byte-weight": {"numericValue": 2048.0},
				"network-requests": {"details": {"items": [{}, {}, {}]}}
			}
		}
	}`

	rec := Extract(decodeReport(t, raw), "http://example.com")

	require.Equal(t, "http://example.com", rec.RequestedURL)
	require.Equal(t, "https://example.com/landing", rec.FinalURL)
	require.Equal(t, 120.0, *rec.TTFBMs)
	require.Equal(t, 900.2, *rec.FCPMs)
	require.Equal(t, 1800.0, *rec.LCPMs)
	require.Equal(t, 1500.0, *rec.SpeedIndexMs)
	require.Equal(t, 45.0, *rec.TBTMs)
	require.Equal(t, 2100.0, *rec.TTIMs)
	require.Equal(t, 300.0, *rec.JSExecutionMs)
	require.Equal(t, 3, rec.Requests)
	require.Equal(t, 2.0, *rec.PageSizeKB, "byte weight should be divided by 1024")
	require.Equal(t, 4321.5, *rec.LoadTimeMs)
}

func TestExtractMissingAuditsTree(t *testing.T) {
	rec := Extract(decodeReport(t, `{}`), "http://example.com")

	require.Equal(t, "http://example.com", rec.RequestedURL)
	require.Equal(t, "http://example.com", rec.FinalURL, "finalUrl should fall back to the requested URL")
	require.Nil(t, rec.TTFBMs)
	require.Nil(t, rec.FCPMs)
	require.Nil(t, rec.LCPMs)
	require.Nil(t, rec.SpeedIndexMs)
	require.Nil(t, rec.TBTMs)
	require.Nil(t, rec.TTIMs)
	require.Nil(t, rec.JSExecutionMs)
	require.Nil(t, rec.PageSizeKB)
	require.Nil(t, rec.LoadTimeMs)
	require.Zero(t, rec.Requests)
}

func TestExtractMalformedSubtrees(t *testing.T) {
	// Audits present but shaped wrong: strings where objects are expected,
	// numericValue holding a string, items holding a scalar.
	raw := `{
		"lighthouseResult": {
			"finalUrl": 17,
			"timing": "fast",
			"audits": {
				"server-response-time": "oops",
				"first-contentful-paint": {"numericValue": "soon"},
				"network-requests": {"details": {"items": 9}}
			}
		}
	}`

	rec := Extract(decodeReport(t, raw), "http://example.com/a")

	require.Equal(t, "http://example.com/a", rec.FinalURL)
	require.Nil(t, rec.TTFBMs)
	require.Nil(t, rec.FCPMs)
	require.Nil(t, rec.LoadTimeMs)
	require.Zero(t, rec.Requests)
}

func TestExtractPartialAudits(t *testing.T) {
	raw := `{
		"lighthouseResult": {
			"audits": {
				"speed-index": {"numericValue": 2500.0}
			}
		}
	}`

	rec := Extract(decodeReport(t, raw), "http://example.com/b")

	require.Equal(t, 2500.0, *rec.SpeedIndexMs)
	require.Nil(t, rec.LCPMs)
	require.Nil(t, rec.PageSizeKB)
}
