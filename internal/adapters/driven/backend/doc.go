// Package backend implements driven.Backend over the document service's
// HTTP/JSON API.
//
// Every call is a single attempt. A client-side token bucket keeps bursts
// of UI refreshes from flooding the backend, and each request carries an
// X-Request-ID so backend logs can be matched to client debug output.
package backend
