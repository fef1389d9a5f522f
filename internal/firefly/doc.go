// Package firefly provides a read-only HTTP client for the Hyperledger
// FireFly REST API.
//
// All resources except the namespace listing live below a namespace:
//
//	{nsPrefix}/{namespace}/tokens/approvals
//	{nsPrefix}/{namespace}/tokens/pools
//	{nsPrefix}/{namespace}/events
//	{nsPrefix}/{namespace}/status
//
// List calls take a pre-built raw query (see listing.Request.Query) and decode
// the paged envelope returned when the query carries "count". Lookups by
// identifier decode a bare array, which callers expect to hold zero or one
// record.
//
// Errors are wrapped with fmt.Errorf:
//   - "execute request: dial tcp: connection refused"
//   - "api /api/v1/namespaces/default/tokens/approvals returned status 400: FF10148 ..."
//   - "decode response: unexpected end of JSON input"
//
// The Client is safe for concurrent use. It does not cache or retry; the
// listing controllers and the event poller decide when to call again.
package firefly
