// Package poeninja fetches market snapshots from the poe.ninja data API.
//
// # Endpoints
//
// Two dataset families are served, each from its own overview endpoint:
//
//	GET <base>/currencyoverview?league=<league>&type=<type>
//	GET <base>/itemoverview?league=<league>&type=<type>
//
// The default base is https://poe.ninja/api/data.
//
// Both endpoints answer with a JSON object holding a "lines" array.
// Currency lines are keyed by "currencyTypeName" and valued by "chaosEquivalent",
// item lines by "name" and "chaosValue". The remaining fields are kept as-is.
//
// # Errors
//
// Every failed fetch is classified into one of three sentinels:
//   - ErrRemoteRejected, for any non-200 status (see StatusError)
//   - ErrMalformedResponse, for bodies that are not the expected JSON shape
//   - ErrUnreachable, for transport failures, timeouts and cancellations
//
// The provider never touches the cache. The snapshot timestamp is
// stamped locally, once the response body is fully read.
package poeninja
