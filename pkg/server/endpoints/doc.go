// Package endpoints registers the hostwatch HTTP API on a server.Server.
//
//   - GET  /                    status
//   - GET  /metrics             Prometheus metrics
//   - POST /api/user/register   create an owner account
//   - POST /api/user/login      issue an owner session
//   - GET  /api/user/token      read the install token (session)
//   - POST /api/user/token      rotate the install token (session)
//   - POST /api/register        agent enrollment (install token)
//   - POST /api/metrics         signed snapshot ingestion (HMAC)
//   - GET  /api/stats           the owner's servers (session)
//
// Errors are JSON objects of the form {"error": "..."}.
package endpoints
