// Command hostwatchctl runs the hostwatch server.
//
// Agents enroll with an owner's install token, receive a per-server
// secret and push HMAC-signed snapshots. Owners read the latest snapshot
// of each of their servers.
//
// # Quick Start
//
//	# Generate the keys
//	export HOSTWATCH_DATA_KEY=$(hostwatchctl data-key generate)
//	export HOSTWATCH_SESSION_KEY=$(hostwatchctl session-key generate)
//
//	# Run database migrations
//	hostwatchctl db migrate
//
//	# Create an owner and print the install token
//	hostwatchctl user create ops@example.com
//
//	# Start the server
//	hostwatchctl server
//
// # Environment Variables
//
//   - DATABASE_URL: PostgreSQL connection string (postgres backend)
//   - HOSTWATCH_DATA_KEY: Base64-encoded 256-bit key sealing server secrets
//   - HOSTWATCH_SESSION_KEY: Base64-encoded key signing owner sessions
//   - HOSTWATCH_CONFIG_PATH: directory holding hostwatch.yml
//   - HOSTWATCH_LOG_LEVEL: Log level (debug, info, warn, error)
//   - HOSTWATCH_LOG_FORMAT: json or console
//   - HOSTWATCH_AUDIT_ENABLED: write RFC 5424 audit records to stderr
//   - AUDIT_DATABASE_URL: also store audit records in PostgreSQL
//   - PORT: Server port (default: 8000)
package main
