// Package store is the inventory and sales-tracking backend for a small
// retail operation (stickers and art prints) selling through several
// distribution channels.
//
// Persistence:
//   - Every collection is one binding of the generic repository engine
//     (see the repository package): ModelHandlers describe how to reach
//     a record's primary key, the rest of the descriptor comes from the
//     Bun model schema. RepositoryManager wires one binding per entity.
//
// Authentication:
//   - Credentials are bcrypt hashes; sessions are stateless HS256 JWTs
//     minted by TokenService and checked on every protected request.
//     There is no server-side token registry, so tokens cannot be
//     revoked before expiry.
//
// Activity sinks:
//   - ActivitySink is a light-weight audit emitter used by Auther and
//     the CRUD controllers. Sinks run best-effort (errors are logged)
//     so auditing never blocks the write it describes. AuditLogSink
//     persists events into the audit_logs table.
package store
