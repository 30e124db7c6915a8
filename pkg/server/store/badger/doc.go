// Package badger provides an embedded implementation of the store
// interfaces backed by Badger, for single-node deployments that do not run
// PostgreSQL.
//
// # Key Layout
//
//   - user:{id}                   JSON user document
//   - user-email:{email}          user id
//   - user-token:{sha256(token)}  user id
//   - server:{id}                 JSON server document, secret sealed
//   - owner:{ownerID}:{serverID}  empty marker used to list an owner's servers
//
// Every operation that touches more than one key runs in a single
// read-write transaction, retried on conflict.
package badger
