// Package auth provides token authentication and role authorisation for
// a Gray Logic node.
//
// A node has no user store. Tokens are HS256 JWTs signed with the
// node's configured secret, issued by the site controller or by
// `graylogic-node token`. The role claim decides what a request may do:
//
//	viewer    read values, schema and log
//	operator  viewer + write Tag values
//	admin     operator + lifecycle commands (init, reinit, delete, ...)
//
// Roles map onto the Tag requester masks, so Tag access flags stay the
// single place that decides which individual value is readable or
// writable.
package auth
