/*
Package portref parses and formats port references of the form
`actor.port`, as used by the connection declarations of graph files.

Both segments must be non-empty and consist of letters, digits,
underscores and hyphens.
*/
package portref
