// Package cli implements the plume command-line client.
//
// Every command is a thin cobra wrapper over client.Client: it gathers
// arguments (flags, positional ids, or interactive prompts), makes one call,
// and prints the result. A successful login is remembered per server
// address in a local SQLite database, so later invocations reuse the token.
//
// Command tree:
//
//	plume register | login | logout | whoami | ping
//	plume user get|rewards|unlock|delete
//	plume totem list|get|choose|create
//	plume poem draft|publish|update|delete|get|list
//	plume feather cast|withdraw|tally|list
//	plume lore <mood|feather|symbol>
package cli
