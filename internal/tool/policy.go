package tool

import "strings"

// ReadOnlyQuery is the policy rule attached to database-read tools that
// accept free-form SQL. The statement in the "query" argument must begin
// with the SELECT keyword after trimming surrounding whitespace, compared
// case-insensitively.
//
// This is a textual prefix check, not a SQL parser. It guards against
// accidental mutation by trusted callers; it is not a security boundary
// against adversarial input (comment tricks, multi-statement batches, and
// CTEs starting with WITH all defeat it).
func ReadOnlyQuery(args Args) error {
	query := strings.TrimSpace(args.String("query"))
	if len(query) < len("SELECT") || !strings.EqualFold(query[:len("SELECT")], "SELECT") {
		return Errorf(KindPolicy, "only SELECT statements are allowed")
	}
	return nil
}
