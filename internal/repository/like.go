package repository

import "strings"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching s literally anywhere in
// the column. Postgres uses backslash as the default LIKE escape.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
