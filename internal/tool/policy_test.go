package tool

import (
	"errors"
	"testing"
)

func TestReadOnlyQuery(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		query string
		allow bool
	}{
		{"plain select", "SELECT 1", true},
		{"lowercase", "select * from users", true},
		{"mixed case", "SeLeCt id FROM t", true},
		{"leading whitespace", "   select 1", true},
		{"trailing whitespace", "select 1   ", true},
		{"update", "update T set x=1", false},
		{"update uppercase", "UPDATE T SET x=1", false},
		{"delete", "DELETE FROM t", false},
		{"insert", "insert into t values (1)", false},
		{"drop", "DROP TABLE t", false},
		{"empty", "", false},
		{"whitespace only", "   ", false},
		{"cte", "WITH x AS (SELECT 1) SELECT * FROM x", false},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			err := ReadOnlyQuery(Args{"query": tt.query})
			if tt.allow && err != nil {
				t.Errorf("query %q rejected: %v", tt.query, err)
			}
			if !tt.allow {
				var terr *Error
				if !errors.As(err, &terr) || terr.Kind != KindPolicy {
					t.Errorf("query %q: expected policy error, got %v", tt.query, err)
				}
			}
		})
	}
}
