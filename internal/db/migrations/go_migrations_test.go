package migrations

import (
	"strings"
	"testing"
)

func TestExpandDDL(t *testing.T) {
	t.Cleanup(func() { SetDialect("") })

	tests := []struct {
		dialect string
		want    string
	}{
		{dialect: "sqlite3", want: "TEXT"},
		{dialect: "postgres", want: "TEXT"},
		{dialect: "mysql", want: "MEDIUMTEXT"},
	}
	for _, tt := range tests {
		t.Run(tt.dialect, func(t *testing.T) {
			SetDialect(tt.dialect)
			got := expandDDL(actionsDDL)
			if strings.Contains(got, "{{DOC}}") {
				t.Fatal("placeholder left in DDL")
			}
			if !strings.Contains(got, "parameters            "+tt.want+" ") {
				t.Errorf("parameters column type not %s:\n%s", tt.want, got)
			}
		})
	}
}
