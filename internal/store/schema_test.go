package store

import (
	"testing"

	"entgo.io/ent"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"

	entschema "github.com/abhisek/studyplan/ent/schema"
)

// entColumns flattens an ent schema, mixins first, into name -> type.
func entColumns(s ent.Interface) map[string]field.Type {
	cols := map[string]field.Type{}
	var fields []ent.Field
	for _, m := range s.Mixin() {
		fields = append(fields, m.Fields()...)
	}
	fields = append(fields, s.Fields()...)
	for _, f := range fields {
		d := f.Descriptor()
		cols[d.Name] = d.Info.Type
	}
	if _, ok := cols["id"]; !ok {
		cols["id"] = field.TypeInt
	}
	return cols
}

func TestTablesMatchEntSchema(t *testing.T) {
	tests := []struct {
		table *schema.Table
		ent   ent.Interface
	}{
		{profilesTable, entschema.Profile{}},
		{scheduleRunsTable, entschema.ScheduleRun{}},
		{llmEventsTable, entschema.LLMRequestEvent{}},
	}
	for _, tt := range tests {
		t.Run(tt.table.Name, func(t *testing.T) {
			want := entColumns(tt.ent)
			if len(want) != len(tt.table.Columns) {
				t.Errorf("ent declares %d columns, table has %d", len(want), len(tt.table.Columns))
			}
			for _, c := range tt.table.Columns {
				typ, ok := want[c.Name]
				if !ok {
					t.Errorf("column %s missing from ent schema", c.Name)
					continue
				}
				if typ != c.Type {
					t.Errorf("column %s: ent type %s, table type %s", c.Name, typ, c.Type)
				}
			}
		})
	}
}
