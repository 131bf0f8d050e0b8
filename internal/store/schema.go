package store

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"entgo.io/ent"
	sqlann "entgo.io/ent/dialect/entsql"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"

	entschema "github.com/abhisek/futable/ent/schema"
)

const (
	llmEventsTable     = "llm_request_events"
	sessionEventsTable = "concept_session_events"
)

// eventSchemas lists the ent schema types that back a table.
var eventSchemas = []ent.Interface{
	entschema.LLMRequestEvent{},
	entschema.ConceptSessionEvent{},
}

// migrate creates or upgrades every event table. Tables are derived from
// the ent schema descriptors at runtime, so no generated client is needed.
func migrate(ctx context.Context, drv *entsql.Driver) error {
	tables := make([]*schema.Table, 0, len(eventSchemas))
	for _, s := range eventSchemas {
		t, err := tableFor(s)
		if err != nil {
			return err
		}
		tables = append(tables, t)
	}

	m, err := schema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	return m.Create(ctx, tables...)
}

// tableFor converts an ent schema (its mixins, fields and indexes) into a
// migration table with an auto-increment id primary key.
func tableFor(s ent.Interface) (*schema.Table, error) {
	name := tableName(s)
	if name == "" {
		return nil, fmt.Errorf("schema %T has no table annotation", s)
	}

	id := &schema.Column{Name: "id", Type: field.TypeInt, Increment: true}
	t := schema.NewTable(name).AddPrimary(id)

	var fields []ent.Field
	var indexes []ent.Index
	for _, mx := range s.Mixin() {
		fields = append(fields, mx.Fields()...)
		indexes = append(indexes, mx.Indexes()...)
	}
	fields = append(fields, s.Fields()...)
	indexes = append(indexes, s.Indexes()...)

	byName := make(map[string]*schema.Column, len(fields))
	for _, f := range fields {
		d := f.Descriptor()
		if d.Err != nil {
			return nil, fmt.Errorf("%s.%s: %w", name, d.Name, d.Err)
		}
		col := &schema.Column{
			Name:     d.Name,
			Type:     d.Info.Type,
			Size:     int64(d.Size),
			Unique:   d.Unique,
			Nullable: d.Optional || d.Nillable,
			Default:  staticDefault(d.Default),
		}
		t.AddColumn(col)
		byName[d.Name] = col
	}

	for _, idx := range indexes {
		d := idx.Descriptor()
		for _, fn := range d.Fields {
			if _, ok := byName[fn]; !ok {
				return nil, fmt.Errorf("%s: index references unknown field %q", name, fn)
			}
		}
		t.AddIndex(name+"_"+strings.Join(d.Fields, "_"), d.Unique, d.Fields)
	}

	return t, nil
}

func tableName(s ent.Interface) string {
	for _, a := range s.Annotations() {
		switch ann := a.(type) {
		case sqlann.Annotation:
			return ann.Table
		case *sqlann.Annotation:
			return ann.Table
		}
	}
	return ""
}

// staticDefault drops function defaults such as time.Now; those values are
// supplied on insert instead.
func staticDefault(v any) any {
	if v == nil || reflect.TypeOf(v).Kind() == reflect.Func {
		return nil
	}
	return v
}
