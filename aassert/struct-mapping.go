package aassert

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// NumFields asserts that the given struct has the expected number of public fields.
// Public fields of nested and embedded structs are counted as well, a time.Time is one field.
//
// The public fields of an entity are its snapshot, so a changed count means
// existing snapshots no longer load.
func NumFields(t *testing.T, expected int, object any, msgAndArgs ...any) bool {
	t.Helper()

	typ := reflect.TypeOf(object)
	if typ != nil && typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}

	if typ == nil || typ.Kind() != reflect.Struct {
		return assert.Fail(t, "invalid argument, it has to be a struct", msgAndArgs...)
	}

	fields := numFields(typ)
	if fields != expected {
		t.Log("INFO: The number of public fields of the struct: `" + typ.String() + "` changed.")
		t.Log("      Snapshots written before can not be loaded anymore, ensure all test data has the right fields set.")
		t.Log("=> Manually correct the calling test case: `" + t.Name() + "` to the right expected count.")

		return assert.Fail(t, fmt.Sprintf("struct changed, it has: %d fields, expected: %d", fields, expected), msgAndArgs...)
	}

	return true
}

func numFields(typ reflect.Type) int {
	for typ.Kind() == reflect.Ptr || typ.Kind() == reflect.Slice || typ.Kind() == reflect.Map {
		typ = typ.Elem()
	}

	if typ.Kind() != reflect.Struct || typ == reflect.TypeOf(time.Time{}) {
		return 0
	}

	var fields int

	for i := range typ.NumField() {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}

		fields++
		fields += numFields(field.Type)
	}

	return fields
}
