/*
Copyright 2026 Dima Krasner

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package dbx reads SQL query results into Go values.
package dbx

import (
	"context"
	"database/sql"
	"reflect"
)

func fieldPtrs(row reflect.Value) []any {
	var ptrs []any
	for _, f := range reflect.VisibleFields(row.Type()) {
		if f.IsExported() && !f.Anonymous {
			ptrs = append(ptrs, row.FieldByIndex(f.Index).Addr().Interface())
		}
	}

	return ptrs
}

// ScanRows calls collect for every row until it returns false.
//
// If T is a struct, the columns of each row are assigned to exported fields of T, in order.
// Otherwise, each row must have a single column.
func ScanRows[T any](rows *sql.Rows, collect func(T) bool) error {
	var zero, row T

	ptrs := []any{&row}
	if v := reflect.ValueOf(&row).Elem(); v.Kind() == reflect.Struct {
		ptrs = fieldPtrs(v)
	}

	for rows.Next() {
		row = zero

		if err := rows.Scan(ptrs...); err != nil {
			return err
		}

		if !collect(row) {
			break
		}
	}

	return rows.Err()
}

// QueryCollect runs a SQL query and returns all rows.
func QueryCollect[T any](ctx context.Context, db *sql.DB, query string, args ...any) ([]T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scanned []T
	if err := ScanRows(rows, func(row T) bool {
		scanned = append(scanned, row)
		return true
	}); err != nil {
		return nil, err
	}

	return scanned, nil
}
