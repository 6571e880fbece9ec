package models

import (
	"errors"
	"fmt"
	"math"
	"reflect"
)

var (
	// ErrInvalidValue is returned when a numeric field would be assigned a
	// negative (or non-finite) value.
	ErrInvalidValue = errors.New("invalid value")
	// ErrInsufficientResources is returned when an operation asks for more
	// units than the pool can give.
	ErrInsufficientResources = errors.New("insufficient resources")
)

// checkFields walks every field of the struct v and rejects negative numbers.
// Strings pass through unchecked. Nested structs are walked with their field
// names joined by dots.
func checkFields(v any) error {
	return checkValue("", reflect.ValueOf(v))
}

func checkValue(path string, v reflect.Value) error {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return nil
		}
		return checkValue(path, v.Elem())
	case reflect.Struct:
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			name := t.Field(i).Name
			if path != "" {
				name = path + "." + name
			}
			if err := checkValue(name, v.Field(i)); err != nil {
				return err
			}
		}
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if n := v.Int(); n < 0 {
			return negative(path, n)
		}
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: %s must be finite, got %v", ErrInvalidValue, path, f)
		}
		if f < 0 {
			return negative(path, f)
		}
	}
	return nil
}

func negative(field string, v any) error {
	return fmt.Errorf("%w: %s must not be negative, got %v", ErrInvalidValue, field, v)
}

// quantity rejects negative operation quantities.
func quantity(op Op, n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %s quantity must not be negative, got %d", ErrInvalidValue, op, n)
	}
	return nil
}
