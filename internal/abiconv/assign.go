package abiconv

import (
	"fmt"
	"math/big"
	"reflect"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Assign copies a decoded call result into dst, which must be a non-nil
// pointer. Structs are matched field by field on name (or an `abi` tag),
// integers are widened or narrowed with a range check and slices are
// converted element-wise.
func Assign(dst interface{}, src interface{}) error {
	dv := reflect.ValueOf(dst)
	if dv.Kind() != reflect.Ptr || dv.IsNil() {
		return fmt.Errorf("%w: destination %T is not a pointer", ErrUnsupported, dst)
	}

	return assign(dv.Elem(), reflect.ValueOf(src))
}

func assign(dv reflect.Value, sv reflect.Value) error {
	if !sv.IsValid() {
		return nil
	}
	for sv.Kind() == reflect.Interface || (sv.Kind() == reflect.Ptr && sv.Type() != bigType) {
		if sv.IsNil() {
			return nil
		}
		sv = sv.Elem()
	}
	if sv.Type() == bigType && sv.IsNil() {
		return nil
	}

	if sv.Type().AssignableTo(dv.Type()) {
		if sv.Type() == bigType {
			dv.Set(reflect.ValueOf(new(big.Int).Set(sv.Interface().(*big.Int))))
		} else {
			dv.Set(sv)
		}
		return nil
	}

	switch {
	case dv.Type() == bigType:
		n, err := ToBig(sv.Interface())
		if err != nil {
			return err
		}
		dv.Set(reflect.ValueOf(n))
		return nil
	case isInt(dv.Kind()), isUint(dv.Kind()):
		return assignInt(dv, sv)
	case dv.Kind() == reflect.Struct && sv.Kind() == reflect.Struct:
		return assignStruct(dv, sv)
	case dv.Kind() == reflect.Slice && (sv.Kind() == reflect.Slice || sv.Kind() == reflect.Array):
		out := reflect.MakeSlice(dv.Type(), sv.Len(), sv.Len())
		for i := 0; i < sv.Len(); i++ {
			if err := assign(out.Index(i), sv.Index(i)); err != nil {
				return fmt.Errorf("[%d]: %w", i, err)
			}
		}
		dv.Set(out)
		return nil
	case sv.Type().ConvertibleTo(dv.Type()) && sv.Kind() == dv.Kind():
		dv.Set(sv.Convert(dv.Type()))
		return nil
	}

	return fmt.Errorf("%w: cannot assign %s to %s", ErrUnsupported, sv.Type(), dv.Type())
}

func assignInt(dv reflect.Value, sv reflect.Value) error {
	n, err := ToBig(sv.Interface())
	if err != nil {
		return err
	}

	if isUint(dv.Kind()) {
		if n.Sign() < 0 || n.BitLen() > dv.Type().Bits() {
			return fmt.Errorf("%w: %s into %s", ErrOutOfRange, n, dv.Type())
		}
		dv.SetUint(n.Uint64())
		return nil
	}

	if !n.IsInt64() || dv.OverflowInt(n.Int64()) {
		return fmt.Errorf("%w: %s into %s", ErrOutOfRange, n, dv.Type())
	}
	dv.SetInt(n.Int64())

	return nil
}

func assignStruct(dv reflect.Value, sv reflect.Value) error {
	for i := 0; i < dv.NumField(); i++ {
		field := dv.Type().Field(i)
		if field.PkgPath != "" {
			continue
		}

		name := field.Name
		if tag, ok := field.Tag.Lookup("abi"); ok {
			if tag == "-" {
				continue
			}
			name = tag
		}

		src, ok := fieldByName(sv, name)
		if !ok {
			continue
		}
		if err := assign(dv.Field(i), src); err != nil {
			return fmt.Errorf(".%s: %w", field.Name, err)
		}
	}

	return nil
}

// fieldByName finds a struct field by its exact name, its camel-cased ABI
// name or case-insensitively.
func fieldByName(v reflect.Value, name string) (reflect.Value, bool) {
	if f := v.FieldByName(name); f.IsValid() {
		return f, true
	}
	if f := v.FieldByName(abi.ToCamelCase(name)); f.IsValid() {
		return f, true
	}

	for i := 0; i < v.NumField(); i++ {
		if strings.EqualFold(v.Type().Field(i).Name, name) {
			return v.Field(i), true
		}
	}

	return reflect.Value{}, false
}

func isInt(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Int64
}

func isUint(k reflect.Kind) bool {
	return k >= reflect.Uint && k <= reflect.Uintptr
}

// AssignOutputs copies the decoded outputs of a call into dst. A single
// output is assigned directly; several outputs fill the fields of a struct
// by output name.
func AssignOutputs(dst interface{}, outputs abi.Arguments, values []interface{}) error {
	if len(values) != len(outputs) {
		return fmt.Errorf("%w: want %d outputs got %d", ErrArity, len(outputs), len(values))
	}
	if len(values) == 1 {
		return Assign(dst, values[0])
	}

	dv := reflect.ValueOf(dst)
	if dv.Kind() != reflect.Ptr || dv.IsNil() || dv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w: %d outputs need a struct pointer, got %T", ErrUnsupported, len(values), dst)
	}
	dv = dv.Elem()

	for i, output := range outputs {
		field, ok := taggedField(dv, output.Name)
		if !ok {
			continue
		}
		if err := assign(field, reflect.ValueOf(values[i])); err != nil {
			return fmt.Errorf(".%s: %w", output.Name, err)
		}
	}

	return nil
}

func taggedField(v reflect.Value, name string) (reflect.Value, bool) {
	if name == "" {
		return reflect.Value{}, false
	}
	for i := 0; i < v.NumField(); i++ {
		if tag, ok := v.Type().Field(i).Tag.Lookup("abi"); ok && tag == name {
			return v.Field(i), true
		}
	}

	return fieldByName(v, name)
}
