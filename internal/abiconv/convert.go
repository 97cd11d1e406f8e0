package abiconv

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/squidgame/squid-ops/pkg/units"
)

var (
	ErrUnsupported = errors.New("unsupported value")
	ErrOutOfRange  = errors.New("value out of range")
	ErrArity       = errors.New("wrong number of values")

	bigType = reflect.TypeOf((*big.Int)(nil))
)

// Args converts loosely typed values into the exact Go types expected by the
// packer for each argument.
func Args(args abi.Arguments, values []interface{}) ([]interface{}, error) {
	if len(args) != len(values) {
		return nil, fmt.Errorf("%w: want %d got %d", ErrArity, len(args), len(values))
	}

	out := make([]interface{}, len(values))
	for i, arg := range args {
		v, err := Convert(arg.Type, values[i])
		if err != nil {
			name := arg.Name
			if name == "" {
				name = fmt.Sprintf("#%d", i)
			}
			return nil, fmt.Errorf("argument %s (%s): %w", name, arg.Type.String(), err)
		}
		out[i] = v
	}

	return out, nil
}

// Convert returns v as a value of t.GetType().
func Convert(t abi.Type, v interface{}) (interface{}, error) {
	switch t.T {
	case abi.IntTy, abi.UintTy:
		return convertInt(t, v)
	case abi.BoolTy:
		return convertBool(v)
	case abi.AddressTy:
		return convertAddress(v)
	case abi.StringTy:
		return convertString(v)
	case abi.BytesTy:
		return convertBytes(v)
	case abi.FixedBytesTy:
		return convertFixedBytes(t, v)
	case abi.SliceTy, abi.ArrayTy:
		return convertList(t, v)
	case abi.TupleTy:
		return convertTuple(t, v)
	}

	return nil, fmt.Errorf("%w: abi type %s", ErrUnsupported, t.String())
}

func convertInt(t abi.Type, v interface{}) (interface{}, error) {
	n, err := ToBig(v)
	if err != nil {
		return nil, err
	}

	if t.T == abi.UintTy {
		if n.Sign() < 0 || n.BitLen() > t.Size {
			return nil, fmt.Errorf("%w: %s does not fit uint%d", ErrOutOfRange, n, t.Size)
		}
	} else {
		limit := new(big.Int).Lsh(big.NewInt(1), uint(t.Size-1))
		if n.Cmp(limit) >= 0 || n.Cmp(new(big.Int).Neg(limit)) < 0 {
			return nil, fmt.Errorf("%w: %s does not fit int%d", ErrOutOfRange, n, t.Size)
		}
	}

	rt := t.GetType()
	if rt == bigType {
		return n, nil
	}

	out := reflect.New(rt).Elem()
	if t.T == abi.UintTy {
		out.SetUint(n.Uint64())
	} else {
		out.SetInt(n.Int64())
	}

	return out.Interface(), nil
}

// ToBig accepts Go integers, integral floats, *big.Int and amount strings
// ("1653e16", "0x10", "30ether").
func ToBig(v interface{}) (*big.Int, error) {
	switch n := v.(type) {
	case *big.Int:
		if n == nil {
			return nil, fmt.Errorf("%w: nil *big.Int", ErrUnsupported)
		}
		return new(big.Int).Set(n), nil
	case big.Int:
		return new(big.Int).Set(&n), nil
	case string:
		return units.ParseAmount(n)
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return nil, fmt.Errorf("%w: %v is not an integer", ErrUnsupported, n)
		}
		b, _ := new(big.Float).SetFloat64(n).Int(nil)
		return b, nil
	case float32:
		return ToBig(float64(n))
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return big.NewInt(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return new(big.Int).SetUint64(rv.Uint()), nil
	}

	return nil, fmt.Errorf("%w: %T as integer", ErrUnsupported, v)
}

func convertBool(v interface{}) (interface{}, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
	}

	return nil, fmt.Errorf("%w: %v as bool", ErrUnsupported, v)
}

func convertAddress(v interface{}) (interface{}, error) {
	switch a := v.(type) {
	case common.Address:
		return a, nil
	case *common.Address:
		if a != nil {
			return *a, nil
		}
	case [20]byte:
		return common.Address(a), nil
	case string:
		if common.IsHexAddress(a) {
			return common.HexToAddress(a), nil
		}
	}

	return nil, fmt.Errorf("%w: %v as address", ErrUnsupported, v)
}

func convertString(v interface{}) (interface{}, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case fmt.Stringer:
		return s.String(), nil
	}

	return nil, fmt.Errorf("%w: %T as string", ErrUnsupported, v)
}

func toBytes(v interface{}) ([]byte, error) {
	switch b := v.(type) {
	case []byte:
		return b, nil
	case common.Hash:
		return b.Bytes(), nil
	case string:
		return hexutil.Decode(b)
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Array && rv.Type().Elem().Kind() == reflect.Uint8 {
		out := make([]byte, rv.Len())
		for i := range out {
			out[i] = byte(rv.Index(i).Uint())
		}
		return out, nil
	}

	return nil, fmt.Errorf("%w: %T as bytes", ErrUnsupported, v)
}

func convertBytes(v interface{}) (interface{}, error) {
	return toBytes(v)
}

func convertFixedBytes(t abi.Type, v interface{}) (interface{}, error) {
	b, err := toBytes(v)
	if err != nil {
		return nil, err
	}
	if len(b) > t.Size {
		return nil, fmt.Errorf("%w: %d bytes into bytes%d", ErrOutOfRange, len(b), t.Size)
	}

	out := reflect.New(t.GetType()).Elem()
	reflect.Copy(out, reflect.ValueOf(b))

	return out.Interface(), nil
}

func convertList(t abi.Type, v interface{}) (interface{}, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("%w: %T as %s", ErrUnsupported, v, t.String())
	}
	if t.T == abi.ArrayTy && rv.Len() != t.Size {
		return nil, fmt.Errorf("%w: %d elements for %s", ErrArity, rv.Len(), t.String())
	}

	var out reflect.Value
	if t.T == abi.ArrayTy {
		out = reflect.New(t.GetType()).Elem()
	} else {
		out = reflect.MakeSlice(t.GetType(), rv.Len(), rv.Len())
	}

	for i := 0; i < rv.Len(); i++ {
		elem, err := Convert(*t.Elem, rv.Index(i).Interface())
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		out.Index(i).Set(reflect.ValueOf(elem))
	}

	return out.Interface(), nil
}

func convertTuple(t abi.Type, v interface{}) (interface{}, error) {
	values, err := tupleValues(t, v)
	if err != nil {
		return nil, err
	}

	out := reflect.New(t.TupleType).Elem()
	for i, elem := range t.TupleElems {
		conv, err := Convert(*elem, values[i])
		if err != nil {
			return nil, fmt.Errorf(".%s: %w", t.TupleRawNames[i], err)
		}
		out.Field(i).Set(reflect.ValueOf(conv))
	}

	return out.Interface(), nil
}

// tupleValues returns the tuple components in ABI order. Tuples are given
// positionally as slices, by raw component name as maps, or as structs
// whose field names match the components.
func tupleValues(t abi.Type, v interface{}) ([]interface{}, error) {
	if m, ok := v.(map[string]interface{}); ok {
		values := make([]interface{}, len(t.TupleRawNames))
		for i, name := range t.TupleRawNames {
			val, ok := m[name]
			if !ok {
				return nil, fmt.Errorf("%w: missing tuple component %q", ErrArity, name)
			}
			values[i] = val
		}
		return values, nil
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr && !rv.IsNil() {
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Len() != len(t.TupleElems) {
			return nil, fmt.Errorf("%w: %d values for %s", ErrArity, rv.Len(), t.String())
		}
		values := make([]interface{}, rv.Len())
		for i := range values {
			values[i] = rv.Index(i).Interface()
		}
		return values, nil
	case reflect.Struct:
		values := make([]interface{}, len(t.TupleRawNames))
		for i, name := range t.TupleRawNames {
			field, ok := fieldByName(rv, name)
			if !ok {
				return nil, fmt.Errorf("%w: %s has no field for %q", ErrArity, rv.Type(), name)
			}
			values[i] = field.Interface()
		}
		return values, nil
	}

	return nil, fmt.Errorf("%w: %T as %s", ErrUnsupported, v, t.String())
}
