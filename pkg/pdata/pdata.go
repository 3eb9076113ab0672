package pdata

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"unicode/utf8"
)

var (
	// ErrEof is returned when the input ends before the schema does.
	ErrEof = errors.New("unexpected end of input")

	// ErrUnsupportedType is returned for a schema type the codec does not
	// know about.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrInvalidString is returned when a fixed-length string field does not
	// contain valid UTF-8.
	ErrInvalidString = errors.New("string is not valid utf-8")
)

// TrailingBytesError is returned when the input is longer than the schema.
type TrailingBytesError int

func (e TrailingBytesError) Error() string {
	return fmt.Sprintf("%d trailing bytes after the last field", int(e))
}

// InvalidEnumError is returned when an encoded enum index is out of range for
// its variant list.
type InvalidEnumError struct {
	Enum  string
	Value uint8
}

func (e InvalidEnumError) Error() string {
	return fmt.Sprintf("invalid value %d for enum %s", e.Value, e.Enum)
}

// Pdata is a decoded persistent player data blob. The zero value is not
// usable until UnmarshalBinary succeeds on it.
type Pdata struct {
	root map[string]any
}

// UnmarshalBinary decodes buf against PlayerDataSchema. The whole input must
// be consumed exactly.
func (d *Pdata) UnmarshalBinary(buf []byte) error {
	r := buf
	root := make(map[string]any, len(PlayerDataSchema.Root))
	for _, f := range PlayerDataSchema.Root {
		v, n, err := PlayerDataSchema.decode(r, f.Type)
		if err != nil {
			return fmt.Errorf("decode %s: %w", f.Name, err)
		}
		root[f.Name], r = v, r[n:]
	}
	if len(r) != 0 {
		return TrailingBytesError(len(r))
	}
	d.root = root
	return nil
}

func (s Schema) decode(r []byte, t TypeInfo) (any, int, error) {
	switch {
	case t.Int != nil:
		if len(r) < 4 {
			return nil, 0, ErrEof
		}
		return int32(binary.LittleEndian.Uint32(r)), 4, nil
	case t.Bool != nil:
		if len(r) < 1 {
			return nil, 0, ErrEof
		}
		return r[0] != 0, 1, nil
	case t.Float != nil:
		if len(r) < 4 {
			return nil, 0, ErrEof
		}
		return math.Float32frombits(binary.LittleEndian.Uint32(r)), 4, nil
	case t.String != nil:
		n := t.String.Length
		if len(r) < n {
			return nil, 0, ErrEof
		}
		raw := r[:n]
		if i := bytes.IndexByte(raw, 0); i != -1 {
			raw = raw[:i]
		}
		if !utf8.Valid(raw) {
			return nil, 0, ErrInvalidString
		}
		return string(raw), n, nil
	case t.Enum != nil:
		if len(r) < 1 {
			return nil, 0, ErrEof
		}
		variants, ok := s.Enum[t.Enum.Name]
		if !ok {
			return nil, 0, fmt.Errorf("%w: undefined enum %s", ErrUnsupportedType, t.Enum.Name)
		}
		if int(r[0]) >= len(variants) {
			return nil, 0, InvalidEnumError{t.Enum.Name, r[0]}
		}
		return variants[r[0]], 1, nil
	case t.Array != nil:
		var n int
		vs := make([]any, t.Array.Length)
		for i := range vs {
			v, vn, err := s.decode(r[n:], t.Array.Type)
			if err != nil {
				return nil, 0, fmt.Errorf("index %d: %w", i, err)
			}
			vs[i], n = v, n+vn
		}
		return vs, n, nil
	case t.Struct != nil:
		fs, ok := s.Struct[t.Struct.Name]
		if !ok {
			return nil, 0, fmt.Errorf("%w: undefined struct %s", ErrUnsupportedType, t.Struct.Name)
		}
		var n int
		obj := make(map[string]any, len(fs))
		for _, f := range fs {
			v, vn, err := s.decode(r[n:], f.Type)
			if err != nil {
				return nil, 0, fmt.Errorf("%s: %w", f.Name, err)
			}
			obj[f.Name], n = v, n+vn
		}
		return obj, n, nil
	default:
		return nil, 0, ErrUnsupportedType
	}
}

// MarshalBinary encodes the blob against PlayerDataSchema. It is the exact
// inverse of UnmarshalBinary for NUL-padded inputs.
func (d Pdata) MarshalBinary() ([]byte, error) {
	var b bytes.Buffer
	b.Grow(PlayerDataSchema.Size())
	for _, f := range PlayerDataSchema.Root {
		if err := PlayerDataSchema.encode(&b, f.Type, d.root[f.Name]); err != nil {
			return nil, fmt.Errorf("encode %s: %w", f.Name, err)
		}
	}
	return b.Bytes(), nil
}

func (s Schema) encode(b *bytes.Buffer, t TypeInfo, v any) error {
	switch {
	case t.Int != nil:
		x, ok := v.(int32)
		if !ok {
			return fmt.Errorf("expected int32, got %T", v)
		}
		var tmp [4]byte
		binary.LittleEndian.PutUint32(tmp[:], uint32(x))
		b.Write(tmp[:])
	case t.Bool != nil:
		x, ok := v.(bool)
		if !ok {
			return fmt.Errorf("expected bool, got %T", v)
		}
		if x {
			b.WriteByte(1)
		} else {
			b.WriteByte(0)
		}
	case t.Float != nil:
		x, ok := v.(float32)
		if !ok {
			return fmt.Errorf("expected float32, got %T", v)
		}
		var tmp [4]byte
		binary.LittleEndian.PutUint32(tmp[:], math.Float32bits(x))
		b.Write(tmp[:])
	case t.String != nil:
		x, ok := v.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", v)
		}
		if len(x) > t.String.Length {
			return fmt.Errorf("string %q exceeds %d bytes", x, t.String.Length)
		}
		b.WriteString(x)
		for i := len(x); i < t.String.Length; i++ {
			b.WriteByte(0)
		}
	case t.Enum != nil:
		x, ok := v.(string)
		if !ok {
			return fmt.Errorf("expected enum variant, got %T", v)
		}
		variants, ok := s.Enum[t.Enum.Name]
		if !ok {
			return fmt.Errorf("%w: undefined enum %s", ErrUnsupportedType, t.Enum.Name)
		}
		for i, variant := range variants {
			if variant == x {
				b.WriteByte(uint8(i))
				return nil
			}
		}
		return fmt.Errorf("unknown variant %q for enum %s", x, t.Enum.Name)
	case t.Array != nil:
		xs, ok := v.([]any)
		if !ok || len(xs) != t.Array.Length {
			return fmt.Errorf("expected array of %d values, got %T", t.Array.Length, v)
		}
		for i, x := range xs {
			if err := s.encode(b, t.Array.Type, x); err != nil {
				return fmt.Errorf("index %d: %w", i, err)
			}
		}
	case t.Struct != nil:
		obj, ok := v.(map[string]any)
		if !ok {
			return fmt.Errorf("expected struct, got %T", v)
		}
		fs, ok := s.Struct[t.Struct.Name]
		if !ok {
			return fmt.Errorf("%w: undefined struct %s", ErrUnsupportedType, t.Struct.Name)
		}
		for _, f := range fs {
			if err := s.encode(b, f.Type, obj[f.Name]); err != nil {
				return fmt.Errorf("%s: %w", f.Name, err)
			}
		}
	default:
		return ErrUnsupportedType
	}
	return nil
}

// MarshalJSON encodes the blob as a JSON object in schema order, with enum
// variants as their names.
func (d Pdata) MarshalJSON() ([]byte, error) {
	return d.MarshalJSONFilter(nil)
}

// MarshalJSONFilter is like MarshalJSON, but skips any field (at any depth)
// for which filter returns false. The path is the field names from the root,
// not including array indexes. A nil filter includes everything.
func (d Pdata) MarshalJSONFilter(filter func(path ...string) bool) ([]byte, error) {
	var b bytes.Buffer
	if err := PlayerDataSchema.encodeJSONFields(&b, filter, nil, PlayerDataSchema.Root, d.root); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func (s Schema) encodeJSONFields(b *bytes.Buffer, filter func(path ...string) bool, path []string, fs []Field, obj map[string]any) error {
	b.WriteByte('{')
	var n int
	for _, f := range fs {
		fpath := append(path, f.Name)
		if filter != nil && !filter(fpath...) {
			continue
		}
		if n++; n > 1 {
			b.WriteByte(',')
		}
		k, err := json.Marshal(f.Name)
		if err != nil {
			return err
		}
		b.Write(k)
		b.WriteByte(':')
		if err := s.encodeJSON(b, filter, fpath, f.Type, obj[f.Name]); err != nil {
			return fmt.Errorf("%s: %w", f.Name, err)
		}
	}
	b.WriteByte('}')
	return nil
}

func (s Schema) encodeJSON(b *bytes.Buffer, filter func(path ...string) bool, path []string, t TypeInfo, v any) error {
	switch {
	case t.Array != nil:
		xs, ok := v.([]any)
		if !ok || len(xs) != t.Array.Length {
			return fmt.Errorf("expected array of %d values, got %T", t.Array.Length, v)
		}
		b.WriteByte('[')
		for i, x := range xs {
			if i > 0 {
				b.WriteByte(',')
			}
			if err := s.encodeJSON(b, filter, path, t.Array.Type, x); err != nil {
				return fmt.Errorf("index %d: %w", i, err)
			}
		}
		b.WriteByte(']')
	case t.Struct != nil:
		obj, ok := v.(map[string]any)
		if !ok {
			return fmt.Errorf("expected struct, got %T", v)
		}
		fs, ok := s.Struct[t.Struct.Name]
		if !ok {
			return fmt.Errorf("%w: undefined struct %s", ErrUnsupportedType, t.Struct.Name)
		}
		return s.encodeJSONFields(b, filter, path, fs, obj)
	default:
		buf, err := json.Marshal(v)
		if err != nil {
			return err
		}
		b.Write(buf)
	}
	return nil
}

// Size returns the exact encoded size of a blob.
func Size() int {
	return PlayerDataSchema.Size()
}

func (d Pdata) intField(name string) int {
	if v, ok := d.root[name].(int32); ok {
		return int(v)
	}
	return 0
}

// Accessors for the fields surfaced by the player info endpoint.

func (d Pdata) Gen() int      { return d.intField("gen") }
func (d Pdata) XP() int       { return d.intField("xp") }
func (d Pdata) NetWorth() int { return d.intField("netWorth") }

func (d Pdata) ActiveCallingCardIndex() int  { return d.intField("activeCallingCardIndex") }
func (d Pdata) ActiveCallsignIconIndex() int { return d.intField("activeCallsignIconIndex") }

func (d Pdata) ActiveCallsignIconStyleIndex() int {
	return d.intField("activeCallsignIconStyleIndex")
}
