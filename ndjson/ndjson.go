/*
   Copyright 2025 The DIRPX Authors.

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

// Package ndjson serializes homogeneous streams of conjunction instances
// as newline-delimited JSON.
//
// A stream begins with one header line declaring the member types:
//
//	{"__conjunction_types__":[{"type":"int","key":"int_0"},{"type":"string","key":"string_1"}]}
//
// Each subsequent line is one instance, mapping the declared slot keys to
// member values:
//
//	{"int_0":42,"string_1":"alice"}
//
// Minted member types are written under their mint name with the base
// value inlined, and are re-boxed on decode. Custom member types must be
// registered in the serializer's type table to be decodable.
package ndjson

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"
	"strconv"

	"dirpx.dev/rxmerr"

	"dirpx.dev/conjx/apis"
	"dirpx.dev/conjx/cxapi/common"
	cerrors "dirpx.dev/conjx/errors"
	"dirpx.dev/conjx/instance"
	"dirpx.dev/conjx/mint"
	"dirpx.dev/conjx/typekey"
)

// headerField is the reserved key of the stream's type header line.
const headerField = "__conjunction_types__"

// headerEntry declares one member slot in the stream header.
type headerEntry struct {
	// Type is the stable serialization name of the member type.
	Type string `json:"type"`
	// Key is the slot key record lines store the member value under.
	Key string `json:"key"`
	// Doc is an optional human-readable slot description.
	Doc string `json:"doc,omitempty"`
}

// slot is one resolved member slot of a stream.
type slot struct {
	entry  headerEntry
	typ    reflect.Type
	minted *mint.Minted
}

// base returns the type record values are unmarshaled into.
func (s slot) base() reflect.Type {
	if s.minted != nil {
		return s.minted.Base()
	}
	return s.typ
}

// Serializer encodes and decodes instance streams. Safe for concurrent
// use; decoding constructs instances through the configured registry and
// resolver.
type Serializer struct {
	types *Types
	reg   apis.Registry
	res   apis.Resolver
	cfg   apis.Config
}

// NewSerializer creates a serializer. A nil types table selects the
// process-wide default table.
func NewSerializer(types *Types, reg apis.Registry, res apis.Resolver, cfg apis.Config) *Serializer {
	if types == nil {
		types = Default()
	}
	return &Serializer{types: types, reg: reg, res: res, cfg: cfg}
}

// Encode writes instances as one stream: a header line followed by one
// record line per instance. All instances must share one key; a
// heterogeneous batch yields a *errors.KeyMismatchError. Encoding an
// empty batch writes nothing.
func (s *Serializer) Encode(w io.Writer, instances ...*instance.Instance) error {
	if len(instances) == 0 {
		return nil
	}
	slots, err := s.slotsFor(instances[0])
	if err != nil {
		return err
	}
	if err := writeHeader(w, slots); err != nil {
		return err
	}
	return s.writeRecords(w, slots, instances)
}

// Decode reads one stream and reconstructs its instances. Record lines
// that fail to decode are skipped and reported together in one aggregated
// error alongside the successfully decoded instances.
func (s *Serializer) Decode(r io.Reader) ([]*instance.Instance, error) {
	sc := newScanner(r)

	var slots []slot
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var err error
		slots, err = s.parseHeader(line)
		if err != nil {
			return nil, err
		}
		break
	}
	if slots == nil {
		if err := sc.Err(); err != nil {
			return nil, err
		}
		return nil, nil
	}

	var out []*instance.Instance
	c := rxmerr.NewCollector()
	lineNo := 1
	for sc.Scan() {
		lineNo++
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		inst, err := s.decodeRecord(slots, line)
		if err != nil {
			c.Append(fmt.Errorf("line %d: %w", lineNo, err))
			continue
		}
		out = append(out, inst)
	}
	if err := sc.Err(); err != nil {
		c.Append(err)
	}
	return out, c.Err()
}

// slotsFor builds the header slots for one instance, in the key's
// canonical member order.
//
// The serialization name of a slot is taken from, in order of precedence:
// the value's own common.Named implementation, the type table, the mint
// registry, and finally the type's Go rendering. A value implementing
// common.Described contributes the slot's doc string.
func (s *Serializer) slotsFor(inst *instance.Instance) ([]slot, error) {
	items := inst.Items()
	slots := make([]slot, len(items))
	for i, it := range items {
		name := s.nameFor(it.Type, it.Value)
		sl := slot{
			entry: headerEntry{
				Type: name,
				Key:  name + "_" + strconv.Itoa(i),
			},
			typ: it.Type,
		}
		if m, ok := mint.Of(it.Type); ok {
			sl.minted = m
		}
		if d, ok := it.Value.(common.Described); ok {
			sl.entry.Doc = d.TypeDescription()
		}
		slots[i] = sl
	}
	return slots, nil
}

func (s *Serializer) nameFor(t reflect.Type, v any) string {
	if n, ok := v.(common.Named); ok {
		return n.TypeName()
	}
	if name, ok := s.types.NameFor(t); ok {
		return name
	}
	if name, ok := mint.NameOf(t); ok {
		return name
	}
	return t.String()
}

// parseHeader resolves a header line back into slots. Names resolve
// through the type table first and the mint registry second.
func (s *Serializer) parseHeader(line []byte) ([]slot, error) {
	var hdr map[string][]headerEntry
	if err := json.Unmarshal(line, &hdr); err != nil {
		return nil, fmt.Errorf("conjx/ndjson: malformed header: %w", err)
	}
	entries, ok := hdr[headerField]
	if !ok {
		return nil, &cerrors.TypeExprError{Reason: "stream does not begin with a type header"}
	}

	slots := make([]slot, len(entries))
	for i, e := range entries {
		sl := slot{entry: e}
		if typ, ok := s.types.TypeOf(e.Type); ok {
			sl.typ = typ
		} else if m, ok := mint.ByName(e.Type); ok {
			sl.typ = m.Type()
			sl.minted = m
		} else {
			return nil, &cerrors.TypeExprError{
				Reason: "unknown serialization type name: " + e.Type,
			}
		}
		if sl.minted == nil {
			if m, ok := mint.Of(sl.typ); ok {
				sl.minted = m
			}
		}
		slots[i] = sl
	}
	return slots, nil
}

// writeRecords writes one record line per instance, verifying each
// instance against the header key.
func (s *Serializer) writeRecords(w io.Writer, slots []slot, instances []*instance.Instance) error {
	key, err := keyOf(slots)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	for _, inst := range instances {
		if inst == nil {
			return &cerrors.TypeExprError{Reason: "nil instance in batch"}
		}
		if !key.Equal(inst.Key()) {
			return &cerrors.KeyMismatchError{
				Want: key.String(),
				Got:  inst.Key().String(),
			}
		}
		record := make(map[string]any, len(slots))
		for _, sl := range slots {
			v, _ := inst.ValueOf(sl.typ)
			if sl.minted != nil {
				v, _ = sl.minted.Unwrap(v)
			}
			if c, ok := s.types.CodecFor(sl.base()); ok {
				data, err := c.Encode(v)
				if err != nil {
					return fmt.Errorf("slot %s: %w", sl.entry.Key, err)
				}
				record[sl.entry.Key] = json.RawMessage(data)
				continue
			}
			record[sl.entry.Key] = v
		}
		if err := enc.Encode(record); err != nil {
			return err
		}
	}
	return nil
}

// decodeRecord reconstructs one instance from a record line.
func (s *Serializer) decodeRecord(slots []slot, line []byte) (*instance.Instance, error) {
	var record map[string]json.RawMessage
	if err := json.Unmarshal(line, &record); err != nil {
		return nil, err
	}
	items := make([]instance.Item, len(slots))
	for i, sl := range slots {
		raw, ok := record[sl.entry.Key]
		if !ok {
			return nil, &cerrors.MissingTypeError{Type: sl.typ}
		}
		var v any
		if c, ok := s.types.CodecFor(sl.base()); ok {
			var err error
			if v, err = c.Decode(raw); err != nil {
				return nil, fmt.Errorf("slot %s: %w", sl.entry.Key, err)
			}
		} else {
			target := reflect.New(sl.base())
			if err := json.Unmarshal(raw, target.Interface()); err != nil {
				return nil, fmt.Errorf("slot %s: %w", sl.entry.Key, err)
			}
			v = target.Elem().Interface()
		}
		if sl.minted != nil {
			var err error
			v, err = sl.minted.Wrap(v)
			if err != nil {
				return nil, err
			}
		}
		items[i] = instance.Item{Type: sl.typ, Value: v}
	}
	return instance.FromItems(s.reg, s.res, s.cfg, items...)
}

// writeHeader writes the type header line.
func writeHeader(w io.Writer, slots []slot) error {
	entries := make([]headerEntry, len(slots))
	for i, sl := range slots {
		entries[i] = sl.entry
	}
	return json.NewEncoder(w).Encode(map[string][]headerEntry{headerField: entries})
}

// keyOf builds the stream key from resolved slots.
func keyOf(slots []slot) (typekey.Key, error) {
	ts := make([]reflect.Type, len(slots))
	for i, sl := range slots {
		ts[i] = sl.typ
	}
	return typekey.FromTypes(ts...)
}

// newScanner builds a line scanner tolerating long record lines.
func newScanner(r io.Reader) *bufio.Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	return sc
}

// File provides stream persistence on one NDJSON file.
type File struct {
	path string
	ser  *Serializer
}

// NewFile binds a serializer to path. The file need not exist yet.
func NewFile(path string, ser *Serializer) *File {
	return &File{path: path, ser: ser}
}

// WriteAll replaces the file's contents with one stream holding
// instances. The stream is encoded in memory first, so an encode failure
// leaves any existing file untouched.
func (f *File) WriteAll(instances ...*instance.Instance) error {
	var buf bytes.Buffer
	if err := f.ser.Encode(&buf, instances...); err != nil {
		return err
	}
	return os.WriteFile(f.path, buf.Bytes(), 0o644)
}

// Append adds record lines to an existing stream, writing the header
// first when the file is empty or absent. Appending instances whose key
// differs from the established stream key is a *errors.KeyMismatchError.
func (f *File) Append(instances ...*instance.Instance) error {
	if len(instances) == 0 {
		return nil
	}
	slots, err := f.establishedSlots(instances[0])
	if err != nil {
		return err
	}

	file, err := os.OpenFile(f.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	if slots == nil {
		if slots, err = f.ser.slotsFor(instances[0]); err != nil {
			return err
		}
		if err := writeHeader(w, slots); err != nil {
			return err
		}
	}
	if err := f.ser.writeRecords(w, slots, instances); err != nil {
		return err
	}
	return w.Flush()
}

// ReadAll decodes the whole stream. Undecodable record lines are skipped
// and reported in one aggregated error alongside the decoded instances.
func (f *File) ReadAll() ([]*instance.Instance, error) {
	file, err := os.Open(f.path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return f.ser.Decode(file)
}

// Count returns the number of record lines in the stream, without
// decoding them.
func (f *File) Count() (int, error) {
	file, err := os.Open(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	defer file.Close()

	sc := newScanner(file)
	n := 0
	sawHeader := false
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		if !sawHeader {
			sawHeader = true
			continue
		}
		n++
	}
	return n, sc.Err()
}

// establishedSlots reads the file's header, if the file already has
// content, and verifies inst against the established stream key. A nil
// result means the file is empty or absent.
func (f *File) establishedSlots(inst *instance.Instance) ([]slot, error) {
	file, err := os.Open(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	sc := newScanner(file)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		slots, err := f.ser.parseHeader(line)
		if err != nil {
			return nil, err
		}
		key, err := keyOf(slots)
		if err != nil {
			return nil, err
		}
		if !key.Equal(inst.Key()) {
			return nil, &cerrors.KeyMismatchError{
				Want: key.String(),
				Got:  inst.Key().String(),
			}
		}
		return slots, nil
	}
	return nil, sc.Err()
}
