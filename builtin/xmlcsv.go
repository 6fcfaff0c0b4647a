/*
 * mq
 *
 * Copyright 2024 mq contributors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

// csv_decode/csv_encode and xml_decode back the csv/xml standard modules.
// Stdlib-only (encoding/csv, encoding/xml): no pack example reaches for a
// third-party CSV or XML library, and these formats are simple enough that
// stdlib is the idiomatic choice even within the examples' own domains (see
// DESIGN.md's per-dep justification for this package).
package builtin

import (
	"encoding/csv"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/harehare/mq/internal/mqerr"
	"github.com/harehare/mq/value"
)

func init() {
	register(Spec{Name: "csv_decode", MinArity: 1, MaxArity: 1, Doc: "parses CSV text into an array of rows, each an array of strings", Call: builtinCSVDecode})
	register(Spec{Name: "csv_encode", MinArity: 1, MaxArity: 1, Doc: "encodes an array of rows (each an array of strings) as CSV text", Call: builtinCSVEncode})
	register(Spec{Name: "xml_decode", MinArity: 1, MaxArity: 1, Doc: "parses XML text into nested [tag, attrs, children] arrays", Call: builtinXMLDecode})
}

func builtinCSVDecode(_ Applier, args []value.Value) (value.Value, error) {
	s, err := strArg("csv_decode", args, 0)
	if err != nil {
		return value.None, err
	}
	records, err := csv.NewReader(strings.NewReader(s)).ReadAll()
	if err != nil {
		return value.None, fmt.Errorf("%w: csv_decode: %v", mqerr.ErrTypeMismatch, err)
	}
	rows := make([]value.Value, len(records))
	for i, rec := range records {
		cells := make([]value.Value, len(rec))
		for j, c := range rec {
			cells[j] = value.String(c)
		}
		rows[i] = value.Array(cells)
	}
	return value.Array(rows), nil
}

func builtinCSVEncode(_ Applier, args []value.Value) (value.Value, error) {
	rows, err := arrArg("csv_encode", args, 0)
	if err != nil {
		return value.None, err
	}
	var b strings.Builder
	w := csv.NewWriter(&b)
	for _, row := range rows {
		if row.Kind != value.KindArray {
			return value.None, typeErr("csv_encode", 0, "array of arrays", row)
		}
		rec := make([]string, len(row.Arr))
		for i, c := range row.Arr {
			rec[i] = c.String()
		}
		if err := w.Write(rec); err != nil {
			return value.None, fmt.Errorf("%w: csv_encode: %v", mqerr.ErrTypeMismatch, err)
		}
	}
	w.Flush()
	return value.String(b.String()), nil
}

// xmlNode mirrors one element for generic decoding: tag name, attributes as
// [name, value] pairs, and children (elements or trimmed character data).
type xmlNode struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Content  []byte     `xml:",innerxml"`
	Children []xmlNode  `xml:",any"`
}

func builtinXMLDecode(_ Applier, args []value.Value) (value.Value, error) {
	s, err := strArg("xml_decode", args, 0)
	if err != nil {
		return value.None, err
	}
	var root xmlNode
	if err := xml.Unmarshal([]byte(s), &root); err != nil {
		return value.None, fmt.Errorf("%w: xml_decode: %v", mqerr.ErrTypeMismatch, err)
	}
	return xmlNodeToValue(root), nil
}

func xmlNodeToValue(n xmlNode) value.Value {
	attrs := make([]value.Value, len(n.Attrs))
	for i, a := range n.Attrs {
		attrs[i] = value.Array([]value.Value{value.String(a.Name.Local), value.String(a.Value)})
	}
	children := make([]value.Value, len(n.Children))
	for i, c := range n.Children {
		children[i] = xmlNodeToValue(c)
	}
	return value.Array([]value.Value{
		value.String(n.XMLName.Local),
		value.Array(attrs),
		value.Array(children),
	})
}
