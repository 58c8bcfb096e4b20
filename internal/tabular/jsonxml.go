package tabular

import (
	"encoding/json"
	"encoding/xml"
	"sort"
	"strconv"
	"strings"

	"github.com/finaware/statement-analyzer/internal/extractor"
	"github.com/finaware/statement-analyzer/internal/models"
)

// parseJSON accepts an array of objects, or an object holding exactly one
// array-of-objects field. Anything else falls back to plain text.
func parseJSON(data []byte) (*models.ParsedTable, string, error) {
	var root any
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, extractor.DecodeText(data), ErrNoTable
	}

	objects := objectList(root)
	if objects == nil {
		if m, ok := root.(map[string]any); ok {
			// Auto-detect the one list of objects the wrapper contains.
			var found []map[string]any
			count := 0
			for _, v := range m {
				if list := objectList(v); list != nil {
					found = list
					count++
				}
			}
			if count == 1 {
				objects = found
			}
		}
	}
	if len(objects) == 0 {
		return nil, extractor.DecodeText(data), ErrNoTable
	}

	// Sorted key union keeps column order deterministic across runs.
	keySet := map[string]struct{}{}
	for _, obj := range objects {
		for k := range obj {
			keySet[k] = struct{}{}
		}
	}
	header := make([]string, 0, len(keySet))
	for k := range keySet {
		header = append(header, k)
	}
	sort.Strings(header)

	t := &models.ParsedTable{Header: header, HasHeader: true}
	for _, obj := range objects {
		row := make([]string, len(header))
		for i, k := range header {
			row[i] = stringifyJSON(obj[k])
		}
		t.Rows = append(t.Rows, row)
	}
	return t, "", nil
}

func objectList(v any) []map[string]any {
	list, ok := v.([]any)
	if !ok || len(list) == 0 {
		return nil
	}
	objects := make([]map[string]any, 0, len(list))
	for _, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil
		}
		objects = append(objects, obj)
	}
	return objects
}

func stringifyJSON(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		raw, err := json.Marshal(x)
		if err != nil {
			return ""
		}
		return string(raw)
	}
}

type xmlNode struct {
	name     string
	attrs    []xml.Attr
	children []*xmlNode
	text     string
}

// parseXML treats repeated sibling elements under the root as rows;
// attribute and child-element names become columns.
func parseXML(data []byte) (*models.ParsedTable, string, error) {
	root, err := decodeXML(data)
	if err != nil || root == nil || len(root.children) == 0 {
		return nil, extractor.DecodeText(data), ErrNoTable
	}

	// Pick the dominant repeated element name.
	counts := map[string]int{}
	for _, c := range root.children {
		counts[c.name]++
	}
	rowName, best := "", 0
	for _, c := range root.children {
		if n := counts[c.name]; n > best {
			rowName, best = c.name, n
		}
	}

	var rowNodes []*xmlNode
	for _, c := range root.children {
		if c.name == rowName {
			rowNodes = append(rowNodes, c)
		}
	}

	// Columns in first-appearance order: attributes, then child elements.
	var header []string
	seen := map[string]struct{}{}
	addCol := func(name string) {
		if _, ok := seen[name]; !ok {
			seen[name] = struct{}{}
			header = append(header, name)
		}
	}
	for _, node := range rowNodes {
		for _, a := range node.attrs {
			addCol(a.Name.Local)
		}
		for _, c := range node.children {
			addCol(c.name)
		}
	}
	if len(header) == 0 {
		return nil, extractor.DecodeText(data), ErrNoTable
	}

	t := &models.ParsedTable{Header: header, HasHeader: true}
	index := map[string]int{}
	for i, h := range header {
		index[h] = i
	}
	for _, node := range rowNodes {
		row := make([]string, len(header))
		for _, a := range node.attrs {
			row[index[a.Name.Local]] = strings.TrimSpace(a.Value)
		}
		for _, c := range node.children {
			row[index[c.name]] = strings.TrimSpace(c.text)
		}
		t.Rows = append(t.Rows, row)
	}
	if len(t.Rows) == 0 {
		return nil, extractor.DecodeText(data), ErrNoTable
	}
	return t, "", nil
}

func decodeXML(data []byte) (*xmlNode, error) {
	dec := xml.NewDecoder(strings.NewReader(extractor.DecodeText(data)))
	dec.Strict = false

	var stack []*xmlNode
	var root *xmlNode
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			node := &xmlNode{name: t.Name.Local, attrs: t.Attr}
			if len(stack) == 0 {
				root = node
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, node)
			}
			stack = append(stack, node)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text += string(t)
			}
		}
		if root != nil && len(stack) == 0 {
			break
		}
	}
	return root, nil
}
