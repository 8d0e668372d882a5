package extract

import (
	"encoding/xml"
	"fmt"
	"regexp"
	"strings"

	"widmap/internal/mapping"
)

// queryCalcRe finds QueryCalculation elements carrying both an alias and a
// calculation attribute. These elements are not reliably represented in
// the structural attribute model, so they get their own raw-text pass.
var queryCalcRe = regexp.MustCompile(`(?is)<QueryCalculation[^>]+alias=["']([^"']+)["'][^>]+calculation=["']([^"']+)["']`)

// xmlElement is a schema-less view of a query-spec element tree.
type xmlElement struct {
	XMLName  xml.Name
	Attrs    []xml.Attr   `xml:",any,attr"`
	Children []xmlElement `xml:",any"`
}

// MineQuerySpec parses a query-spec fragment and returns every field it
// can identify, in document order.
//
// Two passes contribute to one ordered field set:
//   - a structural walk over every element below the root, keeping
//     elements that carry both an identifier and a display name attribute;
//   - a raw-text scan for QueryCalculation alias/calculation pairs, keyed
//     QC::<alias> and always marked calculated.
//
// Duplicate identifiers keep their first-seen position with the last
// write winning. A parse failure returns an error and no fields; callers
// treat that as a recoverable, provider-local condition.
func MineQuerySpec(fragment string) ([]mapping.FieldInfo, error) {
	var root xmlElement
	if err := xml.Unmarshal([]byte(fragment), &root); err != nil {
		return nil, fmt.Errorf("parse query spec: %w", err)
	}

	set := newFieldSet()
	walkElements(root, func(el xmlElement) {
		id := attrValue(el.Attrs, "id", "identifier", "uniqueName", "technicalName")
		display := attrValue(el.Attrs, "name", "displayName", "caption")
		if id == "" || display == "" {
			return
		}
		expr := strings.TrimSpace(attrValue(el.Attrs, "expression", "formula", "calculation"))
		set.put(mapping.FieldInfo{
			ID:          id,
			DisplayName: strings.TrimSpace(display),
			Expression:  expr,
			ElementKind: el.XMLName.Local,
			DataType:    attrValue(el.Attrs, "dataType", "type"),
			Calculated:  expr != "",
		})
	})

	for _, m := range queryCalcRe.FindAllStringSubmatch(fragment, -1) {
		alias := strings.TrimSpace(m[1])
		set.put(mapping.FieldInfo{
			ID:          "QC::" + alias,
			DisplayName: alias,
			Expression:  strings.TrimSpace(m[2]),
			ElementKind: "QueryCalculation",
			Calculated:  true,
		})
	}

	return set.list(), nil
}

// walkElements visits every descendant of root in document order. The
// root element itself is not visited; only elements inside the query-spec
// block describe fields.
func walkElements(root xmlElement, visit func(xmlElement)) {
	for _, child := range root.Children {
		visit(child)
		walkElements(child, visit)
	}
}

// attrValue returns the first non-empty attribute value among names, in
// priority order, matching on the local attribute name.
func attrValue(attrs []xml.Attr, names ...string) string {
	for _, want := range names {
		for _, a := range attrs {
			if a.Name.Local == want && a.Value != "" {
				return a.Value
			}
		}
	}
	return ""
}

// fieldSet is an insertion-ordered field map: duplicate ids overwrite the
// value but keep the original position.
type fieldSet struct {
	ids  []string
	byID map[string]mapping.FieldInfo
}

func newFieldSet() *fieldSet {
	return &fieldSet{byID: make(map[string]mapping.FieldInfo)}
}

func (s *fieldSet) put(f mapping.FieldInfo) {
	if _, ok := s.byID[f.ID]; !ok {
		s.ids = append(s.ids, f.ID)
	}
	s.byID[f.ID] = f
}

func (s *fieldSet) list() []mapping.FieldInfo {
	out := make([]mapping.FieldInfo, 0, len(s.ids))
	for _, id := range s.ids {
		out = append(out, s.byID[id])
	}
	return out
}
