// Package mapping defines the field catalog row model and the rules that
// merge the extraction passes into it.
//
// Extractors produce partial candidate sets (FieldInfo, DirectMapping,
// FormulaEntry, DocEntry); the merge functions in this package own all
// combination and precedence logic, so each extractor stays a pure function
// over decoded text.
package mapping

// Field type labels used in the Field Type column.
const (
	TypeDataField  = "Data Field"
	TypeCalculated = "Calculated Field"
	TypeDPFormula  = "Data Provider Formula"
	TypeReportVar  = "Report Variable"
)

// Provider ids and display labels for document-scoped rows. They form a
// namespace disjoint from DP<n> provider ids, so document rows never
// collide with provider rows.
const (
	DocCalcProviderID = "CALC"
	DocCalcLabel      = "Document Variables"
	DocVarProviderID  = "VAR"
	DocVarLabel       = "Report Variables"
)

// Columns is the output column order shared by every sink.
var Columns = []string{
	"Data Provider ID",
	"Data Provider",
	"Technical ID",
	"Display Name",
	"Field Type",
	"Formula",
	"Description",
	"Sample Value",
	"Databricks Table",
	"Databricks Column",
	"XML ID",
}

// Record is one unified catalog row. The final report is an ordered
// sequence of these.
type Record struct {
	ProviderID       string
	ProviderName     string
	TechnicalID      string
	DisplayName      string
	FieldType        string
	Formula          string
	Description      string
	SampleValue      string
	DatabricksTable  string
	DatabricksColumn string
	XMLID            string
}

// Row returns the record's cell values in Columns order.
func (r Record) Row() []string {
	return []string{
		r.ProviderID,
		r.ProviderName,
		r.TechnicalID,
		r.DisplayName,
		r.FieldType,
		r.Formula,
		r.Description,
		r.SampleValue,
		r.DatabricksTable,
		r.DatabricksColumn,
		r.XMLID,
	}
}

// FieldInfo is one candidate field discovered by the query-spec XML miner.
// Within one provider, IDs are unique in the miner's output; on duplicate
// IDs the last write wins while the first-seen position is kept.
type FieldInfo struct {
	ID          string
	DisplayName string
	Expression  string
	ElementKind string
	DataType    string
	Calculated  bool
}

// DirectMapping is one candidate field discovered by text-pattern scanning.
// Tokens found without an assignment context carry empty DisplayName and
// SampleValue (presence-only records).
type DirectMapping struct {
	TechnicalID string
	DisplayName string
	SampleValue string
}

// FormulaEntry is a synthetic record for a bare formula/expression/
// calculation attribute match with no associated field name. IDs follow
// the <providerID>_FORM_<sequence> shape.
type FormulaEntry struct {
	ID         string
	Expression string
}

// DocEntry is a document-scoped calculated field or report variable with a
// synthesized CF_<n>/RV_<n> id and a provenance description naming the
// archive entry it came from.
type DocEntry struct {
	ID          string
	Name        string
	Formula     string
	Description string
}
