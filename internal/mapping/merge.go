package mapping

// MergeProvider combines one provider's extraction passes into catalog
// rows with a fixed precedence:
//
//  1. every XML-miner field, typed Calculated Field or Data Field;
//  2. direct-mapping records, each skipped when its technical id was
//     already captured by the miner for this provider;
//  3. formula-attribute records, always appended (their synthetic id
//     namespace is disjoint from the other two).
//
// The destination column is derived from the display name via
// CleanColumnName, falling back to the technical id for nameless
// direct-mapping records.
func MergeProvider(providerID, label string, fields []FieldInfo, direct []DirectMapping, formulas []FormulaEntry) []Record {
	seen := make(map[string]bool, len(fields))
	out := make([]Record, 0, len(fields)+len(direct)+len(formulas))

	for _, f := range fields {
		seen[f.ID] = true
		fieldType := TypeDataField
		if f.Calculated {
			fieldType = TypeCalculated
		}
		out = append(out, Record{
			ProviderID:       providerID,
			ProviderName:     label,
			TechnicalID:      f.ID,
			DisplayName:      f.DisplayName,
			FieldType:        fieldType,
			Formula:          f.Expression,
			Description:      f.ElementKind + ", type=" + f.DataType,
			DatabricksColumn: CleanColumnName(f.DisplayName),
			XMLID:            f.ID,
		})
	}

	for _, d := range direct {
		if seen[d.TechnicalID] {
			continue
		}
		source := d.DisplayName
		if source == "" {
			source = d.TechnicalID
		}
		out = append(out, Record{
			ProviderID:       providerID,
			ProviderName:     label,
			TechnicalID:      d.TechnicalID,
			DisplayName:      d.DisplayName,
			FieldType:        TypeDataField,
			Description:      "Direct mapping",
			SampleValue:      d.SampleValue,
			DatabricksColumn: CleanColumnName(source),
		})
	}

	for _, f := range formulas {
		out = append(out, Record{
			ProviderID:       providerID,
			ProviderName:     label,
			TechnicalID:      f.ID,
			DisplayName:      "Formula " + f.ID,
			FieldType:        TypeDPFormula,
			Formula:          f.Expression,
			Description:      "From DP_Generic",
			DatabricksColumn: CleanColumnName("formula_" + f.ID),
		})
	}

	return out
}

// DocumentRecords converts document-scoped entries into catalog rows under
// the CALC/VAR provider namespace: calculated fields first, then report
// variables, both in discovery order.
func DocumentRecords(calcs, vars []DocEntry) []Record {
	out := make([]Record, 0, len(calcs)+len(vars))
	for _, c := range calcs {
		out = append(out, Record{
			ProviderID:       DocCalcProviderID,
			ProviderName:     DocCalcLabel,
			TechnicalID:      c.ID,
			DisplayName:      c.Name,
			FieldType:        TypeCalculated,
			Formula:          c.Formula,
			Description:      c.Description,
			DatabricksColumn: CleanColumnName(c.Name),
		})
	}
	for _, v := range vars {
		out = append(out, Record{
			ProviderID:       DocVarProviderID,
			ProviderName:     DocVarLabel,
			TechnicalID:      v.ID,
			DisplayName:      v.Name,
			FieldType:        TypeReportVar,
			Formula:          v.Formula,
			Description:      v.Description,
			DatabricksColumn: CleanColumnName(v.Name),
		})
	}
	return out
}
