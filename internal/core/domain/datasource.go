package domain

import "encoding/json"

// DataSourceType is the Q Business connector type of a data source.
type DataSourceType string

const (
	DataSourceTypeSalesforce DataSourceType = "SALESFORCE"
	DataSourceTypeServiceNow DataSourceType = "SERVICENOW"
	DataSourceTypeSharePoint DataSourceType = "SHAREPOINT"
	DataSourceTypeZendesk    DataSourceType = "ZENDESK"
)

// Sync modes accepted by the Q Business connectors.
const (
	SyncModeFullCrawl       = "FULL_CRAWL"
	SyncModeForcedFullCrawl = "FORCED_FULL_CRAWL"
	SyncModeChangeLog       = "CHANGE_LOG"
)

// DataSourceConfig is a connector configuration document accepted by
// the Q Business CreateDataSource call.
type DataSourceConfig interface {
	DataSourceType() DataSourceType
}

// MarshalConfig renders a configuration document. Output is stable for
// identical input.
func MarshalConfig(cfg DataSourceConfig) ([]byte, error) {
	return json.Marshal(cfg)
}

// ConfigAsMap renders cfg as the generic document tree sent to the control plane.
func ConfigAsMap(cfg DataSourceConfig) (map[string]any, error) {
	raw, err := MarshalConfig(cfg)
	if err != nil {
		return nil, err
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// FieldType is the index field type of a mapping.
type FieldType string

const (
	FieldTypeString     FieldType = "STRING"
	FieldTypeStringList FieldType = "STRING_LIST"
	FieldTypeDate       FieldType = "DATE"
	FieldTypeLong       FieldType = "LONG"
)

// FieldMapping maps a partner field onto an index field.
type FieldMapping struct {
	IndexFieldName      string    `json:"indexFieldName"`
	IndexFieldType      FieldType `json:"indexFieldType"`
	DataSourceFieldName string    `json:"dataSourceFieldName"`
	DateFieldFormat     string    `json:"dateFieldFormat,omitempty"`
}

// RepositoryConfiguration holds the field mappings of one crawled entity.
type RepositoryConfiguration struct {
	FieldMappings []FieldMapping `json:"fieldMappings"`
}

func stringField(source, index string) FieldMapping {
	return FieldMapping{IndexFieldName: index, IndexFieldType: FieldTypeString, DataSourceFieldName: source}
}

func listField(source, index string) FieldMapping {
	return FieldMapping{IndexFieldName: index, IndexFieldType: FieldTypeStringList, DataSourceFieldName: source}
}

func longField(source, index string) FieldMapping {
	return FieldMapping{IndexFieldName: index, IndexFieldType: FieldTypeLong, DataSourceFieldName: source}
}

func dateField(source, index, format string) FieldMapping {
	return FieldMapping{IndexFieldName: index, IndexFieldType: FieldTypeDate, DataSourceFieldName: source, DateFieldFormat: format}
}

func repository(fields ...FieldMapping) RepositoryConfiguration {
	return RepositoryConfiguration{FieldMappings: append([]FieldMapping(nil), fields...)}
}

// StringBool is a flag the connector schema expects as "true"/"false".
type StringBool bool

func (b StringBool) MarshalJSON() ([]byte, error) {
	if b {
		return []byte(`"true"`), nil
	}
	return []byte(`"false"`), nil
}

func (b *StringBool) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case `"true"`, `true`:
		*b = true
	default:
		*b = false
	}
	return nil
}

// boolOr resolves an optional flag against its documented default.
func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

// Bool returns a pointer to v, for optional option flags.
func Bool(v bool) *bool {
	return &v
}

// anyPattern matches every file name or type.
func anyPattern() []string {
	return []string{".*"}
}

// noPatterns renders as an empty JSON array rather than null.
func noPatterns() []string {
	return []string{}
}
