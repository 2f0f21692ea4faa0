package export

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

type jsonDocument struct {
	Title   string     `json:"title,omitempty"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// JSONExporter renders datasets as a column/row document that keeps header order.
type JSONExporter struct {
	api jsoniter.API
}

// NewJSONExporter constructs a JSON exporter.
func NewJSONExporter() *JSONExporter {
	return &JSONExporter{api: jsoniter.ConfigCompatibleWithStandardLibrary}
}

// Render encodes the dataset.
func (e *JSONExporter) Render(data Dataset) ([]byte, error) {
	if err := data.validate("json"); err != nil {
		return nil, err
	}
	doc := jsonDocument{Title: data.Title, Columns: data.Headers, Rows: make([][]string, len(data.Rows))}
	for i := range data.Rows {
		doc.Rows[i] = data.Record(i)
	}
	payload, err := e.api.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("render json: %w", err)
	}
	return payload, nil
}
