// Package io reads and writes datasets.
//
// # Formats
//
// JSON and YAML mirror [dataset.Dataset] directly:
//
//	{
//	  "themes":    [{"id": "health", "name": "Health", "order": 1}],
//	  "barriers":  [{"id": "clinics", "name": "Clinics", "theme_id": "health"}],
//	  "resources": [{"id": "r1", "title": "Free clinic map", "barriers": ["clinics"]}]
//	}
//
// CSV is the flat ingestion format maintained in spreadsheets. Each row
// links one resource to one barrier:
//
//	resource_id,title,description,url,type,theme,theme_order,barrier
//
// Themes and barriers are derived from the theme and barrier names with
// stable slug IDs (a barrier's ID is "<theme>/<barrier>"). A row without a
// resource_id only declares its theme and barrier; a row without a barrier
// only declares its theme. Rows sharing a resource_id merge into one
// resource.
//
// # Files
//
// [ImportFile] and [ExportFile] pick the format from the file extension
// (.json, .yaml, .yml, .csv). Imported datasets are validated.
//
// [dataset.Dataset]: github.com/matzehuels/ringchart/pkg/dataset.Dataset
package io
