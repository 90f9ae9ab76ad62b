// Package codec renders identification reports.
//
// Exporters write a domain.Report as terminal text, JSON or YAML. Reports
// are a presentation of one walk; there is no importer because nothing
// reads them back.
package codec
