// Package scaletable reads the ordered list of scale factors that drives
// batch expansion.
//
// Two table formats are supported, selected by file extension:
//
//   - Plain text: one header line ("lK_scale_value", matched
//     case-insensitively) followed by one numeric value per line.
//   - Excel workbook (.xlsx): the first column of the first sheet, with
//     the same header in the first row. DOE tables are commonly prepared
//     in spreadsheets, so the workbook can be used directly.
//
// Blank lines/rows are skipped. Any other malformed row is a hard error
// carrying the row number and content; a garbled table never produces a
// partial list. An empty table (header only) is valid and yields an
// empty list.
package scaletable
