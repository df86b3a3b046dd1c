// Package exporter renders classified leads for consumption outside the
// service.
//
// CSVWriter produces a UTF-8 CSV with a byte order mark so spreadsheet
// applications pick the right encoding. WorkbookWriter produces an xlsx file
// with a data sheet and a close-rate summary per dimension. SheetsPublisher
// replaces the contents of a Google Sheets tab with the same table.
//
// The meeting columns are written under header spellings the upload parser
// accepts, so a CSV export can be uploaded again unchanged.
package exporter
