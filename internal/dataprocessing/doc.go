// Package dataprocessing turns uploaded sales-meeting documents into
// validated ClientMeeting records.
//
// # Architecture
//
// The package is organized into four small components, leaf to root:
//
// 1. ColumnResolver: maps locale-variant header spellings to canonical field keys
// 2. BooleanNormalizer: maps yes/no style tokens to a strict boolean
// 3. RowValidator: applies both to one row and emits a record or field errors
// 4. BatchParser: folds every row of a CSV or xlsx document into a CsvParseResult
//
// Field errors are data. Only a document that cannot be decoded at all makes
// the BatchParser return an error, wrapped around ErrMalformedDocument.
//
// # Usage
//
//	parser := dataprocessing.NewBatchParser(nil, logger)
//	result, err := parser.ParseBytes(ctx, upload)
//	if errors.Is(err, dataprocessing.ErrMalformedDocument) {
//	    // reject the upload
//	}
package dataprocessing
