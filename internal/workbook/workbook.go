// Package workbook loads tabular lab exports (xlsx workbooks or CSV files)
// into an in-memory Table of typed cells. It deliberately knows nothing about
// water quality: column meaning is assigned by the normalize package.
package workbook

import "bytes"

var zipMagic = []byte{'P', 'K', 0x03, 0x04}

// Read sniffs the content format and dispatches to ReadXLSX or ReadCSV.
// An xlsx file is a ZIP archive, so the magic number is decisive.
func Read(data []byte) (*Table, error) {
	if bytes.HasPrefix(data, zipMagic) {
		return ReadXLSX(data)
	}
	return ReadCSV(data)
}
