// Package utils provides small conversion helpers shared by packages that read
// loosely typed input such as spreadsheet cells.
package utils
