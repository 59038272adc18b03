// Package sheet reads pick lists from and writes session audits to XLSX
// workbooks.
//
// ImportLines lets a station run without the order-data database: the pick
// list exported by the admin UI (line_id, part_no, bin, reference_code,
// quantity) is loaded straight into a session. WriteSession produces the audit
// workbook with one Units sheet and one Scans sheet.
package sheet
