// Package bytefmt renders byte counts as fixed-width, human-readable strings.
//
// Three unit systems are supported: decimal (kB, MB, ...), binary (KiB, MiB, ...)
// and raw byte counts. Decimal and binary output is column-aligned so reports
// line up when printed one value per row.
package bytefmt
