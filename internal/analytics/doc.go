// Package analytics derives chart series from classified leads: category
// distributions, close rates per category, sales per salesperson and a
// monthly lead trend projected with a least-squares line.
//
// Every function is pure. Inputs are never modified, so callers can rerun
// them on the same snapshot for each filter change.
package analytics
