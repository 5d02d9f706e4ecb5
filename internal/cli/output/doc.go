// Package output renders ltrgate-cli results as a table, JSON or YAML.
//
// Tables are built from structs and slices of structs by reflection:
// column names come from the json tag, and a `table:"wide"` tag hides a
// column unless wide output was requested.
package output
