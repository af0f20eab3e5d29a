// Package output writes flattened tables and datasets to files.
//
// Tables go to JSON, CSV, XLSX or SQLite; datasets go to NetCDF.
package output
