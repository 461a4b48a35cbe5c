// Package client implements the dashboard-sync CLI operations.
//
// A Session loads settings, connects to the server and prints the result of
// each operation to its output: reading or changing the timezone preference,
// printing or following the current day, resolving card images and computing
// benefit periods and the 5/24 status.
package client
