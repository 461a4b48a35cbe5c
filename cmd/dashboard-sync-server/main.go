// Command dashboard-sync-server serves the timezone preference and the
// current day to dashboard clients over gRPC.
package main

import "github.com/cardfolio/dashboard-sync/cmd/dashboard-sync-server/cmd"

func main() {
	cmd.Execute()
}
