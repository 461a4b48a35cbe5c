// Command dashboard-sync is the command-line client of dashboard-sync-server.
package main

import "github.com/cardfolio/dashboard-sync/cmd/dashboard-sync/cmd"

func main() {
	cmd.Execute()
}
