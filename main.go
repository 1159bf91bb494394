package main

import "github.com/admin-concierge/cmd"

func main() {
	cmd.Execute()
}
