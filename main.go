package main

import "github.com/mbarcellos/finance-tracker/cmd"

func main() {
	cmd.Execute()
}
