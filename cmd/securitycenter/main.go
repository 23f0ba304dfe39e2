package main

import "github.com/alibeddi/securitycenter/cmd/securitycenter/cmd"

func main() {
	cmd.Execute()
}
