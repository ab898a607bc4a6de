package main

import "abandon-report/cmd"

func main() {
	cmd.Execute()
}
