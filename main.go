package main

import "log-console/cmd"

func main() {
	cmd.Execute()
}
